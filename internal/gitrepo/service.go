// Package gitrepo keeps every document version as a commit in a per-document
// git repository, one document.json per commit.
package gitrepo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"chronicle/redline/internal/semdiff"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const documentFile = "document.json"

// ErrRepoNotFound is returned when no repository exists for a document.
var ErrRepoNotFound = errors.New("document repository not found")

type CommitInfo struct {
	Hash      string    `json:"hash"`
	FullHash  string    `json:"fullHash"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

type Service struct {
	baseDir string
	lockMu  sync.Mutex
	locks   map[string]*sync.Mutex
}

func New(baseDir string) *Service {
	return &Service{
		baseDir: baseDir,
		locks:   make(map[string]*sync.Mutex),
	}
}

// EnsureDocumentRepo creates the repository for documentID with initial as
// the baseline commit on branchName. An existing repository is left as is.
func (s *Service) EnsureDocumentRepo(documentID, branchName string, initial semdiff.Document, author string) error {
	lock := s.documentLock(documentID)
	lock.Lock()
	defer lock.Unlock()

	path := s.repoPath(documentID)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat repo path: %w", err)
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create repo dir: %w", err)
	}
	repo, err := git.PlainInit(path, false)
	if err != nil {
		return fmt.Errorf("init repo: %w", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	if err := writeDocument(path, initial); err != nil {
		return err
	}
	if _, err := worktree.Add(documentFile); err != nil {
		return fmt.Errorf("git add initial document: %w", err)
	}
	hash, err := worktree.Commit("Import document baseline", &git.CommitOptions{
		Author: signature(author),
	})
	if err != nil {
		return fmt.Errorf("commit initial document: %w", err)
	}
	baseRef := plumbing.NewBranchReferenceName(branchName)
	if err := repo.Storer.SetReference(plumbing.NewHashReference(baseRef, hash)); err != nil {
		return fmt.Errorf("set %s branch ref: %w", branchName, err)
	}
	if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, baseRef)); err != nil {
		return fmt.Errorf("set HEAD to %s: %w", branchName, err)
	}
	return nil
}

func (s *Service) EnsureBranch(documentID, branchName, fromBranch string) error {
	lock := s.documentLock(documentID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := s.open(documentID)
	if err != nil {
		return err
	}
	branchRefName := plumbing.NewBranchReferenceName(branchName)
	if _, err := repo.Reference(branchRefName, true); err == nil {
		return nil
	}
	fromRef, err := repo.Reference(plumbing.NewBranchReferenceName(fromBranch), true)
	if err != nil {
		return fmt.Errorf("read source branch ref: %w", err)
	}
	if err := repo.Storer.SetReference(plumbing.NewHashReference(branchRefName, fromRef.Hash())); err != nil {
		return fmt.Errorf("create branch ref: %w", err)
	}
	return nil
}

// CommitDocument writes doc as the new head of branchName. The branch is
// created from HEAD when it does not exist yet.
func (s *Service) CommitDocument(documentID, branchName string, doc semdiff.Document, author, message string) (CommitInfo, error) {
	lock := s.documentLock(documentID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := s.open(documentID)
	if err != nil {
		return CommitInfo{}, err
	}
	if err := checkoutBranch(repo, branchName); err != nil {
		return CommitInfo{}, err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return CommitInfo{}, fmt.Errorf("open worktree: %w", err)
	}
	if err := writeDocument(worktree.Filesystem.Root(), doc); err != nil {
		return CommitInfo{}, err
	}
	if _, err := worktree.Add(documentFile); err != nil {
		return CommitInfo{}, fmt.Errorf("git add document: %w", err)
	}
	hash, err := worktree.Commit(message, &git.CommitOptions{Author: signature(author)})
	if err != nil {
		return CommitInfo{}, fmt.Errorf("commit document: %w", err)
	}
	commitObj, err := repo.CommitObject(hash)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("read commit object: %w", err)
	}
	return toCommitInfo(commitObj), nil
}

func (s *Service) GetHeadDocument(documentID, branchName string) (semdiff.Document, CommitInfo, error) {
	lock := s.documentLock(documentID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := s.open(documentID)
	if err != nil {
		return semdiff.Document{}, CommitInfo{}, err
	}
	ref, err := repo.Reference(plumbing.NewBranchReferenceName(branchName), true)
	if err != nil {
		return semdiff.Document{}, CommitInfo{}, fmt.Errorf("resolve branch %s: %w", branchName, err)
	}
	commitObj, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return semdiff.Document{}, CommitInfo{}, fmt.Errorf("load commit object: %w", err)
	}
	doc, err := readDocumentFromCommit(commitObj)
	if err != nil {
		return semdiff.Document{}, CommitInfo{}, err
	}
	return doc, toCommitInfo(commitObj), nil
}

// GetDocumentAt loads the document at rev, which may be a full or short
// hash, a branch or a tag.
func (s *Service) GetDocumentAt(documentID, rev string) (semdiff.Document, CommitInfo, error) {
	lock := s.documentLock(documentID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := s.open(documentID)
	if err != nil {
		return semdiff.Document{}, CommitInfo{}, err
	}
	resolved, err := resolveHash(repo, rev)
	if err != nil {
		return semdiff.Document{}, CommitInfo{}, err
	}
	commitObj, err := repo.CommitObject(resolved)
	if err != nil {
		return semdiff.Document{}, CommitInfo{}, fmt.Errorf("read commit %s: %w", rev, err)
	}
	doc, err := readDocumentFromCommit(commitObj)
	if err != nil {
		return semdiff.Document{}, CommitInfo{}, err
	}
	return doc, toCommitInfo(commitObj), nil
}

func (s *Service) History(documentID, branchName string, limit int) ([]CommitInfo, error) {
	lock := s.documentLock(documentID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := s.open(documentID)
	if err != nil {
		return nil, err
	}
	ref, err := repo.Reference(plumbing.NewBranchReferenceName(branchName), true)
	if err != nil {
		return nil, fmt.Errorf("resolve branch %s: %w", branchName, err)
	}
	iter, err := repo.Log(&git.LogOptions{From: ref.Hash()})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	items := make([]CommitInfo, 0, max(limit, 0))
	err = iter.ForEach(func(commitObj *object.Commit) error {
		items = append(items, toCommitInfo(commitObj))
		if limit > 0 && len(items) >= limit {
			return io.EOF
		}
		return nil
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("iterate log: %w", err)
	}
	return items, nil
}

// HasChanges compares two documents by their normalized JSON encoding.
func HasChanges(from, to semdiff.Document) bool {
	return !bytes.Equal(normalize(from), normalize(to))
}

func (s *Service) open(documentID string) (*git.Repository, error) {
	repo, err := git.PlainOpen(s.repoPath(documentID))
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("open repo %s: %w", documentID, ErrRepoNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}
	return repo, nil
}

func (s *Service) repoPath(documentID string) string {
	return filepath.Join(s.baseDir, documentID)
}

func (s *Service) documentLock(documentID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	lock, ok := s.locks[documentID]
	if ok {
		return lock
	}
	lock = &sync.Mutex{}
	s.locks[documentID] = lock
	return lock
}

func checkoutBranch(repo *git.Repository, branchName string) error {
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}

	branchRef := plumbing.NewBranchReferenceName(branchName)
	if _, err := repo.Reference(branchRef, true); err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			if err := worktree.Checkout(&git.CheckoutOptions{Branch: branchRef, Create: true}); err != nil {
				return fmt.Errorf("create branch checkout %s: %w", branchName, err)
			}
			return nil
		}
		return fmt.Errorf("resolve branch %s: %w", branchName, err)
	}

	if err := worktree.Checkout(&git.CheckoutOptions{Branch: branchRef, Force: true}); err != nil {
		return fmt.Errorf("checkout branch %s: %w", branchName, err)
	}
	return nil
}

func writeDocument(repoRoot string, doc semdiff.Document) error {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := os.WriteFile(filepath.Join(repoRoot, documentFile), append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", documentFile, err)
	}
	return nil
}

func readDocumentFromCommit(commitObj *object.Commit) (semdiff.Document, error) {
	file, err := commitObj.File(documentFile)
	if err != nil {
		return semdiff.Document{}, fmt.Errorf("load %s from commit: %w", documentFile, err)
	}
	reader, err := file.Reader()
	if err != nil {
		return semdiff.Document{}, fmt.Errorf("open document reader: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return semdiff.Document{}, fmt.Errorf("read document bytes: %w", err)
	}
	return semdiff.ParseDocument(raw)
}

func toCommitInfo(commitObj *object.Commit) CommitInfo {
	full := commitObj.Hash.String()
	return CommitInfo{
		Hash:      full[:7],
		FullHash:  full,
		Message:   commitObj.Message,
		Author:    commitObj.Author.Name,
		CreatedAt: commitObj.Author.When,
	}
}

func signature(author string) *object.Signature {
	return &object.Signature{
		Name:  author,
		Email: fmt.Sprintf("%s@local.chronicle.dev", sanitizeEmail(author)),
		When:  time.Now(),
	}
}

func sanitizeEmail(input string) string {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			out = append(out, r)
			continue
		}
		if r == ' ' || r == '-' || r == '_' {
			out = append(out, '.')
		}
	}
	if len(out) == 0 {
		return "user"
	}
	return string(out)
}

func normalize(doc semdiff.Document) []byte {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil
	}
	normalized, err := json.Marshal(parsed)
	if err != nil {
		return nil
	}
	return normalized
}

func resolveHash(repo *git.Repository, rev string) (plumbing.Hash, error) {
	if len(rev) == 40 {
		return plumbing.NewHash(rev), nil
	}
	resolved, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve revision %s: %w", rev, err)
	}
	return *resolved, nil
}
