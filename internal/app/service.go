package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"chronicle/redline/internal/gitrepo"
	"chronicle/redline/internal/segstore"
	"chronicle/redline/internal/semdiff"
)

type VersionStore interface {
	GetDocumentAt(documentID, rev string) (semdiff.Document, gitrepo.CommitInfo, error)
	GetHeadDocument(documentID, branchName string) (semdiff.Document, gitrepo.CommitInfo, error)
	CommitDocument(documentID, branchName string, doc semdiff.Document, author, message string) (gitrepo.CommitInfo, error)
}

type Service struct {
	engine   *semdiff.Engine
	versions VersionStore
	segments segstore.Store
	ttl      time.Duration
	logger   *slog.Logger
}

func New(engine *semdiff.Engine, versions VersionStore, segments segstore.Store, ttl time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if segments == nil {
		segments = segstore.NewMemoryStore()
	}
	return &Service{
		engine:   engine,
		versions: versions,
		segments: segments,
		ttl:      ttl,
		logger:   logger,
	}
}

type CompareResult struct {
	DiffID     string            `json:"diffId"`
	DocumentID string            `json:"documentId"`
	From       string            `json:"from"`
	To         string            `json:"to"`
	Backend    string            `json:"backend"`
	Degraded   bool              `json:"degraded"`
	Segments   []semdiff.Segment `json:"segments"`
	Summary    semdiff.Summary   `json:"summary"`
}

// Compare diffs two revisions of a document and stores the segment set so a
// later ApplySelection can refer to its segment ids.
func (s *Service) Compare(ctx context.Context, documentID, fromRev, toRev string) (CompareResult, error) {
	from, fromCommit, err := s.versions.GetDocumentAt(documentID, fromRev)
	if err != nil {
		return CompareResult{}, versionError(documentID, fromRev, err)
	}
	to, toCommit, err := s.versions.GetDocumentAt(documentID, toRev)
	if err != nil {
		return CompareResult{}, versionError(documentID, toRev, err)
	}

	fromRaw, err := json.Marshal(from)
	if err != nil {
		return CompareResult{}, fmt.Errorf("marshal from document: %w", err)
	}
	toRaw, err := json.Marshal(to)
	if err != nil {
		return CompareResult{}, fmt.Errorf("marshal to document: %w", err)
	}

	segments := s.engine.GenerateSemanticDiff(from, to)
	set := segstore.SegmentSet{
		ID:         segstore.DiffID([]byte(documentID), fromRaw, toRaw, []byte(s.engine.Backend().Name())),
		DocumentID: documentID,
		From:       fromCommit.Hash,
		To:         toCommit.Hash,
		Backend:    s.engine.Backend().Name(),
		Segments:   segments,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.segments.Save(ctx, set, s.ttl); err != nil {
		return CompareResult{}, err
	}

	summary := s.engine.GetDiffSummary(segments)
	s.logger.Info("document versions compared",
		"document_id", documentID,
		"from", set.From,
		"to", set.To,
		"diff_id", set.ID,
		"changes", summary.TotalChanges,
	)
	return CompareResult{
		DiffID:     set.ID,
		DocumentID: documentID,
		From:       set.From,
		To:         set.To,
		Backend:    set.Backend,
		Degraded:   s.engine.Degraded(),
		Segments:   segments,
		Summary:    summary,
	}, nil
}

type ApplyRequest struct {
	DocumentID  string
	DiffID      string
	SelectedIDs []string
	Branch      string
	Author      string
}

type ApplyResult struct {
	DiffID    string              `json:"diffId"`
	Branch    string              `json:"branch"`
	Committed bool                `json:"committed"`
	Commit    *gitrepo.CommitInfo `json:"commit,omitempty"`
	Document  semdiff.Document    `json:"document"`
}

// ApplySelection merges the selected segments of a stored diff onto the head
// of the target branch and commits the result when it differs from the head.
// A committed apply consumes the stored diff.
func (s *Service) ApplySelection(ctx context.Context, req ApplyRequest) (ApplyResult, error) {
	if len(req.SelectedIDs) == 0 {
		return ApplyResult{}, domainError(CodeEmptySelection, "no segments selected", nil, nil)
	}
	set, err := s.segments.Load(ctx, req.DiffID)
	if errors.Is(err, segstore.ErrNotFound) {
		return ApplyResult{}, domainError(CodeDiffNotFound, "diff not found or expired", map[string]any{"diffId": req.DiffID}, err)
	}
	if err != nil {
		return ApplyResult{}, err
	}
	if set.DocumentID != req.DocumentID {
		return ApplyResult{}, domainError(CodeDocumentMismatch, "diff belongs to a different document", map[string]any{
			"diffId":     req.DiffID,
			"documentId": set.DocumentID,
		}, nil)
	}

	base, _, err := s.versions.GetHeadDocument(req.DocumentID, req.Branch)
	if err != nil {
		return ApplyResult{}, versionError(req.DocumentID, req.Branch, err)
	}
	merged := s.engine.MergeSegments(base, set.Segments, req.SelectedIDs)
	result := ApplyResult{DiffID: set.ID, Branch: req.Branch, Document: merged}
	if !gitrepo.HasChanges(base, merged) {
		s.logger.Info("selection applied without changes", "document_id", req.DocumentID, "diff_id", set.ID)
		return result, nil
	}

	message := fmt.Sprintf(
		"Apply %d selected change(s)\n\nmerge: diff=%s from=%s to=%s actor=%s mode=segment-select",
		len(req.SelectedIDs),
		set.ID,
		set.From,
		set.To,
		req.Author,
	)
	commit, err := s.versions.CommitDocument(req.DocumentID, req.Branch, merged, req.Author, message)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("commit merged document: %w", err)
	}
	result.Committed = true
	result.Commit = &commit
	// The branch head moved, so the stored segments no longer describe it.
	if err := s.segments.Delete(ctx, set.ID); err != nil {
		s.logger.Warn("failed to delete applied segment set", "diff_id", set.ID, "error", err)
	}
	s.logger.Info("selection applied",
		"document_id", req.DocumentID,
		"diff_id", set.ID,
		"branch", req.Branch,
		"commit", commit.Hash,
	)
	return result, nil
}

func versionError(documentID, rev string, err error) error {
	return domainError(CodeVersionNotFound, fmt.Sprintf("cannot load %s at %s", documentID, rev), map[string]any{
		"documentId": documentID,
		"rev":        rev,
	}, err)
}
