package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"chronicle/redline/internal/gitrepo"
	"chronicle/redline/internal/segstore"
	"chronicle/redline/internal/semdiff"
)

func paragraph(text string) semdiff.Node {
	return semdiff.Node{Type: "paragraph", Content: []semdiff.Node{{Type: "text", Text: text}}}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	service  *Service
	repos    *gitrepo.Service
	segments *segstore.MemoryStore
	proposal gitrepo.CommitInfo
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repos := gitrepo.New(t.TempDir())
	original := semdiff.Document{Type: "doc", Content: []semdiff.Node{paragraph("A"), paragraph("B")}}
	if err := repos.EnsureDocumentRepo("doc-1", "main", original, "Avery"); err != nil {
		t.Fatalf("EnsureDocumentRepo() error = %v", err)
	}
	if err := repos.EnsureBranch("doc-1", "proposal", "main"); err != nil {
		t.Fatalf("EnsureBranch() error = %v", err)
	}
	revised := semdiff.Document{Type: "doc", Content: []semdiff.Node{paragraph("B"), paragraph("C")}}
	commit, err := repos.CommitDocument("doc-1", "proposal", revised, "Avery", "Rework")
	if err != nil {
		t.Fatalf("CommitDocument() error = %v", err)
	}

	engine := semdiff.New(semdiff.NewDMPBackend(), testLogger())
	segments := segstore.NewMemoryStore()
	return fixture{
		service:  New(engine, repos, segments, time.Hour, testLogger()),
		repos:    repos,
		segments: segments,
		proposal: commit,
	}
}

func TestCompare(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.service.Compare(ctx, "doc-1", "main", "proposal")
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if result.DiffID == "" || result.Backend != semdiff.BackendDMP || result.Degraded {
		t.Fatalf("unexpected compare metadata: %+v", result)
	}
	if result.To != f.proposal.Hash {
		t.Fatalf("to = %q, want %q", result.To, f.proposal.Hash)
	}
	if len(result.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(result.Segments))
	}
	if result.Summary.Added != 1 || result.Summary.Deleted != 1 || result.Summary.Unchanged != 1 {
		t.Fatalf("unexpected summary: %+v", result.Summary)
	}

	again, err := f.service.Compare(ctx, "doc-1", "main", "proposal")
	if err != nil {
		t.Fatalf("Compare() second call error = %v", err)
	}
	if again.DiffID != result.DiffID {
		t.Fatalf("diff id changed between identical compares: %s vs %s", result.DiffID, again.DiffID)
	}
}

func TestApplySelectionCommitsMergedDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	compared, err := f.service.Compare(ctx, "doc-1", "main", "proposal")
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	var addedID string
	for _, segment := range compared.Segments {
		if segment.DiffType == semdiff.DiffAdded {
			addedID = segment.ID
		}
	}

	result, err := f.service.ApplySelection(ctx, ApplyRequest{
		DocumentID:  "doc-1",
		DiffID:      compared.DiffID,
		SelectedIDs: []string{addedID},
		Branch:      "main",
		Author:      "Reviewer",
	})
	if err != nil {
		t.Fatalf("ApplySelection() error = %v", err)
	}
	if !result.Committed || result.Commit == nil {
		t.Fatalf("expected a commit, got %+v", result)
	}

	head, info, err := f.repos.GetHeadDocument("doc-1", "main")
	if err != nil {
		t.Fatalf("GetHeadDocument() error = %v", err)
	}
	if info.Author != "Reviewer" {
		t.Fatalf("author = %q", info.Author)
	}
	got := []string{}
	for _, block := range head.Content {
		got = append(got, semdiff.Flatten(block))
	}
	if len(got) != 3 || got[0] != "A" || got[1] != "B" || got[2] != "C" {
		t.Fatalf("main after apply = %v, want [A B C]", got)
	}

	if _, err := f.segments.Load(ctx, compared.DiffID); !errors.Is(err, segstore.ErrNotFound) {
		t.Fatalf("expected applied diff to be consumed, Load error = %v", err)
	}
}

func TestApplySelectionWithoutEffectDoesNotCommit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	compared, err := f.service.Compare(ctx, "doc-1", "main", "proposal")
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	result, err := f.service.ApplySelection(ctx, ApplyRequest{
		DocumentID:  "doc-1",
		DiffID:      compared.DiffID,
		SelectedIDs: []string{compared.Segments[0].ID},
		Branch:      "main",
		Author:      "Reviewer",
	})
	if err != nil {
		t.Fatalf("ApplySelection() error = %v", err)
	}
	if result.Committed {
		t.Fatalf("expected no commit for an unchanged selection: %+v", result)
	}
	history, err := f.repos.History("doc-1", "main", 10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected main history untouched, got %d commits", len(history))
	}
	if _, err := f.segments.Load(ctx, compared.DiffID); err != nil {
		t.Fatalf("expected diff kept after a no-op apply, Load error = %v", err)
	}
}

func TestApplySelectionErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	compared, err := f.service.Compare(ctx, "doc-1", "main", "proposal")
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	tests := []struct {
		name string
		req  ApplyRequest
		code string
	}{
		{
			name: "empty selection",
			req:  ApplyRequest{DocumentID: "doc-1", DiffID: compared.DiffID, Branch: "main"},
			code: CodeEmptySelection,
		},
		{
			name: "unknown diff",
			req:  ApplyRequest{DocumentID: "doc-1", DiffID: "dif_missing", SelectedIDs: []string{"added-1"}, Branch: "main"},
			code: CodeDiffNotFound,
		},
		{
			name: "other document",
			req:  ApplyRequest{DocumentID: "doc-2", DiffID: compared.DiffID, SelectedIDs: []string{"added-1"}, Branch: "main"},
			code: CodeDocumentMismatch,
		},
		{
			name: "missing branch",
			req:  ApplyRequest{DocumentID: "doc-1", DiffID: compared.DiffID, SelectedIDs: []string{"added-1"}, Branch: "nope"},
			code: CodeVersionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.ApplySelection(ctx, tt.req)
			var domainErr *DomainError
			if !errors.As(err, &domainErr) {
				t.Fatalf("ApplySelection() error = %v, want DomainError", err)
			}
			if domainErr.Code != tt.code {
				t.Fatalf("code = %s, want %s", domainErr.Code, tt.code)
			}
		})
	}
}

func TestCompareUnknownRevision(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Compare(context.Background(), "doc-1", "main", "deadbee")
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != CodeVersionNotFound {
		t.Fatalf("Compare() error = %v, want VERSION_NOT_FOUND", err)
	}

	_, err = f.service.Compare(context.Background(), "doc-9", "main", "main")
	if !errors.Is(err, gitrepo.ErrRepoNotFound) {
		t.Fatalf("Compare() error = %v, want wrapped ErrRepoNotFound", err)
	}
}

type failingStore struct{}

func (failingStore) Save(context.Context, segstore.SegmentSet, time.Duration) error {
	return errors.New("redis down")
}
func (failingStore) Load(context.Context, string) (segstore.SegmentSet, error) {
	return segstore.SegmentSet{}, errors.New("redis down")
}
func (failingStore) Delete(context.Context, string) error { return nil }

func TestCompareStoreFailure(t *testing.T) {
	f := newFixture(t)
	svc := New(semdiff.New(semdiff.NaiveBackend{}, testLogger()), f.repos, failingStore{}, time.Hour, testLogger())
	if _, err := svc.Compare(context.Background(), "doc-1", "main", "proposal"); err == nil {
		t.Fatal("expected store error")
	}
	_, err := svc.ApplySelection(context.Background(), ApplyRequest{DocumentID: "doc-1", DiffID: "x", SelectedIDs: []string{"a"}, Branch: "main"})
	var domainErr *DomainError
	if err == nil || errors.As(err, &domainErr) {
		t.Fatalf("ApplySelection() error = %v, want plain store error", err)
	}
}
