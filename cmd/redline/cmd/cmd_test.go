package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chronicle/redline/internal/app"
	"chronicle/redline/internal/gitrepo"
	"chronicle/redline/internal/semdiff"
)

func writeDoc(t *testing.T, dir, name string, paragraphs ...string) string {
	t.Helper()
	doc := semdiff.Document{Type: "doc"}
	for _, text := range paragraphs {
		doc.Content = append(doc.Content, semdiff.Node{
			Type:    "paragraph",
			Content: []semdiff.Node{{Type: "text", Text: text}},
		})
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("redline %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestRenderWordDiffs(t *testing.T) {
	got := renderWordDiffs([]semdiff.WordDiffOp{
		{Op: semdiff.OpUnchanged, Text: "the "},
		{Op: semdiff.OpDelete, Text: "red"},
		{Op: semdiff.OpAdd, Text: "blue"},
		{Op: semdiff.OpUnchanged, Text: " car"},
	})
	if want := "the [-red-]{+blue+} car"; got != want {
		t.Fatalf("renderWordDiffs() = %q, want %q", got, want)
	}
}

func TestCheckFormat(t *testing.T) {
	for _, format := range []string{"text", "json"} {
		if err := checkFormat(format); err != nil {
			t.Errorf("checkFormat(%q) error = %v", format, err)
		}
	}
	if err := checkFormat("yaml"); err == nil {
		t.Error("expected error for yaml format")
	}
}

func TestSummaryAndMergeCommands(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	original := writeDoc(t, dir, "v1.json", "A", "B")
	revised := writeDoc(t, dir, "v2.json", "B", "C")

	summary := run(t, "summary", original, revised)
	if !strings.Contains(summary, "1 added, 1 deleted, 0 modified, 1 unchanged") {
		t.Fatalf("unexpected summary output:\n%s", summary)
	}
	if !strings.Contains(summary, "+ C") || !strings.Contains(summary, "- A") {
		t.Fatalf("missing change lines:\n%s", summary)
	}

	outPath := filepath.Join(dir, "merged.json")
	run(t, "merge", original, revised, "--select", "deleted-2", "-o", outPath)
	raw, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read merged: %v", err)
	}
	merged, err := semdiff.ParseDocument(raw)
	if err != nil {
		t.Fatalf("parse merged: %v", err)
	}
	if got := semdiff.FlattenDocument(merged); got != "B" {
		t.Fatalf("merged document = %q, want B", got)
	}
}

func TestDiffCommandJSON(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	original := writeDoc(t, dir, "v1.json", "Hello world")
	revised := writeDoc(t, dir, "v2.json", "Hello there world")

	var segments []semdiff.Segment
	if err := json.Unmarshal([]byte(run(t, "diff", original, revised, "--format", "json")), &segments); err != nil {
		t.Fatalf("decode diff output: %v", err)
	}
	if len(segments) != 1 || segments[0].ID != "modified-0" || segments[0].Similarity == nil {
		t.Fatalf("unexpected segments: %+v", segments)
	}

	text := run(t, "diff", original, revised, "--format", "text")
	if !strings.Contains(text, "Hello {+there +}world") {
		t.Fatalf("expected rendered word diff in:\n%s", text)
	}
}

func TestImportCompareApplyAcrossInvocations(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("REDLINE_REPOS_BRANCH", "trunk")
	dir := t.TempDir()
	v1 := writeDoc(t, dir, "v1.json", "A", "B")
	v2 := writeDoc(t, dir, "v2.json", "B", "C")

	run(t, "import", "doc-1", v1, "--branch", "trunk")
	run(t, "import", "doc-1", v2, "--branch", "proposal")

	var compared app.CompareResult
	if err := json.Unmarshal([]byte(run(t, "compare", "doc-1", "trunk", "proposal", "--format", "json")), &compared); err != nil {
		t.Fatalf("decode compare output: %v", err)
	}
	if compared.DiffID == "" || compared.Summary.Added != 1 {
		t.Fatalf("unexpected compare result: %+v", compared)
	}
	addedID := ""
	for _, segment := range compared.Segments {
		if segment.DiffType == semdiff.DiffAdded {
			addedID = segment.ID
		}
	}

	// Each run builds its own service, as separate processes would.
	var applied app.ApplyResult
	out := run(t, "apply", "doc-1", compared.DiffID, "--select", addedID, "--branch", "trunk", "--format", "json")
	if err := json.Unmarshal([]byte(out), &applied); err != nil {
		t.Fatalf("decode apply output: %v", err)
	}
	if !applied.Committed || applied.Commit == nil {
		t.Fatalf("expected a commit, got %+v", applied)
	}
	if got := semdiff.FlattenDocument(applied.Document); got != "A\nB\nC" {
		t.Fatalf("merged document = %q, want A B C", got)
	}

	var history []gitrepo.CommitInfo
	if err := json.Unmarshal([]byte(run(t, "log", "doc-1", "--branch", "trunk", "--limit", "0", "--format", "json")), &history); err != nil {
		t.Fatalf("decode log output: %v", err)
	}
	if len(history) != 2 || history[0].Hash != applied.Commit.Hash {
		t.Fatalf("unexpected trunk history: %+v", history)
	}
	if _, err := os.Stat(filepath.Join("data", "repos", "doc-1")); err != nil {
		t.Fatalf("expected repo under the default repos dir: %v", err)
	}
}
