package semdiff

import (
	"fmt"
	"log/slog"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is a word-diff operation.
type Op string

const (
	OpAdd       Op = "add"
	OpDelete    Op = "delete"
	OpUnchanged Op = "unchanged"
)

// WordDiffOp is one run of a word-level diff.
type WordDiffOp struct {
	Op   Op     `json:"op"`
	Text string `json:"text"`
}

// DiffBackend computes an edit script between two flattened texts.
type DiffBackend interface {
	Name() string
	Diff(original, revised string) []WordDiffOp
	// Degraded reports whether the backend only produces whole-span
	// delete/add pairs.
	Degraded() bool
}

const (
	BackendDMP   = "dmp"
	BackendNaive = "naive"
)

// DMPBackend runs Myers diff via diff-match-patch followed by semantic
// cleanup, which folds scattered one- and two-character edits into whole
// word runs.
type DMPBackend struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// NewDMPBackend disables the diff deadline: a timed-out diff is coarser, and
// similarity scores must not depend on how fast the machine is.
func NewDMPBackend() *DMPBackend {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	return &DMPBackend{dmp: dmp}
}

func (b *DMPBackend) Name() string   { return BackendDMP }
func (b *DMPBackend) Degraded() bool { return false }

func (b *DMPBackend) Diff(original, revised string) []WordDiffOp {
	diffs := b.dmp.DiffMain(original, revised, false)
	diffs = b.dmp.DiffCleanupSemantic(diffs)
	ops := make([]WordDiffOp, 0, len(diffs))
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			ops = append(ops, WordDiffOp{Op: OpAdd, Text: d.Text})
		case diffmatchpatch.DiffDelete:
			ops = append(ops, WordDiffOp{Op: OpDelete, Text: d.Text})
		default:
			ops = append(ops, WordDiffOp{Op: OpUnchanged, Text: d.Text})
		}
	}
	return ops
}

// NaiveBackend is the fallback used when no diff primitive is available.
type NaiveBackend struct{}

func (NaiveBackend) Name() string   { return BackendNaive }
func (NaiveBackend) Degraded() bool { return true }

func (NaiveBackend) Diff(original, revised string) []WordDiffOp {
	return []WordDiffOp{
		{Op: OpDelete, Text: original},
		{Op: OpAdd, Text: revised},
	}
}

// SelectBackend picks the diff backend once at startup. Any name other than
// "naive" asks for the diff-match-patch backend; if it fails its probe the
// naive backend is returned instead.
func SelectBackend(name string, logger *slog.Logger) DiffBackend {
	if logger == nil {
		logger = slog.Default()
	}
	if name == BackendNaive {
		logger.Info("word diff backend selected", "backend", BackendNaive)
		return NaiveBackend{}
	}
	if name != "" && name != BackendDMP {
		logger.Warn("unknown word diff backend, using dmp", "requested", name)
	}
	backend := NewDMPBackend()
	if err := probe(backend); err != nil {
		logger.Warn("word diff backend unavailable, degrading to whole-span diffs", "backend", BackendDMP, "error", err)
		return NaiveBackend{}
	}
	logger.Info("word diff backend selected", "backend", backend.Name())
	return backend
}

func probe(backend DiffBackend) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("probe %s backend: %v", backend.Name(), r)
		}
	}()
	ops := backend.Diff("probe a", "probe b")
	if len(ops) == 0 {
		return fmt.Errorf("probe %s backend: empty edit script", backend.Name())
	}
	return nil
}
