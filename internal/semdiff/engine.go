package semdiff

import "log/slog"

// Engine bundles the diff backend chosen at startup. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	backend DiffBackend
	logger  *slog.Logger
}

// New creates an engine. A nil backend selects the default backend; a nil
// logger uses slog.Default().
func New(backend DiffBackend, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if backend == nil {
		backend = SelectBackend(BackendDMP, logger)
	}
	return &Engine{backend: backend, logger: logger}
}

// Backend returns the active diff backend.
func (e *Engine) Backend() DiffBackend { return e.backend }

// Degraded reports whether word diffs are whole-span fallbacks.
func (e *Engine) Degraded() bool { return e.backend.Degraded() }

// GenerateSemanticDiff aligns the top-level blocks of both documents and
// returns one segment per alignment.
func (e *Engine) GenerateSemanticDiff(original, revised Document) []Segment {
	alignments := Align(e.backend, original.Content, revised.Content)
	segments := BuildSegments(e.backend, alignments)
	e.logger.Debug("semantic diff computed",
		"original_blocks", len(original.Content),
		"revised_blocks", len(revised.Content),
		"segments", len(segments),
		"backend", e.backend.Name(),
	)
	return segments
}

// MergeSegments applies the selected segments onto base.
func (e *Engine) MergeSegments(base Document, segments []Segment, selectedIDs []string) Document {
	return Merge(base, segments, selectedIDs)
}

// GetDiffSummary reduces a segment list to counts and change lines.
func (e *Engine) GetDiffSummary(segments []Segment) Summary {
	return Summarize(segments)
}
