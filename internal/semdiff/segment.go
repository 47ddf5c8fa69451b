package semdiff

import "fmt"

const previewLimit = 100

// Segment is the caller-facing description of one alignment. Ids are only
// stable within the diff call that produced them.
type Segment struct {
	ID              string       `json:"id"`
	Kind            SegmentKind  `json:"kind"`
	DiffType        DiffType     `json:"diffType"`
	Content         Node         `json:"content"`
	OriginalContent *Node        `json:"originalContent,omitempty"`
	Preview         string       `json:"preview"`
	WordDiffs       []WordDiffOp `json:"wordDiffs,omitempty"`
	Similarity      *float64     `json:"similarity,omitempty"`
}

// WordDiff computes the word-level edit script between two flattened texts.
func WordDiff(backend DiffBackend, original, revised string) []WordDiffOp {
	return backend.Diff(original, revised)
}

// IsDegradedShape reports whether ops has the whole-span delete/add shape
// produced when no real diff backend is available.
func IsDegradedShape(ops []WordDiffOp) bool {
	return len(ops) == 2 && ops[0].Op == OpDelete && ops[1].Op == OpAdd
}

// BuildSegments maps alignments to segments one to one.
func BuildSegments(backend DiffBackend, alignments []Alignment) []Segment {
	segments := make([]Segment, 0, len(alignments))
	for position, alignment := range alignments {
		var content Node
		if alignment.Revised != nil {
			content = *alignment.Revised
		} else if alignment.Original != nil {
			content = *alignment.Original
		}
		segment := Segment{
			ID:       fmt.Sprintf("%s-%d", alignment.Type, position),
			Kind:     segmentKindOf(content.Kind()),
			DiffType: alignment.Type,
			Content:  content,
			Preview:  truncatePreview(Flatten(content)),
		}
		if alignment.Type == DiffModified && alignment.Original != nil {
			original := *alignment.Original
			similarity := alignment.Similarity
			segment.OriginalContent = &original
			segment.WordDiffs = WordDiff(backend, Flatten(original), Flatten(content))
			segment.Similarity = &similarity
		}
		segments = append(segments, segment)
	}
	return segments
}

func truncatePreview(value string) string {
	runes := []rune(value)
	if len(runes) <= previewLimit {
		return value
	}
	return string(runes[:previewLimit]) + "..."
}
