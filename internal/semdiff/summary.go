package semdiff

import (
	"fmt"
	"math"
)

// Summary holds counts of changes across a segment list.
type Summary struct {
	Added           int      `json:"added"`
	Deleted         int      `json:"deleted"`
	Modified        int      `json:"modified"`
	Unchanged       int      `json:"unchanged"`
	TotalChanges    int      `json:"totalChanges"`
	SimilarityRatio float64  `json:"similarityRatio"`
	ChangeLines     []string `json:"changeLines"`
}

// Summarize counts segments by diff type and renders one line per change.
func Summarize(segments []Segment) Summary {
	summary := Summary{ChangeLines: []string{}}
	for _, segment := range segments {
		switch segment.DiffType {
		case DiffAdded:
			summary.Added++
			summary.ChangeLines = append(summary.ChangeLines, "+ "+segment.Preview)
		case DiffDeleted:
			summary.Deleted++
			summary.ChangeLines = append(summary.ChangeLines, "- "+segment.Preview)
		case DiffModified:
			summary.Modified++
			similarity := 0.0
			if segment.Similarity != nil {
				similarity = *segment.Similarity
			}
			summary.ChangeLines = append(summary.ChangeLines,
				fmt.Sprintf("~ %s (%d%% similar)", segment.Preview, int(math.Round(similarity*100))))
		default:
			summary.Unchanged++
		}
	}
	summary.TotalChanges = summary.Added + summary.Deleted + summary.Modified
	summary.SimilarityRatio = 1
	if len(segments) > 0 {
		summary.SimilarityRatio = float64(summary.Unchanged) / float64(len(segments))
	}
	return summary
}

// String returns a human-readable one-line summary.
func (s Summary) String() string {
	if s.TotalChanges == 0 {
		return "No changes detected"
	}
	return fmt.Sprintf("%d added, %d deleted, %d modified, %d unchanged",
		s.Added, s.Deleted, s.Modified, s.Unchanged)
}
