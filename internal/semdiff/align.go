package semdiff

import (
	"sort"
	"unicode/utf8"
)

// DiffType classifies an alignment or segment.
type DiffType string

const (
	DiffUnchanged DiffType = "unchanged"
	DiffAdded     DiffType = "added"
	DiffDeleted   DiffType = "deleted"
	DiffModified  DiffType = "modified"
)

// SimilarityThreshold is the exclusive lower bound for pairing two blocks
// as modified.
const SimilarityThreshold = 0.3

const noIndex = -1

// Alignment pairs (or fails to pair) an original block with a revised block.
// Original and Revised point into the slices passed to Align.
type Alignment struct {
	Type          DiffType
	OriginalIndex int
	RevisedIndex  int
	Similarity    float64
	Original      *Node
	Revised       *Node
}

func (a Alignment) HasOriginal() bool { return a.OriginalIndex != noIndex }
func (a Alignment) HasRevised() bool  { return a.RevisedIndex != noIndex }

// Similarity is the share of text the two strings have in common, relative
// to the longer string. The common part comes from the backend's edit
// script. A degraded backend has no usable edit script, so its score counts
// the shared prefix and suffix instead.
func Similarity(backend DiffBackend, a, b string) float64 {
	if a == b {
		return 1
	}
	lenA := utf8.RuneCountInString(a)
	lenB := utf8.RuneCountInString(b)
	if lenA == 0 || lenB == 0 {
		return 0
	}
	common := 0
	if backend.Degraded() {
		common = commonAffixLength([]rune(a), []rune(b))
	} else {
		for _, op := range backend.Diff(a, b) {
			if op.Op == OpUnchanged {
				common += utf8.RuneCountInString(op.Text)
			}
		}
	}
	score := float64(common) / float64(max(lenA, lenB))
	if score > 1 {
		return 1
	}
	return score
}

// commonAffixLength counts the runes of the longest common prefix plus the
// longest common suffix of what remains.
func commonAffixLength(a, b []rune) int {
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	a, b = a[prefix:], b[prefix:]
	suffix := 0
	for suffix < len(a) && suffix < len(b) && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}
	return prefix + suffix
}

// Align matches original and revised blocks. Revised blocks first claim the
// earliest unused original with an identical fingerprint; leftovers are
// paired greedily by highest similarity above SimilarityThreshold; anything
// still unpaired is added or deleted. Every index of both inputs appears in
// exactly one record.
func Align(backend DiffBackend, original, revised []Node) []Alignment {
	originalText := make([]string, len(original))
	originalPrint := make([]Fingerprint, len(original))
	for i, node := range original {
		originalText[i] = Flatten(node)
		originalPrint[i] = fingerprint(node.Kind(), originalText[i])
	}
	revisedText := make([]string, len(revised))
	for j, node := range revised {
		revisedText[j] = Flatten(node)
	}

	usedOriginal := make([]bool, len(original))
	matchedRevised := make([]bool, len(revised))
	records := make([]Alignment, 0, max(len(original), len(revised)))

	for j, node := range revised {
		fp := fingerprint(node.Kind(), revisedText[j])
		for i := range original {
			if usedOriginal[i] || originalPrint[i] != fp {
				continue
			}
			usedOriginal[i] = true
			matchedRevised[j] = true
			records = append(records, Alignment{
				Type:          DiffUnchanged,
				OriginalIndex: i,
				RevisedIndex:  j,
				Similarity:    1,
				Original:      &original[i],
				Revised:       &revised[j],
			})
			break
		}
	}

	for j := range revised {
		if matchedRevised[j] {
			continue
		}
		best := noIndex
		bestScore := SimilarityThreshold
		for i := range original {
			if usedOriginal[i] {
				continue
			}
			score := Similarity(backend, originalText[i], revisedText[j])
			if score > bestScore {
				best = i
				bestScore = score
			}
		}
		if best == noIndex {
			continue
		}
		usedOriginal[best] = true
		matchedRevised[j] = true
		records = append(records, Alignment{
			Type:          DiffModified,
			OriginalIndex: best,
			RevisedIndex:  j,
			Similarity:    bestScore,
			Original:      &original[best],
			Revised:       &revised[j],
		})
	}

	for i := range original {
		if usedOriginal[i] {
			continue
		}
		records = append(records, Alignment{
			Type:          DiffDeleted,
			OriginalIndex: i,
			RevisedIndex:  noIndex,
			Original:      &original[i],
		})
	}
	for j := range revised {
		if matchedRevised[j] {
			continue
		}
		records = append(records, Alignment{
			Type:          DiffAdded,
			OriginalIndex: noIndex,
			RevisedIndex:  j,
			Revised:       &revised[j],
		})
	}

	// Revised order first; deletions have no revised position and go last.
	sort.SliceStable(records, func(i, j int) bool {
		left, right := records[i], records[j]
		if left.HasRevised() != right.HasRevised() {
			return left.HasRevised()
		}
		if left.HasRevised() {
			return left.RevisedIndex < right.RevisedIndex
		}
		return left.OriginalIndex < right.OriginalIndex
	})
	return records
}
