package semdiff

// Merge applies the selected segments onto a copy of base. Deletions run
// first, then modifications, then additions, so a deletion never removes a
// block a modification just wrote and an appended block is never matched by
// a deletion. Segments whose target text is not found are skipped.
//
// Additions are appended at the end of the document; their aligned position
// in the revised document is not preserved.
func Merge(base Document, segments []Segment, selectedIDs []string) Document {
	selected := make(map[string]struct{}, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = struct{}{}
	}

	var deletes, modifies, adds []Segment
	for _, segment := range segments {
		if _, ok := selected[segment.ID]; !ok {
			continue
		}
		switch segment.DiffType {
		case DiffDeleted:
			deletes = append(deletes, segment)
		case DiffModified:
			modifies = append(modifies, segment)
		case DiffAdded:
			adds = append(adds, segment)
		}
	}

	working := cloneNodes(base.Content)
	for _, segment := range deletes {
		idx := findByFlattenedText(working, Flatten(segment.Content))
		if idx < 0 {
			continue
		}
		working = append(working[:idx], working[idx+1:]...)
	}
	for _, segment := range modifies {
		if segment.OriginalContent == nil {
			continue
		}
		idx := findByFlattenedText(working, Flatten(*segment.OriginalContent))
		if idx < 0 {
			continue
		}
		working[idx] = segment.Content.Clone()
	}
	for _, segment := range adds {
		working = append(working, segment.Content.Clone())
	}

	return Document{Type: base.Type, Content: working}
}

// findByFlattenedText returns the index of the first block whose flattened
// text equals text exactly, or -1.
func findByFlattenedText(blocks []Node, text string) int {
	for i, block := range blocks {
		if Flatten(block) == text {
			return i
		}
	}
	return -1
}
