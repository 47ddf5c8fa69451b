package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"chronicle/redline/internal/semdiff"
)

const (
	formatText = "text"
	formatJSON = "json"
)

func checkFormat(format string) error {
	if format != formatText && format != formatJSON {
		return fmt.Errorf("unknown format %q: want text or json", format)
	}
	return nil
}

func writeJSON(w io.Writer, value any) error {
	output, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func writeSegments(w io.Writer, segments []semdiff.Segment) {
	if len(segments) == 0 {
		fmt.Fprintln(w, "No blocks in either document.")
		return
	}
	for _, segment := range segments {
		fmt.Fprintf(w, "%-14s %-10s %s\n", segment.ID, segment.Kind, segment.Preview)
		if segment.DiffType != semdiff.DiffModified {
			continue
		}
		if segment.Similarity != nil {
			fmt.Fprintf(w, "    similarity: %.0f%%\n", *segment.Similarity*100)
		}
		fmt.Fprintf(w, "    %s\n", renderWordDiffs(segment.WordDiffs))
	}
}

// renderWordDiffs marks deletions as [-text-] and additions as {+text+}.
func renderWordDiffs(ops []semdiff.WordDiffOp) string {
	var b strings.Builder
	for _, op := range ops {
		switch op.Op {
		case semdiff.OpDelete:
			b.WriteString("[-" + op.Text + "-]")
		case semdiff.OpAdd:
			b.WriteString("{+" + op.Text + "+}")
		default:
			b.WriteString(op.Text)
		}
	}
	return b.String()
}

func writeSummary(w io.Writer, summary semdiff.Summary) {
	fmt.Fprintln(w, summary.String())
	for _, line := range summary.ChangeLines {
		fmt.Fprintln(w, line)
	}
}
