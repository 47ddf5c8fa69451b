package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	mergeSelect []string
	mergeBase   string
	mergeOutput string
)

var mergeCmd = &cobra.Command{
	Use:   "merge [original.json] [revised.json]",
	Short: "Apply selected segments to a document file",
	Long: `Diff two documents, then apply only the selected segment ids. The base
document defaults to the original; pass --base to merge onto another file.

Examples:
  redline merge v1.json v2.json --select modified-0,added-2
  redline merge v1.json v2.json --select deleted-3 --base draft.json -o merged.json`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringSliceVar(&mergeSelect, "select", nil, "Segment ids to apply (comma separated)")
	mergeCmd.Flags().StringVar(&mergeBase, "base", "", "Document to merge onto (default is the original)")
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "Write the merged document to a file instead of stdout")
	_ = mergeCmd.MarkFlagRequired("select")
}

func runMerge(cmd *cobra.Command, args []string) error {
	original, err := readDocument(args[0])
	if err != nil {
		return err
	}
	revised, err := readDocument(args[1])
	if err != nil {
		return err
	}
	base := original
	if mergeBase != "" {
		if base, err = readDocument(mergeBase); err != nil {
			return err
		}
	}

	engine := newEngine()
	segments := engine.GenerateSemanticDiff(original, revised)
	merged := engine.MergeSegments(base, segments, mergeSelect)

	if mergeOutput == "" {
		return writeJSON(cmd.OutOrStdout(), merged)
	}
	payload, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal merged document: %w", err)
	}
	if err := os.WriteFile(mergeOutput, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", mergeOutput, err)
	}
	return nil
}
