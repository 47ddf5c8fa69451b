package cmd

import (
	"github.com/spf13/cobra"
)

var diffFormat string

var diffCmd = &cobra.Command{
	Use:   "diff [original.json] [revised.json]",
	Short: "Print the segments between two document files",
	Long: `Align the top-level blocks of two ProseMirror JSON documents and print
one segment per alignment. Modified blocks include a word-level diff.

Examples:
  redline diff v1.json v2.json
  redline diff v1.json v2.json --format json`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().StringVar(&diffFormat, "format", formatText, "Output format: text or json")
}

func runDiff(cmd *cobra.Command, args []string) error {
	if err := checkFormat(diffFormat); err != nil {
		return err
	}
	original, err := readDocument(args[0])
	if err != nil {
		return err
	}
	revised, err := readDocument(args[1])
	if err != nil {
		return err
	}

	segments := newEngine().GenerateSemanticDiff(original, revised)
	if diffFormat == formatJSON {
		return writeJSON(cmd.OutOrStdout(), segments)
	}
	writeSegments(cmd.OutOrStdout(), segments)
	return nil
}
