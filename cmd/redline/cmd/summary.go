package cmd

import (
	"github.com/spf13/cobra"
)

var summaryFormat string

var summaryCmd = &cobra.Command{
	Use:   "summary [original.json] [revised.json]",
	Short: "Print change counts between two document files",
	Args:  cobra.ExactArgs(2),
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringVar(&summaryFormat, "format", formatText, "Output format: text or json")
}

func runSummary(cmd *cobra.Command, args []string) error {
	if err := checkFormat(summaryFormat); err != nil {
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

	engine := newEngine()
	summary := engine.GetDiffSummary(engine.GenerateSemanticDiff(original, revised))
	if summaryFormat == formatJSON {
		return writeJSON(cmd.OutOrStdout(), summary)
	}
	writeSummary(cmd.OutOrStdout(), summary)
	return nil
}
