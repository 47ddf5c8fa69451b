package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var compareFormat string

var compareCmd = &cobra.Command{
	Use:   "compare [document-id] [from] [to]",
	Short: "Diff two revisions stored in a version repository",
	Long: `Load two revisions (branch, tag or commit hash) of a stored document,
diff them and keep the segment set under a diff id for a later apply.

Examples:
  redline compare contract-7 main proposal
  redline compare contract-7 3f2a9c1 main --format json`,
	Args: cobra.ExactArgs(3),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&compareFormat, "format", formatText, "Output format: text or json")
}

func runCompare(cmd *cobra.Command, args []string) error {
	if err := checkFormat(compareFormat); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service, _, cleanup, err := newService()
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := service.Compare(ctx, args[0], args[1], args[2])
	if err != nil {
		return err
	}
	if compareFormat == formatJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "diff %s (%s..%s, backend %s)\n", result.DiffID, result.From, result.To, result.Backend)
	if result.Degraded {
		fmt.Fprintln(out, "word diffs are degraded to whole-span replacements")
	}
	fmt.Fprintln(out)
	writeSegments(out, result.Segments)
	fmt.Fprintln(out)
	writeSummary(out, result.Summary)
	return nil
}
