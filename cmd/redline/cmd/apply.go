package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"chronicle/redline/internal/app"

	"github.com/spf13/cobra"
)

var (
	applySelect []string
	applyBranch string
	applyFormat string
)

var applyCmd = &cobra.Command{
	Use:   "apply [document-id] [diff-id]",
	Short: "Merge selected segments of a stored diff and commit the result",
	Long: `Apply the selected segments of a diff produced by compare onto the head
of --branch and commit the merged document. Nothing is committed when the
selection leaves the document unchanged. A committed apply consumes the
diff id.

Example:
  redline apply contract-7 dif_4c1e0b7a9d2f6e83a1b5c0d9 --select modified-0,added-2`,
	Args: cobra.ExactArgs(2),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringSliceVar(&applySelect, "select", nil, "Segment ids to apply (comma separated)")
	applyCmd.Flags().StringVar(&applyBranch, "branch", "", "Branch to merge onto (default is repos.branch)")
	applyCmd.Flags().StringVar(&applyFormat, "format", formatText, "Output format: text or json")
	_ = applyCmd.MarkFlagRequired("select")
}

func runApply(cmd *cobra.Command, args []string) error {
	if err := checkFormat(applyFormat); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service, _, cleanup, err := newService()
	if err != nil {
		return err
	}
	defer cleanup()

	branch := applyBranch
	if branch == "" {
		branch = cfg.Repos.Branch
	}
	result, err := service.ApplySelection(ctx, app.ApplyRequest{
		DocumentID:  args[0],
		DiffID:      args[1],
		SelectedIDs: applySelect,
		Branch:      branch,
		Author:      cfg.Repos.Author,
	})
	if err != nil {
		return err
	}
	if applyFormat == formatJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	if !result.Committed {
		fmt.Fprintf(cmd.OutOrStdout(), "selection leaves %s unchanged, nothing committed\n", branch)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", result.Commit.Hash, branch)
	return nil
}
