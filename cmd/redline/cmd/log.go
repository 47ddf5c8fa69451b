package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	logBranch string
	logLimit  int
	logFormat string
)

var logCmd = &cobra.Command{
	Use:   "log [document-id]",
	Short: "List the commits of a document branch",
	Long: `List the commits of a stored document, newest first. Hashes can be
passed to compare as revisions.

Examples:
  redline log contract-7
  redline log contract-7 --branch proposal --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: runLog,
}

func init() {
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().StringVar(&logBranch, "branch", "", "Branch to list (default is repos.branch)")
	logCmd.Flags().IntVar(&logLimit, "limit", 20, "Maximum number of commits, 0 for all")
	logCmd.Flags().StringVar(&logFormat, "format", formatText, "Output format: text or json")
}

func runLog(cmd *cobra.Command, args []string) error {
	if err := checkFormat(logFormat); err != nil {
		return err
	}
	_, repos, cleanup, err := newService()
	if err != nil {
		return err
	}
	defer cleanup()

	branch := logBranch
	if branch == "" {
		branch = cfg.Repos.Branch
	}
	history, err := repos.History(args[0], branch, logLimit)
	if err != nil {
		return err
	}
	if logFormat == formatJSON {
		return writeJSON(cmd.OutOrStdout(), history)
	}
	for _, commit := range history {
		subject, _, _ := strings.Cut(commit.Message, "\n")
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %-12s %s\n",
			commit.Hash, commit.CreatedAt.Format("2006-01-02 15:04"), commit.Author, subject)
	}
	return nil
}
