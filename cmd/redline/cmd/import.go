package cmd

import (
	"errors"
	"fmt"

	"chronicle/redline/internal/gitrepo"

	"github.com/spf13/cobra"
)

var (
	importBranch  string
	importMessage string
)

var importCmd = &cobra.Command{
	Use:   "import [document-id] [document.json]",
	Short: "Commit a document file to a version repository",
	Long: `Store a document version. The first import creates the repository with
the file as the baseline on repos.branch; later imports commit onto --branch,
creating the branch from repos.branch when needed.

Examples:
  redline import contract-7 v1.json
  redline import contract-7 v2.json --branch proposal -m "Counsel edits"`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importBranch, "branch", "", "Branch to commit to (default is repos.branch)")
	importCmd.Flags().StringVarP(&importMessage, "message", "m", "Import document version", "Commit message")
}

func runImport(cmd *cobra.Command, args []string) error {
	documentID := args[0]
	doc, err := readDocument(args[1])
	if err != nil {
		return err
	}
	_, repos, cleanup, err := newService()
	if err != nil {
		return err
	}
	defer cleanup()

	branch := importBranch
	if branch == "" {
		branch = cfg.Repos.Branch
	}

	base := cfg.Repos.Branch
	_, _, err = repos.GetHeadDocument(documentID, base)
	if errors.Is(err, gitrepo.ErrRepoNotFound) {
		if err := repos.EnsureDocumentRepo(documentID, base, doc, cfg.Repos.Author); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	if err := repos.EnsureBranch(documentID, branch, base); err != nil {
		return err
	}

	head, info, err := repos.GetHeadDocument(documentID, branch)
	if err != nil {
		return err
	}
	if gitrepo.HasChanges(head, doc) {
		if info, err = repos.CommitDocument(documentID, branch, doc, cfg.Repos.Author, importMessage); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", info.Hash, branch)
	return nil
}
