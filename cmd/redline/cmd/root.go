package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"chronicle/redline/internal/config"
	"chronicle/redline/internal/semdiff"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	cfg     config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "redline",
	Short: "Structural diff and selective merge for rich-text documents",
	Long: `Redline compares two versions of a ProseMirror JSON document block by
block, shows word-level changes inside modified blocks, and merges a chosen
subset of those changes back onto a base document.

Commands:
  diff     Print the segments between two document files
  summary  Print change counts and change lines between two document files
  merge    Apply selected segments to a document file
  import   Commit a document file to a version repository
  log      List the commits of a document branch
  compare  Diff two revisions stored in a version repository
  apply    Merge selected segments of a stored diff and commit the result`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		initLogger()
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./redline.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogger() {
	level := cfg.Log.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

func newEngine() *semdiff.Engine {
	backend := semdiff.SelectBackend(cfg.Diff.Backend, logger)
	return semdiff.New(backend, logger)
}

func readDocument(path string) (semdiff.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return semdiff.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := semdiff.ParseDocument(raw)
	if err != nil {
		return semdiff.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
