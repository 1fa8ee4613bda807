package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/wahlandcase/attuned.relnotes/internal/config"
	"github.com/wahlandcase/attuned.relnotes/internal/git"
	"github.com/wahlandcase/attuned.relnotes/internal/notes"
	"github.com/wahlandcase/attuned.relnotes/internal/schema"

	"github.com/spf13/cobra"
)

// version is stamped at build time
var version = "dev"

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:     "attrn",
		Short:   "Schema-validated release notes for git commits",
		Version: version,
		Long: `attrn keeps a structured release note next to every commit, lints
note coverage over a commit range, and renders grouped changelogs.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newLintCmd())
	rootCmd.AddCommand(newLogCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the run logger; --verbose raises it to debug
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newPipeline constructs the per-run context: repository, config, schema
func newPipeline() (*notes.Pipeline, error) {
	repo, err := git.OpenCurrent()
	if err != nil {
		return nil, fmt.Errorf("not inside a git repository: %w", err)
	}

	cfg, err := config.Load(repo.Root())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	sch, err := schema.Load(cfg.SchemaPath(repo.Root()))
	if err != nil {
		return nil, err
	}

	return &notes.Pipeline{
		Repo:   repo,
		Config: cfg,
		Schema: sch,
		Log:    newLogger(),
	}, nil
}

func rangeArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
