package main

import (
	"fmt"
	"os"

	"github.com/wahlandcase/attuned.relnotes/internal/notes"
	"github.com/wahlandcase/attuned.relnotes/internal/ui"

	"github.com/spf13/cobra"
)

func newLintCmd() *cobra.Command {
	var tagMatch string

	cmd := &cobra.Command{
		Use:   "lint [range]",
		Short: "Lint notes against a range of commits",
		Long: `Lint passes when the range has no commits, or when every commit in
the range carries a note that validates against the schema. The special
range ":github/pr" lints against the base branch of the pull request
opened from the current branch.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := newPipeline()
			if err != nil {
				return err
			}

			col, err := pipeline.Collect(cmd.Context(), rangeArg(args), notes.CollectOptions{
				TagMatch: tagMatch,
			})
			if err != nil {
				return err
			}

			res := notes.Lint(col.Commits, col.Notes)
			fmt.Fprint(os.Stderr, ui.LintReport(res))
			if !res.Passed {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tagMatch, "tag-match", "", "glob(7) pattern for matching tags")

	return cmd
}
