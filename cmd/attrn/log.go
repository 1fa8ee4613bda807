package main

import (
	"fmt"
	"os"
	"time"

	"github.com/wahlandcase/attuned.relnotes/internal/github"
	"github.com/wahlandcase/attuned.relnotes/internal/notes"
	"github.com/wahlandcase/attuned.relnotes/internal/render"

	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	var (
		style    string
		tpl      string
		tagMatch string
		before   string
		after    string
		reverse  bool
		output   string
	)

	cmd := &cobra.Command{
		Use:   "log [range]",
		Short: "Render templated notes for a range of commits",
		Long: `Render notes over a commit range through a log template. The special
range ":github/pr" logs against the base branch of the pull request
opened from the current branch; the special output ":github/pr" posts
the rendered log as a comment on that pull request.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := notes.CollectOptions{
				TagMatch: tagMatch,
				Reverse:  reverse,
			}

			var err error
			if opts.Before, err = parseDateFlag("before", before); err != nil {
				return err
			}
			if opts.After, err = parseDateFlag("after", after); err != nil {
				return err
			}

			pipeline, err := newPipeline()
			if err != nil {
				return err
			}

			col, err := pipeline.Collect(cmd.Context(), rangeArg(args), opts)
			if err != nil {
				return err
			}

			text, err := render.Resolve(pipeline.Config, pipeline.Repo.Root(), style, tpl)
			if err != nil {
				return err
			}

			rendered, err := render.Render(text, render.Context{
				Notes:  col.Notes,
				Range:  col.Expr,
				Output: output,
			})
			if err != nil {
				return err
			}

			switch output {
			case "", "-":
				fmt.Fprint(cmd.OutOrStdout(), rendered)
				return nil
			case github.PRToken:
				client, err := pipeline.NewGitHubClient()
				if err != nil {
					return err
				}
				return client.Comment(cmd.Context(), rendered)
			default:
				return os.WriteFile(output, []byte(rendered), 0644)
			}
		},
	}

	cmd.Flags().StringVar(&style, "style", "default", "Template file nickname (.relnotes/log_<style>.tpl)")
	cmd.Flags().StringVar(&tpl, "template", "", "Template string, supersedes --style")
	cmd.Flags().StringVar(&tagMatch, "tag-match", "", "glob(7) pattern for matching tags")
	cmd.Flags().StringVar(&before, "before", "", "Only include commits before this date")
	cmd.Flags().StringVar(&after, "after", "", "Only include commits after this date")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "Reverse ordering of results")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, or :github/pr to post a PR comment")

	return cmd
}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func parseDateFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid --%s date %q", name, value)
}
