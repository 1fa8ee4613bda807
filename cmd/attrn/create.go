package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create [note]",
		Short: "Create a new note, or update an existing one",
		Long: `Prompt for the fields declared in .relnotes/schema.yaml and write
the result as a note artifact. Passing the path of an existing note
updates it in place, prefilling the prompts with its current values.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := newPipeline()
			if err != nil {
				return err
			}

			defaults := map[string]any{}
			var path string
			updating := len(args) > 0

			if updating {
				path = args[0]
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading note: %w", err)
				}
				if err := yaml.Unmarshal(data, &defaults); err != nil {
					return fmt.Errorf("parsing note: %w", err)
				}
			} else {
				name := fmt.Sprintf("%s-%s.yaml",
					time.Now().UTC().Format("2006-01-02"),
					uuid.NewString()[:6])
				path = filepath.Join(pipeline.Config.NotesPath(pipeline.Repo.Root()), name)
			}

			entry, err := pipeline.Schema.Prompt(defaults)
			if err != nil {
				return err
			}

			serialized, err := yaml.Marshal(entry)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(path, serialized, 0644); err != nil {
				return err
			}

			if updating {
				fmt.Fprintf(cmd.OutOrStdout(), "Updated note at %s\n", path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Created note at %s\n", path)
			}
			return nil
		},
	}
}
