package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/raphaelgruber/secondbrain/internal/models"
	"github.com/spf13/cobra"
)

var (
	updateTitle   string
	updateContent string
	updateTags    []string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a memory",
	Long: `Update the title, content or tags of a memory.

Only the flags you pass are changed. --tags replaces the whole tag list;
pass --tags "" to remove all tags.

Examples:
  secondbrain update 3f2c... --title "Go contexts, revisited"
  secondbrain update 3f2c... --tags go,concurrency`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "new title")
	updateCmd.Flags().StringVar(&updateContent, "content", "", "new content")
	updateCmd.Flags().StringSliceVarP(&updateTags, "tags", "t", nil, "replace tags")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	var patch models.MemoryPatch
	flags := cmd.Flags()
	if flags.Changed("title") {
		patch.Title = &updateTitle
	}
	if flags.Changed("content") {
		patch.Content = &updateContent
	}
	if flags.Changed("tags") {
		tags := nonEmpty(updateTags)
		patch.Tags = &tags
	}
	if patch.Title == nil && patch.Content == nil && patch.Tags == nil {
		return errors.New("nothing to update: pass --title, --content or --tags")
	}

	m, err := store.UpdateMemory(context.Background(), args[0], patch)
	if err != nil {
		return fmt.Errorf("update memory %s: %w", args[0], err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", theme.successStyle().Render("Updated:"), m.Title, m.ID)
	return nil
}

// nonEmpty drops blank entries so --tags "" clears the list.
func nonEmpty(values []string) []string {
	out := []string{}
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
