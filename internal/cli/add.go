package cli

import (
	"context"
	"fmt"

	"github.com/raphaelgruber/secondbrain/internal/models"
	"github.com/spf13/cobra"
)

var (
	addTags []string
)

var addCmd = &cobra.Command{
	Use:   "add <title> <content>",
	Short: "Add a new memory",
	Long: `Add a new memory to your knowledge base.

Use --tags to add comma-separated tags for filtering.

Examples:
  secondbrain add "Go contexts" "Pass ctx as the first argument" --tags go,idioms
  secondbrain --guest add "Reading list" "Designing Data-Intensive Applications"`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringSliceVarP(&addTags, "tags", "t", nil, "tags for organization")
}

func runAdd(cmd *cobra.Command, args []string) error {
	m, err := store.CreateMemory(context.Background(), models.MemoryInput{
		Title:   args[0],
		Content: args[1],
		Tags:    addTags,
	})
	if err != nil {
		return fmt.Errorf("add memory: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", theme.successStyle().Render("Saved:"), m.Title, m.ID)
	return nil
}
