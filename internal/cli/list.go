package cli

import (
	"context"
	"fmt"

	"github.com/raphaelgruber/secondbrain/internal/models"
	"github.com/spf13/cobra"
)

var (
	listTag   string
	listLimit int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List memories, newest first",
	Long: `List memories, newest first.

Examples:
  secondbrain list
  secondbrain list --tag python
  secondbrain list --limit 5`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one memory in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Show how many memories are stored",
	Args:  cobra.NoArgs,
	RunE:  runCount,
}

func init() {
	listCmd.Flags().StringVar(&listTag, "tag", "", "only memories with a tag containing this text")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "show at most this many (0 = all)")
}

func runList(cmd *cobra.Command, args []string) error {
	if listLimit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}
	memories, err := store.ListMemories(context.Background(), models.ListOptions{Tag: listTag, Limit: listLimit})
	if err != nil {
		return fmt.Errorf("list memories: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(memories) == 0 {
		fmt.Fprintln(out, "No memories found.")
		return nil
	}

	fmt.Fprintf(out, "Memories (%d):\n\n", len(memories))
	for _, m := range memories {
		theme.printMemoryLine(out, m)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	m, err := store.GetMemory(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("get memory %s: %w", args[0], err)
	}
	theme.printMemory(cmd.OutOrStdout(), m)
	return nil
}

func runCount(cmd *cobra.Command, args []string) error {
	n, err := store.CountMemories(context.Background())
	if err != nil {
		return fmt.Errorf("count memories: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d memories\n", n)
	return nil
}
