package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchRefs bool

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search your memories",
	Long: `Search your memories by keyword and get a short answer plus the
matching memories, best match first.

Matching is case-insensitive against titles, content and tags.

Examples:
  secondbrain search "react hooks"
  secondbrain search productivity --refs=false`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchRefs, "refs", true, "list the referenced memories after the answer")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	result, err := store.Search(context.Background(), query)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, theme.renderAnswer(result.Answer))

	if searchRefs && len(result.References) > 0 {
		fmt.Fprintf(out, "\nReferences (%d):\n\n", len(result.References))
		for _, m := range result.References {
			theme.printMemoryLine(out, m)
		}
	}
	return nil
}
