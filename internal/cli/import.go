package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/raphaelgruber/secondbrain/internal/models"
	"github.com/raphaelgruber/secondbrain/internal/parser"
	"github.com/spf13/cobra"
)

var (
	importSections bool
	importTags     []string
	importDryRun   bool
)

var importCmd = &cobra.Command{
	Use:   "import <file.md>...",
	Short: "Import Markdown notes as memories",
	Long: `Import Markdown notes as memories.

The title comes from the frontmatter "title" key, the first "# heading", or
the file name. Frontmatter "tags" (a list or a comma-separated string) are
kept. With --sections, every "## heading" becomes its own memory.

Examples:
  secondbrain import notes/react.md
  secondbrain import --sections --tags reading book-notes/*.md
  secondbrain --guest import journal.md --dry-run`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importSections, "sections", false, "create one memory per ## section")
	importCmd.Flags().StringSliceVarP(&importTags, "tags", "t", nil, "extra tags for every imported memory")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "show what would be imported without saving")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	var inputs []models.MemoryInput
	for _, path := range args {
		notes, err := readNote(path)
		if errors.Is(err, parser.ErrEmptyNote) {
			fmt.Fprintf(out, "%s %s (empty)\n", theme.hintStyle().Render("Skipped:"), path)
			continue
		}
		if err != nil {
			return err
		}
		inputs = append(inputs, notes...)
	}

	for _, input := range inputs {
		input.Tags = mergeTags(input.Tags, importTags)
		if importDryRun {
			fmt.Fprintf(out, "Would add: %s %s\n", input.Title, theme.renderTags(input.Tags))
			continue
		}
		m, err := store.CreateMemory(ctx, input)
		if err != nil {
			return fmt.Errorf("import %q: %w", input.Title, err)
		}
		fmt.Fprintf(out, "%s %s (%s)\n", theme.successStyle().Render("Saved:"), m.Title, m.ID)
	}

	if !importDryRun {
		fmt.Fprintf(out, "\nImported %d memories from %d files.\n", len(inputs), len(args))
	}
	return nil
}

func readNote(path string) ([]models.MemoryInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	note, err := parser.Parse(string(data), name)
	if err != nil {
		return nil, err
	}

	if importSections {
		return note.SectionMemories(), nil
	}
	return []models.MemoryInput{note.Memory()}, nil
}

// mergeTags appends extra tags that are not already present.
func mergeTags(tags, extra []string) []string {
	out := append([]string{}, tags...)
	for _, t := range extra {
		if t != "" && !containsFold(out, t) {
			out = append(out, t)
		}
	}
	return out
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
