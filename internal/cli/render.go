package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/raphaelgruber/secondbrain/internal/models"
)

// Theme holds the color scheme for terminal output.
type Theme struct {
	Heading lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
	Bullet  lipgloss.Color
	Tag     lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Heading: lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
	Bullet:  lipgloss.Color("#D7AF5F"), // amber
	Tag:     lipgloss.Color("#AF87FF"), // lavender
}

func (t Theme) headingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Heading).Bold(true)
}

func (t Theme) successStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func (t Theme) bulletStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Bullet)
}

func (t Theme) tagStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Tag)
}

// renderAnswer styles a search answer line by line, keyed on the marker each
// line starts with.
func (t Theme) renderAnswer(answer string) string {
	lines := strings.Split(answer, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "✅"):
			lines[i] = t.successStyle().Render(line)
		case strings.HasPrefix(line, "❌"):
			lines[i] = t.errorStyle().Render(line)
		case strings.HasPrefix(line, "📝"), strings.HasPrefix(line, "📚"):
			lines[i] = t.headingStyle().Render(line)
		case strings.HasPrefix(line, "💡"):
			lines[i] = t.hintStyle().Render(line)
		case strings.HasPrefix(line, "•"):
			lines[i] = t.bulletStyle().Render("•") + strings.TrimPrefix(line, "•")
		}
	}
	return strings.Join(lines, "\n")
}

// renderTags formats tags as "#a #b", or "" when there are none.
func (t Theme) renderTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = "#" + tag
	}
	return t.tagStyle().Render(strings.Join(parts, " "))
}

// printMemoryLine prints the one-line summary used by list and search.
func (t Theme) printMemoryLine(w io.Writer, m models.Memory) {
	fmt.Fprintf(w, "- %s %s\n", t.headingStyle().Render(m.Title), t.hintStyle().Render("("+m.ID+")"))
	if tags := t.renderTags(m.Tags); tags != "" {
		fmt.Fprintf(w, "  %s\n", tags)
	}
}

// printMemory prints a memory in full.
func (t Theme) printMemory(w io.Writer, m models.Memory) {
	fmt.Fprintln(w, t.headingStyle().Render(m.Title))
	fmt.Fprintln(w, t.hintStyle().Render(fmt.Sprintf("%s · created %s · updated %s",
		m.ID, m.CreatedAt.Local().Format("2006-01-02 15:04"), m.UpdatedAt.Local().Format("2006-01-02 15:04"))))
	if tags := t.renderTags(m.Tags); tags != "" {
		fmt.Fprintln(w, tags)
	}
	fmt.Fprintf(w, "\n%s\n", m.Content)
}
