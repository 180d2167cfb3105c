// Package parser turns Markdown notes into memory inputs for bulk import.
package parser

import (
	"bufio"
	"errors"
	"regexp"
	"strings"

	"github.com/raphaelgruber/secondbrain/internal/models"
	"gopkg.in/yaml.v3"
)

// ErrEmptyNote is returned when a note has no usable content.
var ErrEmptyNote = errors.New("note has no content")

var (
	h1Regex      = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	headingRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
)

// Note is a parsed Markdown document.
type Note struct {
	// Frontmatter metadata (from YAML)
	Frontmatter map[string]any

	// Title from frontmatter, the first h1, or the caller's fallback
	Title string

	// Body after frontmatter, with the h1 title line removed
	Body string

	Tags []string

	Sections []Section
}

// Section is a heading at SplitLevel and the text under it.
type Section struct {
	Heading string
	Content string
}

// SplitLevel is the heading level that starts a new memory when a note is
// imported section by section.
const SplitLevel = 2

// Parse reads a Markdown note. fallbackTitle is used when neither the
// frontmatter nor an h1 names the note (typically the file name).
func Parse(content, fallbackTitle string) (*Note, error) {
	note := &Note{Frontmatter: make(map[string]any)}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	remaining := content
	if strings.HasPrefix(content, "---\n") {
		if end := strings.Index(content[4:], "\n---"); end >= 0 {
			raw := content[4 : 4+end]
			remaining = strings.TrimPrefix(content[4+end+4:], "\n")
			// Malformed frontmatter is treated as absent.
			if err := yaml.Unmarshal([]byte(raw), &note.Frontmatter); err != nil || note.Frontmatter == nil {
				note.Frontmatter = make(map[string]any)
			}
		}
	}

	note.Title, note.Body = extractTitle(note.Frontmatter, remaining)
	if note.Title == "" {
		note.Title = strings.TrimSpace(fallbackTitle)
	}
	note.Body = strings.TrimSpace(note.Body)
	note.Tags = frontmatterTags(note.Frontmatter)
	note.Sections = splitSections(note.Body)

	if note.Title == "" || note.Body == "" {
		return nil, ErrEmptyNote
	}
	return note, nil
}

// extractTitle gets the title from frontmatter or the first h1. An h1 used as
// the title is cut from the returned body.
func extractTitle(fm map[string]any, body string) (string, string) {
	for _, key := range []string{"title", "name"} {
		if title, ok := fm[key].(string); ok && strings.TrimSpace(title) != "" {
			return strings.TrimSpace(title), body
		}
	}

	loc := h1Regex.FindStringSubmatchIndex(body)
	if loc == nil {
		return "", body
	}
	title := strings.TrimSpace(body[loc[2]:loc[3]])
	return title, body[:loc[0]] + body[loc[1]:]
}

// frontmatterTags accepts either a YAML list or a comma-separated string.
func frontmatterTags(fm map[string]any) []string {
	var raw []string
	switch v := fm["tags"].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case string:
		raw = strings.Split(v, ",")
	}

	tags := []string{}
	seen := make(map[string]bool)
	for _, t := range raw {
		t = strings.TrimPrefix(strings.TrimSpace(t), "#")
		if t != "" && !seen[t] {
			tags = append(tags, t)
			seen[t] = true
		}
	}
	return tags
}

// splitSections cuts body at SplitLevel headings. Text before the first such
// heading is not part of any section. Deeper headings stay in the content.
func splitSections(body string) []Section {
	var sections []Section
	var current *Section
	var b strings.Builder

	flush := func() {
		if current != nil {
			current.Content = strings.TrimSpace(b.String())
			if current.Content != "" {
				sections = append(sections, *current)
			}
			b.Reset()
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if match := headingRegex.FindStringSubmatch(line); match != nil && len(match[1]) == SplitLevel {
			flush()
			current = &Section{Heading: strings.TrimSpace(match[2])}
			continue
		}
		if current != nil {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	flush()

	return sections
}

// Memory returns the whole note as one memory input.
func (n *Note) Memory() models.MemoryInput {
	return models.MemoryInput{Title: n.Title, Content: n.Body, Tags: n.Tags}
}

// SectionMemories returns one memory input per section, titled
// "<note title>: <heading>". A note without sections yields the whole note.
func (n *Note) SectionMemories() []models.MemoryInput {
	if len(n.Sections) == 0 {
		return []models.MemoryInput{n.Memory()}
	}
	out := make([]models.MemoryInput, 0, len(n.Sections))
	for _, s := range n.Sections {
		out = append(out, models.MemoryInput{
			Title:   n.Title + ": " + s.Heading,
			Content: s.Content,
			Tags:    n.Tags,
		})
	}
	return out
}
