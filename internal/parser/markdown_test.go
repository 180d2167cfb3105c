package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		fallback  string
		wantTitle string
		wantBody  string
		wantTags  []string
	}{
		{
			name:      "frontmatter title and tag list",
			content:   "---\ntitle: Deep Work\ntags: [productivity, focus]\n---\nBlock mornings.\n",
			wantTitle: "Deep Work",
			wantBody:  "Block mornings.",
			wantTags:  []string{"productivity", "focus"},
		},
		{
			name:      "h1 becomes title and leaves the body",
			content:   "# React Hooks\n\nuseEffect runs after render.",
			wantTitle: "React Hooks",
			wantBody:  "useEffect runs after render.",
			wantTags:  []string{},
		},
		{
			name:      "comma tags with hashes and duplicates",
			content:   "---\ntags: \"#go, idioms, go\"\n---\n# Contexts\nPass ctx first.",
			wantTitle: "Contexts",
			wantBody:  "Pass ctx first.",
			wantTags:  []string{"go", "idioms"},
		},
		{
			name:      "fallback title",
			content:   "Just some text.",
			fallback:  "scratch",
			wantTitle: "scratch",
			wantBody:  "Just some text.",
			wantTags:  []string{},
		},
		{
			name:      "malformed frontmatter is ignored",
			content:   "---\ntitle: [unclosed\n---\n# Note\nBody",
			wantTitle: "Note",
			wantBody:  "Body",
			wantTags:  []string{},
		},
		{
			name:      "windows line endings",
			content:   "---\r\ntitle: CRLF\r\n---\r\nBody\r\n",
			wantTitle: "CRLF",
			wantBody:  "Body",
			wantTags:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note, err := Parse(tt.content, tt.fallback)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, note.Title)
			assert.Equal(t, tt.wantBody, note.Body)
			assert.Equal(t, tt.wantTags, note.Tags)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, content := range []string{"", "   \n", "# Only a title\n", "---\ntitle: x\n---\n"} {
		_, err := Parse(content, "")
		assert.ErrorIs(t, err, ErrEmptyNote, "content %q", content)
	}
}

func TestSectionMemories(t *testing.T) {
	note, err := Parse("---\ntags: [go]\n---\n# Go Notes\nIntro.\n\n## Interfaces\nImplicit.\n### Detail\nSmall.\n\n## Empty\n\n## Errors\nWrap with %w.\n", "")
	require.NoError(t, err)

	inputs := note.SectionMemories()
	require.Len(t, inputs, 2)

	assert.Equal(t, "Go Notes: Interfaces", inputs[0].Title)
	assert.Equal(t, "Implicit.\n### Detail\nSmall.", inputs[0].Content)
	assert.Equal(t, []string{"go"}, inputs[0].Tags)
	assert.Equal(t, "Go Notes: Errors", inputs[1].Title)
	assert.Equal(t, "Wrap with %w.", inputs[1].Content)
}

func TestSectionMemoriesWithoutSections(t *testing.T) {
	note, err := Parse("# Single\nNo subsections here.", "")
	require.NoError(t, err)

	inputs := note.SectionMemories()
	require.Len(t, inputs, 1)
	assert.Equal(t, note.Memory(), inputs[0])
}
