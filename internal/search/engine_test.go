package search

import (
	"fmt"
	"strings"
	"testing"

	"github.com/raphaelgruber/secondbrain/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mem(id, title, content string, tags ...string) models.Memory {
	return models.Memory{ID: id, Title: title, Content: content, Tags: tags}
}

func ids(ms []models.Memory) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func TestSearchEmptyQuery(t *testing.T) {
	corpus := []models.Memory{mem("1", "Anything", "at all", "x")}

	for _, q := range []string{"", "   ", "\t\n"} {
		t.Run(fmt.Sprintf("%q", q), func(t *testing.T) {
			got := Search(corpus, q)
			assert.Equal(t, EmptyQueryAnswer, got.Answer)
			assert.NotNil(t, got.References)
			assert.Empty(t, got.References)
		})
	}
}

func TestSearchSingleMatch(t *testing.T) {
	corpus := []models.Memory{mem("1", "Meeting Notes", "Discussed Q3 roadmap", "work")}

	got := Search(corpus, "roadmap")

	require.Len(t, got.References, 1)
	assert.Equal(t, "1", got.References[0].ID)
	assert.Contains(t, got.Answer, "Meeting Notes")
	assert.Contains(t, got.Answer, "Discussed Q3 roadmap")
	assert.Contains(t, got.Answer, "📝")
	assert.NotContains(t, got.Answer, "...")
}

func TestSearchSingleMatchExcerpt(t *testing.T) {
	tests := []struct {
		name     string
		length   int
		ellipsis bool
	}{
		{"shorter than limit", 120, false},
		{"exactly the limit", 300, false},
		{"longer than limit", 301, true},
		{"much longer", 2000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "needle " + strings.Repeat("é", tt.length-len("needle "))
			got := Search([]models.Memory{mem("1", "Long", content)}, "needle")

			assert.Equal(t, tt.ellipsis, strings.HasSuffix(got.Answer, "..."))
			quoted := got.Answer[strings.Index(got.Answer, "needle"):]
			quoted = strings.TrimSuffix(quoted, "...")
			assert.Equal(t, min(tt.length, 300), len([]rune(quoted)))
		})
	}
}

func TestSearchExactTitleRanksFirst(t *testing.T) {
	corpus := []models.Memory{
		mem("a", "Grocery list", "eggs, milk", "home"),
		mem("b", "Kubernetes upgrade plan", "drain nodes first", "ops"),
		mem("c", "Random", "nothing relevant", "misc"),
	}

	got := Search(corpus, "Kubernetes upgrade plan")

	require.NotEmpty(t, got.References)
	assert.Equal(t, "b", got.References[0].ID)
}

func TestSearchScoring(t *testing.T) {
	corpus := []models.Memory{
		mem("tag", "Unrelated", "unrelated", "golang"),
		mem("content", "Unrelated", "notes about golang"),
		mem("title", "golang tips", "unrelated"),
		mem("title+content", "golang", "golang everywhere"),
		mem("all", "golang", "golang", "golang"),
	}

	got := Search(corpus, "golang")

	assert.Equal(t, []string{"all", "title+content", "title", "content", "tag"}, ids(got.References))
}

func TestSearchStableTies(t *testing.T) {
	corpus := []models.Memory{
		mem("first", "Go notes", "x"),
		mem("second", "More go notes", "y"),
		mem("third", "Even more go notes", "z"),
	}

	got := Search(corpus, "notes")

	assert.Equal(t, []string{"first", "second", "third"}, ids(got.References))
}

func TestSearchWordFallback(t *testing.T) {
	corpus := []models.Memory{
		mem("fallback", "Q3", "the roadmap is ready"),
		mem("full", "roadmap review", "meeting"),
		mem("none", "Lunch", "sandwich"),
	}

	got := Search(corpus, "roadmap review")

	// The fallback-only match scores 0 and sorts after the scored one.
	assert.Equal(t, []string{"full", "fallback"}, ids(got.References))
}

func TestSearchWordFallbackIgnoresShortWords(t *testing.T) {
	corpus := []models.Memory{mem("1", "going places", "just some text")}

	got := Search(corpus, "go js")

	assert.Empty(t, got.References)
}

func TestSearchWordFallbackMatchesTags(t *testing.T) {
	corpus := []models.Memory{mem("1", "Closures", "functions capturing scope", "javascript")}

	got := Search(corpus, "learn javascript closures deeply")

	assert.Equal(t, []string{"1"}, ids(got.References))
}

func TestSearchCaseInsensitive(t *testing.T) {
	corpus := []models.Memory{
		mem("1", "JavaScript closures", "inner functions"),
		mem("2", "Notes", "javascript event loop", "JS"),
		mem("3", "Python", "list comprehensions"),
	}

	upper := Search(corpus, "JavaScript")
	lower := Search(corpus, "javascript")

	assert.Equal(t, lower, upper)
	assert.Equal(t, []string{"1", "2"}, ids(upper.References))
}

func TestSearchMultipleMatches(t *testing.T) {
	t.Run("three or fewer", func(t *testing.T) {
		corpus := []models.Memory{
			mem("1", "Alpha", "shared term"),
			mem("2", "Beta", "shared term"),
		}
		got := Search(corpus, "shared")

		assert.Contains(t, got.Answer, "I found 2 memories")
		assert.Contains(t, got.Answer, "📚 Top Results:\n• Alpha\n• Beta\n")
		assert.NotContains(t, got.Answer, "more related memories")
	})

	t.Run("more than three", func(t *testing.T) {
		var corpus []models.Memory
		for i := range 5 {
			corpus = append(corpus, mem(fmt.Sprint(i), fmt.Sprintf("Note %d", i), "shared term"))
		}
		got := Search(corpus, "shared")

		assert.Contains(t, got.Answer, "• Note 0\n• Note 1\n• Note 2\n")
		assert.NotContains(t, got.Answer, "• Note 3")
		assert.Contains(t, got.Answer, "And 2 more related memories.")
	})
}

func TestSearchReferencesCapped(t *testing.T) {
	var corpus []models.Memory
	for i := range 25 {
		corpus = append(corpus, mem(fmt.Sprint(i), "entry", fmt.Sprintf("match %d", i)))
	}

	got := Search(corpus, "match")

	assert.Len(t, got.References, MaxReferences)
	assert.Equal(t, "0", got.References[0].ID)
	assert.Contains(t, got.Answer, "I found 25 memories")
	assert.Contains(t, got.Answer, "And 22 more related memories.")
}

func TestSearchNoMatches(t *testing.T) {
	corpus := []models.Memory{mem("1", "Groceries", "eggs and milk", "home")}

	first := Search(corpus, "zzqqxx")
	second := Search(corpus, "zzqqxx")

	assert.NotEmpty(t, first.Answer)
	assert.Empty(t, first.References)
	assert.Equal(t, first.Answer, second.Answer)
}

func TestSearchTopicFallback(t *testing.T) {
	got := Search(nil, "python")

	want, ok := LookupTopic("python")
	require.True(t, ok)
	assert.Equal(t, want, got.Answer)
	assert.Contains(t, got.Answer, "Python is a high-level")
	assert.Empty(t, got.References)
}

func TestSearchGenericFallback(t *testing.T) {
	got := Search([]models.Memory{}, "zzqqxx")

	assert.Equal(t, 2, strings.Count(got.Answer, "zzqqxx"))
	assert.Contains(t, got.Answer, "💡")
	assert.Empty(t, got.References)
}

func TestSearchGenericFallbackKeepsQueryCase(t *testing.T) {
	got := Search(nil, "  Quux Frobnicator  ")

	assert.Equal(t, 2, strings.Count(got.Answer, `"Quux Frobnicator"`))
}

func TestLookupTopic(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"JS", "JavaScript is the programming language"},
		{"node.js streams", "JavaScript is the programming language"},
		{"React hooks", "React is a JavaScript library"},
		{"being productive", "Productivity is about"},
		{"machine learning", "Effective learning"},
		{"study plan", "Effective learning"},
		{"entrepreneur", "Business and entrepreneurship"},
		{"FITNESS", "Health and wellness"},
		{"artificial intelligence", "Artificial Intelligence (AI)"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, ok := LookupTopic(tt.query)
			require.True(t, ok)
			assert.True(t, strings.HasPrefix(got, tt.want), "got %q", got[:40])
		})
	}

	_, ok := LookupTopic("zzqqxx")
	assert.False(t, ok)
	_, ok = LookupTopic("   ")
	assert.False(t, ok)
}

func TestSearchDoesNotMutateCorpus(t *testing.T) {
	corpus := []models.Memory{
		mem("1", "b match", "x"),
		mem("2", "a match", "match"),
	}
	before := append([]models.Memory(nil), corpus...)

	_ = Search(corpus, "match")

	assert.Equal(t, before, corpus)
}

func TestApology(t *testing.T) {
	got := Apology(" roadmap ")

	assert.Contains(t, got.Answer, `"roadmap"`)
	assert.Contains(t, got.Answer, "❌")
	assert.NotNil(t, got.References)
	assert.Empty(t, got.References)
}
