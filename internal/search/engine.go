// Package search implements keyword search over a user's memories and the
// templated answer that accompanies the ranked references.
package search

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/raphaelgruber/secondbrain/internal/models"
)

const (
	// MaxReferences caps the number of memories returned with an answer.
	MaxReferences = 10

	// excerptLength is the number of content characters quoted for a single hit.
	excerptLength = 300

	// topTitles is the number of titles listed when several memories match.
	topTitles = 3

	// minWordLength is the shortest query word used by the word fallback.
	minWordLength = 3
)

// Signal weights. A memory's score is the sum of the signals that fire.
const (
	titleWeight   = 3
	contentWeight = 2
	tagWeight     = 1
)

// EmptyQueryAnswer is returned for blank queries.
const EmptyQueryAnswer = "Please provide a search query to find relevant memories from your knowledge base."

type candidate struct {
	memory models.Memory
	score  int
}

// Search ranks corpus against query and synthesizes an answer.
// It never fails: a fault during the scan yields the apology answer.
func Search(corpus []models.Memory, query string) (result models.SearchResult) {
	defer func() {
		if r := recover(); r != nil {
			result = Apology(query)
		}
	}()

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return models.SearchResult{Answer: EmptyQueryAnswer, References: []models.Memory{}}
	}

	candidates := rank(corpus, strings.ToLower(trimmed))

	refs := make([]models.Memory, 0, min(len(candidates), MaxReferences))
	for _, c := range candidates[:min(len(candidates), MaxReferences)] {
		refs = append(refs, c.memory)
	}

	return models.SearchResult{
		Answer:     synthesize(candidates, trimmed),
		References: refs,
	}
}

// Apology is the answer used when the corpus could not be scanned.
func Apology(query string) models.SearchResult {
	return models.SearchResult{
		Answer:     fmt.Sprintf("❌ I encountered an error while searching for %q. Please try your search again.", strings.TrimSpace(query)),
		References: []models.Memory{},
	}
}

// rank returns the candidates for q (already lower-cased) sorted by descending
// score. Equal scores keep corpus order.
func rank(corpus []models.Memory, q string) []candidate {
	words := queryWords(q)

	var candidates []candidate
	for _, m := range corpus {
		title := strings.ToLower(m.Title)
		content := strings.ToLower(m.Content)
		tags := lowerAll(m.Tags)

		score := 0
		if strings.Contains(title, q) {
			score += titleWeight
		}
		if strings.Contains(content, q) {
			score += contentWeight
		}
		if anyContains(tags, q) {
			score += tagWeight
		}

		if score > 0 || wordMatch(words, title, content, tags) {
			candidates = append(candidates, candidate{memory: m, score: score})
		}
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return b.score - a.score
	})
	return candidates
}

// queryWords splits q on whitespace and keeps words long enough for the fallback.
func queryWords(q string) []string {
	var words []string
	for _, w := range strings.Fields(q) {
		if utf8.RuneCountInString(w) >= minWordLength {
			words = append(words, w)
		}
	}
	return words
}

func wordMatch(words []string, title, content string, tags []string) bool {
	for _, w := range words {
		if strings.Contains(title, w) || strings.Contains(content, w) || anyContains(tags, w) {
			return true
		}
	}
	return false
}

func anyContains(values []string, sub string) bool {
	for _, v := range values {
		if strings.Contains(v, sub) {
			return true
		}
	}
	return false
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

// synthesize picks the answer template by candidate count.
func synthesize(candidates []candidate, query string) string {
	switch len(candidates) {
	case 0:
		if text, ok := LookupTopic(query); ok {
			return text
		}
		return genericAnswer(query)
	case 1:
		return singleAnswer(candidates[0].memory)
	default:
		return multiAnswer(candidates)
	}
}

func singleAnswer(m models.Memory) string {
	return fmt.Sprintf("Based on your stored knowledge, I found one relevant memory:\n\n📝 %s\n\n%s",
		m.Title, excerpt(m.Content, excerptLength))
}

func multiAnswer(candidates []candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I found %d memories related to your search in your knowledge base:\n\n", len(candidates))
	b.WriteString("📚 Top Results:\n")
	for _, c := range candidates[:min(len(candidates), topTitles)] {
		fmt.Fprintf(&b, "• %s\n", c.memory.Title)
	}
	if extra := len(candidates) - topTitles; extra > 0 {
		fmt.Fprintf(&b, "\nAnd %d more related memories.\n", extra)
	}
	b.WriteString("\nThese memories contain your personal insights on this topic.")
	return b.String()
}

func genericAnswer(query string) string {
	return fmt.Sprintf(`I don't have anything about "%s" in your stored memories yet. Here's how you could research it yourself:

• Start with the key concepts and fundamentals
• Look into current trends and developments
• Collect practical applications and examples
• Find expert opinions and trusted resources

💡 Suggestion: once you've learned more about "%s", add your insights to your Second Brain so you can find them again later.`,
		query, query)
}

// excerpt returns the first n characters of s, with "..." appended when s is longer.
func excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
