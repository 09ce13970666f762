// Package summarizer renders section summaries with an LLM. Two providers
// are supported, Claude (Anthropic) and OpenAI, selected by configuration;
// both produce the same markdown bullet-list shape.
package summarizer

import (
	"fmt"
	"strings"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/utils/text"
)

const (
	// maxExcerptRunes caps the article body included per story in the
	// summarization prompt.
	maxExcerptRunes = 1500

	instruction = `You are writing one section of a daily news brief. Summarize the stories below as a markdown bulleted list: one "- " bullet per story, starting with the bolded story title, followed by one or two plain sentences of summary. Output only the bullets, no heading and no closing remarks.`
)

// buildPrompt renders the summarization instruction, the group focus and the
// article digest into a single user prompt.
func buildPrompt(articles []entity.Article, focus string) string {
	var b strings.Builder
	b.WriteString(instruction)
	if focus != "" {
		b.WriteString("\n\nReader focus: ")
		b.WriteString(focus)
	}
	b.WriteString("\n\nStories:\n")
	for _, a := range articles {
		date := ""
		if !a.PublishedAt.IsZero() {
			date = a.PublishedAt.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "- **%s** (Date: %s)\n  %s\n", a.Title, date, a.URL)
		if a.RawText != "" {
			b.WriteString("  ")
			b.WriteString(text.Truncate(a.RawText, maxExcerptRunes))
			b.WriteString("\n")
		}
	}
	return b.String()
}
