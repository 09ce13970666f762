// Package text provides utilities for text processing shared across the
// scoring, summarization and speech adapters.
package text

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CountRunes counts the number of Unicode characters (runes) in the given
// text. Counting runes instead of bytes keeps limits consistent for
// multi-byte characters.
func CountRunes(text string) int {
	return len([]rune(text))
}

// Truncate cuts text to at most limit runes, appending an ellipsis when
// anything was removed.
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

// HTMLToText strips markup from an HTML fragment and collapses whitespace.
// Feed descriptions frequently carry inline HTML; scoring and summarization
// prompts want plain text. Input that is not parseable HTML is returned
// with whitespace collapsed.
func HTMLToText(fragment string) string {
	if !strings.ContainsRune(fragment, '<') {
		return collapseWhitespace(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapseWhitespace(fragment)
	}

	return collapseWhitespace(doc.Text())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
