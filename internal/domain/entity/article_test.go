package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestArticle_LateBoundScore(t *testing.T) {
	article := Article{
		Title:       "Test Article",
		URL:         "https://example.com/article",
		SourceGroup: "bbc",
		PublishedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}

	assert.False(t, article.Scored())
	assert.Nil(t, article.Score)

	scored := article.WithScore(85, "broad impact")

	assert.True(t, scored.Scored())
	assert.Equal(t, 85, *scored.Score)
	assert.Equal(t, "broad impact", scored.ScoreReason)

	// The original value is untouched; enrichment is a functional join.
	assert.False(t, article.Scored())
}

func TestArticle_WithRawText(t *testing.T) {
	article := Article{Title: "A", URL: "https://example.com/a"}

	enriched := article.WithRawText("full body text")

	assert.Equal(t, "full body text", enriched.RawText)
	assert.Equal(t, "", article.RawText)
}

func TestArticle_DedupKey_NormalizesTitle(t *testing.T) {
	a := Article{Title: "Breaking  News\tToday", URL: "https://example.com/x"}
	b := Article{Title: "breaking news today", URL: "https://example.com/x"}

	assert.Equal(t, a.DedupKey(), b.DedupKey())
}

func TestArticle_DedupKey_DistinctURLs(t *testing.T) {
	a := Article{Title: "Same Title", URL: "https://example.com/one"}
	b := Article{Title: "Same Title", URL: "https://example.com/two"}

	assert.NotEqual(t, a.DedupKey(), b.DedupKey())
}

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips utm parameters",
			input: "https://example.com/story?utm_source=rss&utm_medium=feed",
			want:  "https://example.com/story",
		},
		{
			name:  "strips fbclid and keeps content parameters",
			input: "https://example.com/story?id=42&fbclid=abc123",
			want:  "https://example.com/story?id=42",
		},
		{
			name:  "lowercases scheme and host",
			input: "HTTPS://Example.COM/Story",
			want:  "https://example.com/Story",
		},
		{
			name:  "drops fragment",
			input: "https://example.com/story#section-2",
			want:  "https://example.com/story",
		},
		{
			name:  "trims trailing slash",
			input: "https://example.com/story/",
			want:  "https://example.com/story",
		},
		{
			name:  "unparseable input returned trimmed",
			input: "  not a url  ",
			want:  "not a url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalURL(tt.input))
		})
	}
}

func TestGroup_DisplayTitle(t *testing.T) {
	assert.Equal(t, "Montreal Gazette", Group{ID: "montreal_gazette"}.DisplayTitle())
	assert.Equal(t, "Bbc", Group{ID: "bbc"}.DisplayTitle())
}
