// Package entity defines the core domain entities for the daily brief pipeline.
// It contains the fundamental business objects such as Article, Section, Roundup,
// Block and Page, along with their validation rules and domain-specific errors.
package entity

import (
	"net/url"
	"strings"
	"time"
)

// Article represents a single normalized feed item within one run.
// The core fields are immutable after construction; Score and Summary are
// late-bound enrichment results. Enrichment never mutates a shared Article:
// helpers return a modified copy so concurrent enrichment cannot alias state.
type Article struct {
	Title       string
	URL         string
	SourceGroup string
	PublishedAt time.Time
	RawText     string

	// Score is nil until scoring has run for this article.
	Score       *int
	ScoreReason string

	// Summary is empty until summarization has run.
	Summary string
}

// WithScore returns a copy of the article with the score and reason set.
func (a Article) WithScore(score int, reason string) Article {
	a.Score = &score
	a.ScoreReason = reason
	return a
}

// WithRawText returns a copy of the article with RawText replaced.
func (a Article) WithRawText(text string) Article {
	a.RawText = text
	return a
}

// Scored reports whether scoring has run for this article.
func (a Article) Scored() bool {
	return a.Score != nil
}

// DedupKey returns the identity key used for duplicate collapsing:
// the case-insensitive, whitespace-collapsed title joined with the
// canonicalized URL. Two articles with the same key are duplicates.
func (a Article) DedupKey() string {
	return normalizeTitle(a.Title) + "\x00" + CanonicalURL(a.URL)
}

// normalizeTitle lowercases the title and collapses all runs of whitespace
// into single spaces.
func normalizeTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}

// trackingParams are query parameters stripped during URL canonicalization.
// They identify campaigns, not content, so two links differing only in these
// point at the same article.
var trackingParams = map[string]bool{
	"fbclid": true,
	"gclid":  true,
	"ref":    true,
	"source": true,
}

// CanonicalURL normalizes a URL for deduplication: scheme and host are
// lowercased, tracking query parameters (utm_*, fbclid, gclid, ref, source)
// are stripped, the fragment is dropped and a trailing slash is trimmed.
// A URL that cannot be parsed is returned trimmed but otherwise as-is,
// so malformed input still yields a stable key.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for name := range q {
		if strings.HasPrefix(strings.ToLower(name), "utm_") || trackingParams[strings.ToLower(name)] {
			q.Del(name)
		}
	}
	u.RawQuery = q.Encode()

	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}
