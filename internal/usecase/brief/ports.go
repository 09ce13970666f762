package brief

import (
	"context"
	"time"

	"daily-brief/internal/domain/entity"
)

// FeedItem represents a single item from an RSS/Atom feed.
// A zero PublishedAt means the feed carried no parseable timestamp.
type FeedItem struct {
	Title       string
	URL         string
	Content     string
	PublishedAt time.Time
}

// FeedFetcher is an interface for fetching RSS/Atom feeds from a URL.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]FeedItem, error)
}

// ContentFetcher fetches full article text for items whose feed content is
// too short to score or summarize well. Optional: a nil ContentFetcher
// disables enhancement.
type ContentFetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

// Scorer assigns an importance score in [0,100] plus a short reason to one
// article. A per-item failure leaves the article unscored; it never aborts
// the run.
type Scorer interface {
	Score(ctx context.Context, article entity.Article, focus string) (int, string, error)
}

// Summarizer turns a section's articles into the markdown summary body
// (the constrained subset understood by the block converter). The heading
// line is added by the caller.
type Summarizer interface {
	Summarize(ctx context.Context, articles []entity.Article, focus string) (string, error)
}

// SpeechSynthesizer converts summary text into spoken audio bytes (mp3).
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// AudioConverter transcodes synthesized mp3 audio into the ogg variant the
// page embeds. Conversion is an external collaborator: when nil, the mp3
// artifact is referenced directly.
type AudioConverter interface {
	ToOgg(ctx context.Context, mp3 []byte) ([]byte, error)
}

// ArtifactPublisher durably stores artifact bytes under a repo-relative path
// and resolves the externally reachable URL for committed paths. URL must
// only be trusted for paths Publish has already accepted: the publisher
// keeps an in-run ledger, and the page builder never references audio whose
// publish did not complete.
type ArtifactPublisher interface {
	Publish(ctx context.Context, relPath string, data []byte) error
	URL(relPath string) string
	Committed(relPath string) bool
}
