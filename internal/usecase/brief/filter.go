package brief

import (
	"time"

	"daily-brief/internal/domain/entity"
)

// FilterPolicy holds the run-scoped knobs of the freshness and dedup pass.
// Both policy points are configurable because they encode inferred
// conventions, not confirmed business rules: undated items are kept by
// default (fail open, so content is never silently dropped) and the
// duplicate with the longer raw text survives by default.
type FilterPolicy struct {
	Now          time.Time
	Window       time.Duration
	KeepUndated  bool
	PreferLonger bool
}

// FilterStats counts what the filter pass did, for observability.
// Malformed entries are skipped and counted, never fatal.
type FilterStats struct {
	Input      int
	Malformed  int
	Undated    int
	Stale      int
	Duplicates int
	Survivors  int
}

// FilterArticles applies the freshness window and collapses duplicates.
// It is a pure transformation: given identical input order it always
// produces the same output.
//
// Freshness: an article is fresh when now minus its publication time is
// within the window. Articles with no parseable timestamp are kept or
// dropped according to KeepUndated.
//
// Dedup: exactly one article survives per dedup key. When two share a key,
// the one with the longer RawText wins (if PreferLonger), otherwise the
// first encountered; the survivor keeps the first-seen position.
func FilterArticles(articles []entity.Article, policy FilterPolicy) ([]entity.Article, FilterStats) {
	stats := FilterStats{Input: len(articles)}

	survivors := make([]entity.Article, 0, len(articles))
	byKey := make(map[string]int, len(articles))

	for _, a := range articles {
		if a.Title == "" && a.URL == "" {
			stats.Malformed++
			continue
		}

		if a.PublishedAt.IsZero() {
			stats.Undated++
			if !policy.KeepUndated {
				continue
			}
		} else if policy.Now.Sub(a.PublishedAt) > policy.Window {
			stats.Stale++
			continue
		}

		key := a.DedupKey()
		if at, seen := byKey[key]; seen {
			stats.Duplicates++
			if policy.PreferLonger && len(a.RawText) > len(survivors[at].RawText) {
				survivors[at] = a
			}
			continue
		}

		byKey[key] = len(survivors)
		survivors = append(survivors, a)
	}

	stats.Survivors = len(survivors)
	return survivors, stats
}
