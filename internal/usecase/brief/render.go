package brief

import (
	"fmt"
	"strings"

	"daily-brief/internal/domain/entity"
)

// RoundupAudioTitle is the heading above the roundup's audio embed.
const RoundupAudioTitle = "Roundup (High-importance only)"

// AudioUnavailableText is rendered in place of an audio embed whose artifact
// was never committed, so the page never carries a dangling reference.
const AudioUnavailableText = "_Audio unavailable._"

// SummaryUnavailableText is rendered when summarization failed for a section
// after retries. The section still appears; the failure is stated.
const SummaryUnavailableText = "_Summary unavailable._"

// SectionAudioTitle returns the heading above a section's audio embed,
// e.g. "Montreal Gazette – Section Audio".
func SectionAudioTitle(g entity.Group) string {
	return g.DisplayTitle() + " – Section Audio"
}

// SectionHeading returns the markdown heading opening a section's summary.
func SectionHeading(g entity.Group) string {
	return "## " + g.DisplayTitle()
}

// RenderRoundupMarkdown builds the roundup's markdown. Unlike section
// summaries this is pure formatting, no model call: one bullet per selected
// article with its group, date and score, followed by the URL. An empty
// roundup renders the explicit placeholder instead.
func RenderRoundupMarkdown(r entity.Roundup, groups []entity.Group) string {
	if r.Empty() {
		return "## Roundup\n" + entity.EmptyRoundupText
	}

	titles := make(map[string]string, len(groups))
	for _, g := range groups {
		titles[g.ID] = g.DisplayTitle()
	}

	lines := []string{"## Roundup"}
	for _, a := range r.Articles {
		groupTitle := titles[a.SourceGroup]
		if groupTitle == "" {
			groupTitle = a.SourceGroup
		}
		date := ""
		if !a.PublishedAt.IsZero() {
			date = a.PublishedAt.Format("2006-01-02")
		}
		lines = append(lines,
			fmt.Sprintf("- **[%s] %s** (Date: %s, Score: %d)\n  %s",
				groupTitle, a.Title, date, *a.Score, a.URL))
	}
	return strings.Join(lines, "\n")
}
