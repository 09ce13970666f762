package entity

import "strings"

// Group describes one configured feed group: the set of feed URLs that
// contribute to a single section of the daily brief, plus the focus prompt
// appended to scoring and summarization instructions for that group.
type Group struct {
	ID     string
	URLs   []string
	Prompt string
}

// DisplayTitle renders the group id as a human-readable heading,
// e.g. "montreal_gazette" becomes "Montreal Gazette".
func (g Group) DisplayTitle() string {
	words := strings.Split(strings.ReplaceAll(g.ID, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
