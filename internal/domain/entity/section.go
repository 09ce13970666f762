package entity

// Placeholder texts rendered when a section or the roundup has nothing to show.
// Every expected section always renders something; an empty result is stated
// explicitly rather than silently omitted.
const (
	EmptySectionText = "_No fresh items found._"
	EmptyRoundupText = "_No items met the importance threshold today._"
)

// Section is one feed group's contribution to the day's brief: the surviving
// articles for that group in stable freshest-first order, plus the rendered
// markdown summary and, once the spoken version has been published, the
// resolved audio URL.
//
// A Section with zero surviving articles still exists and renders
// EmptySectionText; it is never dropped from the page.
type Section struct {
	Group           Group
	Articles        []Article
	RenderedSummary string
	AudioRef        string
}

// Empty reports whether the section has no surviving articles.
func (s Section) Empty() bool {
	return len(s.Articles) == 0
}

// Roundup is the synthetic cross-group selection of high-importance articles:
// every scored article whose score meets Threshold, drawn from all groups,
// sorted by score descending with publication time as tie-break.
//
// An empty Roundup still renders EmptyRoundupText rather than being absent.
type Roundup struct {
	Threshold       int
	Articles        []Article
	RenderedSummary string
	AudioRef        string
}

// Empty reports whether no article met the threshold.
func (r Roundup) Empty() bool {
	return len(r.Articles) == 0
}
