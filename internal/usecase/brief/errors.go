package brief

import "errors"

// ErrNoArticles is returned when no feed produced any item at all.
// An empty day is a fatal condition: publishing a page with every section
// empty would hide an upstream outage behind placeholders.
var ErrNoArticles = errors.New("no feeds returned any items")
