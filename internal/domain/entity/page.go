package entity

// PageState describes the transition the synchronizer performed for the run's
// page: a missing page is created, an existing one is updated in place.
type PageState string

const (
	PageCreated PageState = "CREATED"
	PageUpdated PageState = "UPDATED"
)

// Page is the single per-date destination document. PageID is the external
// identity assigned by the document store on first creation and reused on
// every later run for the same date, which is what keeps the "at most one
// page per date" invariant.
type Page struct {
	PageID string
	Title  string
	Blocks []Block
	State  PageState
}
