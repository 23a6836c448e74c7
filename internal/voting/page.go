package voting

// MaxPageLimit caps the page size accepted by projections.
const MaxPageLimit = 100

// Page selects a window of a projection as seen by Viewer, which is nil
// for anonymous readers.
type Page struct {
	Viewer *Requester
	Page   int
	Limit  int
}

// NewPage normalises page and limit: page < 1 becomes 1, limit < 1 becomes
// defaultLimit, and limit is capped at MaxPageLimit.
func NewPage(viewer *Requester, page, limit, defaultLimit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Viewer: viewer, Page: page, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// HasNextPage reports whether a page that returned n rows may be followed
// by another one.
func (p Page) HasNextPage(n int) bool {
	return n == p.Limit
}
