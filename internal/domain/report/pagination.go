package report

// Pagination defaults used by on-screen reports
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Pagination is the page request as supplied by a caller.
// Zero values mean "not supplied".
type Pagination struct {
	Page  int
	Limit int
}

// IsSet reports whether the caller asked for a specific page or page size
func (p Pagination) IsSet() bool {
	return p.Page > 0 || p.Limit > 0
}

// Normalize fills in missing values with the on-screen defaults
func (p Pagination) Normalize(defaultLimit int) Pagination {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	return p
}

// Window converts a normalized page request into an offset window
func (p Pagination) Window() Window {
	if p.Limit <= 0 {
		return Window{}
	}
	page := p.Page
	if page <= 0 {
		page = DefaultPage
	}
	return Window{Offset: (page - 1) * p.Limit, Limit: p.Limit}
}

// Window is the slice of a result set a query should return.
// A zero Limit means the whole set.
type Window struct {
	Offset int
	Limit  int
}

// Unbounded reports whether the window covers the entire result set
func (w Window) Unbounded() bool {
	return w.Limit <= 0
}

// PageCount returns ceil(total/limit), or 0 when there is nothing to page.
// An unbounded limit puts everything on a single page.
func PageCount(total int64, limit int) int {
	if total <= 0 {
		return 0
	}
	if limit <= 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
