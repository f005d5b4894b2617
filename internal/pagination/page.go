package pagination

// Built-in bounds applied when Limits is zero-valued.
const (
	DefaultLimit = 20
	MaxLimit     = 50
)

// Limits holds the configured default and hard maximum page size.
type Limits struct {
	Default int
	Max     int
}

// Clamp applies the default for non-positive limits and silently caps
// limits above the maximum. Callers can never force an unbounded page.
func (l Limits) Clamp(limit int) int {
	def, max := l.Default, l.Max
	if def <= 0 {
		def = DefaultLimit
	}
	if max <= 0 {
		max = MaxLimit
	}
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// Request is a page request: an optional resume token plus a limit.
type Request struct {
	Cursor *string
	Limit  int
}

// Page is one page of an ordered listing. NextCursor is nil at the end
// of the collection.
type Page[T any] struct {
	Items      []T
	NextCursor *string
}
