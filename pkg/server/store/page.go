package store

import "time"

// Page is a limit/offset window over an ordered list.
type Page struct {
	Limit  int
	Offset int
}

// TimeRange bounds a query by created_at, inclusive of From and exclusive
// of To. Zero values are open ends.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the range.
func (r TimeRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && !t.Before(r.To) {
		return false
	}
	return true
}
