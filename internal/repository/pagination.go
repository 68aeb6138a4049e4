package repository

import "github.com/maxviazov/scrollwindow/internal/scroll"

// PageRequest is the limit/offset pair a client sends to scroll a listing.
// I keep it intentionally small; filtering lives in EntryFilter.
type PageRequest struct {
	Limit  int
	Offset int64
}

// Position returns the scroll position the request resumes from.
func (p PageRequest) Position() scroll.OffsetPosition {
	return scroll.AtOffset(p.Offset)
}

// Query builds the scroll query for the request, ordered by ascending id so
// offsets stay stable for an append-only table.
func (p PageRequest) Query() scroll.Query {
	return scroll.NewQuery().
		WithLimit(p.Limit).
		WithOffset(p.Offset).
		WithSort(scroll.Order{Property: "id"})
}

// EntryFilter narrows a scroll to a single topic when Topic is set.
type EntryFilter struct {
	Topic string
}
