// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

import "time"

// Entry is a single record of the append-only journal.
type Entry struct {
	ID        int64     `json:"id" db:"id"`
	Topic     string    `json:"topic" db:"topic"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// EntryWindow is the wire shape of one scrolled window of entries.
// NextOffset is set only when HasMore is true.
type EntryWindow struct {
	Items      []Entry `json:"items"`
	HasMore    bool    `json:"has_more"`
	NextOffset *int64  `json:"next_offset,omitempty"`
}
