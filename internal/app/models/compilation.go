package models

// Compilation is a curated, optionally pinned selection of events
type Compilation struct {
	ID     int64  `json:"id" db:"id"`
	Title  string `json:"title" db:"title"`
	Pinned bool   `json:"pinned" db:"pinned"`

	// Related entities
	Events []*Event `json:"events,omitempty"`
}
