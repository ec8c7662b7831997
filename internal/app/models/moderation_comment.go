package models

import "time"

// ModerationComment is an organizer-facing note attached to an event when a
// moderator rejects it or sends it back for re-moderation. At most one
// comment per event may be open at any time.
type ModerationComment struct {
	ID      int64     `json:"id" db:"id"`
	EventID int64     `json:"eventId" db:"event_id"`
	Text    string    `json:"text" db:"text"`
	Created time.Time `json:"created" db:"created"`
	Closed  bool      `json:"closed" db:"closed"`
}
