package models

import "time"

// EventState represents the moderation lifecycle state of an event
type EventState string

const (
	EventStatePending      EventState = "PENDING"
	EventStatePublished    EventState = "PUBLISHED"
	EventStateRejected     EventState = "REJECTED"
	EventStateCanceled     EventState = "CANCELED"
	EventStateReModeration EventState = "RE_MODERATION"
)

// IsValid reports whether the state is one of the known lifecycle states
func (s EventState) IsValid() bool {
	switch s {
	case EventStatePending, EventStatePublished, EventStateRejected,
		EventStateCanceled, EventStateReModeration:
		return true
	}
	return false
}

// Event represents a publishable activity with a capacity-limited attendee pool.
// ParticipantLimit of 0 means the event has no capacity limit.
type Event struct {
	ID                int64      `json:"id" db:"id"`
	Title             string     `json:"title" db:"title"`
	Annotation        string     `json:"annotation" db:"annotation"`
	Description       string     `json:"description" db:"description"`
	Lat               float64    `json:"lat" db:"lat"`
	Lon               float64    `json:"lon" db:"lon"`
	EventDate         time.Time  `json:"eventDate" db:"event_date"`
	CreatedOn         time.Time  `json:"createdOn" db:"created_on"`
	PublishedOn       *time.Time `json:"publishedOn,omitempty" db:"published_on"`
	Paid              bool       `json:"paid" db:"paid"`
	ParticipantLimit  int        `json:"participantLimit" db:"participant_limit"`
	RequestModeration bool       `json:"requestModeration" db:"request_moderation"`
	CategoryID        int64      `json:"categoryId" db:"category_id"`
	InitiatorID       int64      `json:"initiatorId" db:"initiator_id"`
	State             EventState `json:"state" db:"state"`

	// Related entities
	Category  *Category `json:"category,omitempty"`
	Initiator *User     `json:"initiator,omitempty"`
}
