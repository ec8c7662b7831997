package dto

import "time"

// LocationDTO is a geographic point of an event
type LocationDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewEventRequest is the owner-side payload for creating an event.
// EventDate travels as a string so a malformed value can be rejected as
// invalid input before any state is touched.
type NewEventRequest struct {
	Title             string      `json:"title" binding:"required,min=3,max=120"`
	Annotation        string      `json:"annotation" binding:"required,min=20,max=2000"`
	Description       string      `json:"description" binding:"required,min=20,max=7000"`
	Location          LocationDTO `json:"location" binding:"required"`
	EventDate         string      `json:"eventDate" binding:"required"`
	Paid              bool        `json:"paid"`
	ParticipantLimit  int         `json:"participantLimit" binding:"min=0"`
	RequestModeration *bool       `json:"requestModeration"`
	CategoryID        int64       `json:"category" binding:"required"`
}

// UpdateEventRequest carries a partial change set; unset fields are left
// unchanged.
type UpdateEventRequest struct {
	Title             *string      `json:"title,omitempty" binding:"omitempty,min=3,max=120"`
	Annotation        *string      `json:"annotation,omitempty" binding:"omitempty,min=20,max=2000"`
	Description       *string      `json:"description,omitempty" binding:"omitempty,min=20,max=7000"`
	Location          *LocationDTO `json:"location,omitempty"`
	EventDate         *string      `json:"eventDate,omitempty"`
	Paid              *bool        `json:"paid,omitempty"`
	ParticipantLimit  *int         `json:"participantLimit,omitempty" binding:"omitempty,min=0"`
	RequestModeration *bool        `json:"requestModeration,omitempty"`
	CategoryID        *int64       `json:"category,omitempty"`
}

// RejectEventRequest is the moderator payload for rejecting an event
type RejectEventRequest struct {
	Comment string `json:"comment" binding:"required,min=3,max=2000"`
}

// EventResponse is the full event view with derived counters
type EventResponse struct {
	ID                int64              `json:"id"`
	Title             string             `json:"title"`
	Annotation        string             `json:"annotation"`
	Description       string             `json:"description"`
	Location          LocationDTO        `json:"location"`
	EventDate         time.Time          `json:"eventDate"`
	CreatedOn         time.Time          `json:"createdOn"`
	PublishedOn       *time.Time         `json:"publishedOn,omitempty"`
	Paid              bool               `json:"paid"`
	ParticipantLimit  int                `json:"participantLimit"`
	RequestModeration bool               `json:"requestModeration"`
	State             string             `json:"state"`
	Category          *CategoryResponse  `json:"category,omitempty"`
	Initiator         *UserShortResponse `json:"initiator,omitempty"`
	ConfirmedRequests int                `json:"confirmedRequests"`
	Views             int64              `json:"views"`
}

// EventShortResponse is the condensed event view used in listings and
// compilations
type EventShortResponse struct {
	ID                int64              `json:"id"`
	Title             string             `json:"title"`
	Annotation        string             `json:"annotation"`
	EventDate         time.Time          `json:"eventDate"`
	Paid              bool               `json:"paid"`
	Category          *CategoryResponse  `json:"category,omitempty"`
	Initiator         *UserShortResponse `json:"initiator,omitempty"`
	ConfirmedRequests int                `json:"confirmedRequests"`
	Views             int64              `json:"views"`
}

// EventListResponse is a page of events
type EventListResponse struct {
	Events         []EventShortResponse `json:"events"`
	PaginationInfo PaginationInfo       `json:"pagination"`
}

// EventModerationResponse couples a rejected event with the moderation
// comment that explains the decision
type EventModerationResponse struct {
	Event   EventResponse             `json:"event"`
	Comment ModerationCommentResponse `json:"comment"`
}

// ModerationCommentResponse is the wire view of a moderation comment
type ModerationCommentResponse struct {
	ID      int64     `json:"id"`
	EventID int64     `json:"eventId"`
	Text    string    `json:"text"`
	Created time.Time `json:"created"`
	Closed  bool      `json:"closed"`
}

// Sort orders accepted by the public event search
const (
	EventSortEventDate = "EVENT_DATE"
	EventSortViews     = "VIEWS"
)

// EventFilterRequest carries the public search filters
type EventFilterRequest struct {
	Text          *string
	Categories    []int64
	Paid          *bool
	RangeStart    *time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
	Sort          string
	Page          int
	PageSize      int
}
