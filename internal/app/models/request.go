package models

import "time"

// RequestStatus represents the state of a participation request
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusConfirmed RequestStatus = "CONFIRMED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCanceled  RequestStatus = "CANCELED"
)

// IsActive reports whether the request still counts against the
// one-active-request-per-event rule
func (s RequestStatus) IsActive() bool {
	return s != RequestStatusCanceled
}

// ParticipationRequest represents a user's ask to attend an event
type ParticipationRequest struct {
	ID          int64         `json:"id" db:"id"`
	EventID     int64         `json:"event" db:"event_id"`
	RequesterID int64         `json:"requester" db:"requester_id"`
	Created     time.Time     `json:"created" db:"created"`
	Status      RequestStatus `json:"status" db:"status"`
}
