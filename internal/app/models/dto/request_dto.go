package dto

import "time"

// ParticipationRequestResponse is the wire view of a participation request
type ParticipationRequestResponse struct {
	ID          int64     `json:"id"`
	EventID     int64     `json:"event"`
	RequesterID int64     `json:"requester"`
	Created     time.Time `json:"created"`
	Status      string    `json:"status"`
}
