// Package auth holds resource ownership checks. Callers identify themselves
// through path parameters, so ownership is the only access rule the private
// surface enforces.
package auth

import (
	"github.com/eborodin/eventum/internal/app/models"
	"github.com/eborodin/eventum/internal/pkg/apperrors"
)

// OwnershipService validates that a caller owns the resource it addresses
type OwnershipService struct{}

// NewOwnershipService creates a new OwnershipService
func NewOwnershipService() *OwnershipService {
	return &OwnershipService{}
}

// OwnsEvent reports whether the user initiated the event
func (s *OwnershipService) OwnsEvent(event *models.Event, userID int64) bool {
	return event != nil && event.InitiatorID == userID
}

// ValidateEventOwnership returns a not-found error when the event does not
// exist or belongs to someone else. Foreign events are indistinguishable from
// missing ones on the private surface.
func (s *OwnershipService) ValidateEventOwnership(event *models.Event, userID int64) error {
	if !s.OwnsEvent(event, userID) {
		return apperrors.NewNotFoundError("event not found")
	}
	return nil
}
