package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/eborodin/eventum/internal/app/auth"
	"github.com/eborodin/eventum/internal/app/models"
	"github.com/eborodin/eventum/internal/app/models/dto"
	"github.com/eborodin/eventum/internal/pkg/apperrors"
	"github.com/eborodin/eventum/internal/pkg/logger"
)

// RequestService manages participation requests: admission checks on creation,
// requester-side cancellation, and the owner-side confirm/reject engine.
type RequestService interface {
	Create(ctx context.Context, requesterID, eventID int64) (*dto.ParticipationRequestResponse, error)
	Cancel(ctx context.Context, requesterID, requestID int64) (*dto.ParticipationRequestResponse, error)
	ListOwn(ctx context.Context, requesterID int64) ([]dto.ParticipationRequestResponse, error)
	ListForEvent(ctx context.Context, ownerID, eventID int64) ([]dto.ParticipationRequestResponse, error)
	Confirm(ctx context.Context, ownerID, eventID, requestID int64) (*dto.ParticipationRequestResponse, error)
	Reject(ctx context.Context, ownerID, eventID, requestID int64) (*dto.ParticipationRequestResponse, error)
}

type requestService struct {
	requests  requestRepository
	events    eventRepository
	users     userRepository
	ownership *auth.OwnershipService
	tx        txManager
}

// NewRequestService creates a new RequestService
func NewRequestService(
	requests requestRepository,
	events eventRepository,
	users userRepository,
	ownership *auth.OwnershipService,
	tx txManager,
) RequestService {
	return &requestService{
		requests:  requests,
		events:    events,
		users:     users,
		ownership: ownership,
		tx:        tx,
	}
}

// Create admits a participation request. The checks run in a fixed order so
// a request that trips several rules always reports the same failure.
func (s *requestService) Create(ctx context.Context, requesterID, eventID int64) (*dto.ParticipationRequestResponse, error) {
	duplicate, err := s.requests.HasActiveRequest(ctx, eventID, requesterID)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, apperrors.NewConflictError("an active request for this event already exists")
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, apperrors.NewNotFoundError("event not found")
	}

	if event.InitiatorID == requesterID {
		return nil, apperrors.NewConditionNotMetError("initiator cannot request participation in own event")
	}

	if event.State != models.EventStatePublished {
		return nil, apperrors.NewConditionNotMetError("event is not published")
	}

	if event.ParticipantLimit > 0 {
		confirmed, err := s.requests.CountConfirmed(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if confirmed >= event.ParticipantLimit {
			return nil, apperrors.NewConditionNotMetError("participant limit reached")
		}
	}

	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		return nil, apperrors.NewNotFoundError("user not found")
	}

	status := models.RequestStatusPending
	if !event.RequestModeration {
		status = models.RequestStatusConfirmed
	}

	request := &models.ParticipationRequest{
		EventID:     eventID,
		RequesterID: requesterID,
		Created:     time.Now(),
		Status:      status,
	}
	id, err := s.requests.Create(ctx, request)
	if err != nil {
		return nil, err
	}
	request.ID = id

	logger.Info().
		Int64("request_id", id).
		Int64("event_id", eventID).
		Str("status", string(status)).
		Msg("Participation request created")
	return toRequestResponse(request), nil
}

// Cancel withdraws the requester's own request regardless of its status.
func (s *requestService) Cancel(ctx context.Context, requesterID, requestID int64) (*dto.ParticipationRequestResponse, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperrors.NewNotFoundError("request not found")
	}

	if request.RequesterID != requesterID {
		return nil, apperrors.NewConditionNotMetError("only the requester can cancel the request")
	}

	if err := s.requests.UpdateStatus(ctx, requestID, models.RequestStatusCanceled); err != nil {
		return nil, err
	}
	request.Status = models.RequestStatusCanceled

	return toRequestResponse(request), nil
}

func (s *requestService) ListOwn(ctx context.Context, requesterID int64) ([]dto.ParticipationRequestResponse, error) {
	requests, err := s.requests.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return toRequestResponses(requests), nil
}

func (s *requestService) ListForEvent(ctx context.Context, ownerID, eventID int64) ([]dto.ParticipationRequestResponse, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.ownership.ValidateEventOwnership(event, ownerID); err != nil {
		return nil, err
	}

	requests, err := s.requests.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return toRequestResponses(requests), nil
}

// Confirm accepts a pending request against the event's capacity. The
// capacity steps run inside one transaction holding the event row lock, so
// concurrent confirmations for the same event serialize and the confirmed
// count can never pass the participant limit. Filling the last slot rejects
// every remaining pending request in the same transaction. Confirming an
// already-confirmed request is a no-op.
func (s *requestService) Confirm(ctx context.Context, ownerID, eventID, requestID int64) (*dto.ParticipationRequestResponse, error) {
	event, request, err := s.loadOwnedEventRequest(ctx, ownerID, eventID, requestID)
	if err != nil {
		return nil, err
	}

	// Without a limit or without moderation nothing needs confirming.
	if event.ParticipantLimit == 0 || !event.RequestModeration {
		return toRequestResponse(request), nil
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		locked, err := s.events.GetByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if locked == nil {
			return apperrors.NewNotFoundError("event not found")
		}

		// Re-read under the lock: only a still-pending request takes a slot.
		current, err := s.requests.GetByIDTx(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if current == nil || current.EventID != eventID {
			return apperrors.NewNotFoundError("request not found")
		}
		if current.Status == models.RequestStatusConfirmed {
			// A repeated confirmation holds no new slot and must not
			// re-trigger the cascade.
			return nil
		}
		if current.Status != models.RequestStatusPending {
			return apperrors.NewConditionNotMetError("only pending requests can be confirmed")
		}

		confirmed, err := s.requests.CountConfirmedTx(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if confirmed >= locked.ParticipantLimit {
			return apperrors.NewConflictError("participant limit exhausted")
		}

		if err := s.requests.UpdateStatusTx(ctx, tx, requestID, models.RequestStatusConfirmed); err != nil {
			return err
		}

		if confirmed+1 == locked.ParticipantLimit {
			rejected, err := s.requests.RejectPendingTx(ctx, tx, eventID)
			if err != nil {
				return err
			}
			if rejected > 0 {
				logger.Info().
					Int64("event_id", eventID).
					Int64("rejected", rejected).
					Msg("Participant limit filled, pending requests rejected")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	request, err = s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return toRequestResponse(request), nil
}

// Reject declines a request unconditionally after the existence checks.
func (s *requestService) Reject(ctx context.Context, ownerID, eventID, requestID int64) (*dto.ParticipationRequestResponse, error) {
	_, request, err := s.loadOwnedEventRequest(ctx, ownerID, eventID, requestID)
	if err != nil {
		return nil, err
	}

	if err := s.requests.UpdateStatus(ctx, requestID, models.RequestStatusRejected); err != nil {
		return nil, err
	}
	request.Status = models.RequestStatusRejected

	return toRequestResponse(request), nil
}

func (s *requestService) loadOwnedEventRequest(ctx context.Context, ownerID, eventID, requestID int64) (*models.Event, *models.ParticipationRequest, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.ownership.ValidateEventOwnership(event, ownerID); err != nil {
		return nil, nil, err
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if request == nil || request.EventID != eventID {
		return nil, nil, apperrors.NewNotFoundError("request not found")
	}

	return event, request, nil
}

func toRequestResponse(request *models.ParticipationRequest) *dto.ParticipationRequestResponse {
	return &dto.ParticipationRequestResponse{
		ID:          request.ID,
		EventID:     request.EventID,
		RequesterID: request.RequesterID,
		Created:     request.Created,
		Status:      string(request.Status),
	}
}

func toRequestResponses(requests []*models.ParticipationRequest) []dto.ParticipationRequestResponse {
	responses := make([]dto.ParticipationRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, *toRequestResponse(request))
	}
	return responses
}
