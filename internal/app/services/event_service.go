package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/eborodin/eventum/internal/app/auth"
	"github.com/eborodin/eventum/internal/app/models"
	"github.com/eborodin/eventum/internal/app/models/dto"
	"github.com/eborodin/eventum/internal/app/repositories"
	"github.com/eborodin/eventum/internal/pkg/apperrors"
	"github.com/eborodin/eventum/internal/pkg/helpers"
	"github.com/eborodin/eventum/internal/pkg/logger"
)

// Publication requires this much lead time before the event starts.
const publishLeadTime = time.Hour

// EventService manages the event lifecycle: owner-side creation and editing,
// moderation transitions, and the public read surface.
type EventService interface {
	Create(ctx context.Context, userID int64, req *dto.NewEventRequest) (*dto.EventResponse, error)
	Update(ctx context.Context, userID, eventID int64, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	Cancel(ctx context.Context, userID, eventID int64) (*dto.EventResponse, error)
	GetOwn(ctx context.Context, userID, eventID int64) (*dto.EventResponse, error)
	ListOwn(ctx context.Context, userID int64, page, size int) (*dto.EventListResponse, error)
	Publish(ctx context.Context, eventID int64) (*dto.EventResponse, error)
	Reject(ctx context.Context, eventID int64, req *dto.RejectEventRequest) (*dto.EventModerationResponse, error)
	GetPublished(ctx context.Context, eventID int64, clientIP string) (*dto.EventResponse, error)
	Search(ctx context.Context, filter *dto.EventFilterRequest, uri, clientIP string) (*dto.EventListResponse, error)
}

type eventService struct {
	events     eventRepository
	requests   requestRepository
	comments   commentRepository
	categories categoryRepository
	users      userRepository
	ownership  *auth.OwnershipService
	stats      statsClient
	tx         txManager
}

// NewEventService creates a new EventService
func NewEventService(
	events eventRepository,
	requests requestRepository,
	comments commentRepository,
	categories categoryRepository,
	users userRepository,
	ownership *auth.OwnershipService,
	stats statsClient,
	tx txManager,
) EventService {
	return &eventService{
		events:     events,
		requests:   requests,
		comments:   comments,
		categories: categories,
		users:      users,
		ownership:  ownership,
		stats:      stats,
		tx:         tx,
	}
}

func (s *eventService) Create(ctx context.Context, userID int64, req *dto.NewEventRequest) (*dto.EventResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError("user not found")
	}

	category, err := s.categories.GetByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperrors.NewNotFoundError("category not found")
	}

	eventDate, err := helpers.ParseDateTime(req.EventDate)
	if err != nil {
		return nil, err
	}

	requestModeration := true
	if req.RequestModeration != nil {
		requestModeration = *req.RequestModeration
	}

	event := &models.Event{
		Title:             req.Title,
		Annotation:        req.Annotation,
		Description:       req.Description,
		Lat:               req.Location.Lat,
		Lon:               req.Location.Lon,
		EventDate:         eventDate,
		CreatedOn:         time.Now(),
		Paid:              req.Paid,
		ParticipantLimit:  req.ParticipantLimit,
		RequestModeration: requestModeration,
		CategoryID:        req.CategoryID,
		InitiatorID:       userID,
		State:             models.EventStatePending,
	}

	id, err := s.events.Create(ctx, event)
	if err != nil {
		return nil, err
	}
	event.ID = id

	logger.Info().Int64("event_id", id).Int64("initiator_id", userID).Msg("Event created")
	return s.toEventResponse(event, category, &dto.UserShortResponse{ID: user.ID, Name: user.Name}, 0, 0), nil
}

func (s *eventService) Update(ctx context.Context, userID, eventID int64, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.ownership.ValidateEventOwnership(event, userID); err != nil {
		return nil, err
	}

	switch event.State {
	case models.EventStatePending, models.EventStateCanceled, models.EventStateRejected:
	default:
		return nil, apperrors.NewConditionNotMetError(
			fmt.Sprintf("cannot edit event in state %s", event.State))
	}
	wasRejected := event.State == models.EventStateRejected

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Annotation != nil {
		event.Annotation = *req.Annotation
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Lat = req.Location.Lat
		event.Lon = req.Location.Lon
	}
	if req.EventDate != nil {
		eventDate, err := helpers.ParseDateTime(*req.EventDate)
		if err != nil {
			return nil, err
		}
		event.EventDate = eventDate
	}
	if req.Paid != nil {
		event.Paid = *req.Paid
	}
	if req.ParticipantLimit != nil {
		event.ParticipantLimit = *req.ParticipantLimit
	}
	if req.RequestModeration != nil {
		event.RequestModeration = *req.RequestModeration
	}
	if req.CategoryID != nil && *req.CategoryID != event.CategoryID {
		category, err := s.categories.GetByID(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperrors.NewNotFoundError("category not found")
		}
		event.CategoryID = *req.CategoryID
	}

	// An edited rejection goes back to the moderation queue.
	if wasRejected {
		event.State = models.EventStateReModeration
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}

	logger.Info().Int64("event_id", eventID).Str("state", string(event.State)).Msg("Event updated")
	return s.enrichEvent(ctx, event)
}

func (s *eventService) Cancel(ctx context.Context, userID, eventID int64) (*dto.EventResponse, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.ownership.ValidateEventOwnership(event, userID); err != nil {
		return nil, err
	}

	if event.State != models.EventStatePending {
		return nil, apperrors.NewConditionNotMetError(
			fmt.Sprintf("cannot cancel event in state %s", event.State))
	}

	if err := s.events.UpdateState(ctx, eventID, models.EventStateCanceled); err != nil {
		return nil, err
	}
	event.State = models.EventStateCanceled

	return s.enrichEvent(ctx, event)
}

func (s *eventService) GetOwn(ctx context.Context, userID, eventID int64) (*dto.EventResponse, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.ownership.ValidateEventOwnership(event, userID); err != nil {
		return nil, err
	}
	return s.enrichEvent(ctx, event)
}

func (s *eventService) ListOwn(ctx context.Context, userID int64, page, size int) (*dto.EventListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	events, total, err := s.events.ListByInitiator(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}

	shorts, err := s.enrichShort(ctx, events)
	if err != nil {
		return nil, err
	}

	return &dto.EventListResponse{
		Events:         shorts,
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

func (s *eventService) Publish(ctx context.Context, eventID int64) (*dto.EventResponse, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, apperrors.NewNotFoundError("event not found")
	}

	switch event.State {
	case models.EventStatePending, models.EventStateReModeration:
	default:
		return nil, apperrors.NewConditionNotMetError(
			fmt.Sprintf("cannot publish event in state %s", event.State))
	}

	if event.EventDate.Before(time.Now().Add(publishLeadTime)) {
		return nil, apperrors.NewConditionNotMetError("event date is too close to publish")
	}

	if event.State == models.EventStateReModeration {
		if err := s.comments.CloseOpen(ctx, eventID); err != nil {
			return nil, err
		}
	}

	publishedOn := time.Now()
	if err := s.events.Publish(ctx, eventID, publishedOn); err != nil {
		return nil, err
	}
	event.State = models.EventStatePublished
	if event.PublishedOn == nil {
		event.PublishedOn = &publishedOn
	}

	logger.Info().Int64("event_id", eventID).Msg("Event published")
	return s.enrichEvent(ctx, event)
}

func (s *eventService) Reject(ctx context.Context, eventID int64, req *dto.RejectEventRequest) (*dto.EventModerationResponse, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, apperrors.NewNotFoundError("event not found")
	}

	if event.State == models.EventStatePublished {
		return nil, apperrors.NewConditionNotMetError("cannot reject a published event")
	}

	comment := &models.ModerationComment{
		EventID: eventID,
		Text:    req.Comment,
		Created: time.Now(),
	}

	// Closing the previous comment and appending the new one must be one
	// state change; the event row lock serializes concurrent rejections so
	// the one-open-comment index is never tripped.
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		locked, err := s.events.GetByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if locked == nil {
			return apperrors.NewNotFoundError("event not found")
		}
		if locked.State == models.EventStatePublished {
			return apperrors.NewConditionNotMetError("cannot reject a published event")
		}

		if err := s.comments.CloseOpenTx(ctx, tx, eventID); err != nil {
			return err
		}

		commentID, err := s.comments.CreateTx(ctx, tx, comment)
		if err != nil {
			return err
		}
		comment.ID = commentID

		return s.events.UpdateStateTx(ctx, tx, eventID, models.EventStateRejected)
	})
	if err != nil {
		return nil, err
	}
	event.State = models.EventStateRejected

	eventResponse, err := s.enrichEvent(ctx, event)
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("event_id", eventID).Msg("Event rejected")
	return &dto.EventModerationResponse{
		Event: *eventResponse,
		Comment: dto.ModerationCommentResponse{
			ID:      comment.ID,
			EventID: comment.EventID,
			Text:    comment.Text,
			Created: comment.Created,
			Closed:  comment.Closed,
		},
	}, nil
}

func (s *eventService) GetPublished(ctx context.Context, eventID int64, clientIP string) (*dto.EventResponse, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil || event.State != models.EventStatePublished {
		return nil, apperrors.NewNotFoundError("event not found")
	}

	s.stats.Hit(ctx, fmt.Sprintf("/events/%d", eventID), clientIP)

	return s.enrichEvent(ctx, event)
}

func (s *eventService) Search(ctx context.Context, filter *dto.EventFilterRequest, uri, clientIP string) (*dto.EventListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)

	if filter.RangeStart != nil && filter.RangeEnd != nil && filter.RangeEnd.Before(*filter.RangeStart) {
		return nil, apperrors.NewInvalidInputError("rangeEnd is before rangeStart")
	}

	events, total, err := s.events.Search(ctx, &repositories.EventSearchFilter{
		Text:          filter.Text,
		Categories:    filter.Categories,
		Paid:          filter.Paid,
		RangeStart:    filter.RangeStart,
		RangeEnd:      filter.RangeEnd,
		OnlyAvailable: filter.OnlyAvailable,
		Offset:        offset,
		Limit:         limit,
	})
	if err != nil {
		return nil, err
	}

	s.stats.Hit(ctx, uri, clientIP)

	shorts, err := s.enrichShort(ctx, events)
	if err != nil {
		return nil, err
	}

	// The repository orders by event date; the view sort reorders the page.
	if filter.Sort == dto.EventSortViews {
		sort.SliceStable(shorts, func(i, j int) bool {
			return shorts[i].Views > shorts[j].Views
		})
	}

	return &dto.EventListResponse{
		Events:         shorts,
		PaginationInfo: helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}, nil
}

// enrichEvent builds the full view of a single event: category, initiator,
// confirmed-request count and view count.
func (s *eventService) enrichEvent(ctx context.Context, event *models.Event) (*dto.EventResponse, error) {
	category, err := s.categories.GetByID(ctx, event.CategoryID)
	if err != nil {
		return nil, err
	}

	initiator, err := s.users.GetByID(ctx, event.InitiatorID)
	if err != nil {
		return nil, err
	}

	confirmed, err := s.requests.CountConfirmed(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	views := s.stats.Views(ctx, []int64{event.ID}, true)[event.ID]

	var initiatorDTO *dto.UserShortResponse
	if initiator != nil {
		initiatorDTO = &dto.UserShortResponse{ID: initiator.ID, Name: initiator.Name}
	}

	return s.toEventResponse(event, category, initiatorDTO, confirmed, views), nil
}

// enrichShort builds condensed views for a page of events with batched
// lookups.
func (s *eventService) enrichShort(ctx context.Context, events []*models.Event) ([]dto.EventShortResponse, error) {
	return buildShortResponses(ctx, events, s.categories, s.users, s.requests, s.stats)
}

// buildShortResponses is the shared enrichment path for event listings and
// compilation views.
func buildShortResponses(
	ctx context.Context,
	events []*models.Event,
	categoryRepo categoryRepository,
	userRepo userRepository,
	requestRepo requestRepository,
	stats statsClient,
) ([]dto.EventShortResponse, error) {
	shorts := make([]dto.EventShortResponse, 0, len(events))
	if len(events) == 0 {
		return shorts, nil
	}

	eventIDs := make([]int64, 0, len(events))
	categorySet := make(map[int64]struct{})
	initiatorSet := make(map[int64]struct{})
	for _, event := range events {
		eventIDs = append(eventIDs, event.ID)
		categorySet[event.CategoryID] = struct{}{}
		initiatorSet[event.InitiatorID] = struct{}{}
	}

	categories, err := categoryRepo.GetByIDs(ctx, keys(categorySet))
	if err != nil {
		return nil, err
	}
	categoryByID := make(map[int64]*models.Category, len(categories))
	for _, category := range categories {
		categoryByID[category.ID] = category
	}

	initiators, err := userRepo.GetByIDs(ctx, keys(initiatorSet))
	if err != nil {
		return nil, err
	}
	initiatorByID := make(map[int64]*models.User, len(initiators))
	for _, initiator := range initiators {
		initiatorByID[initiator.ID] = initiator
	}

	confirmed, err := requestRepo.CountConfirmedByEventIDs(ctx, eventIDs)
	if err != nil {
		return nil, err
	}

	views := stats.Views(ctx, eventIDs, true)

	for _, event := range events {
		short := dto.EventShortResponse{
			ID:                event.ID,
			Title:             event.Title,
			Annotation:        event.Annotation,
			EventDate:         event.EventDate,
			Paid:              event.Paid,
			ConfirmedRequests: confirmed[event.ID],
			Views:             views[event.ID],
		}
		if category, ok := categoryByID[event.CategoryID]; ok {
			short.Category = &dto.CategoryResponse{ID: category.ID, Name: category.Name}
		}
		if initiator, ok := initiatorByID[event.InitiatorID]; ok {
			short.Initiator = &dto.UserShortResponse{ID: initiator.ID, Name: initiator.Name}
		}
		shorts = append(shorts, short)
	}
	return shorts, nil
}

func (s *eventService) toEventResponse(event *models.Event, category *models.Category, initiator *dto.UserShortResponse, confirmed int, views int64) *dto.EventResponse {
	response := &dto.EventResponse{
		ID:                event.ID,
		Title:             event.Title,
		Annotation:        event.Annotation,
		Description:       event.Description,
		Location:          dto.LocationDTO{Lat: event.Lat, Lon: event.Lon},
		EventDate:         event.EventDate,
		CreatedOn:         event.CreatedOn,
		PublishedOn:       event.PublishedOn,
		Paid:              event.Paid,
		ParticipantLimit:  event.ParticipantLimit,
		RequestModeration: event.RequestModeration,
		State:             string(event.State),
		Initiator:         initiator,
		ConfirmedRequests: confirmed,
		Views:             views,
	}
	if category != nil {
		response.Category = &dto.CategoryResponse{ID: category.ID, Name: category.Name}
	}
	return response
}

func keys(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
