package services

import (
	"context"

	"github.com/eborodin/eventum/internal/app/models"
	"github.com/eborodin/eventum/internal/app/models/dto"
	"github.com/eborodin/eventum/internal/pkg/apperrors"
	"github.com/eborodin/eventum/internal/pkg/helpers"
)

// CompilationService manages curated event compilations
type CompilationService interface {
	Create(ctx context.Context, req *dto.NewCompilationRequest) (*dto.CompilationResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.CompilationResponse, error)
	List(ctx context.Context, pinned *bool, page, size int) (*dto.CompilationListResponse, error)
	AddEvent(ctx context.Context, compilationID, eventID int64) error
	RemoveEvent(ctx context.Context, compilationID, eventID int64) error
	SetPinned(ctx context.Context, id int64, pinned bool) error
	Delete(ctx context.Context, id int64) error
}

type compilationService struct {
	compilations compilationRepository
	events       eventRepository
	categories   categoryRepository
	users        userRepository
	requests     requestRepository
	stats        statsClient
}

// NewCompilationService creates a new CompilationService
func NewCompilationService(
	compilations compilationRepository,
	events eventRepository,
	categories categoryRepository,
	users userRepository,
	requests requestRepository,
	stats statsClient,
) CompilationService {
	return &compilationService{
		compilations: compilations,
		events:       events,
		categories:   categories,
		users:        users,
		requests:     requests,
		stats:        stats,
	}
}

func (s *compilationService) Create(ctx context.Context, req *dto.NewCompilationRequest) (*dto.CompilationResponse, error) {
	for _, eventID := range req.EventIDs {
		event, err := s.events.GetByID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if event == nil {
			return nil, apperrors.NewNotFoundError("event not found")
		}
	}

	compilation := &models.Compilation{Title: req.Title, Pinned: req.Pinned}
	id, err := s.compilations.Create(ctx, compilation, req.EventIDs)
	if err != nil {
		return nil, err
	}
	compilation.ID = id

	return s.toResponse(ctx, compilation)
}

func (s *compilationService) GetByID(ctx context.Context, id int64) (*dto.CompilationResponse, error) {
	compilation, err := s.compilations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if compilation == nil {
		return nil, apperrors.NewNotFoundError("compilation not found")
	}
	return s.toResponse(ctx, compilation)
}

func (s *compilationService) List(ctx context.Context, pinned *bool, page, size int) (*dto.CompilationListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	compilations, total, err := s.compilations.List(ctx, pinned, offset, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CompilationResponse, 0, len(compilations))
	for _, compilation := range compilations {
		response, err := s.toResponse(ctx, compilation)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *response)
	}
	return &dto.CompilationListResponse{
		Compilations:   responses,
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

func (s *compilationService) AddEvent(ctx context.Context, compilationID, eventID int64) error {
	compilation, err := s.compilations.GetByID(ctx, compilationID)
	if err != nil {
		return err
	}
	if compilation == nil {
		return apperrors.NewNotFoundError("compilation not found")
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return apperrors.NewNotFoundError("event not found")
	}

	return s.compilations.AddEvent(ctx, compilationID, eventID)
}

func (s *compilationService) RemoveEvent(ctx context.Context, compilationID, eventID int64) error {
	compilation, err := s.compilations.GetByID(ctx, compilationID)
	if err != nil {
		return err
	}
	if compilation == nil {
		return apperrors.NewNotFoundError("compilation not found")
	}
	return s.compilations.RemoveEvent(ctx, compilationID, eventID)
}

func (s *compilationService) SetPinned(ctx context.Context, id int64, pinned bool) error {
	return s.compilations.SetPinned(ctx, id, pinned)
}

func (s *compilationService) Delete(ctx context.Context, id int64) error {
	return s.compilations.Delete(ctx, id)
}

func (s *compilationService) toResponse(ctx context.Context, compilation *models.Compilation) (*dto.CompilationResponse, error) {
	eventIDs, err := s.compilations.EventIDsByCompilation(ctx, compilation.ID)
	if err != nil {
		return nil, err
	}

	events, err := s.events.GetByIDs(ctx, eventIDs)
	if err != nil {
		return nil, err
	}

	shorts, err := buildShortResponses(ctx, events, s.categories, s.users, s.requests, s.stats)
	if err != nil {
		return nil, err
	}

	return &dto.CompilationResponse{
		ID:     compilation.ID,
		Title:  compilation.Title,
		Pinned: compilation.Pinned,
		Events: shorts,
	}, nil
}
