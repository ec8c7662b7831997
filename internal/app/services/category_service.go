package services

import (
	"context"

	"github.com/eborodin/eventum/internal/app/models"
	"github.com/eborodin/eventum/internal/app/models/dto"
	"github.com/eborodin/eventum/internal/pkg/apperrors"
	"github.com/eborodin/eventum/internal/pkg/helpers"
)

// CategoryService manages event categories
type CategoryService interface {
	Create(ctx context.Context, req *dto.NewCategoryRequest) (*dto.CategoryResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.CategoryResponse, error)
	List(ctx context.Context, page, size int) ([]dto.CategoryResponse, dto.PaginationInfo, error)
	Update(ctx context.Context, id int64, req *dto.NewCategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, id int64) error
}

type categoryService struct {
	categories categoryRepository
	events     eventRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categories categoryRepository, events eventRepository) CategoryService {
	return &categoryService{categories: categories, events: events}
}

func (s *categoryService) Create(ctx context.Context, req *dto.NewCategoryRequest) (*dto.CategoryResponse, error) {
	category := &models.Category{Name: req.Name}
	id, err := s.categories.Create(ctx, category)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: id, Name: category.Name}, nil
}

func (s *categoryService) GetByID(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperrors.NewNotFoundError("category not found")
	}
	return &dto.CategoryResponse{ID: category.ID, Name: category.Name}, nil
}

func (s *categoryService) List(ctx context.Context, page, size int) ([]dto.CategoryResponse, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	categories, total, err := s.categories.List(ctx, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, dto.CategoryResponse{ID: category.ID, Name: category.Name})
	}
	return responses, helpers.NewPaginationInfo(total, page, size), nil
}

func (s *categoryService) Update(ctx context.Context, id int64, req *dto.NewCategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperrors.NewNotFoundError("category not found")
	}

	category.Name = req.Name
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: category.ID, Name: category.Name}, nil
}

// Delete removes a category unless events still reference it.
func (s *categoryService) Delete(ctx context.Context, id int64) error {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return apperrors.NewNotFoundError("category not found")
	}

	inUse, err := s.events.ExistsByCategory(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return apperrors.NewConflictError("category is referenced by events")
	}

	return s.categories.Delete(ctx, id)
}
