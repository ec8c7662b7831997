package services

import (
	"context"

	"github.com/eborodin/eventum/internal/app/models"
	"github.com/eborodin/eventum/internal/app/models/dto"
	"github.com/eborodin/eventum/internal/pkg/apperrors"
	"github.com/eborodin/eventum/internal/pkg/helpers"
)

// UserService manages user accounts on the admin surface
type UserService interface {
	Create(ctx context.Context, req *dto.NewUserRequest) (*dto.UserResponse, error)
	List(ctx context.Context, ids []int64, page, size int) (*dto.UserListResponse, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	users userRepository
}

// NewUserService creates a new UserService
func NewUserService(users userRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Create(ctx context.Context, req *dto.NewUserRequest) (*dto.UserResponse, error) {
	user := &models.User{Name: req.Name, Email: req.Email}
	id, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return &dto.UserResponse{ID: id, Name: user.Name, Email: user.Email}, nil
}

func (s *userService) List(ctx context.Context, ids []int64, page, size int) (*dto.UserListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	users, total, err := s.users.List(ctx, ids, offset, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.UserResponse{ID: user.ID, Name: user.Name, Email: user.Email})
	}
	return &dto.UserListResponse{
		Users:          responses,
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NewNotFoundError("user not found")
	}
	return s.users.Delete(ctx, id)
}
