package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eborodin/eventum/internal/app/models"
	"github.com/eborodin/eventum/internal/app/models/dto"
	"github.com/eborodin/eventum/internal/pkg/apperrors"
)

func TestCategoryService(t *testing.T) {
	t.Run("create and fetch", func(t *testing.T) {
		events := newFakeEventRepo()
		service := NewCategoryService(newFakeCategoryRepo(), events)

		created, err := service.Create(context.Background(), &dto.NewCategoryRequest{Name: "concerts"})
		require.NoError(t, err)

		fetched, err := service.GetByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "concerts", fetched.Name)
	})

	t.Run("missing category is not found", func(t *testing.T) {
		service := NewCategoryService(newFakeCategoryRepo(), newFakeEventRepo())

		_, err := service.GetByID(context.Background(), 999)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		service := NewCategoryService(newFakeCategoryRepo(), newFakeEventRepo())

		_, err := service.Create(context.Background(), &dto.NewCategoryRequest{Name: "concerts"})
		require.NoError(t, err)
		_, err = service.Create(context.Background(), &dto.NewCategoryRequest{Name: "concerts"})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("update renames in place", func(t *testing.T) {
		service := NewCategoryService(newFakeCategoryRepo(), newFakeEventRepo())

		created, err := service.Create(context.Background(), &dto.NewCategoryRequest{Name: "concerts"})
		require.NoError(t, err)

		updated, err := service.Update(context.Background(), created.ID, &dto.NewCategoryRequest{Name: "live music"})
		require.NoError(t, err)
		assert.Equal(t, "live music", updated.Name)
	})

	t.Run("delete refuses a referenced category", func(t *testing.T) {
		categories := newFakeCategoryRepo()
		events := newFakeEventRepo()
		service := NewCategoryService(categories, events)

		created, err := service.Create(context.Background(), &dto.NewCategoryRequest{Name: "concerts"})
		require.NoError(t, err)

		_, err = events.Create(context.Background(), &models.Event{
			Title:       "Jazz night",
			CategoryID:  created.ID,
			InitiatorID: 1,
			EventDate:   time.Now().Add(48 * time.Hour),
			State:       models.EventStatePending,
		})
		require.NoError(t, err)

		err = service.Delete(context.Background(), created.ID)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("delete removes an unreferenced category", func(t *testing.T) {
		service := NewCategoryService(newFakeCategoryRepo(), newFakeEventRepo())

		created, err := service.Create(context.Background(), &dto.NewCategoryRequest{Name: "concerts"})
		require.NoError(t, err)

		require.NoError(t, service.Delete(context.Background(), created.ID))
		_, err = service.GetByID(context.Background(), created.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
