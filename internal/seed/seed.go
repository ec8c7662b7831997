package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/eborodin/eventum/internal/app/models"
	"github.com/eborodin/eventum/internal/app/repositories"
	"github.com/eborodin/eventum/internal/pkg/apperrors"
)

// CreateDefaultData creates the default category when the table is empty so a
// fresh deployment can accept events immediately.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	categoryRepo := repositories.NewCategoryRepository(dbPool)

	categories, total, err := categoryRepo.List(ctx, 0, 1)
	if err != nil {
		return err
	}
	if total > 0 || len(categories) > 0 {
		return nil
	}

	lgr.Info().Msg("Creating default category...")
	_, err = categoryRepo.Create(ctx, &models.Category{Name: "General"})
	if err != nil && !errors.Is(err, apperrors.ErrConflict) {
		lgr.Error().Err(err).Msg("Error creating default category")
		return err
	}
	return nil
}
