package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eborodin/eventum/internal/app/models"
	"github.com/eborodin/eventum/internal/pkg/apperrors"
)

// CompilationRepository handles database operations for event compilations
type CompilationRepository struct {
	db *pgxpool.Pool
}

// NewCompilationRepository creates a new CompilationRepository
func NewCompilationRepository(db *pgxpool.Pool) *CompilationRepository {
	return &CompilationRepository{db: db}
}

// Create inserts a compilation together with its event links in one
// transaction and returns the compilation ID
func (r *CompilationRepository) Create(ctx context.Context, compilation *models.Compilation, eventIDs []int64) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO compilations (title, pinned) VALUES ($1, $2) RETURNING id`,
		compilation.Title, compilation.Pinned).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating compilation: %w", err)
	}

	for _, eventID := range eventIDs {
		_, err = tx.Exec(ctx,
			`INSERT INTO compilation_events (compilation_id, event_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			id, eventID)
		if err != nil {
			return 0, fmt.Errorf("error linking event to compilation: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// GetByID retrieves a compilation by ID, returning nil when it does not exist
func (r *CompilationRepository) GetByID(ctx context.Context, id int64) (*models.Compilation, error) {
	var compilation models.Compilation
	err := r.db.QueryRow(ctx,
		`SELECT id, title, pinned FROM compilations WHERE id = $1`, id).
		Scan(&compilation.ID, &compilation.Title, &compilation.Pinned)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning compilation: %w", err)
	}
	return &compilation, nil
}

// List retrieves a page of compilations, optionally filtered by pinned state
func (r *CompilationRepository) List(ctx context.Context, pinned *bool, offset uint64, limit int) ([]*models.Compilation, int64, error) {
	var total int64
	var rows pgx.Rows
	var err error

	if pinned != nil {
		if err = r.db.QueryRow(ctx,
			`SELECT COUNT(*) FROM compilations WHERE pinned = $1`, *pinned).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("error counting compilations: %w", err)
		}
		rows, err = r.db.Query(ctx,
			`SELECT id, title, pinned FROM compilations WHERE pinned = $1 ORDER BY id OFFSET $2 LIMIT $3`,
			*pinned, offset, limit)
	} else {
		if err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM compilations`).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("error counting compilations: %w", err)
		}
		rows, err = r.db.Query(ctx,
			`SELECT id, title, pinned FROM compilations ORDER BY id OFFSET $1 LIMIT $2`, offset, limit)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var compilations []*models.Compilation
	for rows.Next() {
		var compilation models.Compilation
		if err := rows.Scan(&compilation.ID, &compilation.Title, &compilation.Pinned); err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		compilations = append(compilations, &compilation)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return compilations, total, nil
}

// EventIDsByCompilation retrieves the linked event IDs of a compilation
func (r *CompilationRepository) EventIDsByCompilation(ctx context.Context, compilationID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT event_id FROM compilation_events WHERE compilation_id = $1 ORDER BY event_id`, compilationID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// AddEvent links an event to a compilation
func (r *CompilationRepository) AddEvent(ctx context.Context, compilationID, eventID int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO compilation_events (compilation_id, event_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		compilationID, eventID)
	if err != nil {
		return fmt.Errorf("error linking event to compilation: %w", err)
	}
	return nil
}

// RemoveEvent unlinks an event from a compilation
func (r *CompilationRepository) RemoveEvent(ctx context.Context, compilationID, eventID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM compilation_events WHERE compilation_id = $1 AND event_id = $2`,
		compilationID, eventID)
	if err != nil {
		return fmt.Errorf("error unlinking event from compilation: %w", err)
	}
	return nil
}

// SetPinned pins or unpins a compilation
func (r *CompilationRepository) SetPinned(ctx context.Context, id int64, pinned bool) error {
	result, err := r.db.Exec(ctx,
		`UPDATE compilations SET pinned = $1 WHERE id = $2`, pinned, id)
	if err != nil {
		return fmt.Errorf("error updating compilation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes a compilation together with its event links
func (r *CompilationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM compilations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting compilation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
