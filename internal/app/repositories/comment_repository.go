package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eborodin/eventum/internal/app/models"
)

// CommentRepository handles database operations for moderation comments
type CommentRepository struct {
	db *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

// CreateTx inserts a new open moderation comment inside a transaction that
// already holds the event row lock and returns its ID. A partial unique index
// keeps at most one open comment per event.
func (r *CommentRepository) CreateTx(ctx context.Context, tx pgx.Tx, comment *models.ModerationComment) (int64, error) {
	query := `
		INSERT INTO moderation_comments (event_id, text, created, closed)
		VALUES ($1, $2, $3, false)
		RETURNING id
	`

	var id int64
	err := tx.QueryRow(ctx, query, comment.EventID, comment.Text, comment.Created).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating moderation comment: %w", err)
	}
	return id, nil
}

// CloseOpen closes the open comment of an event, if any
func (r *CommentRepository) CloseOpen(ctx context.Context, eventID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE moderation_comments SET closed = true WHERE event_id = $1 AND NOT closed`, eventID)
	if err != nil {
		return fmt.Errorf("error closing moderation comment: %w", err)
	}
	return nil
}

// CloseOpenTx is CloseOpen inside a transaction
func (r *CommentRepository) CloseOpenTx(ctx context.Context, tx pgx.Tx, eventID int64) error {
	_, err := tx.Exec(ctx,
		`UPDATE moderation_comments SET closed = true WHERE event_id = $1 AND NOT closed`, eventID)
	if err != nil {
		return fmt.Errorf("error closing moderation comment: %w", err)
	}
	return nil
}

// GetOpenByEvent retrieves the open comment of an event, returning nil when
// there is none
func (r *CommentRepository) GetOpenByEvent(ctx context.Context, eventID int64) (*models.ModerationComment, error) {
	var comment models.ModerationComment
	err := r.db.QueryRow(ctx, `
		SELECT id, event_id, text, created, closed
		FROM moderation_comments
		WHERE event_id = $1 AND NOT closed
	`, eventID).Scan(&comment.ID, &comment.EventID, &comment.Text, &comment.Created, &comment.Closed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning moderation comment: %w", err)
	}
	return &comment, nil
}
