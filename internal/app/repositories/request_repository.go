package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eborodin/eventum/internal/app/models"
	"github.com/eborodin/eventum/internal/pkg/apperrors"
	"github.com/eborodin/eventum/internal/pkg/dberrors"
)

const requestColumns = "id, event_id, requester_id, created, status"

// RequestRepository handles database operations for participation requests
type RequestRepository struct {
	db *pgxpool.Pool
}

// NewRequestRepository creates a new RequestRepository
func NewRequestRepository(db *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{db: db}
}

func scanRequest(row pgx.Row) (*models.ParticipationRequest, error) {
	var request models.ParticipationRequest
	err := row.Scan(
		&request.ID,
		&request.EventID,
		&request.RequesterID,
		&request.Created,
		&request.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning request: %w", err)
	}
	return &request, nil
}

// Create inserts a new participation request and returns its ID. A partial
// unique index on (event_id, requester_id) for non-canceled rows backs the
// one-active-request rule; a violation surfaces as a conflict.
func (r *RequestRepository) Create(ctx context.Context, request *models.ParticipationRequest) (int64, error) {
	query := `
		INSERT INTO participation_requests (event_id, requester_id, created, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		request.EventID,
		request.RequesterID,
		request.Created,
		request.Status,
	).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.NewConflictError("an active request for this event already exists")
		}
		return 0, fmt.Errorf("error creating request: %w", err)
	}

	return id, nil
}

// GetByID retrieves a participation request by ID, returning nil when it does
// not exist
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*models.ParticipationRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM participation_requests WHERE id = $1", requestColumns)
	return scanRequest(r.db.QueryRow(ctx, query, id))
}

// ListByRequester retrieves all requests a user has placed, newest first
func (r *RequestRepository) ListByRequester(ctx context.Context, requesterID int64) ([]*models.ParticipationRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM participation_requests WHERE requester_id = $1 ORDER BY created DESC`, requestColumns)
	rows, err := r.db.Query(ctx, query, requesterID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

// ListByEvent retrieves all requests placed for an event, oldest first
func (r *RequestRepository) ListByEvent(ctx context.Context, eventID int64) ([]*models.ParticipationRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM participation_requests WHERE event_id = $1 ORDER BY created ASC`, requestColumns)
	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

// HasActiveRequest checks whether the user already holds a non-canceled
// request for the event
func (r *RequestRepository) HasActiveRequest(ctx context.Context, eventID, requesterID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM participation_requests
			WHERE event_id = $1 AND requester_id = $2 AND status <> $3
		)`, eventID, requesterID, models.RequestStatusCanceled).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking active request: %w", err)
	}
	return exists, nil
}

// CountConfirmed counts confirmed requests for an event
func (r *RequestRepository) CountConfirmed(ctx context.Context, eventID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM participation_requests WHERE event_id = $1 AND status = $2`,
		eventID, models.RequestStatusConfirmed).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting confirmed requests: %w", err)
	}
	return count, nil
}

// CountConfirmedByEventIDs counts confirmed requests per event in one query
func (r *RequestRepository) CountConfirmedByEventIDs(ctx context.Context, eventIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT event_id, COUNT(*)
		FROM participation_requests
		WHERE event_id = ANY($1) AND status = $2
		GROUP BY event_id
	`, eventIDs, models.RequestStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID int64
		var count int
		if err := rows.Scan(&eventID, &count); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		counts[eventID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// UpdateStatus sets the status of a request
func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) error {
	_, err := r.db.Exec(ctx,
		`UPDATE participation_requests SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("error updating request status: %w", err)
	}
	return nil
}

// GetByIDTx retrieves a participation request inside a transaction that
// already holds the event row lock, returning nil when it does not exist
func (r *RequestRepository) GetByIDTx(ctx context.Context, tx pgx.Tx, id int64) (*models.ParticipationRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM participation_requests WHERE id = $1", requestColumns)
	return scanRequest(tx.QueryRow(ctx, query, id))
}

// CountConfirmedTx counts confirmed requests for an event inside a transaction
// that already holds the event row lock
func (r *RequestRepository) CountConfirmedTx(ctx context.Context, tx pgx.Tx, eventID int64) (int, error) {
	var count int
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM participation_requests WHERE event_id = $1 AND status = $2`,
		eventID, models.RequestStatusConfirmed).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting confirmed requests: %w", err)
	}
	return count, nil
}

// UpdateStatusTx sets the status of a request inside a transaction
func (r *RequestRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id int64, status models.RequestStatus) error {
	_, err := tx.Exec(ctx,
		`UPDATE participation_requests SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("error updating request status: %w", err)
	}
	return nil
}

// RejectPendingTx rejects every still-pending request for an event inside a
// transaction. Used for the cascade when the last slot fills.
func (r *RequestRepository) RejectPendingTx(ctx context.Context, tx pgx.Tx, eventID int64) (int64, error) {
	result, err := tx.Exec(ctx,
		`UPDATE participation_requests SET status = $1 WHERE event_id = $2 AND status = $3`,
		models.RequestStatusRejected, eventID, models.RequestStatusPending)
	if err != nil {
		return 0, fmt.Errorf("error rejecting pending requests: %w", err)
	}
	return result.RowsAffected(), nil
}

func collectRequests(rows pgx.Rows) ([]*models.ParticipationRequest, error) {
	var requests []*models.ParticipationRequest
	for rows.Next() {
		var request models.ParticipationRequest
		err := rows.Scan(
			&request.ID,
			&request.EventID,
			&request.RequesterID,
			&request.Created,
			&request.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		requests = append(requests, &request)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}
