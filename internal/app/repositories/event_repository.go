package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eborodin/eventum/internal/app/models"
)

const eventColumns = "id, title, annotation, description, lat, lon, event_date, created_on, published_on, paid, participant_limit, request_moderation, category_id, initiator_id, state"

// EventSearchFilter narrows the public event search. Only published events
// are ever returned.
type EventSearchFilter struct {
	Text          *string
	Categories    []int64
	Paid          *bool
	RangeStart    *time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
	Offset        uint64
	Limit         int
}

// EventRepository handles database operations for events
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var event models.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Annotation,
		&event.Description,
		&event.Lat,
		&event.Lon,
		&event.EventDate,
		&event.CreatedOn,
		&event.PublishedOn,
		&event.Paid,
		&event.ParticipantLimit,
		&event.RequestModeration,
		&event.CategoryID,
		&event.InitiatorID,
		&event.State,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning event: %w", err)
	}
	return &event, nil
}

// Create inserts a new event and returns its ID
func (r *EventRepository) Create(ctx context.Context, event *models.Event) (int64, error) {
	query := `
		INSERT INTO events (title, annotation, description, lat, lon, event_date, created_on, paid, participant_limit, request_moderation, category_id, initiator_id, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		event.Title,
		event.Annotation,
		event.Description,
		event.Lat,
		event.Lon,
		event.EventDate,
		event.CreatedOn,
		event.Paid,
		event.ParticipantLimit,
		event.RequestModeration,
		event.CategoryID,
		event.InitiatorID,
		event.State,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating event: %w", err)
	}

	return id, nil
}

// GetByID retrieves an event by ID, returning nil when it does not exist
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := fmt.Sprintf("SELECT %s FROM events WHERE id = $1", eventColumns)
	return scanEvent(r.db.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves an event inside a transaction while taking a row
// lock on it. Concurrent confirmations for the same event serialize on this
// lock; different events never contend.
func (r *EventRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.Event, error) {
	query := fmt.Sprintf("SELECT %s FROM events WHERE id = $1 FOR UPDATE", eventColumns)
	return scanEvent(tx.QueryRow(ctx, query, id))
}

// Update replaces the mutable fields of an event
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	query := squirrel.Update("events").
		Set("title", event.Title).
		Set("annotation", event.Annotation).
		Set("description", event.Description).
		Set("lat", event.Lat).
		Set("lon", event.Lon).
		Set("event_date", event.EventDate).
		Set("paid", event.Paid).
		Set("participant_limit", event.ParticipantLimit).
		Set("request_moderation", event.RequestModeration).
		Set("category_id", event.CategoryID).
		Set("state", event.State).
		Where("id = ?", event.ID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("no rows affected")
	}

	return nil
}

// UpdateState sets only the lifecycle state of an event
func (r *EventRepository) UpdateState(ctx context.Context, id int64, state models.EventState) error {
	_, err := r.db.Exec(ctx, `UPDATE events SET state = $1 WHERE id = $2`, state, id)
	if err != nil {
		return fmt.Errorf("error updating event state: %w", err)
	}
	return nil
}

// UpdateStateTx is UpdateState inside a transaction
func (r *EventRepository) UpdateStateTx(ctx context.Context, tx pgx.Tx, id int64, state models.EventState) error {
	_, err := tx.Exec(ctx, `UPDATE events SET state = $1 WHERE id = $2`, state, id)
	if err != nil {
		return fmt.Errorf("error updating event state: %w", err)
	}
	return nil
}

// Publish marks an event published and stamps the publication time. The
// publication timestamp is written exactly once on this transition.
func (r *EventRepository) Publish(ctx context.Context, id int64, publishedOn time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE events SET state = $1, published_on = $2 WHERE id = $3 AND published_on IS NULL`,
		models.EventStatePublished, publishedOn, id)
	if err != nil {
		return fmt.Errorf("error publishing event: %w", err)
	}
	return nil
}

// ListByInitiator retrieves a page of events owned by a user
func (r *EventRepository) ListByInitiator(ctx context.Context, initiatorID int64, offset uint64, limit int) ([]*models.Event, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM events WHERE initiator_id = $1`, initiatorID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting events: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM events WHERE initiator_id = $1 ORDER BY created_on DESC OFFSET $2 LIMIT $3`, eventColumns)
	rows, err := r.db.Query(ctx, query, initiatorID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	events, err := collectEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// Search retrieves a page of published events matching the filter, ordered by
// event date
func (r *EventRepository) Search(ctx context.Context, filter *EventSearchFilter) ([]*models.Event, int64, error) {
	base := squirrel.Select().
		From("events e").
		Where("e.state = ?", models.EventStatePublished).
		PlaceholderFormat(squirrel.Dollar)

	if filter.Text != nil && *filter.Text != "" {
		pattern := "%" + *filter.Text + "%"
		base = base.Where(squirrel.Or{
			squirrel.ILike{"e.annotation": pattern},
			squirrel.ILike{"e.description": pattern},
		})
	}
	if len(filter.Categories) > 0 {
		base = base.Where(squirrel.Eq{"e.category_id": filter.Categories})
	}
	if filter.Paid != nil {
		base = base.Where(squirrel.Eq{"e.paid": *filter.Paid})
	}
	if filter.RangeStart != nil {
		base = base.Where("e.event_date >= ?", *filter.RangeStart)
	}
	if filter.RangeEnd != nil {
		base = base.Where("e.event_date <= ?", *filter.RangeEnd)
	}
	if filter.OnlyAvailable {
		base = base.Where(squirrel.Expr(
			"(e.participant_limit = 0 OR (SELECT COUNT(*) FROM participation_requests pr WHERE pr.event_id = e.id AND pr.status = 'CONFIRMED') < e.participant_limit)"))
	}

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting events: %w", err)
	}

	pageSQL, pageArgs, err := base.
		Columns(prefixedEventColumns()).
		OrderBy("e.event_date ASC").
		Offset(filter.Offset).
		Limit(uint64(filter.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	events, err := collectEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// GetByIDs retrieves events by their IDs, in no particular order
func (r *EventRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Event, error) {
	if len(ids) == 0 {
		return []*models.Event{}, nil
	}

	query := squirrel.Select(eventColumns).
		From("events").
		Where(squirrel.Eq{"id": ids}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// ExistsByCategory checks if any event references the category
func (r *EventRepository) ExistsByCategory(ctx context.Context, categoryID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM events WHERE category_id = $1)`, categoryID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking events by category: %w", err)
	}
	return exists, nil
}

func prefixedEventColumns() string {
	return "e.id, e.title, e.annotation, e.description, e.lat, e.lon, e.event_date, e.created_on, e.published_on, e.paid, e.participant_limit, e.request_moderation, e.category_id, e.initiator_id, e.state"
}

func collectEvents(rows pgx.Rows) ([]*models.Event, error) {
	var events []*models.Event
	for rows.Next() {
		var event models.Event
		err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Annotation,
			&event.Description,
			&event.Lat,
			&event.Lon,
			&event.EventDate,
			&event.CreatedOn,
			&event.PublishedOn,
			&event.Paid,
			&event.ParticipantLimit,
			&event.RequestModeration,
			&event.CategoryID,
			&event.InitiatorID,
			&event.State,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
