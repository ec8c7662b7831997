// Package services holds the application logic. Services consume narrow,
// locally declared repository interfaces so tests can substitute in-memory
// fakes for the postgres implementations.
package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/eborodin/eventum/internal/app/models"
	"github.com/eborodin/eventum/internal/app/repositories"
	"github.com/eborodin/eventum/internal/db"
)

type eventRepository interface {
	Create(ctx context.Context, event *models.Event) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	UpdateState(ctx context.Context, id int64, state models.EventState) error
	UpdateStateTx(ctx context.Context, tx pgx.Tx, id int64, state models.EventState) error
	Publish(ctx context.Context, id int64, publishedOn time.Time) error
	ListByInitiator(ctx context.Context, initiatorID int64, offset uint64, limit int) ([]*models.Event, int64, error)
	Search(ctx context.Context, filter *repositories.EventSearchFilter) ([]*models.Event, int64, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Event, error)
	ExistsByCategory(ctx context.Context, categoryID int64) (bool, error)
}

type requestRepository interface {
	Create(ctx context.Context, request *models.ParticipationRequest) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ParticipationRequest, error)
	GetByIDTx(ctx context.Context, tx pgx.Tx, id int64) (*models.ParticipationRequest, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]*models.ParticipationRequest, error)
	ListByEvent(ctx context.Context, eventID int64) ([]*models.ParticipationRequest, error)
	HasActiveRequest(ctx context.Context, eventID, requesterID int64) (bool, error)
	CountConfirmed(ctx context.Context, eventID int64) (int, error)
	CountConfirmedByEventIDs(ctx context.Context, eventIDs []int64) (map[int64]int, error)
	UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) error
	CountConfirmedTx(ctx context.Context, tx pgx.Tx, eventID int64) (int, error)
	UpdateStatusTx(ctx context.Context, tx pgx.Tx, id int64, status models.RequestStatus) error
	RejectPendingTx(ctx context.Context, tx pgx.Tx, eventID int64) (int64, error)
}

type commentRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, comment *models.ModerationComment) (int64, error)
	CloseOpen(ctx context.Context, eventID int64) error
	CloseOpenTx(ctx context.Context, tx pgx.Tx, eventID int64) error
}

type categoryRepository interface {
	Create(ctx context.Context, category *models.Category) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Category, error)
	List(ctx context.Context, offset uint64, limit int) ([]*models.Category, int64, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
}

type userRepository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error)
	List(ctx context.Context, ids []int64, offset uint64, limit int) ([]*models.User, int64, error)
	Delete(ctx context.Context, id int64) error
}

type compilationRepository interface {
	Create(ctx context.Context, compilation *models.Compilation, eventIDs []int64) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Compilation, error)
	List(ctx context.Context, pinned *bool, offset uint64, limit int) ([]*models.Compilation, int64, error)
	EventIDsByCompilation(ctx context.Context, compilationID int64) ([]int64, error)
	AddEvent(ctx context.Context, compilationID, eventID int64) error
	RemoveEvent(ctx context.Context, compilationID, eventID int64) error
	SetPinned(ctx context.Context, id int64, pinned bool) error
	Delete(ctx context.Context, id int64) error
}

type txManager interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

type statsClient interface {
	Hit(ctx context.Context, uri, ip string)
	Views(ctx context.Context, eventIDs []int64, unique bool) map[int64]int64
}
