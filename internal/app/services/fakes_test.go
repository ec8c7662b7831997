package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/eborodin/eventum/internal/app/models"
	"github.com/eborodin/eventum/internal/app/repositories"
	"github.com/eborodin/eventum/internal/db"
	"github.com/eborodin/eventum/internal/pkg/apperrors"
)

// In-memory fakes behind the repository interfaces. The tx-aware methods
// ignore the pgx.Tx handle; fakeTxManager serializes callers with a mutex the
// way the event row lock does in postgres.

type fakeEventRepo struct {
	mu     sync.Mutex
	nextID int64
	events map[int64]*models.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[int64]*models.Event)}
}

func cloneEvent(event *models.Event) *models.Event {
	if event == nil {
		return nil
	}
	clone := *event
	if event.PublishedOn != nil {
		publishedOn := *event.PublishedOn
		clone.PublishedOn = &publishedOn
	}
	return &clone
}

func (r *fakeEventRepo) Create(_ context.Context, event *models.Event) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	stored := cloneEvent(event)
	stored.ID = r.nextID
	r.events[stored.ID] = stored
	return stored.ID, nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id int64) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneEvent(r.events[id]), nil
}

func (r *fakeEventRepo) GetByIDForUpdate(ctx context.Context, _ pgx.Tx, id int64) (*models.Event, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeEventRepo) Update(_ context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.ID] = cloneEvent(event)
	return nil
}

func (r *fakeEventRepo) UpdateState(_ context.Context, id int64, state models.EventState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event, ok := r.events[id]; ok {
		event.State = state
	}
	return nil
}

func (r *fakeEventRepo) UpdateStateTx(ctx context.Context, _ pgx.Tx, id int64, state models.EventState) error {
	return r.UpdateState(ctx, id, state)
}

func (r *fakeEventRepo) Publish(_ context.Context, id int64, publishedOn time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event, ok := r.events[id]; ok {
		event.State = models.EventStatePublished
		if event.PublishedOn == nil {
			event.PublishedOn = &publishedOn
		}
	}
	return nil
}

func (r *fakeEventRepo) ListByInitiator(_ context.Context, initiatorID int64, offset uint64, limit int) ([]*models.Event, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*models.Event
	for _, event := range r.events {
		if event.InitiatorID == initiatorID {
			all = append(all, cloneEvent(event))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, offset, limit), int64(len(all)), nil
}

func (r *fakeEventRepo) Search(_ context.Context, filter *repositories.EventSearchFilter) ([]*models.Event, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.Event
	for _, event := range r.events {
		if event.State != models.EventStatePublished {
			continue
		}
		if filter.Text != nil && *filter.Text != "" {
			needle := strings.ToLower(*filter.Text)
			if !strings.Contains(strings.ToLower(event.Annotation), needle) &&
				!strings.Contains(strings.ToLower(event.Description), needle) {
				continue
			}
		}
		if len(filter.Categories) > 0 && !containsID(filter.Categories, event.CategoryID) {
			continue
		}
		if filter.Paid != nil && event.Paid != *filter.Paid {
			continue
		}
		if filter.RangeStart != nil && event.EventDate.Before(*filter.RangeStart) {
			continue
		}
		if filter.RangeEnd != nil && event.EventDate.After(*filter.RangeEnd) {
			continue
		}
		matched = append(matched, cloneEvent(event))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].EventDate.Before(matched[j].EventDate) })
	return page(matched, filter.Offset, filter.Limit), int64(len(matched)), nil
}

func (r *fakeEventRepo) GetByIDs(_ context.Context, ids []int64) ([]*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var events []*models.Event
	for _, id := range ids {
		if event, ok := r.events[id]; ok {
			events = append(events, cloneEvent(event))
		}
	}
	return events, nil
}

func (r *fakeEventRepo) ExistsByCategory(_ context.Context, categoryID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, event := range r.events {
		if event.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	nextID   int64
	requests map[int64]*models.ParticipationRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[int64]*models.ParticipationRequest)}
}

func cloneRequest(request *models.ParticipationRequest) *models.ParticipationRequest {
	if request == nil {
		return nil
	}
	clone := *request
	return &clone
}

func (r *fakeRequestRepo) Create(_ context.Context, request *models.ParticipationRequest) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	stored := cloneRequest(request)
	stored.ID = r.nextID
	r.requests[stored.ID] = stored
	return stored.ID, nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id int64) (*models.ParticipationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneRequest(r.requests[id]), nil
}

func (r *fakeRequestRepo) ListByRequester(_ context.Context, requesterID int64) ([]*models.ParticipationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var requests []*models.ParticipationRequest
	for _, request := range r.requests {
		if request.RequesterID == requesterID {
			requests = append(requests, cloneRequest(request))
		}
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].ID < requests[j].ID })
	return requests, nil
}

func (r *fakeRequestRepo) ListByEvent(_ context.Context, eventID int64) ([]*models.ParticipationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var requests []*models.ParticipationRequest
	for _, request := range r.requests {
		if request.EventID == eventID {
			requests = append(requests, cloneRequest(request))
		}
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].ID < requests[j].ID })
	return requests, nil
}

func (r *fakeRequestRepo) HasActiveRequest(_ context.Context, eventID, requesterID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, request := range r.requests {
		if request.EventID == eventID && request.RequesterID == requesterID && request.Status.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRequestRepo) CountConfirmed(_ context.Context, eventID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countConfirmedLocked(eventID), nil
}

func (r *fakeRequestRepo) countConfirmedLocked(eventID int64) int {
	count := 0
	for _, request := range r.requests {
		if request.EventID == eventID && request.Status == models.RequestStatusConfirmed {
			count++
		}
	}
	return count
}

func (r *fakeRequestRepo) CountConfirmedByEventIDs(_ context.Context, eventIDs []int64) (map[int64]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[int64]int, len(eventIDs))
	for _, id := range eventIDs {
		if count := r.countConfirmedLocked(id); count > 0 {
			counts[id] = count
		}
	}
	return counts, nil
}

func (r *fakeRequestRepo) UpdateStatus(_ context.Context, id int64, status models.RequestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if request, ok := r.requests[id]; ok {
		request.Status = status
	}
	return nil
}

func (r *fakeRequestRepo) GetByIDTx(ctx context.Context, _ pgx.Tx, id int64) (*models.ParticipationRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeRequestRepo) CountConfirmedTx(ctx context.Context, _ pgx.Tx, eventID int64) (int, error) {
	return r.CountConfirmed(ctx, eventID)
}

func (r *fakeRequestRepo) UpdateStatusTx(ctx context.Context, _ pgx.Tx, id int64, status models.RequestStatus) error {
	return r.UpdateStatus(ctx, id, status)
}

func (r *fakeRequestRepo) RejectPendingTx(_ context.Context, _ pgx.Tx, eventID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rejected int64
	for _, request := range r.requests {
		if request.EventID == eventID && request.Status == models.RequestStatusPending {
			request.Status = models.RequestStatusRejected
			rejected++
		}
	}
	return rejected, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	nextID   int64
	comments map[int64]*models.ModerationComment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[int64]*models.ModerationComment)}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *models.ModerationComment) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.comments {
		if existing.EventID == comment.EventID && !existing.Closed {
			return 0, errors.New("duplicate open moderation comment")
		}
	}
	r.nextID++
	clone := *comment
	clone.ID = r.nextID
	r.comments[clone.ID] = &clone
	return clone.ID, nil
}

func (r *fakeCommentRepo) CreateTx(ctx context.Context, _ pgx.Tx, comment *models.ModerationComment) (int64, error) {
	return r.Create(ctx, comment)
}

func (r *fakeCommentRepo) CloseOpen(_ context.Context, eventID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, comment := range r.comments {
		if comment.EventID == eventID && !comment.Closed {
			comment.Closed = true
		}
	}
	return nil
}

func (r *fakeCommentRepo) CloseOpenTx(ctx context.Context, _ pgx.Tx, eventID int64) error {
	return r.CloseOpen(ctx, eventID)
}

func (r *fakeCommentRepo) GetOpenByEvent(_ context.Context, eventID int64) (*models.ModerationComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, comment := range r.comments {
		if comment.EventID == eventID && !comment.Closed {
			clone := *comment
			return &clone, nil
		}
	}
	return nil, nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	nextID     int64
	categories map[int64]*models.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[int64]*models.Category)}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *models.Category) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.Name == category.Name {
			return 0, apperrors.NewConflictError("category name already in use")
		}
	}
	r.nextID++
	clone := *category
	clone.ID = r.nextID
	r.categories[clone.ID] = &clone
	return clone.ID, nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if category, ok := r.categories[id]; ok {
		clone := *category
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeCategoryRepo) GetByIDs(_ context.Context, ids []int64) ([]*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var categories []*models.Category
	for _, id := range ids {
		if category, ok := r.categories[id]; ok {
			clone := *category
			categories = append(categories, &clone)
		}
	}
	return categories, nil
}

func (r *fakeCategoryRepo) List(_ context.Context, offset uint64, limit int) ([]*models.Category, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*models.Category
	for _, category := range r.categories {
		clone := *category
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, offset, limit), int64(len(all)), nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *category
	r.categories[clone.ID] = &clone
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.categories, id)
	return nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	clone := *user
	clone.ID = r.nextID
	r.users[clone.ID] = &clone
	return clone.ID, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, ids []int64) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []*models.User
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			clone := *user
			users = append(users, &clone)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) List(_ context.Context, ids []int64, offset uint64, limit int) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*models.User
	for _, user := range r.users {
		if len(ids) > 0 && !containsID(ids, user.ID) {
			continue
		}
		clone := *user
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, offset, limit), int64(len(all)), nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

// fakeTxManager serializes transactional sections the way the event row lock
// does in postgres.
type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, nil)
}

// fakeStats records hits and serves canned view counts.
type fakeStats struct {
	mu    sync.Mutex
	hits  []string
	views map[int64]int64
}

func newFakeStats() *fakeStats {
	return &fakeStats{views: make(map[int64]int64)}
}

func (s *fakeStats) Hit(_ context.Context, uri, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits = append(s.hits, uri)
}

func (s *fakeStats) Views(_ context.Context, eventIDs []int64, _ bool) map[int64]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	views := make(map[int64]int64, len(eventIDs))
	for _, id := range eventIDs {
		if count, ok := s.views[id]; ok {
			views[id] = count
		}
	}
	return views
}

func page[T any](items []T, offset uint64, limit int) []T {
	if offset >= uint64(len(items)) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
