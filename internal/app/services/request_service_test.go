package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eborodin/eventum/internal/app/auth"
	"github.com/eborodin/eventum/internal/app/models"
	"github.com/eborodin/eventum/internal/pkg/apperrors"
)

type requestFixture struct {
	service  RequestService
	events   *fakeEventRepo
	requests *fakeRequestRepo
	users    *fakeUserRepo
}

func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()
	fixture := &requestFixture{
		events:   newFakeEventRepo(),
		requests: newFakeRequestRepo(),
		users:    newFakeUserRepo(),
	}
	fixture.service = NewRequestService(
		fixture.requests,
		fixture.events,
		fixture.users,
		auth.NewOwnershipService(),
		&fakeTxManager{},
	)
	return fixture
}

func (f *requestFixture) addUser(t *testing.T, name string) int64 {
	t.Helper()
	id, err := f.users.Create(context.Background(), &models.User{Name: name, Email: name + "@example.com"})
	require.NoError(t, err)
	return id
}

func (f *requestFixture) addEvent(t *testing.T, initiatorID int64, state models.EventState, limit int, moderation bool) int64 {
	t.Helper()
	id, err := f.events.Create(context.Background(), &models.Event{
		Title:             "Morning run",
		Annotation:        "A gentle five kilometer run along the riverside",
		Description:       "We meet at the north gate and keep an easy conversational pace",
		EventDate:         time.Now().Add(48 * time.Hour),
		CreatedOn:         time.Now(),
		ParticipantLimit:  limit,
		RequestModeration: moderation,
		CategoryID:        1,
		InitiatorID:       initiatorID,
		State:             state,
	})
	require.NoError(t, err)
	return id
}

func (f *requestFixture) addRequest(t *testing.T, eventID, requesterID int64, status models.RequestStatus) int64 {
	t.Helper()
	id, err := f.requests.Create(context.Background(), &models.ParticipationRequest{
		EventID:     eventID,
		RequesterID: requesterID,
		Created:     time.Now(),
		Status:      status,
	})
	require.NoError(t, err)
	return id
}

func TestCreateRequest(t *testing.T) {
	t.Run("moderated event leaves request pending", func(t *testing.T) {
		f := newRequestFixture(t)
		owner := f.addUser(t, "owner")
		requester := f.addUser(t, "requester")
		eventID := f.addEvent(t, owner, models.EventStatePublished, 10, true)

		request, err := f.service.Create(context.Background(), requester, eventID)
		require.NoError(t, err)
		assert.Equal(t, string(models.RequestStatusPending), request.Status)
		assert.Equal(t, eventID, request.EventID)
		assert.Equal(t, requester, request.RequesterID)
	})

	t.Run("unmoderated event confirms immediately", func(t *testing.T) {
		f := newRequestFixture(t)
		owner := f.addUser(t, "owner")
		requester := f.addUser(t, "requester")
		eventID := f.addEvent(t, owner, models.EventStatePublished, 10, false)

		request, err := f.service.Create(context.Background(), requester, eventID)
		require.NoError(t, err)
		assert.Equal(t, string(models.RequestStatusConfirmed), request.Status)
	})

	t.Run("duplicate active request conflicts", func(t *testing.T) {
		f := newRequestFixture(t)
		owner := f.addUser(t, "owner")
		requester := f.addUser(t, "requester")
		eventID := f.addEvent(t, owner, models.EventStatePublished, 10, true)
		f.addRequest(t, eventID, requester, models.RequestStatusPending)

		_, err := f.service.Create(context.Background(), requester, eventID)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("canceled request does not block a new one", func(t *testing.T) {
		f := newRequestFixture(t)
		owner := f.addUser(t, "owner")
		requester := f.addUser(t, "requester")
		eventID := f.addEvent(t, owner, models.EventStatePublished, 10, true)
		f.addRequest(t, eventID, requester, models.RequestStatusCanceled)

		_, err := f.service.Create(context.Background(), requester, eventID)
		assert.NoError(t, err)
	})

	t.Run("missing event is not found", func(t *testing.T) {
		f := newRequestFixture(t)
		requester := f.addUser(t, "requester")

		_, err := f.service.Create(context.Background(), requester, 999)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("initiator cannot request own event", func(t *testing.T) {
		f := newRequestFixture(t)
		owner := f.addUser(t, "owner")
		eventID := f.addEvent(t, owner, models.EventStatePublished, 10, true)

		_, err := f.service.Create(context.Background(), owner, eventID)
		assert.ErrorIs(t, err, apperrors.ErrConditionNotMet)
	})

	t.Run("unpublished event refuses requests", func(t *testing.T) {
		f := newRequestFixture(t)
		owner := f.addUser(t, "owner")
		requester := f.addUser(t, "requester")

		for _, state := range []models.EventState{
			models.EventStatePending,
			models.EventStateRejected,
			models.EventStateCanceled,
			models.EventStateReModeration,
		} {
			eventID := f.addEvent(t, owner, state, 10, true)
			_, err := f.service.Create(context.Background(), requester, eventID)
			assert.ErrorIs(t, err, apperrors.ErrConditionNotMet, "state %s", state)
		}
	})

	t.Run("full event refuses requests", func(t *testing.T) {
		f := newRequestFixture(t)
		owner := f.addUser(t, "owner")
		first := f.addUser(t, "first")
		second := f.addUser(t, "second")
		eventID := f.addEvent(t, owner, models.EventStatePublished, 1, true)
		f.addRequest(t, eventID, first, models.RequestStatusConfirmed)

		_, err := f.service.Create(context.Background(), second, eventID)
		assert.ErrorIs(t, err, apperrors.ErrConditionNotMet)
	})

	t.Run("zero limit never fills", func(t *testing.T) {
		f := newRequestFixture(t)
		owner := f.addUser(t, "owner")
		first := f.addUser(t, "first")
		second := f.addUser(t, "second")
		eventID := f.addEvent(t, owner, models.EventStatePublished, 0, true)
		f.addRequest(t, eventID, first, models.RequestStatusConfirmed)

		_, err := f.service.Create(context.Background(), second, eventID)
		assert.NoError(t, err)
	})

	t.Run("missing requester is not found", func(t *testing.T) {
		f := newRequestFixture(t)
		owner := f.addUser(t, "owner")
		eventID := f.addEvent(t, owner, models.EventStatePublished, 10, true)

		_, err := f.service.Create(context.Background(), 999, eventID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestCancelRequest(t *testing.T) {
	t.Run("requester cancels regardless of status", func(t *testing.T) {
		f := newRequestFixture(t)
		owner := f.addUser(t, "owner")
		requester := f.addUser(t, "requester")
		eventID := f.addEvent(t, owner, models.EventStatePublished, 10, true)
		requestID := f.addRequest(t, eventID, requester, models.RequestStatusConfirmed)

		request, err := f.service.Cancel(context.Background(), requester, requestID)
		require.NoError(t, err)
		assert.Equal(t, string(models.RequestStatusCanceled), request.Status)
	})

	t.Run("missing request is not found", func(t *testing.T) {
		f := newRequestFixture(t)
		requester := f.addUser(t, "requester")

		_, err := f.service.Cancel(context.Background(), requester, 999)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("only the requester can cancel", func(t *testing.T) {
		f := newRequestFixture(t)
		owner := f.addUser(t, "owner")
		requester := f.addUser(t, "requester")
		stranger := f.addUser(t, "stranger")
		eventID := f.addEvent(t, owner, models.EventStatePublished, 10, true)
		requestID := f.addRequest(t, eventID, requester, models.RequestStatusPending)

		_, err := f.service.Cancel(context.Background(), stranger, requestID)
		assert.ErrorIs(t, err, apperrors.ErrConditionNotMet)
	})
}

func TestConfirmRequest(t *testing.T) {
	t.Run("confirms a pending request", func(t *testing.T) {
		f := newRequestFixture(t)
		owner := f.addUser(t, "owner")
		requester := f.addUser(t, "requester")
		eventID := f.addEvent(t, owner, models.EventStatePublished, 5, true)
		requestID := f.addRequest(t, eventID, requester, models.RequestStatusPending)

		request, err := f.service.Confirm(context.Background(), owner, eventID, requestID)
		require.NoError(t, err)
		assert.Equal(t, string(models.RequestStatusConfirmed), request.Status)
	})

	t.Run("unlimited event needs no confirmation", func(t *testing.T) {
		f := newRequestFixture(t)
		owner := f.addUser(t, "owner")
		requester := f.addUser(t, "requester")
		eventID := f.addEvent(t, owner, models.EventStatePublished, 0, true)
		requestID := f.addRequest(t, eventID, requester, models.RequestStatusPending)

		request, err := f.service.Confirm(context.Background(), owner, eventID, requestID)
		require.NoError(t, err)
		assert.Equal(t, string(models.RequestStatusPending), request.Status)
	})

	t.Run("foreign event is indistinguishable from missing", func(t *testing.T) {
		f := newRequestFixture(t)
		owner := f.addUser(t, "owner")
		stranger := f.addUser(t, "stranger")
		requester := f.addUser(t, "requester")
		eventID := f.addEvent(t, owner, models.EventStatePublished, 5, true)
		requestID := f.addRequest(t, eventID, requester, models.RequestStatusPending)

		_, err := f.service.Confirm(context.Background(), stranger, eventID, requestID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("request of another event is not found", func(t *testing.T) {
		f := newRequestFixture(t)
		owner := f.addUser(t, "owner")
		requester := f.addUser(t, "requester")
		eventID := f.addEvent(t, owner, models.EventStatePublished, 5, true)
		otherEventID := f.addEvent(t, owner, models.EventStatePublished, 5, true)
		requestID := f.addRequest(t, otherEventID, requester, models.RequestStatusPending)

		_, err := f.service.Confirm(context.Background(), owner, eventID, requestID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("re-confirming with free slots leaves others pending", func(t *testing.T) {
		f := newRequestFixture(t)
		owner := f.addUser(t, "owner")
		confirmed := f.addUser(t, "confirmed")
		eventID := f.addEvent(t, owner, models.EventStatePublished, 2, true)
		confirmedRequest := f.addRequest(t, eventID, confirmed, models.RequestStatusConfirmed)

		var pending []int64
		for _, name := range []string{"second", "third"} {
			userID := f.addUser(t, name)
			pending = append(pending, f.addRequest(t, eventID, userID, models.RequestStatusPending))
		}

		request, err := f.service.Confirm(context.Background(), owner, eventID, confirmedRequest)
		require.NoError(t, err)
		assert.Equal(t, string(models.RequestStatusConfirmed), request.Status)

		count, err := f.requests.CountConfirmed(context.Background(), eventID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		for _, pendingRequest := range pending {
			untouched, err := f.requests.GetByID(context.Background(), pendingRequest)
			require.NoError(t, err)
			assert.Equal(t, models.RequestStatusPending, untouched.Status)
		}
	})

	t.Run("re-confirming at the limit is a no-op", func(t *testing.T) {
		f := newRequestFixture(t)
		owner := f.addUser(t, "owner")
		confirmed := f.addUser(t, "confirmed")
		waiting := f.addUser(t, "waiting")
		eventID := f.addEvent(t, owner, models.EventStatePublished, 1, true)
		confirmedRequest := f.addRequest(t, eventID, confirmed, models.RequestStatusConfirmed)
		waitingRequest := f.addRequest(t, eventID, waiting, models.RequestStatusPending)

		request, err := f.service.Confirm(context.Background(), owner, eventID, confirmedRequest)
		require.NoError(t, err)
		assert.Equal(t, string(models.RequestStatusConfirmed), request.Status)

		untouched, err := f.requests.GetByID(context.Background(), waitingRequest)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusPending, untouched.Status)
	})

	t.Run("canceled request cannot be confirmed", func(t *testing.T) {
		f := newRequestFixture(t)
		owner := f.addUser(t, "owner")
		requester := f.addUser(t, "requester")
		eventID := f.addEvent(t, owner, models.EventStatePublished, 5, true)
		requestID := f.addRequest(t, eventID, requester, models.RequestStatusCanceled)

		_, err := f.service.Confirm(context.Background(), owner, eventID, requestID)
		assert.ErrorIs(t, err, apperrors.ErrConditionNotMet)
	})

	t.Run("exhausted limit conflicts", func(t *testing.T) {
		f := newRequestFixture(t)
		owner := f.addUser(t, "owner")
		first := f.addUser(t, "first")
		second := f.addUser(t, "second")
		eventID := f.addEvent(t, owner, models.EventStatePublished, 1, true)
		f.addRequest(t, eventID, first, models.RequestStatusConfirmed)
		requestID := f.addRequest(t, eventID, second, models.RequestStatusPending)

		_, err := f.service.Confirm(context.Background(), owner, eventID, requestID)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("filling the last slot rejects the remaining pending requests", func(t *testing.T) {
		f := newRequestFixture(t)
		owner := f.addUser(t, "owner")
		eventID := f.addEvent(t, owner, models.EventStatePublished, 1, true)

		winner := f.addUser(t, "winner")
		winnerRequest := f.addRequest(t, eventID, winner, models.RequestStatusPending)

		var losers []int64
		for _, name := range []string{"second", "third", "fourth"} {
			userID := f.addUser(t, name)
			losers = append(losers, f.addRequest(t, eventID, userID, models.RequestStatusPending))
		}

		request, err := f.service.Confirm(context.Background(), owner, eventID, winnerRequest)
		require.NoError(t, err)
		assert.Equal(t, string(models.RequestStatusConfirmed), request.Status)

		for _, loserRequest := range losers {
			loser, err := f.requests.GetByID(context.Background(), loserRequest)
			require.NoError(t, err)
			assert.Equal(t, models.RequestStatusRejected, loser.Status)
		}
	})
}

func TestRejectRequest(t *testing.T) {
	f := newRequestFixture(t)
	owner := f.addUser(t, "owner")
	requester := f.addUser(t, "requester")
	eventID := f.addEvent(t, owner, models.EventStatePublished, 5, true)
	requestID := f.addRequest(t, eventID, requester, models.RequestStatusPending)

	request, err := f.service.Reject(context.Background(), owner, eventID, requestID)
	require.NoError(t, err)
	assert.Equal(t, string(models.RequestStatusRejected), request.Status)
}

// Concurrent confirmations must never push the confirmed count past the
// participant limit.
func TestConfirmContention(t *testing.T) {
	const limit = 3
	const contenders = 10

	f := newRequestFixture(t)
	owner := f.addUser(t, "owner")
	eventID := f.addEvent(t, owner, models.EventStatePublished, limit, true)

	requestIDs := make([]int64, 0, contenders)
	for i := 0; i < contenders; i++ {
		userID := f.addUser(t, "contender")
		requestIDs = append(requestIDs, f.addRequest(t, eventID, userID, models.RequestStatusPending))
	}

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i, requestID := range requestIDs {
		wg.Add(1)
		go func(i int, requestID int64) {
			defer wg.Done()
			_, errs[i] = f.service.Confirm(context.Background(), owner, eventID, requestID)
		}(i, requestID)
	}
	wg.Wait()

	confirmed, err := f.requests.CountConfirmed(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, limit, confirmed)

	failures := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, apperrors.ErrConflict)
			failures++
		}
	}
	assert.Equal(t, contenders-limit, failures)

	// Nothing may be left pending once the limit has filled.
	remaining, err := f.requests.ListByEvent(context.Background(), eventID)
	require.NoError(t, err)
	for _, request := range remaining {
		assert.NotEqual(t, models.RequestStatusPending, request.Status)
	}
}
