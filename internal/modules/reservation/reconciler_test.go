package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotelbooking/internal/config"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, ev domain.ReservationEvent) {
	m.Called(ctx, ev)
}

// failingRooms breaks room status writes for one room.
type failingRooms struct {
	RoomRepository
	roomID int64
}

func (f failingRooms) UpdateStatus(ctx context.Context, id int64, status domain.RoomStatus, now time.Time) error {
	if id == f.roomID {
		return errors.New("disk full")
	}
	return f.RoomRepository.UpdateStatus(ctx, id, status, now)
}

func TestReconciler_ReconcileAll(t *testing.T) {
	env := newTestEnv(t, config.DefaultPolicy())
	ctx := context.Background()

	arriving := env.book(t, admin, env.room.ID, at(1, 14), at(3, 11))
	pending := env.book(t, guest, env.room.ID, at(5, 14), at(6, 11))
	other := env.addRoom(t, "102", 80)
	leaving := env.book(t, admin, other.ID, at(1, 10), at(1, 20))
	_, err := env.svc.SetStatus(ctx, leaving.ID, domain.ReservationCheckedIn)
	require.NoError(t, err)

	env.clock.Set(at(1, 14))
	res, err := env.rec.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{CheckedIn: 1}, res)
	assert.Equal(t, domain.RoomOccupied, env.roomStatus(t, env.room.ID))

	env.clock.Set(at(3, 11))
	res, err = env.rec.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{CheckedOut: 2}, res)

	for id, want := range map[int64]domain.ReservationStatus{
		arriving.ID: domain.ReservationCheckedOut,
		leaving.ID:  domain.ReservationCheckedOut,
		pending.ID:  domain.ReservationPending,
	} {
		got, err := env.svc.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status)
	}
	assert.Equal(t, domain.RoomAvailable, env.roomStatus(t, env.room.ID))
	assert.Equal(t, domain.RoomAvailable, env.roomStatus(t, other.ID))

	// nothing left to do
	res, err = env.rec.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
}

func TestReconciler_CheckInAndOutInOneSweep(t *testing.T) {
	env := newTestEnv(t, config.DefaultPolicy())
	ctx := context.Background()

	res := env.book(t, admin, env.room.ID, at(1, 14), at(3, 11))
	env.clock.Set(at(10, 0))

	out, err := env.rec.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{CheckedIn: 1, CheckedOut: 1}, out)

	got, err := env.svc.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCheckedOut, got.Status)
	assert.Equal(t, domain.RoomAvailable, env.roomStatus(t, env.room.ID))
}

func TestReconciler_ItemFailureDoesNotAbortSweep(t *testing.T) {
	env := newTestEnv(t, config.DefaultPolicy())
	ctx := context.Background()

	broken := env.room
	healthy := env.addRoom(t, "102", 80)
	bad := env.book(t, admin, broken.ID, at(1, 14), at(3, 11))
	good := env.book(t, admin, healthy.ID, at(1, 14), at(3, 11))

	svc := NewService(env.reservations, failingRooms{RoomRepository: env.rooms, roomID: broken.ID},
		env.tx, nil, env.clock, config.DefaultPolicy(), logger.Discard())
	rec := NewReconciler(svc, time.Minute, time.Second, logger.Discard())

	env.clock.Set(at(2, 0))
	res, err := rec.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{CheckedIn: 1, Failed: 1}, res)

	got, err := svc.Get(ctx, bad.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationConfirmed, got.Status, "failed item rolled back")

	got, err = svc.Get(ctx, good.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCheckedIn, got.Status)
	assert.Equal(t, domain.RoomOccupied, env.roomStatus(t, healthy.ID))
}

func TestReconciler_ReconcileOne(t *testing.T) {
	env := newTestEnv(t, config.DefaultPolicy())
	ctx := context.Background()

	res := env.book(t, admin, env.room.ID, at(1, 14), at(3, 11))

	// not yet due
	require.NoError(t, env.rec.ReconcileOne(ctx, res.ID))
	got, err := env.svc.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationConfirmed, got.Status)

	env.clock.Set(at(1, 14))
	require.NoError(t, env.rec.ReconcileOne(ctx, res.ID))
	got, err = env.svc.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCheckedIn, got.Status)

	env.clock.Set(at(4, 0))
	require.NoError(t, env.rec.ReconcileOne(ctx, res.ID))
	got, err = env.svc.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCheckedOut, got.Status)
	stamp := got.UpdatedAt

	// idempotent on a finished stay
	env.clock.Advance(time.Hour)
	require.NoError(t, env.rec.ReconcileOne(ctx, res.ID))
	require.NoError(t, env.rec.ReconcileOne(ctx, res.ID))
	got, err = env.svc.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCheckedOut, got.Status)
	assert.True(t, got.UpdatedAt.Equal(stamp))

	assert.ErrorIs(t, env.rec.ReconcileOne(ctx, 999), ErrNotFound)
}

func TestReconciler_PendingIsNeverPromoted(t *testing.T) {
	env := newTestEnv(t, config.DefaultPolicy())
	ctx := context.Background()

	res := env.book(t, guest, env.room.ID, at(1, 14), at(3, 11))
	env.clock.Set(at(10, 0))

	require.NoError(t, env.rec.ReconcileOne(ctx, res.ID))
	got, err := env.svc.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationPending, got.Status)
}

func TestReconciler_PublishesStatusChanges(t *testing.T) {
	env := newTestEnv(t, config.DefaultPolicy())
	ctx := context.Background()

	res := env.book(t, admin, env.room.ID, at(1, 14), at(3, 11))

	events := new(MockEventPublisher)
	events.On("Publish", mock.Anything, mock.MatchedBy(func(ev domain.ReservationEvent) bool {
		return ev.Type == domain.EventReservationStatusChanged &&
			ev.Reservation.ID == res.ID &&
			ev.Reservation.Status == domain.ReservationCheckedIn &&
			ev.RoomStatus == domain.RoomOccupied &&
			ev.HotelID == env.hotel.ID
	})).Return().Once()

	svc := NewService(env.reservations, env.rooms, env.tx, events, env.clock, config.DefaultPolicy(), logger.Discard())
	rec := NewReconciler(svc, time.Minute, time.Second, logger.Discard())

	env.clock.Set(at(2, 0))
	_, err := rec.ReconcileAll(ctx)
	require.NoError(t, err)
	events.AssertExpectations(t)
}

func TestReconciler_StartAndStop(t *testing.T) {
	env := newTestEnv(t, config.DefaultPolicy())
	ctx := context.Background()

	res := env.book(t, admin, env.room.ID, at(1, 14), at(3, 11))
	env.clock.Set(at(2, 0))

	rec := NewReconciler(env.svc, 10*time.Millisecond, time.Second, logger.Discard())
	stop := rec.Start(ctx)
	defer close(stop)

	require.Eventually(t, func() bool {
		got, err := env.svc.Get(ctx, res.ID)
		return err == nil && got.Status == domain.ReservationCheckedIn
	}, time.Second, 10*time.Millisecond)
}

func TestReconciler_ReconcileOneSkipsFinishedStays(t *testing.T) {
	env := newTestEnv(t, config.DefaultPolicy())
	ctx := context.Background()

	res := env.book(t, admin, env.room.ID, at(1, 14), at(3, 11))
	require.NoError(t, env.svc.Cancel(ctx, res.ID))
	before := len(env.events.types())

	env.clock.Set(at(10, 0))
	require.NoError(t, env.rec.ReconcileOne(ctx, res.ID))

	got, err := env.svc.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCancelled, got.Status)
	assert.Len(t, env.events.types(), before)
}
