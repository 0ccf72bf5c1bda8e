package reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"hotelbooking/internal/config"
	"hotelbooking/internal/database"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/clock"
	"hotelbooking/internal/pkg/logger"
	"hotelbooking/internal/repository"

	"github.com/stretchr/testify/require"
)

var (
	guest = domain.Actor{UserID: 3}
	admin = domain.Actor{UserID: 1, Privileged: true}
)

func at(day, hour int) time.Time {
	return time.Date(2024, 1, day, hour, 0, 0, 0, time.UTC)
}

// recordingPublisher keeps every event for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ReservationEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev domain.ReservationEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type testEnv struct {
	clock        *clock.Fake
	rooms        *repository.RoomRepository
	reservations *repository.ReservationRepository
	events       *recordingPublisher
	tx           *repository.Transactor
	svc          *Service
	rec          *Reconciler
	hotel        *domain.Hotel
	room         *domain.Room
}

func newTestEnv(t *testing.T, policy config.Policy) *testEnv {
	t.Helper()

	db, err := database.Connect(":memory:", logger.Discard())
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	env := &testEnv{
		clock:        clock.NewFake(time.Date(2023, 12, 31, 9, 0, 0, 0, time.UTC)),
		rooms:        repository.NewRoomRepository(db),
		reservations: repository.NewReservationRepository(db),
		events:       &recordingPublisher{},
		tx:           repository.NewTransactor(db),
	}
	env.svc = NewService(env.reservations, env.rooms, env.tx, env.events, env.clock, policy, logger.Discard())
	env.rec = NewReconciler(env.svc, time.Minute, 5*time.Second, logger.Discard())

	ctx := context.Background()
	env.hotel = &domain.Hotel{Name: "Grand"}
	require.NoError(t, repository.NewHotelRepository(db).Create(ctx, env.hotel))
	env.room = env.addRoom(t, "101", 100)
	return env
}

func (e *testEnv) addRoom(t *testing.T, number string, price float64) *domain.Room {
	t.Helper()
	room := &domain.Room{
		HotelID: e.hotel.ID,
		Number:  number,
		Name:    "Room " + number,
		Type:    "double",
		Price:   price,
		Status:  domain.RoomAvailable,
	}
	require.NoError(t, e.rooms.Create(context.Background(), room))
	return room
}

func (e *testEnv) roomStatus(t *testing.T, id int64) domain.RoomStatus {
	t.Helper()
	room, err := e.rooms.GetByID(context.Background(), id)
	require.NoError(t, err)
	return room.Status
}

func (e *testEnv) book(t *testing.T, actor domain.Actor, roomID int64, in, out time.Time) *domain.Reservation {
	t.Helper()
	res, err := e.svc.Create(context.Background(), CreateReservationRequest{
		RoomID:   roomID,
		CheckIn:  in,
		CheckOut: out,
	}, actor)
	require.NoError(t, err)
	return res
}
