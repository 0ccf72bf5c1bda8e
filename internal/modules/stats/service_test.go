package stats

import (
	"context"
	"testing"
	"time"

	"hotelbooking/internal/database"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/clock"
	"hotelbooking/internal/pkg/logger"
	"hotelbooking/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc          *Service
	rooms        *repository.RoomRepository
	reservations *repository.ReservationRepository
	hotel        *domain.Hotel
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Connect(":memory:", logger.Discard())
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	hotels := repository.NewHotelRepository(db)
	f := &fixture{
		rooms:        repository.NewRoomRepository(db),
		reservations: repository.NewReservationRepository(db),
		hotel:        &domain.Hotel{Name: "Grand"},
	}
	require.NoError(t, hotels.Create(context.Background(), f.hotel))

	clk := clock.NewFake(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
	f.svc = NewService(repository.NewStatsRepository(db), hotels, clk)
	return f
}

func (f *fixture) room(t *testing.T, number, typ string, status domain.RoomStatus) *domain.Room {
	t.Helper()
	r := &domain.Room{HotelID: f.hotel.ID, Number: number, Name: "Room " + number, Type: typ, Price: 100, Status: status}
	require.NoError(t, f.rooms.Create(context.Background(), r))
	return r
}

func (f *fixture) reservation(t *testing.T, room *domain.Room, status domain.ReservationStatus, price float64, created, checkOut time.Time) *domain.Reservation {
	t.Helper()
	r := &domain.Reservation{
		RoomID:     room.ID,
		HotelID:    f.hotel.ID,
		GuestID:    3,
		CheckIn:    checkOut.AddDate(0, 0, -2),
		CheckOut:   checkOut,
		TotalPrice: price,
		Status:     status,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	require.NoError(t, f.reservations.Create(context.Background(), r))
	return r
}

func day(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 10, 0, 0, 0, time.UTC)
}

func TestHotelStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	double := f.room(t, "101", "double", domain.RoomOccupied)
	suite := f.room(t, "102", "", domain.RoomAvailable)
	f.room(t, "103", "double", domain.RoomAvailable)

	f.reservation(t, double, domain.ReservationCheckedIn, 100, day(1, 5), day(1, 20))
	late := f.reservation(t, double, domain.ReservationCheckedIn, 50.5, day(1, 20), day(1, 18))
	f.reservation(t, suite, domain.ReservationConfirmed, 999, day(12, 31).AddDate(-1, 0, 0), day(2, 3))

	st, err := f.svc.HotelStats(ctx, f.hotel.ID, Query{})
	require.NoError(t, err)

	assert.EqualValues(t, 3, st.TotalBookings)
	assert.EqualValues(t, 2, st.ActiveGuests)
	assert.EqualValues(t, 2, st.AvailableRooms)
	assert.Equal(t, 150.5, st.Revenue)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), st.RevenueFrom)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), st.RevenueTo)

	require.Len(t, st.RecentBookings, 3)
	assert.Equal(t, late.ID, st.RecentBookings[0].ID)

	require.Len(t, st.UpcomingCheckouts, 2)
	assert.Equal(t, late.ID, st.UpcomingCheckouts[0].ID)

	assert.Equal(t, []domain.RoomTypeShare{
		{Type: "double", Count: 2, Percentage: 66.7},
		{Type: "Room 102", Count: 1, Percentage: 33.3},
	}, st.RoomTypeStats)
}

func TestHotelStats_Window(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room := f.room(t, "101", "double", domain.RoomAvailable)
	f.reservation(t, room, domain.ReservationPending, 100, day(1, 5), day(1, 20))
	f.reservation(t, room, domain.ReservationPending, 70, day(2, 5), day(2, 20))

	st, err := f.svc.HotelStats(ctx, f.hotel.ID, Query{From: day(2, 1), To: day(3, 1), RecentLimit: 1})
	require.NoError(t, err)
	assert.Equal(t, 70.0, st.Revenue)
	assert.Len(t, st.RecentBookings, 1)

	st, err = f.svc.HotelStats(ctx, f.hotel.ID, Query{From: day(2, 1)})
	require.NoError(t, err)
	assert.Equal(t, 70.0, st.Revenue, "from alone keeps the requested start")
	assert.Equal(t, day(2, 1), st.RevenueFrom)
	assert.Equal(t, day(3, 1), st.RevenueTo)

	st, err = f.svc.HotelStats(ctx, f.hotel.ID, Query{To: day(2, 1)})
	require.NoError(t, err)
	assert.Equal(t, 100.0, st.Revenue, "to alone covers the month before it")
	assert.Equal(t, day(1, 1), st.RevenueFrom)
	assert.Equal(t, day(2, 1), st.RevenueTo)

	_, err = f.svc.HotelStats(ctx, f.hotel.ID, Query{From: day(3, 1), To: day(2, 1)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestHotelStats_EmptyHotel(t *testing.T) {
	f := newFixture(t)

	st, err := f.svc.HotelStats(context.Background(), f.hotel.ID, Query{})
	require.NoError(t, err)
	assert.Zero(t, st.TotalBookings)
	assert.Zero(t, st.Revenue)
	assert.Empty(t, st.RoomTypeStats)

	_, err = f.svc.HotelStats(context.Background(), 999, Query{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMonthWindow(t *testing.T) {
	from, to := MonthWindow(time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), to)
}
