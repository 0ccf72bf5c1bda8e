package reservation

import (
	"context"
	"time"

	"hotelbooking/internal/domain"
)

// ReservationRepository is the storage the engine reads and writes.
type ReservationRepository interface {
	OverlapFinder
	Create(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Save(ctx context.Context, r *domain.Reservation) error
	List(ctx context.Context, f domain.ReservationFilter) ([]domain.Reservation, int64, error)
	DueForCheckIn(ctx context.Context, now time.Time) ([]int64, error)
	DueForCheckOut(ctx context.Context, now time.Time) ([]int64, error)
	CountCheckedIn(ctx context.Context, roomID, excludeID int64) (int64, error)
}

// OverlapFinder is the single query the availability checker needs.
type OverlapFinder interface {
	FindOverlapping(ctx context.Context, roomID int64, checkIn, checkOut time.Time, mode domain.OverlapMode, excludeID int64) ([]domain.Reservation, error)
}

type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	LockByID(ctx context.Context, id int64) (*domain.Room, error)
	UpdateStatus(ctx context.Context, id int64, status domain.RoomStatus, now time.Time) error
}

// Transactor scopes repository calls made with the callback's ctx to one transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher receives committed reservation changes. Publish must not block.
type EventPublisher interface {
	Publish(ctx context.Context, ev domain.ReservationEvent)
}
