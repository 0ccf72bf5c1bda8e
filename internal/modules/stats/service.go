package stats

import (
	"context"
	"math"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/clock"
)

const DefaultRecentLimit = 5

type Repository interface {
	CountReservations(ctx context.Context, hotelID int64) (int64, error)
	CountByStatus(ctx context.Context, hotelID int64, status domain.ReservationStatus) (int64, error)
	CountRooms(ctx context.Context, hotelID int64, status domain.RoomStatus) (int64, error)
	Revenue(ctx context.Context, hotelID int64, from, to time.Time) (float64, error)
	Recent(ctx context.Context, hotelID int64, limit int) ([]domain.Reservation, error)
	UpcomingCheckouts(ctx context.Context, hotelID int64, limit int) ([]domain.Reservation, error)
	BookingsByRoomType(ctx context.Context, hotelID int64) ([]domain.RoomTypeCount, error)
}

type HotelLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.Hotel, error)
}

// Service computes the read-only hotel dashboard.
type Service struct {
	repo   Repository
	hotels HotelLookup
	clock  clock.Clock
}

func NewService(repo Repository, hotels HotelLookup, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{repo: repo, hotels: hotels, clock: clk}
}

// Query selects the revenue window and list sizes. With both bounds zero the
// window is the current calendar month; a single bound spans one month from
// or up to it. A zero RecentLimit means DefaultRecentLimit.
type Query struct {
	From          time.Time
	To            time.Time
	RecentLimit   int
	CheckoutLimit int
}

// MonthWindow returns [first day of t's month, first day of the next month) in UTC.
func MonthWindow(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func (s *Service) HotelStats(ctx context.Context, hotelID int64, q Query) (*domain.HotelStats, error) {
	if _, err := s.hotels.GetByID(ctx, hotelID); err != nil {
		return nil, err
	}

	switch {
	case q.From.IsZero() && q.To.IsZero():
		q.From, q.To = MonthWindow(s.clock.Now())
	case q.To.IsZero():
		q.To = q.From.AddDate(0, 1, 0)
	case q.From.IsZero():
		q.From = q.To.AddDate(0, -1, 0)
	}
	if !q.From.Before(q.To) {
		return nil, domain.Validationf("from must be before to")
	}
	if q.RecentLimit <= 0 {
		q.RecentLimit = DefaultRecentLimit
	}

	st := &domain.HotelStats{HotelID: hotelID, RevenueFrom: q.From.UTC(), RevenueTo: q.To.UTC()}
	var err error

	if st.TotalBookings, err = s.repo.CountReservations(ctx, hotelID); err != nil {
		return nil, err
	}
	if st.ActiveGuests, err = s.repo.CountByStatus(ctx, hotelID, domain.ReservationCheckedIn); err != nil {
		return nil, err
	}
	if st.AvailableRooms, err = s.repo.CountRooms(ctx, hotelID, domain.RoomAvailable); err != nil {
		return nil, err
	}

	revenue, err := s.repo.Revenue(ctx, hotelID, q.From, q.To)
	if err != nil {
		return nil, err
	}
	st.Revenue = math.Round(revenue*100) / 100

	if st.RecentBookings, err = s.repo.Recent(ctx, hotelID, q.RecentLimit); err != nil {
		return nil, err
	}
	if st.UpcomingCheckouts, err = s.repo.UpcomingCheckouts(ctx, hotelID, q.CheckoutLimit); err != nil {
		return nil, err
	}

	counts, err := s.repo.BookingsByRoomType(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	st.RoomTypeStats = shares(counts)
	return st, nil
}

// shares turns counts into percentages of the total, rounded to one decimal.
func shares(counts []domain.RoomTypeCount) []domain.RoomTypeShare {
	var total int64
	for _, c := range counts {
		total += c.Count
	}

	out := make([]domain.RoomTypeShare, 0, len(counts))
	for _, c := range counts {
		var pct float64
		if total > 0 {
			pct = math.Round(float64(c.Count)*1000/float64(total)) / 10
		}
		out = append(out, domain.RoomTypeShare{Type: c.Type, Count: c.Count, Percentage: pct})
	}
	return out
}
