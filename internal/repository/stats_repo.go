package repository

import (
	"context"
	"time"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
)

// StatsRepository runs the read-only aggregates behind the hotel dashboard.
type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) CountReservations(ctx context.Context, hotelID int64) (int64, error) {
	var cnt int64
	err := conn(ctx, r.db).
		Model(&reservationModel{}).
		Where("hotel_id = ?", hotelID).
		Count(&cnt).Error
	return cnt, translateError(err)
}

func (r *StatsRepository) CountByStatus(ctx context.Context, hotelID int64, status domain.ReservationStatus) (int64, error) {
	var cnt int64
	err := conn(ctx, r.db).
		Model(&reservationModel{}).
		Where("hotel_id = ? AND status = ?", hotelID, string(status)).
		Count(&cnt).Error
	return cnt, translateError(err)
}

func (r *StatsRepository) CountRooms(ctx context.Context, hotelID int64, status domain.RoomStatus) (int64, error) {
	var cnt int64
	err := conn(ctx, r.db).
		Model(&roomModel{}).
		Where("hotel_id = ? AND status = ?", hotelID, string(status)).
		Count(&cnt).Error
	return cnt, translateError(err)
}

// Revenue sums total_price of reservations created in [from, to).
func (r *StatsRepository) Revenue(ctx context.Context, hotelID int64, from, to time.Time) (float64, error) {
	var sum float64
	err := conn(ctx, r.db).
		Model(&reservationModel{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("hotel_id = ?", hotelID).
		Where("created_at >= ? AND created_at < ?", domain.NormalizeTime(from), domain.NormalizeTime(to)).
		Scan(&sum).Error
	return sum, translateError(err)
}

func (r *StatsRepository) Recent(ctx context.Context, hotelID int64, limit int) ([]domain.Reservation, error) {
	var rows []reservationModel
	err := conn(ctx, r.db).
		Where("hotel_id = ?", hotelID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	return toDomainReservations(rows), nil
}

// UpcomingCheckouts lists checked-in stays, soonest check-out first.
func (r *StatsRepository) UpcomingCheckouts(ctx context.Context, hotelID int64, limit int) ([]domain.Reservation, error) {
	var rows []reservationModel
	q := conn(ctx, r.db).
		Where("hotel_id = ? AND status = ?", hotelID, string(domain.ReservationCheckedIn)).
		Order("check_out ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	return toDomainReservations(rows), nil
}

type roomTypeRow struct {
	RoomType string `gorm:"column:room_type"`
	Bookings int64  `gorm:"column:bookings"`
}

// BookingsByRoomType groups the hotel's reservations by room type, falling
// back to the room name for untyped rooms.
func (r *StatsRepository) BookingsByRoomType(ctx context.Context, hotelID int64) ([]domain.RoomTypeCount, error) {
	var rows []roomTypeRow
	err := conn(ctx, r.db).
		Table("reservations").
		Select("COALESCE(NULLIF(rooms.type, ''), rooms.name) AS room_type, COUNT(*) AS bookings").
		Joins("JOIN rooms ON rooms.id = reservations.room_id").
		Where("reservations.hotel_id = ?", hotelID).
		Group("COALESCE(NULLIF(rooms.type, ''), rooms.name)").
		Order("bookings DESC, room_type ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}

	out := make([]domain.RoomTypeCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.RoomTypeCount{Type: row.RoomType, Count: row.Bookings})
	}
	return out, nil
}
