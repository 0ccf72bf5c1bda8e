package repository

import (
	"context"
	"time"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

var blockingStatuses = []string{
	string(domain.ReservationPending),
	string(domain.ReservationConfirmed),
	string(domain.ReservationCheckedIn),
}

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Timestamps come from the service clock, so gorm must not overwrite them.
type reservationModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	RoomID          int64     `gorm:"column:room_id;not null;index:idx_reservations_room_period,priority:1"`
	HotelID         int64     `gorm:"column:hotel_id;not null;index:idx_reservations_hotel"`
	GuestID         int64     `gorm:"column:guest_id;not null;index:idx_reservations_guest"`
	CreatedByID     int64     `gorm:"column:created_by_id"`
	CheckIn         time.Time `gorm:"column:check_in;not null;index:idx_reservations_room_period,priority:2;index:idx_reservations_status_check_in,priority:2"`
	CheckOut        time.Time `gorm:"column:check_out;not null;index:idx_reservations_room_period,priority:3;index:idx_reservations_status_check_out,priority:2"`
	TotalPrice      float64   `gorm:"column:total_price;type:numeric(12,2);not null"`
	SpecialRequests *string   `gorm:"column:special_requests;size:500"`
	Status          string    `gorm:"column:status;size:20;not null;index:idx_reservations_status_check_in,priority:1;index:idx_reservations_status_check_out,priority:1"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (reservationModel) TableName() string { return "reservations" }

func toDomainReservation(m reservationModel) *domain.Reservation {
	res := &domain.Reservation{
		ID:          m.ID,
		RoomID:      m.RoomID,
		HotelID:     m.HotelID,
		GuestID:     m.GuestID,
		CreatedByID: m.CreatedByID,
		CheckIn:     m.CheckIn.UTC(),
		CheckOut:    m.CheckOut.UTC(),
		TotalPrice:  m.TotalPrice,
		Status:      domain.ReservationStatus(m.Status),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
	if m.SpecialRequests != nil {
		res.SpecialRequests = *m.SpecialRequests
	}
	return res
}

func toReservationModel(r *domain.Reservation) reservationModel {
	return reservationModel{
		ID:              r.ID,
		RoomID:          r.RoomID,
		HotelID:         r.HotelID,
		GuestID:         r.GuestID,
		CreatedByID:     r.CreatedByID,
		CheckIn:         domain.NormalizeTime(r.CheckIn),
		CheckOut:        domain.NormalizeTime(r.CheckOut),
		TotalPrice:      r.TotalPrice,
		SpecialRequests: optionalString(r.SpecialRequests),
		Status:          string(r.Status),
		CreatedAt:       domain.NormalizeTime(r.CreatedAt),
		UpdatedAt:       domain.NormalizeTime(r.UpdatedAt),
	}
}

func toDomainReservations(rows []reservationModel) []domain.Reservation {
	out := make([]domain.Reservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReservation(m))
	}
	return out
}

func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	m := toReservationModel(res)
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return translateError(err)
	}
	*res = *toDomainReservation(m)
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var m reservationModel
	if err := conn(ctx, r.db).First(&m, id).Error; err != nil {
		return nil, translateError(err)
	}
	return toDomainReservation(m), nil
}

// Save overwrites every column of an existing reservation.
func (r *ReservationRepository) Save(ctx context.Context, res *domain.Reservation) error {
	m := toReservationModel(res)
	tx := conn(ctx, r.db).
		Model(&reservationModel{}).
		Where("id = ?", m.ID).
		Select("*").
		Omit("id").
		Updates(&m)
	if tx.Error != nil {
		return translateError(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	*res = *toDomainReservation(m)
	return nil
}

// FindOverlapping returns blocking reservations on the room whose stay meets
// [checkIn, checkOut] under mode. excludeID 0 excludes nothing.
func (r *ReservationRepository) FindOverlapping(
	ctx context.Context,
	roomID int64,
	checkIn, checkOut time.Time,
	mode domain.OverlapMode,
	excludeID int64,
) ([]domain.Reservation, error) {
	q := conn(ctx, r.db).
		Where("room_id = ?", roomID).
		Where("status IN ?", blockingStatuses)

	if mode == domain.OverlapHalfOpen {
		q = q.Where("check_in < ? AND check_out > ?", domain.NormalizeTime(checkOut), domain.NormalizeTime(checkIn))
	} else {
		q = q.Where("check_in <= ? AND check_out >= ?", domain.NormalizeTime(checkOut), domain.NormalizeTime(checkIn))
	}
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var rows []reservationModel
	if err := q.Order("check_in ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	return toDomainReservations(rows), nil
}

// List pages through reservations matching f and returns the total count.
func (r *ReservationRepository) List(ctx context.Context, f domain.ReservationFilter) ([]domain.Reservation, int64, error) {
	q := conn(ctx, r.db).Model(&reservationModel{})

	if f.HotelID > 0 {
		q = q.Where("hotel_id = ?", f.HotelID)
	}
	if f.RoomID > 0 {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if f.GuestID > 0 {
		q = q.Where("guest_id = ?", f.GuestID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if !f.CheckInAfter.IsZero() {
		q = q.Where("check_in > ?", domain.NormalizeTime(f.CheckInAfter))
	}
	if !f.ActiveAt.IsZero() {
		at := domain.NormalizeTime(f.ActiveAt)
		q = q.Where("check_in <= ? AND check_out >= ?", at, at)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	limit, offset := paginate(f.Page, f.PerPage)
	var rows []reservationModel
	err := q.Order("check_in ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, translateError(err)
	}
	return toDomainReservations(rows), total, nil
}

func paginate(page, perPage int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return perPage, (page - 1) * perPage
}

// DueForCheckIn lists confirmed reservations whose check-in is at or before now.
func (r *ReservationRepository) DueForCheckIn(ctx context.Context, now time.Time) ([]int64, error) {
	return r.dueIDs(ctx, domain.ReservationConfirmed, "check_in", now)
}

// DueForCheckOut lists checked-in reservations whose check-out is at or before now.
func (r *ReservationRepository) DueForCheckOut(ctx context.Context, now time.Time) ([]int64, error) {
	return r.dueIDs(ctx, domain.ReservationCheckedIn, "check_out", now)
}

func (r *ReservationRepository) dueIDs(ctx context.Context, status domain.ReservationStatus, column string, now time.Time) ([]int64, error) {
	var ids []int64
	err := conn(ctx, r.db).
		Model(&reservationModel{}).
		Where("status = ?", string(status)).
		Where(column+" <= ?", domain.NormalizeTime(now)).
		Order(column + " ASC, id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, translateError(err)
	}
	return ids, nil
}

// CountCheckedIn counts checked-in reservations on the room other than excludeID.
func (r *ReservationRepository) CountCheckedIn(ctx context.Context, roomID, excludeID int64) (int64, error) {
	var cnt int64
	err := conn(ctx, r.db).
		Model(&reservationModel{}).
		Where("room_id = ? AND status = ? AND id <> ?", roomID, string(domain.ReservationCheckedIn), excludeID).
		Count(&cnt).Error
	return cnt, translateError(err)
}
