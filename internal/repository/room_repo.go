package repository

import (
	"context"
	"time"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

type roomModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	HotelID     int64     `gorm:"column:hotel_id;not null;index:idx_rooms_hotel"`
	Number      string    `gorm:"column:number;size:32;not null"`
	Name        string    `gorm:"column:name;size:255;not null"`
	Type        *string   `gorm:"column:type;size:64"`
	Description *string   `gorm:"column:description"`
	Price       float64   `gorm:"column:price;type:numeric(12,2);not null"`
	Status      string    `gorm:"column:status;size:20;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (roomModel) TableName() string { return "rooms" }

func toDomainRoom(m roomModel) *domain.Room {
	room := &domain.Room{
		ID:        m.ID,
		HotelID:   m.HotelID,
		Number:    m.Number,
		Name:      m.Name,
		Price:     m.Price,
		Status:    domain.RoomStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Type != nil {
		room.Type = *m.Type
	}
	if m.Description != nil {
		room.Description = *m.Description
	}
	return room
}

func toRoomModel(r *domain.Room) roomModel {
	return roomModel{
		ID:          r.ID,
		HotelID:     r.HotelID,
		Number:      r.Number,
		Name:        r.Name,
		Type:        optionalString(r.Type),
		Description: optionalString(r.Description),
		Price:       r.Price,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	m := toRoomModel(room)
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return translateError(err)
	}
	*room = *toDomainRoom(m)
	return nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var m roomModel
	if err := conn(ctx, r.db).First(&m, id).Error; err != nil {
		return nil, translateError(err)
	}
	return toDomainRoom(m), nil
}

// LockByID reads the room with SELECT ... FOR UPDATE. It must run inside a
// transaction; the SQLite dialect drops the locking clause.
func (r *RoomRepository) LockByID(ctx context.Context, id int64) (*domain.Room, error) {
	var m roomModel
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return toDomainRoom(m), nil
}

// List returns the rooms matching f, by number unless a price sort is asked for.
func (r *RoomRepository) List(ctx context.Context, f domain.RoomFilter) ([]domain.Room, error) {
	q := conn(ctx, r.db).Where("hotel_id = ?", f.HotelID)
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.MinPrice > 0 {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price <= ?", f.MaxPrice)
	}
	switch f.Sort {
	case domain.RoomSortPriceAsc:
		q = q.Order("price ASC")
	case domain.RoomSortPriceDesc:
		q = q.Order("price DESC")
	}

	var rows []roomModel
	if err := q.Order("number ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}

	rooms := make([]domain.Room, 0, len(rows))
	for _, m := range rows {
		rooms = append(rooms, *toDomainRoom(m))
	}
	return rooms, nil
}

// UpdateDetails writes the descriptive columns and price. Status is left to
// UpdateStatus so a concurrent check-in is never overwritten.
func (r *RoomRepository) UpdateDetails(ctx context.Context, room *domain.Room) error {
	tx := conn(ctx, r.db).
		Model(&roomModel{}).
		Where("id = ?", room.ID).
		Updates(map[string]any{
			"name":        room.Name,
			"type":        optionalString(room.Type),
			"description": optionalString(room.Description),
			"price":       room.Price,
			"updated_at":  room.UpdatedAt,
		})
	if tx.Error != nil {
		return translateError(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus writes only the status column.
func (r *RoomRepository) UpdateStatus(ctx context.Context, id int64, status domain.RoomStatus, now time.Time) error {
	tx := conn(ctx, r.db).
		Model(&roomModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": now})
	if tx.Error != nil {
		return translateError(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RoomRepository) CountByStatus(ctx context.Context, hotelID int64, status domain.RoomStatus) (int64, error) {
	var cnt int64
	err := conn(ctx, r.db).
		Model(&roomModel{}).
		Where("hotel_id = ? AND status = ?", hotelID, string(status)).
		Count(&cnt).Error
	return cnt, translateError(err)
}
