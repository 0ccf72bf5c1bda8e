package repository

import (
	"context"
	"time"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
)

type HotelRepository struct {
	db *gorm.DB
}

func NewHotelRepository(db *gorm.DB) *HotelRepository {
	return &HotelRepository{db: db}
}

type hotelModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;size:255;not null"`
	Address   *string   `gorm:"column:address"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (hotelModel) TableName() string { return "hotels" }

func toDomainHotel(m hotelModel) *domain.Hotel {
	h := &domain.Hotel{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Address != nil {
		h.Address = *m.Address
	}
	return h
}

func (r *HotelRepository) Create(ctx context.Context, h *domain.Hotel) error {
	m := hotelModel{
		Name:      h.Name,
		Address:   optionalString(h.Address),
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return translateError(err)
	}
	*h = *toDomainHotel(m)
	return nil
}

func (r *HotelRepository) GetByID(ctx context.Context, id int64) (*domain.Hotel, error) {
	var m hotelModel
	if err := conn(ctx, r.db).First(&m, id).Error; err != nil {
		return nil, translateError(err)
	}
	return toDomainHotel(m), nil
}
