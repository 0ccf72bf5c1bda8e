package domain

import "time"

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
)

func (s RoomStatus) IsValid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomMaintenance:
		return true
	}
	return false
}

type Hotel struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Room references its hotel by id only; reservations are looked up through
// the repository, never hung off the room.
type Room struct {
	ID          int64      `json:"id"`
	HotelID     int64      `json:"hotel_id" validate:"required"`
	Number      string     `json:"number" validate:"required"`
	Name        string     `json:"name" validate:"required"`
	Type        string     `json:"type,omitempty"`
	Description string     `json:"description,omitempty"`
	Price       float64    `json:"price" validate:"required,gt=0"`
	Status      RoomStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// RoomSort orders room listings.
type RoomSort string

const (
	RoomSortNumber    RoomSort = ""
	RoomSortPriceAsc  RoomSort = "price_asc"
	RoomSortPriceDesc RoomSort = "price_desc"
)

func (s RoomSort) IsValid() bool {
	switch s {
	case RoomSortNumber, RoomSortPriceAsc, RoomSortPriceDesc:
		return true
	}
	return false
}

// RoomFilter narrows a hotel's rooms. Zero fields are ignored.
type RoomFilter struct {
	HotelID  int64
	Status   RoomStatus
	MinPrice float64
	MaxPrice float64
	Sort     RoomSort
}
