package catalog

import "hotelbooking/internal/domain"

type CreateHotelRequest struct {
	Name    string `json:"name" binding:"required" validate:"required,max=255"`
	Address string `json:"address" validate:"max=500"`
}

type CreateRoomRequest struct {
	Number      string  `json:"number" binding:"required" validate:"required,max=32"`
	Name        string  `json:"name" binding:"required" validate:"required,max=255"`
	Type        string  `json:"type" validate:"max=64"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gt=0"`
	// Status defaults to available; only available or maintenance are accepted.
	Status domain.RoomStatus `json:"status" validate:"omitempty,oneof=available maintenance"`
}

// UpdateRoomRequest changes a room's details. Status is owned by the
// reservation engine and cannot be set here.
type UpdateRoomRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=255"`
	Type        *string  `json:"type" validate:"omitempty,max=64"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
}

type RoomCountResponse struct {
	HotelID int64             `json:"hotel_id"`
	Status  domain.RoomStatus `json:"status"`
	Count   int64             `json:"count"`
}
