package reservation

import "time"

type CreateReservationRequest struct {
	RoomID int64 `json:"room_id" binding:"required" validate:"gt=0"`
	// GuestID defaults to the caller when omitted.
	GuestID         int64     `json:"guest_id" validate:"gte=0"`
	CheckIn         time.Time `json:"check_in" binding:"required"`
	CheckOut        time.Time `json:"check_out" binding:"required"`
	SpecialRequests string    `json:"special_requests" validate:"max=500"`
}

// UpdateReservationRequest leaves nil fields unchanged.
type UpdateReservationRequest struct {
	CheckIn         *time.Time `json:"check_in"`
	CheckOut        *time.Time `json:"check_out"`
	SpecialRequests *string    `json:"special_requests" validate:"omitempty,max=500"`
	Status          *string    `json:"status"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AvailabilityResponse struct {
	RoomID    int64     `json:"room_id"`
	CheckIn   time.Time `json:"check_in"`
	CheckOut  time.Time `json:"check_out"`
	Available bool      `json:"available"`
}
