package domain

import "time"

type RoomTypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

type RoomTypeShare struct {
	Type       string  `json:"type"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

type HotelStats struct {
	HotelID           int64           `json:"hotel_id"`
	TotalBookings     int64           `json:"total_bookings"`
	ActiveGuests      int64           `json:"active_guests"`
	AvailableRooms    int64           `json:"available_rooms"`
	Revenue           float64         `json:"revenue"`
	RevenueFrom       time.Time       `json:"revenue_from"`
	RevenueTo         time.Time       `json:"revenue_to"`
	RecentBookings    []Reservation   `json:"recent_bookings"`
	UpcomingCheckouts []Reservation   `json:"upcoming_checkouts"`
	RoomTypeStats     []RoomTypeShare `json:"room_type_stats"`
}
