package domain

import (
	"math"
	"strings"
	"time"
)

type ReservationStatus string

const (
	ReservationPending    ReservationStatus = "pending"
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCheckedIn  ReservationStatus = "checked_in"
	ReservationCheckedOut ReservationStatus = "checked_out"
	ReservationCancelled  ReservationStatus = "cancelled"
)

// validTransitions is the reservation state machine. Terminal states map to
// an empty slice.
var validTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:    {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed:  {ReservationCheckedIn, ReservationCancelled},
	ReservationCheckedIn:  {ReservationCheckedOut},
	ReservationCheckedOut: {},
	ReservationCancelled:  {},
}

// ParseReservationStatus accepts both "checked_in" and "CHECKED_IN".
func ParseReservationStatus(s string) (ReservationStatus, error) {
	status := ReservationStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", Validationf("unknown reservation status %q", s)
	}
	return status, nil
}

func (s ReservationStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo reports whether s may move to target. Staying put is always allowed.
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	if s == target {
		return s.IsValid()
	}
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s ReservationStatus) IsTerminal() bool {
	allowed, ok := validTransitions[s]
	return !ok || len(allowed) == 0
}

// Blocks reports whether a reservation in this status holds its room.
func (s ReservationStatus) Blocks() bool {
	return s == ReservationPending || s == ReservationConfirmed || s == ReservationCheckedIn
}

func (s ReservationStatus) String() string {
	return string(s)
}

// ValidateTransition returns a *TransitionError for a disallowed pair.
func ValidateTransition(from, to ReservationStatus) error {
	if !to.IsValid() {
		return Validationf("unknown reservation status %q", to)
	}
	if !from.CanTransitionTo(to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}

type Reservation struct {
	ID              int64             `json:"id"`
	RoomID          int64             `json:"room_id"`
	HotelID         int64             `json:"hotel_id"`
	GuestID         int64             `json:"guest_id"`
	CreatedByID     int64             `json:"created_by_id"`
	CheckIn         time.Time         `json:"check_in"`
	CheckOut        time.Time         `json:"check_out"`
	TotalPrice      float64           `json:"total_price"`
	SpecialRequests string            `json:"special_requests,omitempty"`
	Status          ReservationStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// DueForCheckIn reports whether the check-in instant has passed for a confirmed stay.
func (r *Reservation) DueForCheckIn(now time.Time) bool {
	return r.Status == ReservationConfirmed && !r.CheckIn.After(now)
}

// DueForCheckOut reports whether the check-out instant has passed for a checked-in stay.
func (r *Reservation) DueForCheckOut(now time.Time) bool {
	return r.Status == ReservationCheckedIn && !r.CheckOut.After(now)
}

// BillableDays counts calendar days between check-in and check-out, with a
// one day floor for short stays.
func BillableDays(checkIn, checkOut time.Time) int {
	in := truncateToDay(checkIn.UTC())
	out := truncateToDay(checkOut.UTC())
	days := int(out.Sub(in).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days
}

// TotalPrice is the nightly rate times billable days, rounded to cents.
func TotalPrice(price float64, checkIn, checkOut time.Time) float64 {
	total := price * float64(BillableDays(checkIn, checkOut))
	return math.Round(total*100) / 100
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NormalizeTime stores every instant as UTC at second precision.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// OverlapMode selects how interval boundaries are compared.
type OverlapMode string

const (
	// OverlapClosed treats [in, out] as closed: back-to-back stays sharing an
	// instant conflict.
	OverlapClosed OverlapMode = "closed"
	// OverlapHalfOpen treats [in, out) as half open.
	OverlapHalfOpen OverlapMode = "half_open"
)

func (m OverlapMode) IsValid() bool {
	return m == OverlapClosed || m == OverlapHalfOpen
}

// Overlaps applies the mode to two intervals.
func (m OverlapMode) Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	if m == OverlapHalfOpen {
		return aIn.Before(bOut) && aOut.After(bIn)
	}
	return !aIn.After(bOut) && !aOut.Before(bIn)
}

// ReservationFilter drives list queries. Zero values are ignored.
type ReservationFilter struct {
	HotelID      int64
	RoomID       int64
	GuestID      int64
	Status       ReservationStatus
	CheckInAfter time.Time
	ActiveAt     time.Time
	Page         int
	PerPage      int
}

type EventType string

const (
	EventReservationCreated       EventType = "reservation.created"
	EventReservationUpdated       EventType = "reservation.updated"
	EventReservationStatusChanged EventType = "reservation.status_changed"
	EventReservationCancelled     EventType = "reservation.cancelled"
)

// ReservationEvent is emitted after a reservation change commits.
type ReservationEvent struct {
	Type        EventType   `json:"type"`
	HotelID     int64       `json:"hotel_id"`
	Reservation Reservation `json:"reservation"`
	RoomStatus  RoomStatus  `json:"room_status,omitempty"`
	OccurredAt  time.Time   `json:"occurred_at"`
}
