package reservation

import (
	"context"
	"time"

	"hotelbooking/internal/domain"
)

// AvailabilityChecker answers whether a room is free for an interval.
type AvailabilityChecker struct {
	reservations OverlapFinder
	mode         domain.OverlapMode
}

func NewAvailabilityChecker(reservations OverlapFinder, mode domain.OverlapMode) *AvailabilityChecker {
	if !mode.IsValid() {
		mode = domain.OverlapClosed
	}
	return &AvailabilityChecker{reservations: reservations, mode: mode}
}

// IsAvailable reports whether no blocking reservation other than excludeID
// overlaps [checkIn, checkOut]. Pass excludeID 0 to consider every reservation.
func (a *AvailabilityChecker) IsAvailable(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeID int64) (bool, error) {
	overlapping, err := a.reservations.FindOverlapping(ctx, roomID, checkIn, checkOut, a.mode, excludeID)
	if err != nil {
		return false, err
	}
	for _, r := range overlapping {
		if r.ID != excludeID && r.Status.Blocks() {
			return false, nil
		}
	}
	return true, nil
}
