package reservation

import (
	"context"
	"time"

	"hotelbooking/internal/config"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/clock"
	"hotelbooking/internal/pkg/validator"

	"github.com/sirupsen/logrus"
)

type Service struct {
	reservations ReservationRepository
	rooms        RoomRepository
	tx           Transactor
	events       EventPublisher
	clock        clock.Clock
	policy       config.Policy
	availability *AvailabilityChecker
	locks        *RoomLocker
	log          *logrus.Logger
}

func NewService(
	reservations ReservationRepository,
	rooms RoomRepository,
	tx Transactor,
	events EventPublisher,
	clk clock.Clock,
	policy config.Policy,
	log *logrus.Logger,
) *Service {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{
		reservations: reservations,
		rooms:        rooms,
		tx:           tx,
		events:       events,
		clock:        clk,
		policy:       policy,
		availability: NewAvailabilityChecker(reservations, policy.OverlapMode),
		locks:        NewRoomLocker(),
		log:          log,
	}
}

// withRoom holds the room's process lock, opens a transaction and row-locks
// the room before calling fn. Everything fn does through ctx commits once.
func (s *Service) withRoom(ctx context.Context, roomID int64, fn func(ctx context.Context, room *domain.Room) error) error {
	unlock, err := s.locks.Lock(ctx, roomID)
	if err != nil {
		return err
	}
	defer unlock()

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		room, err := s.rooms.LockByID(ctx, roomID)
		if err != nil {
			return err
		}
		return fn(ctx, room)
	})
}

// validateStay applies the interval rules shared by create and update.
// Future check-in is only enforced when checkFuture is set.
func (s *Service) validateStay(checkIn, checkOut, now time.Time, checkFuture bool) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return domain.Validationf("check_in and check_out are required")
	}
	if !checkIn.Before(checkOut) {
		return domain.Validationf("check_in must be before check_out")
	}
	if checkFuture && s.policy.RequireFutureCheckIn && checkIn.Before(now) {
		return domain.Validationf("check_in must not be in the past")
	}
	if s.policy.MinStay > 0 && checkOut.Sub(checkIn) < s.policy.MinStay {
		return domain.Validationf("stay must last at least %s", s.policy.MinStay)
	}
	return nil
}

// CheckAvailability reports whether the room is free for [checkIn, checkOut].
func (s *Service) CheckAvailability(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error) {
	checkIn, checkOut = domain.NormalizeTime(checkIn), domain.NormalizeTime(checkOut)
	if err := s.validateStay(checkIn, checkOut, s.clock.Now(), false); err != nil {
		return false, err
	}
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return false, err
	}
	return s.availability.IsAvailable(ctx, roomID, checkIn, checkOut, 0)
}

func (s *Service) Create(ctx context.Context, req CreateReservationRequest, actor domain.Actor) (*domain.Reservation, error) {
	if req.GuestID == 0 {
		req.GuestID = actor.UserID
	}
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	if req.GuestID <= 0 {
		return nil, domain.Validationf("guest_id is required")
	}

	now := s.clock.Now()
	checkIn, checkOut := domain.NormalizeTime(req.CheckIn), domain.NormalizeTime(req.CheckOut)
	if err := s.validateStay(checkIn, checkOut, now, true); err != nil {
		return nil, err
	}

	var created *domain.Reservation
	err := s.withRoom(ctx, req.RoomID, func(ctx context.Context, room *domain.Room) error {
		ok, err := s.availability.IsAvailable(ctx, room.ID, checkIn, checkOut, 0)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotAvailable
		}

		status := domain.ReservationPending
		if actor.Privileged {
			status = domain.ReservationConfirmed
		}

		res := &domain.Reservation{
			RoomID:          room.ID,
			HotelID:         room.HotelID,
			GuestID:         req.GuestID,
			CreatedByID:     actor.UserID,
			CheckIn:         checkIn,
			CheckOut:        checkOut,
			TotalPrice:      domain.TotalPrice(room.Price, checkIn, checkOut),
			SpecialRequests: req.SpecialRequests,
			Status:          status,
			CreatedAt:       domain.NormalizeTime(now),
			UpdatedAt:       domain.NormalizeTime(now),
		}
		if err := s.reservations.Create(ctx, res); err != nil {
			return err
		}
		created = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"reservation_id": created.ID,
		"room_id":        created.RoomID,
		"guest_id":       created.GuestID,
		"status":         created.Status,
	}).Info("reservation created")
	s.publish(ctx, domain.EventReservationCreated, created, "")
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateReservationRequest) (*domain.Reservation, error) {
	current, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	var target domain.ReservationStatus
	if req.Status != nil {
		if target, err = domain.ParseReservationStatus(*req.Status); err != nil {
			return nil, err
		}
	}

	now := s.clock.Now()
	var (
		updated    *domain.Reservation
		roomStatus domain.RoomStatus
		moved      bool
	)
	err = s.withRoom(ctx, current.RoomID, func(ctx context.Context, room *domain.Room) error {
		res, err := s.reservations.GetByID(ctx, id)
		if err != nil {
			return err
		}

		checkIn, checkOut := res.CheckIn, res.CheckOut
		if req.CheckIn != nil {
			checkIn = domain.NormalizeTime(*req.CheckIn)
		}
		if req.CheckOut != nil {
			checkOut = domain.NormalizeTime(*req.CheckOut)
		}
		if err := s.validateStay(checkIn, checkOut, now, !checkIn.Equal(res.CheckIn)); err != nil {
			return err
		}

		if !checkIn.Equal(res.CheckIn) || !checkOut.Equal(res.CheckOut) {
			ok, err := s.availability.IsAvailable(ctx, room.ID, checkIn, checkOut, res.ID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrNotAvailable
			}
			res.CheckIn, res.CheckOut = checkIn, checkOut
			res.TotalPrice = domain.TotalPrice(room.Price, checkIn, checkOut)
		}
		if req.SpecialRequests != nil {
			res.SpecialRequests = *req.SpecialRequests
		}
		if target != "" && target != res.Status {
			if roomStatus, err = s.transition(ctx, res, room, target, now); err != nil {
				return err
			}
			moved = true
		}

		res.UpdatedAt = domain.NormalizeTime(now)
		if err := s.reservations.Save(ctx, res); err != nil {
			return err
		}
		updated = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"reservation_id": updated.ID,
		"status":         updated.Status,
	}).Info("reservation updated")

	typ := domain.EventReservationUpdated
	if moved {
		typ = statusEvent(updated.Status)
	}
	s.publish(ctx, typ, updated, roomStatus)
	return updated, nil
}

// Cancel fails with ErrAlreadyCancelled or ErrNotCancellable instead of
// silently succeeding.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	current, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	var (
		cancelled  *domain.Reservation
		roomStatus domain.RoomStatus
	)
	err = s.withRoom(ctx, current.RoomID, func(ctx context.Context, room *domain.Room) error {
		res, err := s.reservations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if res.Status == domain.ReservationCancelled {
			return ErrAlreadyCancelled
		}
		if !res.Status.CanTransitionTo(domain.ReservationCancelled) {
			return ErrNotCancellable
		}

		if roomStatus, err = s.transition(ctx, res, room, domain.ReservationCancelled, now); err != nil {
			return err
		}
		res.UpdatedAt = domain.NormalizeTime(now)
		if err := s.reservations.Save(ctx, res); err != nil {
			return err
		}
		cancelled = res
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithField("reservation_id", id).Info("reservation cancelled")
	s.publish(ctx, domain.EventReservationCancelled, cancelled, roomStatus)
	return nil
}

// SetStatus moves a reservation to status and applies the paired room
// effect. Asking for the current status is a no-op.
func (s *Service) SetStatus(ctx context.Context, id int64, status domain.ReservationStatus) (*domain.Reservation, error) {
	if !status.IsValid() {
		return nil, domain.Validationf("unknown reservation status %q", status)
	}
	current, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		return current, nil
	}

	now := s.clock.Now()
	var (
		updated    *domain.Reservation
		roomStatus domain.RoomStatus
		moved      bool
	)
	err = s.withRoom(ctx, current.RoomID, func(ctx context.Context, room *domain.Room) error {
		res, err := s.reservations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		updated = res
		if res.Status == status {
			return nil
		}

		if roomStatus, err = s.transition(ctx, res, room, status, now); err != nil {
			return err
		}
		res.UpdatedAt = domain.NormalizeTime(now)
		moved = true
		return s.reservations.Save(ctx, res)
	})
	if err != nil {
		return nil, err
	}

	if moved {
		s.log.WithFields(logrus.Fields{
			"reservation_id": id,
			"status":         status,
			"room_status":    roomStatus,
		}).Info("reservation status changed")
		s.publish(ctx, statusEvent(status), updated, roomStatus)
	}
	return updated, nil
}

// advanceIfDue performs the time driven move out of from when the
// reservation is still in that status and its threshold has passed. It
// reports whether anything changed.
func (s *Service) advanceIfDue(ctx context.Context, id int64, from domain.ReservationStatus) (bool, error) {
	current, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	var (
		to  domain.ReservationStatus
		due func(r *domain.Reservation, now time.Time) bool
	)
	switch from {
	case domain.ReservationConfirmed:
		to, due = domain.ReservationCheckedIn, (*domain.Reservation).DueForCheckIn
	case domain.ReservationCheckedIn:
		to, due = domain.ReservationCheckedOut, (*domain.Reservation).DueForCheckOut
	default:
		return false, nil
	}

	now := s.clock.Now()
	if !due(current, now) {
		return false, nil
	}

	var (
		updated    *domain.Reservation
		roomStatus domain.RoomStatus
	)
	err = s.withRoom(ctx, current.RoomID, func(ctx context.Context, room *domain.Room) error {
		res, err := s.reservations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		// an interactive call may have moved it since the sweep listed it
		if res.Status != from || !due(res, now) {
			return nil
		}

		if roomStatus, err = s.transition(ctx, res, room, to, now); err != nil {
			return err
		}
		res.UpdatedAt = domain.NormalizeTime(now)
		if err := s.reservations.Save(ctx, res); err != nil {
			return err
		}
		updated = res
		return nil
	})
	if err != nil || updated == nil {
		return false, err
	}

	s.log.WithFields(logrus.Fields{
		"reservation_id": id,
		"from":           from,
		"to":             to,
		"room_status":    roomStatus,
	}).Info("reservation advanced by clock")
	s.publish(ctx, domain.EventReservationStatusChanged, updated, roomStatus)
	return true, nil
}

// transition validates and applies res -> to together with the room effect.
// It returns the room status after the move, or "" when the room was not
// touched.
func (s *Service) transition(ctx context.Context, res *domain.Reservation, room *domain.Room, to domain.ReservationStatus, now time.Time) (domain.RoomStatus, error) {
	if err := domain.ValidateTransition(res.Status, to); err != nil {
		return "", err
	}
	res.Status = to

	switch to {
	case domain.ReservationCheckedIn:
		return domain.RoomOccupied, s.setRoomStatus(ctx, room, domain.RoomOccupied, now)
	case domain.ReservationCheckedOut, domain.ReservationCancelled:
		return s.settleRoom(ctx, room, res.ID, now)
	}
	return "", nil
}

// settleRoom frees the room once res no longer holds it. Rooms under
// maintenance stay so, and a room with another checked-in stay stays occupied.
func (s *Service) settleRoom(ctx context.Context, room *domain.Room, resID int64, now time.Time) (domain.RoomStatus, error) {
	if room.Status == domain.RoomMaintenance {
		return room.Status, nil
	}

	others, err := s.reservations.CountCheckedIn(ctx, room.ID, resID)
	if err != nil {
		return "", err
	}
	next := domain.RoomAvailable
	if others > 0 {
		next = domain.RoomOccupied
	}
	return next, s.setRoomStatus(ctx, room, next, now)
}

func (s *Service) setRoomStatus(ctx context.Context, room *domain.Room, status domain.RoomStatus, now time.Time) error {
	if room.Status == status {
		return nil
	}
	if err := s.rooms.UpdateStatus(ctx, room.ID, status, domain.NormalizeTime(now)); err != nil {
		return err
	}
	room.Status = status
	return nil
}

// statusEvent names the event for a move into status, so a cancellation is
// reported the same way whichever operation performed it.
func statusEvent(status domain.ReservationStatus) domain.EventType {
	if status == domain.ReservationCancelled {
		return domain.EventReservationCancelled
	}
	return domain.EventReservationStatusChanged
}

func (s *Service) publish(ctx context.Context, typ domain.EventType, res *domain.Reservation, roomStatus domain.RoomStatus) {
	if s.events == nil || res == nil {
		return
	}
	s.events.Publish(ctx, domain.ReservationEvent{
		Type:        typ,
		HotelID:     res.HotelID,
		Reservation: *res,
		RoomStatus:  roomStatus,
		OccurredAt:  s.clock.Now(),
	})
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Reservation, error) {
	return s.reservations.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f domain.ReservationFilter) ([]domain.Reservation, int64, error) {
	return s.reservations.List(ctx, f)
}

// GuestScope narrows a guest's reservations relative to now.
type GuestScope string

const (
	GuestScopeAll      GuestScope = ""
	GuestScopeUpcoming GuestScope = "upcoming"
	GuestScopeCurrent  GuestScope = "current"
)

// ListForGuest returns all, upcoming (check-in after now) or current
// (now within the stay) reservations of a guest.
func (s *Service) ListForGuest(ctx context.Context, guestID int64, scope GuestScope, page, perPage int) ([]domain.Reservation, int64, error) {
	f := domain.ReservationFilter{GuestID: guestID, Page: page, PerPage: perPage}
	switch scope {
	case GuestScopeAll:
	case GuestScopeUpcoming:
		f.CheckInAfter = s.clock.Now()
	case GuestScopeCurrent:
		f.ActiveAt = s.clock.Now()
	default:
		return nil, 0, domain.Validationf("unknown scope %q", scope)
	}
	return s.reservations.List(ctx, f)
}
