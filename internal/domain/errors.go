package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation              = errors.New("validation error")
	ErrNotFound                = errors.New("not found")
	ErrConflict                = errors.New("conflict")
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	ErrRoomNotAvailable = fmt.Errorf("%w: room not available", ErrConflict)
	ErrAlreadyCancelled = fmt.Errorf("%w: reservation is already cancelled", ErrConflict)
	ErrNotCancellable   = fmt.Errorf("%w: reservation can no longer be cancelled", ErrConflict)
)

// TransitionError names the rejected (from, to) pair.
type TransitionError struct {
	From ReservationStatus
	To   ReservationStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidStatusTransition
}

// Validationf builds an ErrValidation with a caller supplied detail.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
