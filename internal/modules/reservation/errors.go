package reservation

import "hotelbooking/internal/domain"

var (
	ErrValidation              = domain.ErrValidation
	ErrNotFound                = domain.ErrNotFound
	ErrConflict                = domain.ErrConflict
	ErrNotAvailable            = domain.ErrRoomNotAvailable
	ErrAlreadyCancelled        = domain.ErrAlreadyCancelled
	ErrNotCancellable          = domain.ErrNotCancellable
	ErrInvalidStatusTransition = domain.ErrInvalidStatusTransition
)
