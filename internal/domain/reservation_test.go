package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTransition(t *testing.T) {
	cases := []struct {
		from, to ReservationStatus
		ok       bool
	}{
		{ReservationPending, ReservationConfirmed, true},
		{ReservationPending, ReservationCancelled, true},
		{ReservationPending, ReservationCheckedIn, false},
		{ReservationPending, ReservationCheckedOut, false},
		{ReservationConfirmed, ReservationCheckedIn, true},
		{ReservationConfirmed, ReservationCancelled, true},
		{ReservationConfirmed, ReservationPending, false},
		{ReservationCheckedIn, ReservationCheckedOut, true},
		{ReservationCheckedIn, ReservationCancelled, false},
		{ReservationCheckedIn, ReservationConfirmed, false},
		{ReservationCheckedOut, ReservationCheckedIn, false},
		{ReservationCheckedOut, ReservationCancelled, false},
		{ReservationCancelled, ReservationPending, false},
		{ReservationCancelled, ReservationConfirmed, false},
		{ReservationPending, ReservationPending, true},
		{ReservationCheckedOut, ReservationCheckedOut, true},
		{ReservationCancelled, ReservationCancelled, true},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			err := ValidateTransition(tc.from, tc.to)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidStatusTransition)

			var te *TransitionError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tc.from, te.From)
			assert.Equal(t, tc.to, te.To)
			assert.Contains(t, err.Error(), string(tc.from))
			assert.Contains(t, err.Error(), string(tc.to))
		})
	}
}

func TestValidateTransition_UnknownTarget(t *testing.T) {
	err := ValidateTransition(ReservationPending, "teleported")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseReservationStatus(t *testing.T) {
	s, err := ParseReservationStatus("CHECKED_IN")
	require.NoError(t, err)
	assert.Equal(t, ReservationCheckedIn, s)

	_, err = ParseReservationStatus("archived")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReservationStatus_TerminalAndBlocking(t *testing.T) {
	assert.True(t, ReservationCheckedOut.IsTerminal())
	assert.True(t, ReservationCancelled.IsTerminal())
	assert.False(t, ReservationCheckedIn.IsTerminal())

	assert.True(t, ReservationPending.Blocks())
	assert.True(t, ReservationConfirmed.Blocks())
	assert.True(t, ReservationCheckedIn.Blocks())
	assert.False(t, ReservationCheckedOut.Blocks())
	assert.False(t, ReservationCancelled.Blocks())
}

func TestTotalPrice(t *testing.T) {
	day := func(d, h int) time.Time { return time.Date(2024, 1, d, h, 0, 0, 0, time.UTC) }

	// one night
	assert.Equal(t, 100.0, TotalPrice(100, day(1, 14), day(2, 11)))
	// under 24h on the same day still pays one day
	assert.Equal(t, 100.0, TotalPrice(100, day(1, 9), day(1, 18)))
	// two nights, 45 hours
	assert.Equal(t, 200.0, TotalPrice(100, day(1, 14), day(3, 11)))
	assert.Equal(t, 300.0, TotalPrice(100, day(1, 12), day(4, 12)))
	assert.Equal(t, 269.97, TotalPrice(89.99, day(1, 12), day(4, 12)))
}

func TestOverlapMode(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2024, 1, 1, h, 0, 0, 0, time.UTC) }

	// touching at one instant
	assert.True(t, OverlapClosed.Overlaps(at(10), at(12), at(12), at(14)))
	assert.False(t, OverlapHalfOpen.Overlaps(at(10), at(12), at(12), at(14)))

	// strictly inside
	assert.True(t, OverlapClosed.Overlaps(at(10), at(20), at(12), at(14)))
	assert.True(t, OverlapHalfOpen.Overlaps(at(10), at(20), at(12), at(14)))

	// disjoint
	assert.False(t, OverlapClosed.Overlaps(at(1), at(2), at(3), at(4)))
}

func TestActorFor(t *testing.T) {
	assert.True(t, ActorFor(1, "admin").Privileged)
	assert.False(t, ActorFor(2, "manager").Privileged)
	assert.False(t, ActorFor(3, "guest").Privileged)
}
