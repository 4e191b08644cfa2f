package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingBooking(start time.Time) *Booking {
	return &Booking{
		RoomID:      7,
		Room:        Room{HotelID: 3},
		CreatedByID: 42,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 2),
		Status:      BookingStatusPendingResponse,
	}
}

func TestAuthorizeActor(t *testing.T) {
	b := pendingBooking(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))

	assert.NoError(t, b.AuthorizeActor(42, 0), "creating guest may act")
	assert.NoError(t, b.AuthorizeActor(99, 3), "manager of the room's hotel may act")
	assert.ErrorIs(t, b.AuthorizeActor(99, 0), ErrNotBookingActor)
	assert.ErrorIs(t, b.AuthorizeActor(99, 5), ErrNotBookingActor, "manager of another hotel may not act")
}

func TestCanClose(t *testing.T) {
	b := pendingBooking(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, b.CanClose())

	// Once accepted, a second accept/reject is not allowed.
	b.Status = BookingStatusAccepted
	assert.ErrorIs(t, b.CanClose(), ErrInvalidTransition)

	b.Status = BookingStatusRejected
	assert.ErrorIs(t, b.CanClose(), ErrInvalidTransition)

	b.Status = BookingStatusCanceled
	assert.ErrorIs(t, b.CanClose(), ErrInvalidTransition)
}

func TestCanCancel(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC)
	yesterday := time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC)

	b := pendingBooking(tomorrow)
	assert.NoError(t, b.CanCancel(now), "pending booking starting tomorrow cancels")

	b.Status = BookingStatusAccepted
	assert.NoError(t, b.CanCancel(now), "accepted booking starting tomorrow cancels")

	b.Status = BookingStatusRejected
	assert.ErrorIs(t, b.CanCancel(now), ErrInvalidTransition)

	b.Status = BookingStatusCanceled
	assert.ErrorIs(t, b.CanCancel(now), ErrInvalidTransition)

	past := pendingBooking(yesterday)
	assert.ErrorIs(t, past.CanCancel(now), ErrTooLateToCancel)

	// Cancellation must happen strictly before the start date.
	startsNow := pendingBooking(now)
	assert.ErrorIs(t, startsNow.CanCancel(now), ErrTooLateToCancel)
}

func TestBlocks(t *testing.T) {
	b := pendingBooking(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, b.Blocks())

	b.Status = BookingStatusAccepted
	assert.True(t, b.Blocks())

	b.Status = BookingStatusRejected
	assert.False(t, b.Blocks())

	b.Status = BookingStatusCanceled
	assert.False(t, b.Blocks())
}

func TestParseBookingStatus(t *testing.T) {
	s, ok := ParseBookingStatus("ACCEPTED")
	require.True(t, ok)
	assert.Equal(t, BookingStatusAccepted, s)

	s, ok = ParseBookingStatus("REJECTED")
	require.True(t, ok)
	assert.Equal(t, BookingStatusRejected, s)

	// Only manager decisions are valid here.
	_, ok = ParseBookingStatus("CANCELED")
	assert.False(t, ok)
	_, ok = ParseBookingStatus("PENDING_RESPONSE")
	assert.False(t, ok)
	_, ok = ParseBookingStatus("accepted")
	assert.False(t, ok)
}

func TestParseStatusFilter(t *testing.T) {
	statuses, ok := ParseStatusFilter("PENDING_RESPONSE,ACCEPTED")
	require.True(t, ok)
	assert.Equal(t, []BookingStatus{BookingStatusPendingResponse, BookingStatusAccepted}, statuses)

	statuses, ok = ParseStatusFilter("")
	require.True(t, ok)
	assert.Nil(t, statuses)

	_, ok = ParseStatusFilter("ACCEPTED,bogus")
	assert.False(t, ok)
}

func TestStatusAfterRoomArchive(t *testing.T) {
	next, changed := StatusAfterRoomArchive(BookingStatusPendingResponse)
	require.True(t, changed)
	assert.Equal(t, BookingStatusRejected, next)

	for _, status := range []BookingStatus{
		BookingStatusAccepted,
		BookingStatusRejected,
		BookingStatusCanceled,
	} {
		next, changed := StatusAfterRoomArchive(status)
		assert.False(t, changed, string(status))
		assert.Equal(t, status, next)
	}
}
