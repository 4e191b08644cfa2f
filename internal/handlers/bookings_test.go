package handlers

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staywellhq/staywell-backend/internal/models"
	"github.com/staywellhq/staywell-backend/pkg/utils"
)

func activeRoom() *models.Room {
	room := &models.Room{
		HotelID:       3,
		PricePerDay:   100,
		VatPercentage: 10,
		IsActive:      true,
	}
	room.ID = 7
	return room
}

func jan(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildBooking(t *testing.T) {
	input := CreateBookingInput{
		RoomID:     7,
		StartDate:  jan(1),
		EndDate:    jan(3),
		Days:       3,
		TotalPrice: 330, // 3 * 100 + 10% VAT
	}

	booking, err := buildBooking(activeRoom(), nil, input, 42)
	require.NoError(t, err)

	assert.Equal(t, uint(7), booking.RoomID)
	assert.Equal(t, uint(42), booking.CreatedByID)
	assert.Equal(t, models.BookingStatusPendingResponse, booking.Status)
	assert.Equal(t, 100, booking.PricePerDay)
	assert.Equal(t, 3, booking.Days)
	assert.Equal(t, 300, booking.SubTotal)
	assert.Equal(t, 30, booking.Vat)
	assert.Equal(t, 330, booking.TotalPrice)
	assert.Equal(t, jan(1), booking.StartDate)
	assert.Equal(t, jan(3), booking.EndDate)
}

func TestBuildBookingRejectsTamperedTotal(t *testing.T) {
	input := CreateBookingInput{
		RoomID:     7,
		StartDate:  jan(1),
		EndDate:    jan(3),
		Days:       3,
		TotalPrice: 1,
	}

	_, err := buildBooking(activeRoom(), nil, input, 42)
	assert.ErrorIs(t, err, ErrQuoteMismatch)
}

func TestBuildBookingRejectsTamperedDays(t *testing.T) {
	input := CreateBookingInput{
		RoomID:     7,
		StartDate:  jan(1),
		EndDate:    jan(3),
		Days:       2, // nights-style count; the server bills both endpoints
		TotalPrice: 330,
	}

	_, err := buildBooking(activeRoom(), nil, input, 42)
	assert.ErrorIs(t, err, ErrQuoteMismatch)
}

func TestBuildBookingRejectsBlockedDates(t *testing.T) {
	blocked := []utils.DateRange{{Start: jan(2), End: jan(5)}}
	input := CreateBookingInput{
		RoomID:     7,
		StartDate:  jan(1),
		EndDate:    jan(3),
		Days:       3,
		TotalPrice: 330,
	}

	_, err := buildBooking(activeRoom(), blocked, input, 42)
	assert.ErrorIs(t, err, ErrDatesUnavailable)
}

func TestBuildBookingRejectsTouchingCheckout(t *testing.T) {
	// Inclusive-day semantics: the existing booking's last day cannot be
	// the candidate's first day.
	blocked := []utils.DateRange{{Start: jan(1), End: jan(5)}}
	input := CreateBookingInput{
		RoomID:     7,
		StartDate:  jan(5),
		EndDate:    jan(8),
		Days:       4,
		TotalPrice: 440,
	}

	_, err := buildBooking(activeRoom(), blocked, input, 42)
	assert.ErrorIs(t, err, ErrDatesUnavailable)
}

func TestBuildBookingRejectsArchivedRoom(t *testing.T) {
	room := activeRoom()
	room.IsActive = false

	input := CreateBookingInput{
		RoomID:     7,
		StartDate:  jan(1),
		EndDate:    jan(3),
		Days:       3,
		TotalPrice: 330,
	}

	_, err := buildBooking(room, nil, input, 42)
	assert.ErrorIs(t, err, ErrRoomArchived)
}

func TestBuildBookingRejectsIncompleteRange(t *testing.T) {
	input := CreateBookingInput{
		RoomID:     7,
		EndDate:    jan(3),
		Days:       3,
		TotalPrice: 330,
	}

	_, err := buildBooking(activeRoom(), nil, input, 42)
	assert.ErrorIs(t, err, ErrIncompleteRange)
}

func TestBuildBookingRejectsInvertedRange(t *testing.T) {
	input := CreateBookingInput{
		RoomID:     7,
		StartDate:  jan(5),
		EndDate:    jan(1),
		Days:       5,
		TotalPrice: 550,
	}

	_, err := buildBooking(activeRoom(), nil, input, 42)
	assert.ErrorIs(t, err, utils.ErrEndBeforeStart)
}

func TestIsSerializationFailure(t *testing.T) {
	raceErr := &pgconn.PgError{Code: "40001", Message: "could not serialize access due to concurrent update"}
	assert.True(t, isSerializationFailure(raceErr))
	assert.True(t, isSerializationFailure(fmt.Errorf("create booking: %w", raceErr)))

	assert.False(t, isSerializationFailure(nil))
	assert.False(t, isSerializationFailure(errors.New("connection reset")))
	assert.False(t, isSerializationFailure(&pgconn.PgError{Code: "23505"}))
}
