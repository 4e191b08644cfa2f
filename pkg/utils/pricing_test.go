package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBookingQuote(t *testing.T) {
	jan := func(d int) time.Time { return date(2024, time.January, d) }

	tests := []struct {
		name        string
		pricePerDay int
		vat         float64
		start, end  time.Time
		want        BookingQuote
	}{
		{
			name:        "three day stay with 10 percent vat",
			pricePerDay: 100,
			vat:         10,
			start:       jan(1),
			end:         jan(3),
			want:        BookingQuote{Days: 3, SubTotal: 300, Vat: 30, TotalPrice: 330},
		},
		{
			name:        "single day stay with zero vat",
			pricePerDay: 50,
			vat:         0,
			start:       jan(1),
			end:         jan(1),
			want:        BookingQuote{Days: 1, SubTotal: 50, Vat: 0, TotalPrice: 50},
		},
		{
			name:        "both boundary days are billed",
			pricePerDay: 80,
			vat:         20,
			start:       jan(10),
			end:         jan(11),
			want:        BookingQuote{Days: 2, SubTotal: 160, Vat: 32, TotalPrice: 192},
		},
		{
			// 125 * 10% = 12.5, rounds half away from zero to 13.
			name:        "vat rounds half up",
			pricePerDay: 125,
			vat:         10,
			start:       jan(1),
			end:         jan(1),
			want:        BookingQuote{Days: 1, SubTotal: 125, Vat: 13, TotalPrice: 138},
		},
		{
			// 135 * 10% = 13.5 also rounds up, not to even.
			name:        "vat rounding is not banker's rounding",
			pricePerDay: 135,
			vat:         10,
			start:       jan(1),
			end:         jan(1),
			want:        BookingQuote{Days: 1, SubTotal: 135, Vat: 14, TotalPrice: 149},
		},
		{
			name:        "fractional vat percentage",
			pricePerDay: 200,
			vat:         7.5,
			start:       jan(1),
			end:         jan(2),
			want:        BookingQuote{Days: 2, SubTotal: 400, Vat: 30, TotalPrice: 430},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateBookingQuote(tt.pricePerDay, tt.vat, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateBookingQuoteTimeOfDayDoesNotAddDays(t *testing.T) {
	start := time.Date(2024, time.January, 1, 23, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 3, 1, 0, 0, 0, time.UTC)

	got, err := CalculateBookingQuote(100, 0, start, end)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Days)
}

func TestCalculateBookingQuoteValidation(t *testing.T) {
	jan := func(d int) time.Time { return date(2024, time.January, d) }

	_, err := CalculateBookingQuote(100, 10, jan(5), jan(1))
	assert.ErrorIs(t, err, ErrEndBeforeStart)

	_, err = CalculateBookingQuote(0, 10, jan(1), jan(5))
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = CalculateBookingQuote(-10, 10, jan(1), jan(5))
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = CalculateBookingQuote(100, -1, jan(1), jan(5))
	assert.ErrorIs(t, err, ErrInvalidVat)
}
