package utils

import (
	"errors"
	"math"
	"time"
)

// BookingQuote contains the calculated price and its breakdown.
// Amounts are in whole currency units.
type BookingQuote struct {
	Days       int `json:"days"`
	SubTotal   int `json:"subTotal"`
	Vat        int `json:"vat"`
	TotalPrice int `json:"totalPrice"`
}

// Quote validation errors.
var (
	ErrEndBeforeStart = errors.New("end date is before start date")
	ErrInvalidPrice   = errors.New("price per day must be positive")
	ErrInvalidVat     = errors.New("vat percentage must not be negative")
)

// CalculateBookingQuote computes the price of a stay. Both boundary days
// are billed: a one-day stay has days = 1, start Jan 1 / end Jan 3 has
// days = 3. VAT is rounded to the nearest whole currency unit, halves
// away from zero.
func CalculateBookingQuote(pricePerDay int, vatPercentage float64, startDate, endDate time.Time) (BookingQuote, error) {
	start := NormalizeDate(startDate)
	end := NormalizeDate(endDate)

	if end.Before(start) {
		return BookingQuote{}, ErrEndBeforeStart
	}
	if pricePerDay <= 0 {
		return BookingQuote{}, ErrInvalidPrice
	}
	if vatPercentage < 0 {
		return BookingQuote{}, ErrInvalidVat
	}

	days := int(end.Sub(start).Hours()/24) + 1
	subTotal := pricePerDay * days
	vat := int(math.Round(float64(subTotal) * vatPercentage / 100))

	return BookingQuote{
		Days:       days,
		SubTotal:   subTotal,
		Vat:        vat,
		TotalPrice: subTotal + vat,
	}, nil
}
