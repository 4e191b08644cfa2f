package models

import (
	"strings"

	"gorm.io/gorm"
)

// BookingFilter is the explicit filter shape for booking list queries.
// Optional fields are left at their zero values when unused.
type BookingFilter struct {
	Statuses []BookingStatus
	Skip     int
	Take     int
}

// Apply adds the filter's conditions to a booking query.
func (f BookingFilter) Apply(q *gorm.DB) *gorm.DB {
	if len(f.Statuses) > 0 {
		q = q.Where("bookings.status IN ?", f.Statuses)
	}
	if f.Skip > 0 {
		q = q.Offset(f.Skip)
	}
	if f.Take > 0 {
		q = q.Limit(f.Take)
	}
	return q
}

// ParseStatusFilter parses a comma separated status query parameter,
// e.g. "PENDING_RESPONSE,ACCEPTED". Unknown values are rejected.
func ParseStatusFilter(raw string) ([]BookingStatus, bool) {
	if raw == "" {
		return nil, true
	}
	var statuses []BookingStatus
	for _, part := range strings.Split(raw, ",") {
		switch s := BookingStatus(strings.TrimSpace(part)); s {
		case BookingStatusPendingResponse, BookingStatusAccepted,
			BookingStatusRejected, BookingStatusCanceled:
			statuses = append(statuses, s)
		default:
			return nil, false
		}
	}
	return statuses, true
}
