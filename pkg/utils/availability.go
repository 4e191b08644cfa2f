package utils

import (
	"time"
)

// DateRange is a closed calendar-day interval. Both endpoints are part
// of the range: a booking from Jan 1 to Jan 3 occupies three days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NormalizeDate truncates a timestamp to midnight UTC. All availability
// and pricing logic works at calendar-day granularity.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsValid reports whether the range has both endpoints set and is not
// inverted.
func (r DateRange) IsValid() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && !r.End.Before(r.Start)
}

// Overlaps tests two closed intervals. [a,b] and [c,d] overlap iff
// a <= d && c <= b, so touching endpoints count: with inclusive-day
// booking a checkout day can never equal another booking's check-in day.
func (r DateRange) Overlaps(other DateRange) bool {
	a, b := NormalizeDate(r.Start), NormalizeDate(r.End)
	c, d := NormalizeDate(other.Start), NormalizeDate(other.End)
	return !a.After(d) && !c.After(b)
}

// RangesOverlap reports whether the candidate range overlaps any blocked
// range. A candidate with a missing endpoint cannot be checked and
// yields false; callers must reject incomplete ranges before booking.
func RangesOverlap(blocked []DateRange, candidate DateRange) bool {
	if candidate.Start.IsZero() || candidate.End.IsZero() {
		return false
	}
	for _, r := range blocked {
		if r.Overlaps(candidate) {
			return true
		}
	}
	return false
}
