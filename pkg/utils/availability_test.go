package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRangesOverlap(t *testing.T) {
	jan := func(d int) time.Time { return date(2024, time.January, d) }

	tests := []struct {
		name      string
		blocked   []DateRange
		candidate DateRange
		want      bool
	}{
		{
			name:      "identical range overlaps itself",
			blocked:   []DateRange{{Start: jan(1), End: jan(5)}},
			candidate: DateRange{Start: jan(1), End: jan(5)},
			want:      true,
		},
		{
			name:      "adjacent day after checkout is free",
			blocked:   []DateRange{{Start: jan(1), End: jan(5)}},
			candidate: DateRange{Start: jan(6), End: jan(10)},
			want:      false,
		},
		{
			name:      "touching boundary day counts as overlap",
			blocked:   []DateRange{{Start: jan(1), End: jan(5)}},
			candidate: DateRange{Start: jan(5), End: jan(8)},
			want:      true,
		},
		{
			name:      "candidate fully inside blocked range",
			blocked:   []DateRange{{Start: jan(1), End: jan(10)}},
			candidate: DateRange{Start: jan(4), End: jan(6)},
			want:      true,
		},
		{
			name:      "candidate spanning blocked range",
			blocked:   []DateRange{{Start: jan(4), End: jan(6)}},
			candidate: DateRange{Start: jan(1), End: jan(10)},
			want:      true,
		},
		{
			name:      "empty blocked list",
			blocked:   nil,
			candidate: DateRange{Start: jan(1), End: jan(5)},
			want:      false,
		},
		{
			name: "disjoint from several blocked ranges",
			blocked: []DateRange{
				{Start: jan(1), End: jan(3)},
				{Start: jan(10), End: jan(12)},
			},
			candidate: DateRange{Start: jan(5), End: jan(8)},
			want:      false,
		},
		{
			name: "overlaps the second of several blocked ranges",
			blocked: []DateRange{
				{Start: jan(1), End: jan(3)},
				{Start: jan(10), End: jan(12)},
			},
			candidate: DateRange{Start: jan(8), End: jan(10)},
			want:      true,
		},
		{
			name:      "single day candidate against blocked day",
			blocked:   []DateRange{{Start: jan(5), End: jan(5)}},
			candidate: DateRange{Start: jan(5), End: jan(5)},
			want:      true,
		},
		{
			name:      "single day candidate on a free day",
			blocked:   []DateRange{{Start: jan(5), End: jan(5)}},
			candidate: DateRange{Start: jan(6), End: jan(6)},
			want:      false,
		},
		{
			name:      "candidate missing start cannot be checked",
			blocked:   []DateRange{{Start: jan(1), End: jan(5)}},
			candidate: DateRange{End: jan(5)},
			want:      false,
		},
		{
			name:      "candidate missing end cannot be checked",
			blocked:   []DateRange{{Start: jan(1), End: jan(5)}},
			candidate: DateRange{Start: jan(1)},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RangesOverlap(tt.blocked, tt.candidate))
		})
	}
}

func TestRangesOverlapIgnoresTimeOfDay(t *testing.T) {
	blocked := []DateRange{{
		Start: time.Date(2024, time.January, 1, 14, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 5, 23, 59, 0, 0, time.UTC),
	}}
	candidate := DateRange{
		Start: time.Date(2024, time.January, 5, 0, 1, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 8, 12, 0, 0, 0, time.UTC),
	}

	assert.True(t, RangesOverlap(blocked, candidate))
}

func TestNormalizeDate(t *testing.T) {
	ts := time.Date(2024, time.March, 15, 18, 42, 7, 123, time.UTC)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), NormalizeDate(ts))
}
