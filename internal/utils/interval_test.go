package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 9, 1, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		start1, end1, start2, end2 time.Time
		want                       bool
	}{
		{"disjoint before", at(8, 0), at(9, 0), at(10, 0), at(11, 0), false},
		{"disjoint after", at(12, 0), at(13, 0), at(10, 0), at(11, 0), false},
		{"touching endpoints do not overlap", at(8, 0), at(10, 0), at(10, 0), at(12, 0), false},
		{"partial overlap", at(9, 0), at(11, 0), at(10, 0), at(12, 0), true},
		{"containment", at(9, 0), at(13, 0), at(10, 0), at(11, 0), true},
		{"identical", at(10, 0), at(12, 0), at(10, 0), at(12, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.start1, tt.end1, tt.start2, tt.end2))
			assert.Equal(t, tt.want, Overlaps(tt.start2, tt.end2, tt.start1, tt.end1), "overlap must be symmetric")
		})
	}
}

func TestContains(t *testing.T) {
	assert.True(t, Contains(at(10, 0), at(14, 0), at(10, 0), at(14, 0)))
	assert.True(t, Contains(at(10, 0), at(14, 0), at(11, 0), at(12, 0)))
	assert.False(t, Contains(at(10, 0), at(14, 0), at(9, 0), at(12, 0)))
	assert.False(t, Contains(at(10, 0), at(14, 0), at(12, 0), at(15, 0)))
}

func TestSplitLeftovers(t *testing.T) {
	tests := []struct {
		name               string
		bookStart, bookEnd time.Time
		want               []Interval
	}{
		{"exact match leaves nothing", at(10, 0), at(14, 0), nil},
		{"booking at the start leaves the tail", at(10, 0), at(12, 0), []Interval{{at(12, 0), at(14, 0)}}},
		{"booking at the end leaves the head", at(12, 0), at(14, 0), []Interval{{at(10, 0), at(12, 0)}}},
		{"booking in the middle leaves both sides", at(11, 0), at(13, 0), []Interval{{at(10, 0), at(11, 0)}, {at(13, 0), at(14, 0)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLeftovers(at(10, 0), at(14, 0), tt.bookStart, tt.bookEnd)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name         string
		start, end   time.Time
		pricePerHour float64
		want         float64
	}{
		{"two hours at 50", at(10, 0), at(12, 0), 50, 100.00},
		{"ninety minutes at 50", at(10, 0), at(11, 30), 50, 75.00},
		{"forty minutes at 100", at(10, 0), at(10, 40), 100, 66.67},
		{"twenty minutes at 100 rounds up", at(10, 0), at(10, 20), 100, 33.33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Price(tt.start, tt.end, tt.pricePerHour), 1e-9)
		})
	}
}

func TestDayBounds(t *testing.T) {
	start, end := DayBounds(at(15, 42))
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), end)
}

func TestCents(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  int64
	}{
		{"whole euros", 100.0, 10000},
		{"two decimals", 33.33, 3333},
		{"float representation below the cent", 19.99, 1999},
		{"single cent", 0.01, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Cents(tt.price))
		})
	}
}
