package utils

import (
	"math"
	"time"
)

// Overlaps reports whether the half-open intervals [start1, end1) and
// [start2, end2) intersect.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}

// Contains reports whether [innerStart, innerEnd) lies entirely within
// [outerStart, outerEnd).
func Contains(outerStart, outerEnd, innerStart, innerEnd time.Time) bool {
	return !innerStart.Before(outerStart) && !innerEnd.After(outerEnd)
}

// Interval is a half-open [Start, End) time range.
type Interval struct {
	Start time.Time
	End   time.Time
}

// SplitLeftovers returns the free remainders of a window [windowStart,
// windowEnd) after booking [bookStart, bookEnd) out of it: the "before"
// interval when the booking starts late, the "after" interval when it ends
// early. Empty remainders are omitted.
func SplitLeftovers(windowStart, windowEnd, bookStart, bookEnd time.Time) []Interval {
	var leftovers []Interval
	if windowStart.Before(bookStart) {
		leftovers = append(leftovers, Interval{Start: windowStart, End: bookStart})
	}
	if bookEnd.Before(windowEnd) {
		leftovers = append(leftovers, Interval{Start: bookEnd, End: windowEnd})
	}
	return leftovers
}

// Hours returns the duration of [start, end) in fractional hours.
func Hours(start, end time.Time) float64 {
	return end.Sub(start).Seconds() / 3600
}

// Price computes the rental price for [start, end) at the given hourly rate,
// rounded to two decimals.
func Price(start, end time.Time, pricePerHour float64) float64 {
	return math.Round(Hours(start, end)*pricePerHour*100) / 100
}

// Cents converts a two-decimal price to integer cents for payment APIs,
// rounding so float representation error never drops a cent.
func Cents(price float64) int64 {
	return int64(math.Round(price * 100))
}

// DayBounds returns the half-open [00:00, next day 00:00) range of the
// calendar day containing t, in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
