package shared

import "time"

// ElapsedSeconds returns the whole seconds between start and end. A negative
// delta (clock skew between the client and the store) clamps to 0 instead of
// producing a negative duration.
func ElapsedSeconds(start, end time.Time) int64 {
	if end.Before(start) {
		return 0
	}
	return int64(end.Sub(start) / time.Second)
}

// OverlapSeconds returns the whole seconds the interval [start, end] shares
// with the window [windowStart, windowEnd], 0 when they don't overlap.
func OverlapSeconds(start, end, windowStart, windowEnd time.Time) int64 {
	overlapStart := start
	if windowStart.After(overlapStart) {
		overlapStart = windowStart
	}
	overlapEnd := end
	if windowEnd.Before(overlapEnd) {
		overlapEnd = windowEnd
	}
	return ElapsedSeconds(overlapStart, overlapEnd)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NextMidnight returns the first midnight after t in t's location.
func NextMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location())
}
