package shared

import (
	"testing"
	"time"
)

func TestElapsedSeconds(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	if got := ElapsedSeconds(base, base.Add(30*time.Minute)); got != 1800 {
		t.Errorf("expected 1800 seconds, got %d", got)
	}

	if got := ElapsedSeconds(base, base); got != 0 {
		t.Errorf("expected 0 seconds for zero interval, got %d", got)
	}

	// Clock skew: end before start clamps to 0, never negative.
	if got := ElapsedSeconds(base, base.Add(-5*time.Minute)); got != 0 {
		t.Errorf("expected 0 seconds for negative interval, got %d", got)
	}
}

func TestOverlapSeconds(t *testing.T) {
	dayStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	now := dayStart.Add(12 * time.Hour)

	// Fully inside the window.
	start := dayStart.Add(10 * time.Hour)
	end := start.Add(30 * time.Minute)
	if got := OverlapSeconds(start, end, dayStart, now); got != 1800 {
		t.Errorf("expected 1800, got %d", got)
	}

	// Session spanning midnight only counts its post-midnight portion.
	start = dayStart.Add(-10 * time.Minute)
	end = dayStart.Add(10 * time.Minute)
	if got := OverlapSeconds(start, end, dayStart, now); got != 600 {
		t.Errorf("expected 600, got %d", got)
	}

	// Entirely before the window.
	start = dayStart.Add(-2 * time.Hour)
	end = dayStart.Add(-1 * time.Hour)
	if got := OverlapSeconds(start, end, dayStart, now); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}

	// Open interval clamped to the window end.
	start = now.Add(-20 * time.Minute)
	end = now.Add(time.Hour)
	if got := OverlapSeconds(start, end, dayStart, now); got != 1200 {
		t.Errorf("expected 1200, got %d", got)
	}
}

func TestStartOfDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}

	at := time.Date(2025, 6, 1, 18, 45, 12, 0, loc)
	got := StartOfDay(at)
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got.Location() != loc {
		t.Errorf("expected location %v, got %v", loc, got.Location())
	}
}

func TestNextMidnight(t *testing.T) {
	at := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)
	got := NextMidnight(at)
	want := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
