package service

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestNextStreak(t *testing.T) {
	today := date(2026, 3, 10)

	tests := []struct {
		name    string
		current int
		last    *time.Time
		want    int
	}{
		{"no prior attendance", 0, nil, 1},
		{"consecutive day extends", 3, datePtr(2026, 3, 9), 4},
		{"gap of two days resets", 5, datePtr(2026, 3, 8), 1},
		{"long gap resets", 12, datePtr(2026, 1, 1), 1},
		{"same day unchanged", 4, datePtr(2026, 3, 10), 4},
		{"same day with zero streak", 0, datePtr(2026, 3, 10), 1},
		{"backdated last date unchanged", 2, datePtr(2026, 3, 12), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextStreak(tt.current, tt.last, today)
			if got != tt.want {
				t.Errorf("expected streak %d, got %d", tt.want, got)
			}
		})
	}
}

func TestNextStreakIgnoresClockTime(t *testing.T) {
	// Check-in late at night yesterday, early this morning: still consecutive.
	last := time.Date(2026, 3, 9, 23, 50, 0, 0, time.UTC)
	today := time.Date(2026, 3, 10, 0, 5, 0, 0, time.UTC)

	if got := nextStreak(2, &last, today); got != 3 {
		t.Errorf("expected streak 3, got %d", got)
	}
}

func TestDaysBetween(t *testing.T) {
	if got := daysBetween(date(2026, 2, 28), date(2026, 3, 1)); got != 1 {
		t.Errorf("expected 1 day across month boundary, got %d", got)
	}
	if got := daysBetween(date(2026, 3, 10), date(2026, 3, 10)); got != 0 {
		t.Errorf("expected 0 days, got %d", got)
	}
}
