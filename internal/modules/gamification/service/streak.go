package service

import "time"

// nextStreak computes the attendance streak after a check-in on today.
// Consecutive calendar days extend the streak, a gap resets it to 1, and a
// second check-in on the same day leaves it untouched.
func nextStreak(current int, last *time.Time, today time.Time) int {
	if last == nil {
		return 1
	}

	switch gap := daysBetween(*last, today); {
	case gap <= 0:
		if current == 0 {
			return 1
		}
		return current
	case gap == 1:
		return current + 1
	default:
		return 1
	}
}

// daysBetween counts whole calendar days from a to b, ignoring clock time.
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
