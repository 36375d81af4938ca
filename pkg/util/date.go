package util

import "time"

// DayString formats a time as the calendar-date key used for day-rollover
// checks and the reference baseline.
func DayString(t time.Time) string {
	return t.Format("2006-01-02")
}

// ClockString formats a time as the wall-clock timestamp carried in
// snapshots.
func ClockString(t time.Time) string {
	return t.Format("15:04:05")
}
