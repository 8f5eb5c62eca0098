package contract

import "time"

const (
	secondsPerDay = 24 * 60 * 60

	// julianEpochOffset is the julian day number of 1970-01-01 (noon UTC).
	julianEpochOffset = 2440588

	// DateFormat is the compact day format used for display and logs.
	DateFormat = "20060102"
)

// NormalizeDate reduces t to its calendar day, in t's own zone offset, and
// returns that day as a count of days since 1970-01-01.
//
// Two instants on the same local day always normalize to the same value
// regardless of the offset of the machine doing the comparison.
func NormalizeDate(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

// JulianDay returns the julian day number of a normalized day.
func JulianDay(day int64) int64 {
	return day + julianEpochOffset
}

// DayTime returns midnight UTC of a normalized day.
func DayTime(day int64) time.Time {
	return time.Unix(day*secondsPerDay, 0).UTC()
}

// DateString formats a normalized day as yyyyMMdd.
func DateString(day int64) string {
	return DayTime(day).Format(DateFormat)
}
