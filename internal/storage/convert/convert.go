// Package convert maps the temporal types used by the models to the integer
// representation stored in SQLite.
//
// Dates are stored as a count of whole days since the Unix epoch (UTC).
// Timestamps are stored as Unix milliseconds. A nil input always produces a
// nil output.
package convert

import "time"

const millisPerDay = int64(24 * time.Hour / time.Millisecond)

// DateToDays encodes the calendar day of t as days since 1970-01-01.
// The day is taken in t's own location, so 23:30 local time stays on the
// same calendar day.
func DateToDays(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	days := floorDiv(midnight.UnixMilli(), millisPerDay)
	return &days
}

// DaysToDate decodes a day count into midnight UTC of that day.
func DaysToDate(days *int64) *time.Time {
	if days == nil {
		return nil
	}
	t := time.UnixMilli(*days * millisPerDay).UTC()
	return &t
}

// TimeToMillis encodes t as Unix milliseconds, truncating sub-millisecond
// precision.
func TimeToMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

// MillisToTime decodes Unix milliseconds into a UTC time.
func MillisToTime(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).UTC()
	return &t
}

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	return *DaysToDate(DateToDays(&t))
}

// Days is the non-pointer form of DateToDays.
func Days(t time.Time) int64 {
	return *DateToDays(&t)
}

// Millis is the non-pointer form of TimeToMillis.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromDays is the non-pointer form of DaysToDate.
func FromDays(days int64) time.Time {
	return *DaysToDate(&days)
}

// FromMillis is the non-pointer form of MillisToTime.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
