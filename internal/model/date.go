package model

import "time"

// DateUTC truncates t to midnight UTC. All schedule arithmetic happens at
// day granularity in UTC so a cascade never drifts across timezones.
func DateUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the UTC date days after t. days may be negative.
func AddDays(t time.Time, days int) time.Time {
	return DateUTC(t).AddDate(0, 0, days)
}

// SameDate reports whether a and b fall on the same UTC calendar day.
func SameDate(a, b time.Time) bool {
	return DateUTC(a).Equal(DateUTC(b))
}
