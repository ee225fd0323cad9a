package models

import (
	"time"

	"github.com/julianstephens/habitline/internal/constants"
)

// Date truncates t to midnight of its calendar day in the local zone
func Date(t time.Time) time.Time {
	y, m, d := t.In(time.Local).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// Today returns the current local calendar date
func Today() time.Time {
	return Date(time.Now())
}

// ParseDate parses a YYYY-MM-DD string as a local calendar date
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(constants.DateFormat, s, time.Local)
}

func FormatDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}
