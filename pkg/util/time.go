package util

import (
	"fmt"
	"time"
)

// AddMinutesToDate gives the wall clock time minutes after midnight on the day of date. Values
// of a day or more roll onto the following days.
func AddMinutesToDate(date time.Time, minutes int) time.Time {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	return midnight.Add(time.Duration(minutes) * time.Minute)
}

// FormatMinuteOfDay writes minutes since midnight as HH:MM. Values outside a single day are
// written as-is so broken data stays visible.
func FormatMinuteOfDay(minutes int) string {
	if minutes < 0 || minutes >= 24*60 {
		return fmt.Sprintf("%d", minutes)
	}

	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
