package model

import "time"

// IsPeakDay reports whether a date is a peak banking day: Mondays,
// Fridays, and the 15th and 30th of the month (payday traffic).
func IsPeakDay(date time.Time) bool {
	switch date.Weekday() {
	case time.Monday, time.Friday:
		return true
	}
	day := date.Day()
	return day == 15 || day == 30
}
