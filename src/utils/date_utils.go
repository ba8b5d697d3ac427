package utils

import (
	"fmt"
	"time"
)

// ISODateFormat is the canonical trade date layout (YYYY-MM-DD).
const ISODateFormat = "2006-01-02"

// ParseISODate parses a canonical YYYY-MM-DD date string.
func ParseISODate(dateStr string) (time.Time, error) {
	return time.Parse(ISODateFormat, dateStr)
}

// ISODate formats a (year, monthIndex, day) triple as YYYY-MM-DD.
// monthIndex is 0-based (0 = January). Day values outside the month
// are normalized the way time.Date normalizes them.
func ISODate(year, monthIndex, day int) string {
	return time.Date(year, time.Month(monthIndex+1), day, 0, 0, 0, 0, time.UTC).Format(ISODateFormat)
}

// DaysInMonth returns the number of days of the given month.
// monthIndex is 0-based.
func DaysInMonth(year, monthIndex int) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, time.Month(monthIndex+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday of the 1st of the given month,
// 0 = Sunday. monthIndex is 0-based.
func FirstWeekday(year, monthIndex int) int {
	return int(time.Date(year, time.Month(monthIndex+1), 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// MonthDate builds a normalized date inside (or rolled over the edges
// of) the given month. Day may be zero or negative, or beyond the last
// day; time.Date rolls it into the adjacent month, which is exactly
// the behavior the calendar's boundary weeks rely on.
func MonthDate(year, monthIndex, day int) time.Time {
	return time.Date(year, time.Month(monthIndex+1), day, 0, 0, 0, 0, time.UTC)
}

// ValidateMonthIndex returns an error for month indexes outside 0-11.
func ValidateMonthIndex(monthIndex int) error {
	if monthIndex < 0 || monthIndex > 11 {
		return fmt.Errorf("month index %d out of range 0-11", monthIndex)
	}
	return nil
}
