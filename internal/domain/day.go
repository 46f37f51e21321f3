package domain

import "time"

// DayLayout is the calendar-date format used for WeightEntry.Day.
const DayLayout = "2006-01-02"

// ParseDay parses a calendar date in DayLayout.
func ParseDay(day string) (time.Time, error) {
	return time.Parse(DayLayout, day)
}

// DayOf returns the calendar date of t in loc.
func DayOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}

// DaysBetween returns the number of whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
