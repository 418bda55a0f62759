package schedule

import (
	"math"
	"time"

	"github.com/araddon/dateparse"
)

// DateKeyLayout is the calendar key items are grouped by
const DateKeyLayout = "2006-01-02"

// StartOfDay returns local midnight of t's calendar day in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// AddDays moves a midnight forward by n calendar days
func AddDays(day time.Time, n int) time.Time {
	return day.AddDate(0, 0, n)
}

// DaysBetween counts calendar days from a to b. Both should be midnights.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// DateKey formats the calendar day of t in loc
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateKeyLayout)
}

// ParseDate accepts any common date format and returns that day's midnight
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return time.Time{}, err
	}
	return StartOfDay(t, loc), nil
}
