package schedule

import (
	"sort"
	"time"

	"github.com/daiquydev/fedacn-sub001/internal/models"
)

// Streak counts consecutive fully completed days ending at or before today.
// Keys are DateKeyLayout dates. Scanning backward, the first day that is
// empty, has an unfinished item, or is not the calendar day before the
// previous one ends the streak.
func Streak(byDay map[string][]*models.UserMealItem, today string) int {
	keys := make([]string, 0, len(byDay))
	for key := range byDay {
		if key <= today {
			keys = append(keys, key)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	streak := 0
	var prev time.Time
	for _, key := range keys {
		day, err := time.Parse(DateKeyLayout, key)
		if err != nil {
			break
		}
		if !prev.IsZero() && !day.Equal(prev.AddDate(0, 0, -1)) {
			break
		}
		if !dayCompleted(byDay[key]) {
			break
		}
		streak++
		prev = day
	}
	return streak
}

func dayCompleted(items []*models.UserMealItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if !item.IsCompleted() {
			return false
		}
	}
	return true
}

// GroupByDay buckets items by the calendar day they are scheduled on
func GroupByDay(items []*models.UserMealItem, loc *time.Location) map[string][]*models.UserMealItem {
	byDay := make(map[string][]*models.UserMealItem)
	for _, item := range items {
		key := DateKey(item.ScheduledDate, loc)
		byDay[key] = append(byDay[key], item)
	}
	return byDay
}
