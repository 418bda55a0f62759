package schedule

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/daiquydev/fedacn-sub001/internal/apperror"
	"github.com/daiquydev/fedacn-sub001/internal/models"
	"github.com/daiquydev/fedacn-sub001/internal/nutrition"
	"github.com/daiquydev/fedacn-sub001/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DayQuery picks a day of a schedule by calendar date or 1-based day number
type DayQuery struct {
	ScheduleID primitive.ObjectID
	Date       string
	DayNumber  int
}

// DayView is the meals of one scheduled day
type DayView struct {
	ScheduleID     primitive.ObjectID     `json:"schedule_id"`
	Date           string                 `json:"date"`
	DayNumber      int                    `json:"day_number"`
	Items          []*models.UserMealItem `json:"items"`
	Nutrition      nutrition.Totals       `json:"nutrition"`
	Consumed       nutrition.Totals       `json:"consumed"`
	CompletedCount int                    `json:"completed_count"`
	TotalCount     int                    `json:"total_count"`
}

// DayItems returns the items of one day, backfilling the schedule first if
// it has never been materialized
func (s *Service) DayItems(ctx context.Context, userID primitive.ObjectID, q DayQuery) (*DayView, error) {
	schedule, err := s.ownedSchedule(ctx, userID, q.ScheduleID)
	if err != nil {
		return nil, err
	}

	start := StartOfDay(schedule.StartDate, s.loc)
	var day time.Time
	switch {
	case q.Date != "":
		day, err = ParseDate(q.Date, s.loc)
		if err != nil {
			return nil, apperror.BadRequest("invalid date %q", q.Date)
		}
	case q.DayNumber >= 1:
		day = AddDays(start, q.DayNumber-1)
	case q.DayNumber < 0:
		return nil, apperror.BadRequest("day_number must be at least 1")
	default:
		return nil, apperror.BadRequest("date or day_number is required")
	}

	if err := s.ensureItems(ctx, schedule); err != nil {
		return nil, err
	}

	next := AddDays(day, 1)
	items, err := s.store.Schedules.FindItems(ctx, storage.ItemFilter{
		ScheduleIDs: []primitive.ObjectID{schedule.ID},
		From:        &day,
		To:          &next,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load day items: %w", err)
	}
	if err := s.populateRecipes(ctx, items); err != nil {
		return nil, err
	}

	return &DayView{
		ScheduleID:     schedule.ID,
		Date:           day.Format(DateKeyLayout),
		DayNumber:      DaysBetween(start, day) + 1,
		Items:          nonNil(items),
		Nutrition:      nutrition.Sum(items).Rounded(),
		Consumed:       nutrition.SumCompleted(items).Rounded(),
		CompletedCount: countStatus(items, models.ItemCompleted),
		TotalCount:     len(items),
	}, nil
}

// DayGroup is the items of one calendar day
type DayGroup struct {
	Date      string                 `json:"date"`
	Items     []*models.UserMealItem `json:"items"`
	Nutrition nutrition.Totals       `json:"nutrition"`
}

// TodayView summarizes today across every active schedule plus the next days
type TodayView struct {
	Date           string                 `json:"date"`
	Items          []*models.UserMealItem `json:"items"`
	Planned        nutrition.Totals       `json:"planned"`
	Consumed       nutrition.Totals       `json:"consumed"`
	CompletedCount int                    `json:"completed_count"`
	TotalCount     int                    `json:"total_count"`
	Upcoming       []DayGroup             `json:"upcoming"`
}

// Today returns today's meals and the upcoming days of the user's active
// schedules
func (s *Service) Today(ctx context.Context, userID primitive.ObjectID) (*TodayView, error) {
	today := s.today()
	view := &TodayView{
		Date:     today.Format(DateKeyLayout),
		Items:    []*models.UserMealItem{},
		Upcoming: []DayGroup{},
	}

	schedules, err := s.Active(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return view, nil
	}

	ids := make([]primitive.ObjectID, len(schedules))
	for i, schedule := range schedules {
		if err := s.ensureItems(ctx, schedule); err != nil {
			return nil, err
		}
		ids[i] = schedule.ID
	}

	tomorrow := AddDays(today, 1)
	horizon := AddDays(tomorrow, s.upcomingDays)
	items, err := s.store.Schedules.FindItems(ctx, storage.ItemFilter{
		ScheduleIDs: ids,
		From:        &today,
		To:          &horizon,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	if err := s.populateRecipes(ctx, items); err != nil {
		return nil, err
	}

	byDay := GroupByDay(items, s.loc)
	todayItems := byDay[view.Date]
	sortItems(todayItems)
	view.Items = nonNil(todayItems)
	view.Planned = nutrition.Sum(todayItems).Rounded()
	view.Consumed = nutrition.SumCompleted(todayItems).Rounded()
	view.CompletedCount = countStatus(todayItems, models.ItemCompleted)
	view.TotalCount = len(todayItems)

	for d := tomorrow; d.Before(horizon); d = AddDays(d, 1) {
		key := d.Format(DateKeyLayout)
		dayItems, ok := byDay[key]
		if !ok {
			continue
		}
		sortItems(dayItems)
		view.Upcoming = append(view.Upcoming, DayGroup{
			Date:      key,
			Items:     dayItems,
			Nutrition: nutrition.Sum(dayItems).Rounded(),
		})
	}
	return view, nil
}

// Stats is the progress of one schedule
type Stats struct {
	TotalItems     int              `json:"total_items"`
	CompletedItems int              `json:"completed_items"`
	SkippedItems   int              `json:"skipped_items"`
	PendingItems   int              `json:"pending_items"`
	CompletionRate float64          `json:"completion_rate"`
	CurrentStreak  int              `json:"current_streak"`
	TotalDays      int              `json:"total_days"`
	CurrentDay     int              `json:"current_day"`
	Planned        nutrition.Totals `json:"planned"`
	Consumed       nutrition.Totals `json:"consumed"`
}

// Stats returns the progress of a schedule owned by the user
func (s *Service) Stats(ctx context.Context, userID, id primitive.ObjectID) (*Stats, error) {
	schedule, err := s.ownedSchedule(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.stats(ctx, schedule)
}

func (s *Service) stats(ctx context.Context, schedule *models.UserMealSchedule) (*Stats, error) {
	items, err := s.store.Schedules.FindItems(ctx, storage.ItemFilter{
		ScheduleIDs: []primitive.ObjectID{schedule.ID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	if err := s.populateRecipes(ctx, items); err != nil {
		return nil, err
	}

	start := StartOfDay(schedule.StartDate, s.loc)
	end := StartOfDay(schedule.EndDate, s.loc)
	today := s.today()

	stats := &Stats{
		TotalItems:     len(items),
		CompletedItems: countStatus(items, models.ItemCompleted),
		SkippedItems:   countStatus(items, models.ItemSkipped),
		PendingItems:   countStatus(items, models.ItemPending),
		CurrentStreak:  Streak(GroupByDay(items, s.loc), today.Format(DateKeyLayout)),
		TotalDays:      DaysBetween(start, end) + 1,
		Planned:        nutrition.Sum(items).Rounded(),
		Consumed:       nutrition.SumCompleted(items).Rounded(),
	}
	if stats.TotalItems > 0 {
		rate := float64(stats.CompletedItems) / float64(stats.TotalItems) * 100
		stats.CompletionRate = math.Round(rate*10) / 10
	}

	switch {
	case today.Before(start):
		stats.CurrentDay = 0
	case today.After(end):
		stats.CurrentDay = stats.TotalDays
	default:
		stats.CurrentDay = DaysBetween(start, today) + 1
	}
	return stats, nil
}

func countStatus(items []*models.UserMealItem, status string) int {
	n := 0
	for _, item := range items {
		if item.Status == status {
			n++
		}
	}
	return n
}

func sortItems(items []*models.UserMealItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].MealType.Rank() != items[j].MealType.Rank() {
			return items[i].MealType.Rank() < items[j].MealType.Rank()
		}
		return items[i].MealOrder < items[j].MealOrder
	})
}

func nonNil(items []*models.UserMealItem) []*models.UserMealItem {
	if items == nil {
		return []*models.UserMealItem{}
	}
	return items
}
