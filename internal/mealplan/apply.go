package mealplan

import (
	"context"
	"fmt"
	"strings"

	"github.com/daiquydev/fedacn-sub001/internal/apperror"
	"github.com/daiquydev/fedacn-sub001/internal/models"
	"github.com/daiquydev/fedacn-sub001/internal/schedule"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ApplyInput starts a schedule from a plan
type ApplyInput struct {
	StartDate string            `json:"start_date"`
	Title     string            `json:"title"`
	Reminders []models.Reminder `json:"reminders"`
}

// Applied is the schedule created by Apply
type Applied struct {
	Schedule     *models.UserMealSchedule `json:"schedule"`
	ItemsCreated int                      `json:"items_created"`
}

// Apply starts a schedule of the plan for the caller and materializes its
// meal items. A user runs at most one active schedule per plan.
func (s *Service) Apply(ctx context.Context, userID, id primitive.ObjectID, in ApplyInput) (*Applied, error) {
	plan, err := s.visiblePlan(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	loc := s.scheduler.Location()
	start := schedule.StartOfDay(s.now(), loc)
	if in.StartDate != "" {
		if start, err = schedule.ParseDate(in.StartDate, loc); err != nil {
			return nil, apperror.BadRequest("invalid start_date %q", in.StartDate)
		}
	}
	if err := schedule.ValidateReminders(in.Reminders); err != nil {
		return nil, err
	}

	active, err := s.scheduler.HasActive(ctx, userID, plan.ID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, apperror.BadRequest("you already have an active schedule for this meal plan")
	}

	duration := plan.DurationDays
	if duration < 1 {
		duration = 1
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = plan.Title
	}

	now := s.now()
	sched := &models.UserMealSchedule{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		MealPlanID: plan.ID,
		Title:      title,
		StartDate:  start,
		EndDate:    schedule.AddDays(start, duration-1),
		Status:     models.ScheduleActive,
		Reminders:  in.Reminders,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Schedules.CreateSchedule(ctx, sched); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	created, err := s.scheduler.Materialize(ctx, sched)
	if err != nil {
		return nil, err
	}
	if err := s.store.Plans.IncrementCounter(ctx, plan.ID, models.CounterApplied, 1); err != nil {
		return nil, fmt.Errorf("failed to update applied_count: %w", err)
	}

	s.log.Info("Applied meal plan",
		zap.String("plan_id", plan.ID.Hex()),
		zap.String("schedule_id", sched.ID.Hex()),
		zap.Int("items", created))
	return &Applied{Schedule: sched, ItemsCreated: created}, nil
}
