// Package schedule turns meal plans into dated meal items and tracks a
// user's progress through them.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/daiquydev/fedacn-sub001/internal/apperror"
	"github.com/daiquydev/fedacn-sub001/internal/models"
	"github.com/daiquydev/fedacn-sub001/internal/storage"
	"github.com/daiquydev/fedacn-sub001/pkg/config"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// lockWait bounds how long a request waits for another materialization of
// the same schedule
const lockWait = 10 * time.Second

// Service owns schedules and their meal items
type Service struct {
	store        *storage.Store
	locker       storage.Locker
	loc          *time.Location
	upcomingDays int
	log          *zap.Logger
	now          func() time.Time
}

// NewService creates a schedule service
func NewService(store *storage.Store, locker storage.Locker, cfg *config.Config, log *zap.Logger) *Service {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store:        store,
		locker:       locker,
		loc:          loc,
		upcomingDays: cfg.UpcomingDays,
		log:          log.Named("schedule-service"),
		now:          time.Now,
	}
}

// Location is the zone calendar days are computed in
func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) today() time.Time {
	return StartOfDay(s.now(), s.loc)
}

// ScheduleDetail is a schedule with its progress
type ScheduleDetail struct {
	*models.UserMealSchedule
	Stats *Stats `json:"stats"`
}

// List returns the user's schedules, newest start first
func (s *Service) List(ctx context.Context, userID primitive.ObjectID, status string, page storage.Page) ([]*models.UserMealSchedule, models.Pagination, error) {
	if status != "" && !models.ValidScheduleStatus(status) {
		return nil, models.Pagination{}, apperror.BadRequest("invalid status %q", status)
	}

	schedules, total, err := s.store.Schedules.ListSchedules(ctx, storage.ScheduleFilter{
		UserID: &userID,
		Status: status,
		Page:   page,
	})
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, models.NewPagination(page.Page, page.Limit, total), nil
}

// Active returns every active schedule of the user
func (s *Service) Active(ctx context.Context, userID primitive.ObjectID) ([]*models.UserMealSchedule, error) {
	schedules, _, err := s.store.Schedules.ListSchedules(ctx, storage.ScheduleFilter{
		UserID: &userID,
		Status: models.ScheduleActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list active schedules: %w", err)
	}
	return schedules, nil
}

// HasActive reports whether the user already runs planID
func (s *Service) HasActive(ctx context.Context, userID, planID primitive.ObjectID) (bool, error) {
	schedules, _, err := s.store.Schedules.ListSchedules(ctx, storage.ScheduleFilter{
		UserID:     &userID,
		MealPlanID: &planID,
		Status:     models.ScheduleActive,
		Page:       storage.Page{Page: 1, Limit: 1},
	})
	if err != nil {
		return false, fmt.Errorf("failed to check active schedules: %w", err)
	}
	return len(schedules) > 0, nil
}

// Get returns one of the user's schedules with its stats
func (s *Service) Get(ctx context.Context, userID, id primitive.ObjectID) (*ScheduleDetail, error) {
	schedule, err := s.ownedSchedule(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats(ctx, schedule)
	if err != nil {
		return nil, err
	}
	return &ScheduleDetail{UserMealSchedule: schedule, Stats: stats}, nil
}

// UpdateInput holds the editable schedule fields. Nil fields are unchanged.
type UpdateInput struct {
	Title     *string            `json:"title"`
	Status    *string            `json:"status"`
	EndDate   *string            `json:"end_date"`
	Reminders *[]models.Reminder `json:"reminders"`
}

// Update edits a schedule owned by the user
func (s *Service) Update(ctx context.Context, userID, id primitive.ObjectID, in UpdateInput) (*models.UserMealSchedule, error) {
	schedule, err := s.ownedSchedule(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, apperror.BadRequest("title must not be empty")
		}
		schedule.Title = *in.Title
	}
	if in.Status != nil {
		if !models.ValidScheduleStatus(*in.Status) {
			return nil, apperror.BadRequest("invalid status %q", *in.Status)
		}
		schedule.Status = *in.Status
	}
	if in.EndDate != nil {
		end, err := ParseDate(*in.EndDate, s.loc)
		if err != nil {
			return nil, apperror.BadRequest("invalid end_date %q", *in.EndDate)
		}
		if end.Before(StartOfDay(schedule.StartDate, s.loc)) {
			return nil, apperror.UnprocessableEntity("end_date must not be before start_date")
		}
		schedule.EndDate = end
	}
	if in.Reminders != nil {
		if err := ValidateReminders(*in.Reminders); err != nil {
			return nil, err
		}
		schedule.Reminders = *in.Reminders
	}

	schedule.UpdatedAt = s.now()
	if err := s.store.Schedules.UpdateSchedule(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}
	return schedule, nil
}

// ValidateReminders checks meal types and HH:MM times
func ValidateReminders(reminders []models.Reminder) error {
	for _, r := range reminders {
		if !r.MealType.Valid() {
			return apperror.BadRequest("invalid reminder meal_type %q", r.MealType)
		}
		if _, err := time.Parse("15:04", r.Time); err != nil {
			return apperror.BadRequest("invalid reminder time %q, expected HH:MM", r.Time)
		}
	}
	return nil
}

// Delete removes a schedule and all of its items
func (s *Service) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	if _, err := s.ownedSchedule(ctx, userID, id); err != nil {
		return err
	}

	removed, err := s.store.Schedules.DeleteItems(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete meal items: %w", err)
	}
	if err := s.store.Schedules.DeleteSchedule(ctx, id); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	s.log.Info("Deleted schedule",
		zap.String("schedule_id", id.Hex()),
		zap.Int64("items", removed))
	return nil
}

func (s *Service) ownedSchedule(ctx context.Context, userID, id primitive.ObjectID) (*models.UserMealSchedule, error) {
	schedule, err := s.store.Schedules.FindSchedule(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperror.NotFound("meal schedule not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find schedule: %w", err)
	}
	if schedule.UserID != userID {
		return nil, apperror.Forbidden("you do not have access to this meal schedule")
	}
	return schedule, nil
}

// populateRecipes attaches referenced recipes to items
func (s *Service) populateRecipes(ctx context.Context, items []*models.UserMealItem) error {
	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	for _, item := range items {
		if item.RecipeID != nil && !seen[*item.RecipeID] {
			seen[*item.RecipeID] = true
			ids = append(ids, *item.RecipeID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	recipes, err := s.store.Recipes.FindRecipes(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load recipes: %w", err)
	}
	byID := make(map[primitive.ObjectID]*models.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}
	for _, item := range items {
		if item.RecipeID != nil {
			item.Recipe = byID[*item.RecipeID]
		}
	}
	return nil
}
