package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/daiquydev/fedacn-sub001/internal/apperror"
	"github.com/daiquydev/fedacn-sub001/internal/instructions"
	"github.com/daiquydev/fedacn-sub001/internal/models"
	"github.com/daiquydev/fedacn-sub001/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CompleteInput marks an item eaten
type CompleteInput struct {
	ItemID primitive.ObjectID
	Notes  string
	Rating int
}

// Complete marks an item completed
func (s *Service) Complete(ctx context.Context, userID primitive.ObjectID, in CompleteInput) (*models.UserMealItem, error) {
	if in.Rating < 0 || in.Rating > 5 {
		return nil, apperror.BadRequest("rating must be between 1 and 5")
	}
	item, err := s.ownedItem(ctx, userID, in.ItemID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	item.Status = models.ItemCompleted
	item.CompletedAt = &now
	item.SkippedAt = nil
	item.SkipReason = ""
	if in.Notes != "" {
		item.Notes = in.Notes
	}
	if in.Rating > 0 {
		item.UserRating = in.Rating
	}
	return item, s.saveItem(ctx, item, now)
}

// Skip marks an item skipped
func (s *Service) Skip(ctx context.Context, userID, itemID primitive.ObjectID, reason string) (*models.UserMealItem, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	item.Status = models.ItemSkipped
	item.SkippedAt = &now
	item.SkipReason = reason
	item.CompletedAt = nil
	return item, s.saveItem(ctx, item, now)
}

// SubstituteInput replaces what an item is
type SubstituteInput struct {
	ItemID   primitive.ObjectID
	Name     string
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
	Reason   string
}

// Substitute swaps an item's food for another. The first substitution keeps
// a snapshot of the original meal; later ones leave it untouched.
func (s *Service) Substitute(ctx context.Context, userID primitive.ObjectID, in SubstituteInput) (*models.UserMealItem, error) {
	if in.Name == "" {
		return nil, apperror.BadRequest("name is required")
	}
	if in.Calories < 0 || in.Protein < 0 || in.Carbs < 0 || in.Fat < 0 {
		return nil, apperror.BadRequest("nutrition values must not be negative")
	}
	item, err := s.ownedItem(ctx, userID, in.ItemID)
	if err != nil {
		return nil, err
	}
	if err := s.populateRecipes(ctx, []*models.UserMealItem{item}); err != nil {
		return nil, err
	}

	now := s.now()
	if item.Substitution == nil {
		fillFromRecipe(item, item.Recipe)
		item.Substitution = &models.Substitution{
			OriginalName:     item.Name,
			OriginalCalories: item.Calories,
			OriginalProtein:  item.Protein,
			OriginalCarbs:    item.Carbs,
			OriginalFat:      item.Fat,
		}
	}
	item.Substitution.Reason = in.Reason
	item.Substitution.SubstitutedAt = now

	item.Name = in.Name
	item.Calories = in.Calories
	item.Protein = in.Protein
	item.Carbs = in.Carbs
	item.Fat = in.Fat
	item.RecipeID = nil
	item.Recipe = nil
	item.Image = ""
	return item, s.saveItem(ctx, item, now)
}

// RescheduleInput moves an item to another day and optionally meal slot
type RescheduleInput struct {
	ItemID   primitive.ObjectID
	NewDate  string
	MealType string
}

// Reschedule moves an item within its schedule's date range
func (s *Service) Reschedule(ctx context.Context, userID primitive.ObjectID, in RescheduleInput) (*models.UserMealItem, error) {
	newDate, err := ParseDate(in.NewDate, s.loc)
	if err != nil {
		return nil, apperror.BadRequest("invalid new_date %q", in.NewDate)
	}
	mealType := models.MealType(in.MealType)
	if in.MealType != "" && !mealType.Valid() {
		return nil, apperror.BadRequest("invalid meal_type %q", in.MealType)
	}

	item, err := s.ownedItem(ctx, userID, in.ItemID)
	if err != nil {
		return nil, err
	}
	schedule, err := s.ownedSchedule(ctx, userID, item.ScheduleID)
	if err != nil {
		return nil, err
	}

	start := StartOfDay(schedule.StartDate, s.loc)
	end := StartOfDay(schedule.EndDate, s.loc)
	if newDate.Before(start) || newDate.After(end) {
		return nil, apperror.UnprocessableEntity("new_date must be between %s and %s",
			start.Format(DateKeyLayout), end.Format(DateKeyLayout))
	}

	now := s.now()
	if item.OriginalDate == nil {
		original := item.ScheduledDate
		item.OriginalDate = &original
	}
	item.ScheduledDate = newDate
	item.DayNumber = DaysBetween(start, newDate) + 1
	if in.MealType != "" {
		item.MealType = mealType
	}
	item.RescheduledAt = &now
	return item, s.saveItem(ctx, item, now)
}

// Swap exchanges the day and meal slot of two items of the same schedule
func (s *Service) Swap(ctx context.Context, userID, itemID, otherID primitive.ObjectID) ([]*models.UserMealItem, error) {
	if itemID == otherID {
		return nil, apperror.BadRequest("cannot swap a meal item with itself")
	}
	a, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	b, err := s.ownedItem(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	if a.ScheduleID != b.ScheduleID {
		return nil, apperror.BadRequest("meal items belong to different schedules")
	}

	now := s.now()
	a.ScheduledDate, b.ScheduledDate = b.ScheduledDate, a.ScheduledDate
	a.DayNumber, b.DayNumber = b.DayNumber, a.DayNumber
	a.MealType, b.MealType = b.MealType, a.MealType
	a.MealOrder, b.MealOrder = b.MealOrder, a.MealOrder
	a.SwappedWith, b.SwappedWith = &b.ID, &a.ID
	a.SwappedAt, b.SwappedAt = &now, &now

	if err := s.saveItem(ctx, a, now); err != nil {
		return nil, err
	}
	if err := s.saveItem(ctx, b, now); err != nil {
		return nil, err
	}
	return []*models.UserMealItem{a, b}, nil
}

// InstructionsView is the cooking steps of an item
type InstructionsView struct {
	ItemID primitive.ObjectID `json:"item_id"`
	Name   string             `json:"name"`
	instructions.Result
}

// Instructions resolves the cooking steps for an item
func (s *Service) Instructions(ctx context.Context, userID, itemID primitive.ObjectID) (*InstructionsView, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.populateRecipes(ctx, []*models.UserMealItem{item}); err != nil {
		return nil, err
	}
	return &InstructionsView{
		ItemID: item.ID,
		Name:   item.Name,
		Result: instructions.Resolve(item, item.Recipe),
	}, nil
}

func (s *Service) ownedItem(ctx context.Context, userID, id primitive.ObjectID) (*models.UserMealItem, error) {
	item, err := s.store.Schedules.FindItem(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperror.NotFound("meal item not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find meal item: %w", err)
	}
	if item.UserID != userID {
		return nil, apperror.Forbidden("you do not have access to this meal item")
	}
	return item, nil
}

func (s *Service) saveItem(ctx context.Context, item *models.UserMealItem, now time.Time) error {
	item.UpdatedAt = now
	if err := s.store.Schedules.UpdateItem(ctx, item); err != nil {
		return fmt.Errorf("failed to update meal item: %w", err)
	}
	s.log.Debug("Updated meal item",
		zap.String("item_id", item.ID.Hex()),
		zap.String("status", item.Status))
	return nil
}
