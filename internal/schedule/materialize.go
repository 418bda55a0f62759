package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/daiquydev/fedacn-sub001/internal/models"
	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// BuildItems creates one pending item per plan meal. Day n of the plan lands
// on start+(n-1) calendar days. Missing macros, name and image are taken from
// the meal's recipe when recipes holds it.
func BuildItems(
	schedule *models.UserMealSchedule,
	days []*models.MealPlanDay,
	meals []*models.MealPlanMeal,
	recipes map[primitive.ObjectID]*models.Recipe,
	loc *time.Location,
	now time.Time,
) ([]*models.UserMealItem, error) {
	mealsByDay := make(map[primitive.ObjectID][]*models.MealPlanMeal)
	for _, meal := range meals {
		mealsByDay[meal.MealPlanDayID] = append(mealsByDay[meal.MealPlanDayID], meal)
	}

	ordered := make([]*models.MealPlanDay, len(days))
	copy(ordered, days)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].DayNumber < ordered[j].DayNumber })

	start := StartOfDay(schedule.StartDate, loc)
	var items []*models.UserMealItem
	for _, day := range ordered {
		dayMeals := mealsByDay[day.ID]
		sort.SliceStable(dayMeals, func(i, j int) bool {
			if dayMeals[i].MealOrder != dayMeals[j].MealOrder {
				return dayMeals[i].MealOrder < dayMeals[j].MealOrder
			}
			return dayMeals[i].MealType.Rank() < dayMeals[j].MealType.Rank()
		})

		date := AddDays(start, day.DayNumber-1)
		for _, meal := range dayMeals {
			item := &models.UserMealItem{}
			if err := copier.Copy(item, meal); err != nil {
				return nil, fmt.Errorf("failed to copy meal %s: %w", meal.ID.Hex(), err)
			}

			item.ID = primitive.NilObjectID
			item.Recipe = nil
			// notes belong to the user and are written on completion
			item.Notes = ""
			item.ScheduleID = schedule.ID
			item.UserID = schedule.UserID
			item.MealPlanMealID = meal.ID
			item.DayNumber = day.DayNumber
			item.ScheduledDate = date
			item.Status = models.ItemPending
			item.CreatedAt = now
			item.UpdatedAt = now

			if meal.RecipeID != nil {
				fillFromRecipe(item, recipes[*meal.RecipeID])
			}
			items = append(items, item)
		}
	}
	return items, nil
}

func fillFromRecipe(item *models.UserMealItem, recipe *models.Recipe) {
	if recipe == nil {
		return
	}
	if item.Name == "" {
		item.Name = recipe.Title
	}
	if item.Image == "" {
		item.Image = recipe.Image
	}
	if item.Calories == 0 {
		item.Calories = recipe.Calories
	}
	if item.Protein == 0 {
		item.Protein = recipe.Protein
	}
	if item.Carbs == 0 {
		item.Carbs = recipe.Carbs
	}
	if item.Fat == 0 {
		item.Fat = recipe.Fat
	}
}

// Materialize creates the items of schedule from its meal plan. Items that
// already exist are left alone, so running it twice is harmless.
func (s *Service) Materialize(ctx context.Context, schedule *models.UserMealSchedule) (int, error) {
	unlock, err := s.lockSchedule(ctx, schedule.ID)
	if err != nil {
		return 0, err
	}
	defer unlock()

	return s.materialize(ctx, schedule)
}

// ensureItems backfills a schedule that has no items yet
func (s *Service) ensureItems(ctx context.Context, schedule *models.UserMealSchedule) error {
	unlock, err := s.lockSchedule(ctx, schedule.ID)
	if err != nil {
		return err
	}
	defer unlock()

	count, err := s.store.Schedules.CountItems(ctx, schedule.ID)
	if err != nil {
		return fmt.Errorf("failed to count meal items: %w", err)
	}
	if count > 0 {
		return nil
	}

	inserted, err := s.materialize(ctx, schedule)
	if err != nil {
		return err
	}
	s.log.Info("Backfilled schedule",
		zap.String("schedule_id", schedule.ID.Hex()),
		zap.Int("items", inserted))
	return nil
}

func (s *Service) lockSchedule(ctx context.Context, id primitive.ObjectID) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()

	unlock, err := s.locker.Lock(lockCtx, "schedule:"+id.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to lock schedule %s: %w", id.Hex(), err)
	}
	return unlock, nil
}

func (s *Service) materialize(ctx context.Context, schedule *models.UserMealSchedule) (int, error) {
	days, err := s.store.Plans.FindDays(ctx, schedule.MealPlanID)
	if err != nil {
		return 0, fmt.Errorf("failed to load plan days: %w", err)
	}
	meals, err := s.store.Plans.FindMeals(ctx, schedule.MealPlanID)
	if err != nil {
		return 0, fmt.Errorf("failed to load plan meals: %w", err)
	}

	recipes, err := s.recipesFor(ctx, meals)
	if err != nil {
		return 0, err
	}

	items, err := BuildItems(schedule, days, meals, recipes, s.loc, s.now())
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	inserted, err := s.store.Schedules.CreateItems(ctx, items)
	if err != nil {
		return 0, fmt.Errorf("failed to create meal items: %w", err)
	}

	s.log.Debug("Materialized schedule",
		zap.String("schedule_id", schedule.ID.Hex()),
		zap.Int("built", len(items)),
		zap.Int("inserted", inserted))
	return inserted, nil
}

func (s *Service) recipesFor(ctx context.Context, meals []*models.MealPlanMeal) (map[primitive.ObjectID]*models.Recipe, error) {
	var ids []primitive.ObjectID
	for _, meal := range meals {
		if meal.RecipeID != nil {
			ids = append(ids, *meal.RecipeID)
		}
	}
	byID := make(map[primitive.ObjectID]*models.Recipe)
	if len(ids) == 0 {
		return byID, nil
	}

	recipes, err := s.store.Recipes.FindRecipes(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	for _, r := range recipes {
		byID[r.ID] = r
	}
	return byID, nil
}
