package mealplan

import (
	"strings"
	"time"

	"github.com/daiquydev/fedacn-sub001/internal/apperror"
	"github.com/daiquydev/fedacn-sub001/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MealInput describes one meal of a day
type MealInput struct {
	MealType     string      `json:"meal_type"`
	MealOrder    int         `json:"meal_order"`
	RecipeID     string      `json:"recipe_id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Image        string      `json:"image"`
	Servings     float64     `json:"servings"`
	Calories     float64     `json:"calories"`
	Protein      float64     `json:"protein"`
	Carbs        float64     `json:"carbs"`
	Fat          float64     `json:"fat"`
	Notes        string      `json:"notes"`
	Instructions interface{} `json:"instructions"`
}

// DayInput describes one day of a plan
type DayInput struct {
	DayNumber   int         `json:"day_number"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Meals       []MealInput `json:"meals"`
}

// PlanInput is the body of a create request
type PlanInput struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Image           string     `json:"image"`
	Category        string     `json:"category"`
	DifficultyLevel string     `json:"difficulty_level"`
	TargetCalories  float64    `json:"target_calories"`
	DurationDays    int        `json:"duration_days"`
	Tags            []string   `json:"tags"`
	Status          string     `json:"status"`
	Days            []DayInput `json:"days"`
}

// PlanUpdate is the body of an update request. Nil fields are unchanged and
// a non-nil Days replaces every day and meal.
type PlanUpdate struct {
	Title           *string     `json:"title"`
	Description     *string     `json:"description"`
	Image           *string     `json:"image"`
	Category        *string     `json:"category"`
	DifficultyLevel *string     `json:"difficulty_level"`
	TargetCalories  *float64    `json:"target_calories"`
	DurationDays    *int        `json:"duration_days"`
	Tags            *[]string   `json:"tags"`
	Status          *string     `json:"status"`
	Days            *[]DayInput `json:"days"`
}

func validStatus(status string) bool {
	return status == models.PlanStatusPublic || status == models.PlanStatusPrivate
}

func validateDays(days []DayInput) error {
	if len(days) == 0 {
		return apperror.BadRequest("a meal plan needs at least one day")
	}

	seen := make(map[int]bool, len(days))
	for _, day := range days {
		if day.DayNumber < 1 {
			return apperror.BadRequest("day_number must be at least 1")
		}
		if seen[day.DayNumber] {
			return apperror.BadRequest("day %d appears more than once", day.DayNumber)
		}
		seen[day.DayNumber] = true

		for _, meal := range day.Meals {
			if !models.MealType(meal.MealType).Valid() {
				return apperror.BadRequest("day %d: invalid meal_type %q", day.DayNumber, meal.MealType)
			}
			if meal.RecipeID == "" && strings.TrimSpace(meal.Name) == "" {
				return apperror.BadRequest("day %d: a meal needs a recipe_id or a name", day.DayNumber)
			}
			if meal.RecipeID != "" && !primitive.IsValidObjectID(meal.RecipeID) {
				return apperror.BadRequest("day %d: invalid recipe_id %q", day.DayNumber, meal.RecipeID)
			}
			if meal.Calories < 0 || meal.Protein < 0 || meal.Carbs < 0 || meal.Fat < 0 {
				return apperror.BadRequest("day %d: nutrition values must not be negative", day.DayNumber)
			}
		}
	}
	return nil
}

func maxDayNumber(days []DayInput) int {
	longest := 0
	for _, day := range days {
		if day.DayNumber > longest {
			longest = day.DayNumber
		}
	}
	return longest
}

// buildDays turns validated input into documents ready to insert
func buildDays(planID primitive.ObjectID, in []DayInput, now time.Time) ([]*models.MealPlanDay, []*models.MealPlanMeal) {
	var (
		days  []*models.MealPlanDay
		meals []*models.MealPlanMeal
	)
	for _, d := range in {
		day := &models.MealPlanDay{
			ID:          primitive.NewObjectID(),
			MealPlanID:  planID,
			DayNumber:   d.DayNumber,
			Title:       d.Title,
			Description: d.Description,
			CreatedAt:   now,
		}
		days = append(days, day)

		for i, m := range d.Meals {
			order := m.MealOrder
			if order == 0 {
				order = i + 1
			}
			meal := &models.MealPlanMeal{
				ID:            primitive.NewObjectID(),
				MealPlanID:    planID,
				MealPlanDayID: day.ID,
				MealType:      models.MealType(m.MealType),
				MealOrder:     order,
				Name:          strings.TrimSpace(m.Name),
				Description:   m.Description,
				Image:         m.Image,
				Servings:      m.Servings,
				Calories:      m.Calories,
				Protein:       m.Protein,
				Carbs:         m.Carbs,
				Fat:           m.Fat,
				Notes:         m.Notes,
				Instructions:  m.Instructions,
				CreatedAt:     now,
			}
			if m.RecipeID != "" {
				id, _ := primitive.ObjectIDFromHex(m.RecipeID)
				meal.RecipeID = &id
			}
			meals = append(meals, meal)
		}
	}
	return days, meals
}
