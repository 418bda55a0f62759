package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Schedule statuses
const (
	ScheduleActive    = "active"
	SchedulePaused    = "paused"
	ScheduleCompleted = "completed"
	ScheduleCancelled = "cancelled"
)

// ValidScheduleStatus reports whether s is a known schedule status
func ValidScheduleStatus(s string) bool {
	switch s {
	case ScheduleActive, SchedulePaused, ScheduleCompleted, ScheduleCancelled:
		return true
	}
	return false
}

// Meal item statuses
const (
	ItemPending   = "pending"
	ItemCompleted = "completed"
	ItemSkipped   = "skipped"
)

// Reminder asks for a notification when a meal type's time of day passes.
// Time is "HH:MM" in the server's configured location.
type Reminder struct {
	MealType MealType `bson:"meal_type" json:"meal_type"`
	Time     string   `bson:"time" json:"time"`
	Enabled  bool     `bson:"enabled" json:"enabled"`
}

// UserMealSchedule is one user's application of a meal plan to a date range
type UserMealSchedule struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	MealPlanID primitive.ObjectID `bson:"meal_plan_id" json:"meal_plan_id"`
	Title      string             `bson:"title" json:"title"`
	StartDate  time.Time          `bson:"start_date" json:"start_date"`
	EndDate    time.Time          `bson:"end_date" json:"end_date"`
	Status     string             `bson:"status" json:"status"`
	Reminders  []Reminder         `bson:"reminders,omitempty" json:"reminders,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// Substitution records what a meal item looked like before it was replaced
type Substitution struct {
	OriginalName     string    `bson:"original_name" json:"original_name"`
	OriginalCalories float64   `bson:"original_calories" json:"original_calories"`
	OriginalProtein  float64   `bson:"original_protein" json:"original_protein"`
	OriginalCarbs    float64   `bson:"original_carbs" json:"original_carbs"`
	OriginalFat      float64   `bson:"original_fat" json:"original_fat"`
	Reason           string    `bson:"reason,omitempty" json:"reason,omitempty"`
	SubstitutedAt    time.Time `bson:"substituted_at" json:"substituted_at"`
}

// UserMealItem is one concrete, dated instance of a planned meal
type UserMealItem struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ScheduleID     primitive.ObjectID  `bson:"schedule_id" json:"schedule_id"`
	UserID         primitive.ObjectID  `bson:"user_id" json:"user_id"`
	MealPlanMealID primitive.ObjectID  `bson:"meal_plan_meal_id" json:"meal_plan_meal_id"`
	DayNumber      int                 `bson:"day_number" json:"day_number"`
	ScheduledDate  time.Time           `bson:"scheduled_date" json:"scheduled_date"`
	MealType       MealType            `bson:"meal_type" json:"meal_type"`
	MealOrder      int                 `bson:"meal_order" json:"meal_order"`
	RecipeID       *primitive.ObjectID `bson:"recipe_id,omitempty" json:"recipe_id,omitempty"`
	Name           string              `bson:"name" json:"name"`
	Description    string              `bson:"description,omitempty" json:"description,omitempty"`
	Image          string              `bson:"image,omitempty" json:"image,omitempty"`
	Servings       float64             `bson:"servings,omitempty" json:"servings,omitempty"`
	Calories       float64             `bson:"calories,omitempty" json:"calories,omitempty"`
	Protein        float64             `bson:"protein,omitempty" json:"protein,omitempty"`
	Carbs          float64             `bson:"carbs,omitempty" json:"carbs,omitempty"`
	Fat            float64             `bson:"fat,omitempty" json:"fat,omitempty"`
	Instructions   interface{}         `bson:"instructions,omitempty" json:"-"`

	Status      string     `bson:"status" json:"status"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	SkippedAt   *time.Time `bson:"skipped_at,omitempty" json:"skipped_at,omitempty"`
	SkipReason  string     `bson:"skip_reason,omitempty" json:"skip_reason,omitempty"`
	Notes       string     `bson:"notes,omitempty" json:"notes,omitempty"`
	UserRating  int        `bson:"user_rating,omitempty" json:"user_rating,omitempty"`

	Substitution *Substitution `bson:"substitution,omitempty" json:"substitution,omitempty"`

	OriginalDate  *time.Time `bson:"original_date,omitempty" json:"original_date,omitempty"`
	RescheduledAt *time.Time `bson:"rescheduled_at,omitempty" json:"rescheduled_at,omitempty"`

	SwappedWith *primitive.ObjectID `bson:"swapped_with,omitempty" json:"swapped_with,omitempty"`
	SwappedAt   *time.Time          `bson:"swapped_at,omitempty" json:"swapped_at,omitempty"`

	RemindedAt *time.Time `bson:"reminded_at,omitempty" json:"reminded_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`

	Recipe *Recipe `bson:"-" json:"recipe,omitempty"`
}

// IsCompleted reports whether the meal was eaten
func (i *UserMealItem) IsCompleted() bool {
	return i.Status == ItemCompleted
}
