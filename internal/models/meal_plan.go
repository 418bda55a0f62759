package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MealType is the slot a meal occupies within a day
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// mealTypeOrder ranks meal types within a day
var mealTypeOrder = map[MealType]int{
	MealTypeBreakfast: 0,
	MealTypeLunch:     1,
	MealTypeDinner:    2,
	MealTypeSnack:     3,
}

// Valid reports whether t is a known meal type
func (t MealType) Valid() bool {
	_, ok := mealTypeOrder[t]
	return ok
}

// Rank orders meal types breakfast < lunch < dinner < snack; unknown types sort last
func (t MealType) Rank() int {
	if r, ok := mealTypeOrder[t]; ok {
		return r
	}
	return len(mealTypeOrder)
}

// MealPlan visibility
const (
	PlanStatusPublic  = "public"
	PlanStatusPrivate = "private"
)

// Counter fields denormalized on a meal plan
type PlanCounter string

const (
	CounterLikes     PlanCounter = "likes_count"
	CounterComments  PlanCounter = "comments_count"
	CounterBookmarks PlanCounter = "bookmarks_count"
	CounterApplied   PlanCounter = "applied_count"
)

// MealPlan is an authored template of days and meals
type MealPlan struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID        primitive.ObjectID `bson:"author_id" json:"author_id"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	Image           string             `bson:"image,omitempty" json:"image,omitempty"`
	Category        string             `bson:"category,omitempty" json:"category,omitempty"`
	DifficultyLevel string             `bson:"difficulty_level,omitempty" json:"difficulty_level,omitempty"`
	TargetCalories  float64            `bson:"target_calories,omitempty" json:"target_calories,omitempty"`
	DurationDays    int                `bson:"duration_days" json:"duration_days"`
	Tags            []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Status          string             `bson:"status" json:"status"`

	LikesCount     int     `bson:"likes_count" json:"likes_count"`
	CommentsCount  int     `bson:"comments_count" json:"comments_count"`
	BookmarksCount int     `bson:"bookmarks_count" json:"bookmarks_count"`
	AppliedCount   int     `bson:"applied_count" json:"applied_count"`
	Rating         float64 `bson:"rating" json:"rating"`
	RatingCount    int     `bson:"rating_count" json:"rating_count"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsPublic reports whether other users may see the plan
func (p *MealPlan) IsPublic() bool {
	return p.Status == PlanStatusPublic
}

// VisibleTo reports whether userID may read the plan
func (p *MealPlan) VisibleTo(userID primitive.ObjectID) bool {
	return p.IsPublic() || p.AuthorID == userID
}

// MealPlanDay is one numbered day of a meal plan
type MealPlanDay struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MealPlanID  primitive.ObjectID `bson:"meal_plan_id" json:"meal_plan_id"`
	DayNumber   int                `bson:"day_number" json:"day_number"`
	Title       string             `bson:"title,omitempty" json:"title,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`

	Meals []*MealPlanMeal `bson:"-" json:"meals,omitempty"`
}

// MealPlanMeal is one meal slot of a day. It either references a recipe or
// carries its own name and nutrition.
type MealPlanMeal struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	MealPlanID    primitive.ObjectID  `bson:"meal_plan_id" json:"meal_plan_id"`
	MealPlanDayID primitive.ObjectID  `bson:"meal_plan_day_id" json:"meal_plan_day_id"`
	MealType      MealType            `bson:"meal_type" json:"meal_type"`
	MealOrder     int                 `bson:"meal_order" json:"meal_order"`
	RecipeID      *primitive.ObjectID `bson:"recipe_id,omitempty" json:"recipe_id,omitempty"`
	Name          string              `bson:"name,omitempty" json:"name,omitempty"`
	Description   string              `bson:"description,omitempty" json:"description,omitempty"`
	Image         string              `bson:"image,omitempty" json:"image,omitempty"`
	Servings      float64             `bson:"servings,omitempty" json:"servings,omitempty"`
	Calories      float64             `bson:"calories,omitempty" json:"calories,omitempty"`
	Protein       float64             `bson:"protein,omitempty" json:"protein,omitempty"`
	Carbs         float64             `bson:"carbs,omitempty" json:"carbs,omitempty"`
	Fat           float64             `bson:"fat,omitempty" json:"fat,omitempty"`
	Notes         string              `bson:"notes,omitempty" json:"notes,omitempty"`
	Instructions  interface{}         `bson:"instructions,omitempty" json:"instructions,omitempty"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`

	Recipe *Recipe `bson:"-" json:"recipe,omitempty"`
}

// PlanDetail is a meal plan with its days, meals and the viewer's state
type PlanDetail struct {
	*MealPlan
	Days         []*MealPlanDay `json:"days"`
	Author       *User          `json:"author,omitempty"`
	IsLiked      bool           `json:"is_liked"`
	IsBookmarked bool           `json:"is_bookmarked"`
	UserRating   int            `json:"user_rating,omitempty"`
}
