package storage

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/daiquydev/fedacn-sub001/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MealPlanRepo handles persistence for meal plans, days and meals
type MealPlanRepo struct {
	db  *MongoDB
	log *zap.Logger
}

// NewMealPlanRepository creates a new meal plan repository
func NewMealPlanRepository(db *MongoDB, log *zap.Logger) *MealPlanRepo {
	return &MealPlanRepo{
		db:  db,
		log: log.Named("meal-plan-repository"),
	}
}

func (r *MealPlanRepo) CreatePlan(ctx context.Context, plan *models.MealPlan) error {
	ensureID(&plan.ID)
	return insertOne(ctx, r.db.Collection(CollMealPlans), plan)
}

func (r *MealPlanRepo) FindPlan(ctx context.Context, id primitive.ObjectID) (*models.MealPlan, error) {
	return findOne[models.MealPlan](ctx, r.db.Collection(CollMealPlans), bson.M{"_id": id})
}

// ListPlans returns one page of plans matching filter and the total match count
func (r *MealPlanRepo) ListPlans(ctx context.Context, filter PlanFilter) ([]*models.MealPlan, int64, error) {
	query := bson.M{}
	if filter.PublicOnly {
		query["status"] = models.PlanStatusPublic
	}
	if filter.Search != "" {
		query["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.AuthorID != nil {
		query["author_id"] = *filter.AuthorID
	}
	if filter.IDs != nil {
		query["_id"] = bson.M{"$in": filter.IDs}
	}

	var sort bson.D
	switch filter.Sort {
	case SortPopular:
		sort = bson.D{{Key: "likes_count", Value: -1}, {Key: "applied_count", Value: -1}, {Key: "created_at", Value: -1}}
	case SortRating:
		sort = bson.D{{Key: "rating", Value: -1}, {Key: "rating_count", Value: -1}, {Key: "created_at", Value: -1}}
	default:
		sort = bson.D{{Key: "created_at", Value: -1}}
	}

	return findPage[models.MealPlan](ctx, r.db.Collection(CollMealPlans), query, sort, filter.Page)
}

func (r *MealPlanRepo) UpdatePlan(ctx context.Context, plan *models.MealPlan) error {
	res, err := r.db.Collection(CollMealPlans).UpdateOne(ctx, bson.M{"_id": plan.ID}, bson.M{"$set": editablePlanFields(plan)})
	if err != nil {
		return fmt.Errorf("failed to update meal plan: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// editablePlanFields is the $set document of UpdatePlan
func editablePlanFields(plan *models.MealPlan) bson.M {
	return bson.M{
		"title":            plan.Title,
		"description":      plan.Description,
		"image":            plan.Image,
		"category":         plan.Category,
		"difficulty_level": plan.DifficultyLevel,
		"target_calories":  plan.TargetCalories,
		"duration_days":    plan.DurationDays,
		"tags":             plan.Tags,
		"status":           plan.Status,
		"updated_at":       plan.UpdatedAt,
	}
}

func (r *MealPlanRepo) DeletePlan(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, r.db.Collection(CollMealPlans), bson.M{"_id": id})
}

// IncrementCounter adjusts a denormalized counter. Counters never drop below zero.
func (r *MealPlanRepo) IncrementCounter(ctx context.Context, id primitive.ObjectID, counter models.PlanCounter, delta int) error {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter[string(counter)] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{string(counter): delta},
		"$set": bson.M{"updated_at": time.Now()},
	}

	res, err := r.db.Collection(CollMealPlans).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", counter, err)
	}
	if res.MatchedCount == 0 {
		r.log.Warn("Counter update matched nothing",
			zap.String("plan_id", id.Hex()),
			zap.String("counter", string(counter)),
			zap.Int("delta", delta))
	}
	return nil
}

func (r *MealPlanRepo) SetRating(ctx context.Context, id primitive.ObjectID, rating float64, count int) error {
	update := bson.M{"$set": bson.M{
		"rating":       rating,
		"rating_count": count,
		"updated_at":   time.Now(),
	}}
	res, err := r.db.Collection(CollMealPlans).UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to update rating: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MealPlanRepo) CreateDays(ctx context.Context, days []*models.MealPlanDay) error {
	if len(days) == 0 {
		return nil
	}
	docs := make([]interface{}, len(days))
	for i, d := range days {
		ensureID(&d.ID)
		docs[i] = d
	}
	if _, err := r.db.Collection(CollMealPlanDays).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert meal plan days: %w", err)
	}
	return nil
}

func (r *MealPlanRepo) FindDays(ctx context.Context, planID primitive.ObjectID) ([]*models.MealPlanDay, error) {
	opts := options.Find().SetSort(bson.D{{Key: "day_number", Value: 1}})
	return findMany[models.MealPlanDay](ctx, r.db.Collection(CollMealPlanDays), bson.M{"meal_plan_id": planID}, opts)
}

func (r *MealPlanRepo) DeleteDays(ctx context.Context, planID primitive.ObjectID) error {
	_, err := deleteMany(ctx, r.db.Collection(CollMealPlanDays), bson.M{"meal_plan_id": planID})
	return err
}

func (r *MealPlanRepo) CreateMeals(ctx context.Context, meals []*models.MealPlanMeal) error {
	if len(meals) == 0 {
		return nil
	}
	docs := make([]interface{}, len(meals))
	for i, m := range meals {
		ensureID(&m.ID)
		docs[i] = m
	}
	if _, err := r.db.Collection(CollMealPlanMeals).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert meal plan meals: %w", err)
	}
	return nil
}

func (r *MealPlanRepo) FindMeals(ctx context.Context, planID primitive.ObjectID) ([]*models.MealPlanMeal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "meal_order", Value: 1}})
	return findMany[models.MealPlanMeal](ctx, r.db.Collection(CollMealPlanMeals), bson.M{"meal_plan_id": planID}, opts)
}

func (r *MealPlanRepo) DeleteMeals(ctx context.Context, planID primitive.ObjectID) error {
	_, err := deleteMany(ctx, r.db.Collection(CollMealPlanMeals), bson.M{"meal_plan_id": planID})
	return err
}

// RecipeRepo reads recipes
type RecipeRepo struct {
	db  *MongoDB
	log *zap.Logger
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *MongoDB, log *zap.Logger) *RecipeRepo {
	return &RecipeRepo{db: db, log: log.Named("recipe-repository")}
}

func (r *RecipeRepo) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	ensureID(&recipe.ID)
	return insertOne(ctx, r.db.Collection(CollRecipes), recipe)
}

func (r *RecipeRepo) FindRecipes(ctx context.Context, ids []primitive.ObjectID) ([]*models.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return findMany[models.Recipe](ctx, r.db.Collection(CollRecipes), bson.M{"_id": bson.M{"$in": ids}})
}
