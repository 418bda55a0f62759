// Package mealplan manages authored meal plans and the social actions
// around them.
package mealplan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/daiquydev/fedacn-sub001/internal/apperror"
	"github.com/daiquydev/fedacn-sub001/internal/models"
	"github.com/daiquydev/fedacn-sub001/internal/notify"
	"github.com/daiquydev/fedacn-sub001/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Scheduler starts schedules from plans
type Scheduler interface {
	Materialize(ctx context.Context, schedule *models.UserMealSchedule) (int, error)
	HasActive(ctx context.Context, userID, planID primitive.ObjectID) (bool, error)
	Location() *time.Location
}

// Friends resolves who a user may invite
type Friends interface {
	MutualFriendIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// Service implements meal plan use cases
type Service struct {
	store     *storage.Store
	scheduler Scheduler
	friends   Friends
	notify    *notify.Service
	log       *zap.Logger
	now       func() time.Time
}

// NewService creates a meal plan service
func NewService(store *storage.Store, scheduler Scheduler, friends Friends, notifier *notify.Service, log *zap.Logger) *Service {
	return &Service{
		store:     store,
		scheduler: scheduler,
		friends:   friends,
		notify:    notifier,
		log:       log.Named("mealplan-service"),
		now:       time.Now,
	}
}

// Create stores a new plan with its days and meals
func (s *Service) Create(ctx context.Context, userID primitive.ObjectID, in PlanInput) (*models.PlanDetail, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, apperror.BadRequest("title is required")
	}
	if in.Status == "" {
		in.Status = models.PlanStatusPublic
	}
	if !validStatus(in.Status) {
		return nil, apperror.BadRequest("invalid status %q", in.Status)
	}
	if err := validateDays(in.Days); err != nil {
		return nil, err
	}

	duration := in.DurationDays
	if longest := maxDayNumber(in.Days); duration < longest {
		duration = longest
	}

	now := s.now()
	plan := &models.MealPlan{
		ID:              primitive.NewObjectID(),
		AuthorID:        userID,
		Title:           in.Title,
		Description:     in.Description,
		Image:           in.Image,
		Category:        in.Category,
		DifficultyLevel: in.DifficultyLevel,
		TargetCalories:  in.TargetCalories,
		DurationDays:    duration,
		Tags:            in.Tags,
		Status:          in.Status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.Plans.CreatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create meal plan: %w", err)
	}
	if err := s.insertDays(ctx, plan.ID, in.Days, now); err != nil {
		return nil, err
	}

	s.log.Info("Created meal plan",
		zap.String("plan_id", plan.ID.Hex()),
		zap.Int("days", len(in.Days)))
	return s.Get(ctx, userID, plan.ID)
}

func (s *Service) insertDays(ctx context.Context, planID primitive.ObjectID, in []DayInput, now time.Time) error {
	days, meals := buildDays(planID, in, now)
	if err := s.store.Plans.CreateDays(ctx, days); err != nil {
		return fmt.Errorf("failed to create plan days: %w", err)
	}
	if len(meals) == 0 {
		return nil
	}
	if err := s.store.Plans.CreateMeals(ctx, meals); err != nil {
		return fmt.Errorf("failed to create plan meals: %w", err)
	}
	return nil
}

// ListInput filters a plan listing
type ListInput struct {
	Search   string
	Category string
	AuthorID string
	Mine     bool
	Sort     string
	Page     storage.Page
}

// PlanList is one page of plans
type PlanList struct {
	MealPlans  []*models.MealPlan `json:"meal_plans"`
	Pagination models.Pagination  `json:"pagination"`
}

// List returns public plans, or the caller's own plans when Mine is set
func (s *Service) List(ctx context.Context, userID primitive.ObjectID, in ListInput) (*PlanList, error) {
	filter := storage.PlanFilter{
		Search:     strings.TrimSpace(in.Search),
		Category:   in.Category,
		PublicOnly: true,
		Sort:       storage.SortNewest,
		Page:       in.Page,
	}

	switch storage.PlanSort(in.Sort) {
	case "", storage.SortNewest:
	case storage.SortPopular, storage.SortRating:
		filter.Sort = storage.PlanSort(in.Sort)
	default:
		return nil, apperror.BadRequest("invalid sort %q", in.Sort)
	}

	if in.AuthorID != "" {
		authorID, err := primitive.ObjectIDFromHex(in.AuthorID)
		if err != nil {
			return nil, apperror.BadRequest("invalid author_id %q", in.AuthorID)
		}
		filter.AuthorID = &authorID
	}
	if in.Mine {
		filter.AuthorID = &userID
		filter.PublicOnly = false
	}

	plans, total, err := s.store.Plans.ListPlans(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}
	if plans == nil {
		plans = []*models.MealPlan{}
	}
	return &PlanList{
		MealPlans:  plans,
		Pagination: models.NewPagination(in.Page.Page, in.Page.Limit, total),
	}, nil
}

// Get returns a plan with its days, meals and the caller's engagement
func (s *Service) Get(ctx context.Context, userID, id primitive.ObjectID) (*models.PlanDetail, error) {
	plan, err := s.visiblePlan(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	days, err := s.loadDays(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	detail := &models.PlanDetail{MealPlan: plan, Days: days}

	users, err := s.store.Users.FindUsers(ctx, []primitive.ObjectID{plan.AuthorID})
	if err != nil {
		return nil, fmt.Errorf("failed to load author: %w", err)
	}
	if len(users) > 0 {
		detail.Author = users[0]
	}

	if detail.IsLiked, err = s.store.Engagement.HasLike(ctx, userID, plan.ID); err != nil {
		return nil, fmt.Errorf("failed to check like: %w", err)
	}
	if detail.IsBookmarked, err = s.store.Engagement.HasBookmark(ctx, userID, plan.ID); err != nil {
		return nil, fmt.Errorf("failed to check bookmark: %w", err)
	}
	rating, err := s.store.Engagement.FindRating(ctx, userID, plan.ID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to load rating: %w", err)
	default:
		detail.UserRating = rating.Rating
	}
	return detail, nil
}

// loadDays returns the plan's days with meals and recipes attached
func (s *Service) loadDays(ctx context.Context, planID primitive.ObjectID) ([]*models.MealPlanDay, error) {
	days, err := s.store.Plans.FindDays(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan days: %w", err)
	}
	meals, err := s.store.Plans.FindMeals(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan meals: %w", err)
	}

	var recipeIDs []primitive.ObjectID
	for _, meal := range meals {
		if meal.RecipeID != nil {
			recipeIDs = append(recipeIDs, *meal.RecipeID)
		}
	}
	recipes := make(map[primitive.ObjectID]*models.Recipe)
	if len(recipeIDs) > 0 {
		found, err := s.store.Recipes.FindRecipes(ctx, recipeIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load recipes: %w", err)
		}
		for _, r := range found {
			recipes[r.ID] = r
		}
	}

	byDay := make(map[primitive.ObjectID]*models.MealPlanDay, len(days))
	for _, day := range days {
		day.Meals = []*models.MealPlanMeal{}
		byDay[day.ID] = day
	}
	for _, meal := range meals {
		if meal.RecipeID != nil {
			meal.Recipe = recipes[*meal.RecipeID]
		}
		if day, ok := byDay[meal.MealPlanDayID]; ok {
			day.Meals = append(day.Meals, meal)
		}
	}
	if days == nil {
		days = []*models.MealPlanDay{}
	}
	return days, nil
}

// Update edits a plan owned by the caller
func (s *Service) Update(ctx context.Context, userID, id primitive.ObjectID, in PlanUpdate) (*models.PlanDetail, error) {
	plan, err := s.ownedPlan(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperror.BadRequest("title must not be empty")
		}
		plan.Title = title
	}
	if in.Status != nil {
		if !validStatus(*in.Status) {
			return nil, apperror.BadRequest("invalid status %q", *in.Status)
		}
		plan.Status = *in.Status
	}
	if in.Description != nil {
		plan.Description = *in.Description
	}
	if in.Image != nil {
		plan.Image = *in.Image
	}
	if in.Category != nil {
		plan.Category = *in.Category
	}
	if in.DifficultyLevel != nil {
		plan.DifficultyLevel = *in.DifficultyLevel
	}
	if in.TargetCalories != nil {
		plan.TargetCalories = *in.TargetCalories
	}
	if in.Tags != nil {
		plan.Tags = *in.Tags
	}
	if in.DurationDays != nil {
		plan.DurationDays = *in.DurationDays
	}

	now := s.now()
	if in.Days != nil {
		if err := validateDays(*in.Days); err != nil {
			return nil, err
		}
		if err := s.store.Plans.DeleteMeals(ctx, plan.ID); err != nil {
			return nil, fmt.Errorf("failed to delete plan meals: %w", err)
		}
		if err := s.store.Plans.DeleteDays(ctx, plan.ID); err != nil {
			return nil, fmt.Errorf("failed to delete plan days: %w", err)
		}
		if err := s.insertDays(ctx, plan.ID, *in.Days, now); err != nil {
			return nil, err
		}
		if longest := maxDayNumber(*in.Days); plan.DurationDays < longest {
			plan.DurationDays = longest
		}
	}
	if plan.DurationDays < 1 {
		return nil, apperror.BadRequest("duration_days must be at least 1")
	}

	plan.UpdatedAt = now
	if err := s.store.Plans.UpdatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update meal plan: %w", err)
	}
	return s.Get(ctx, userID, plan.ID)
}

// Delete removes a plan and everything hanging off it. Schedules already
// applied keep their items.
func (s *Service) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	plan, err := s.ownedPlan(ctx, userID, id)
	if err != nil {
		return err
	}

	steps := []struct {
		name string
		run  func(context.Context, primitive.ObjectID) error
	}{
		{"meals", s.store.Plans.DeleteMeals},
		{"days", s.store.Plans.DeleteDays},
		{"likes", s.store.Engagement.DeleteLikes},
		{"bookmarks", s.store.Engagement.DeleteBookmarks},
		{"comments", s.store.Comments.DeleteCommentsByPlan},
		{"ratings", s.store.Engagement.DeleteRatings},
		{"plan", s.store.Plans.DeletePlan},
	}
	for _, step := range steps {
		if err := step.run(ctx, plan.ID); err != nil {
			return fmt.Errorf("failed to delete %s of meal plan %s: %w", step.name, plan.ID.Hex(), err)
		}
	}

	s.log.Info("Deleted meal plan", zap.String("plan_id", plan.ID.Hex()))
	return nil
}

func (s *Service) findPlan(ctx context.Context, id primitive.ObjectID) (*models.MealPlan, error) {
	plan, err := s.store.Plans.FindPlan(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperror.NotFound("meal plan not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find meal plan: %w", err)
	}
	return plan, nil
}

func (s *Service) visiblePlan(ctx context.Context, userID, id primitive.ObjectID) (*models.MealPlan, error) {
	plan, err := s.findPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if !plan.VisibleTo(userID) {
		return nil, apperror.Forbidden("this meal plan is private")
	}
	return plan, nil
}

func (s *Service) ownedPlan(ctx context.Context, userID, id primitive.ObjectID) (*models.MealPlan, error) {
	plan, err := s.findPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan.AuthorID != userID {
		return nil, apperror.Forbidden("only the author can modify this meal plan")
	}
	return plan, nil
}

// notifyAuthor tells the plan's author about an action. Failures are logged
// and never fail the action itself.
func (s *Service) notifyAuthor(ctx context.Context, userID primitive.ObjectID, plan *models.MealPlan, typ models.NotificationType, content string) {
	n := models.NewNotification(&userID, plan.AuthorID, typ, content, &plan.ID)
	if err := s.notify.Notify(ctx, n); err != nil {
		s.log.Warn("Failed to send notification",
			zap.String("type", string(typ)),
			zap.Error(err))
	}
}
