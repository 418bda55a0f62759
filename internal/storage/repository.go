package storage

import (
	"context"
	"errors"
	"time"

	"github.com/daiquydev/fedacn-sub001/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when a lookup matches no document
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when an insert violates a unique index
	ErrDuplicate = errors.New("duplicate document")
)

// PlanSort orders meal plan listings
type PlanSort string

const (
	SortNewest  PlanSort = "newest"
	SortPopular PlanSort = "popular"
	SortRating  PlanSort = "rating"
)

// Page is a 1-based page request
type Page struct {
	Page  int
	Limit int
}

// Skip returns the number of documents before the page
func (p Page) Skip() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// PlanFilter selects meal plans for listing
type PlanFilter struct {
	Search     string
	Category   string
	AuthorID   *primitive.ObjectID
	PublicOnly bool
	IDs        []primitive.ObjectID
	Sort       PlanSort
	Page
}

// ScheduleFilter selects schedules
type ScheduleFilter struct {
	UserID     *primitive.ObjectID
	MealPlanID *primitive.ObjectID
	Status     string
	Page
}

// ItemFilter selects meal items. From is inclusive, To exclusive.
type ItemFilter struct {
	ScheduleIDs []primitive.ObjectID
	UserID      *primitive.ObjectID
	From        *time.Time
	To          *time.Time
	Status      string
}

// MealPlanRepository persists meal plans with their days and meals
type MealPlanRepository interface {
	CreatePlan(ctx context.Context, plan *models.MealPlan) error
	FindPlan(ctx context.Context, id primitive.ObjectID) (*models.MealPlan, error)
	ListPlans(ctx context.Context, filter PlanFilter) ([]*models.MealPlan, int64, error)
	// UpdatePlan writes the author-editable fields of plan. Counters and the
	// rating are owned by IncrementCounter and SetRating and are left alone.
	UpdatePlan(ctx context.Context, plan *models.MealPlan) error
	DeletePlan(ctx context.Context, id primitive.ObjectID) error
	IncrementCounter(ctx context.Context, id primitive.ObjectID, counter models.PlanCounter, delta int) error
	SetRating(ctx context.Context, id primitive.ObjectID, rating float64, count int) error

	CreateDays(ctx context.Context, days []*models.MealPlanDay) error
	FindDays(ctx context.Context, planID primitive.ObjectID) ([]*models.MealPlanDay, error)
	DeleteDays(ctx context.Context, planID primitive.ObjectID) error

	CreateMeals(ctx context.Context, meals []*models.MealPlanMeal) error
	FindMeals(ctx context.Context, planID primitive.ObjectID) ([]*models.MealPlanMeal, error)
	DeleteMeals(ctx context.Context, planID primitive.ObjectID) error
}

// RecipeRepository reads recipes referenced by meals
type RecipeRepository interface {
	CreateRecipe(ctx context.Context, recipe *models.Recipe) error
	FindRecipes(ctx context.Context, ids []primitive.ObjectID) ([]*models.Recipe, error)
}

// ScheduleRepository persists schedules and their meal items
type ScheduleRepository interface {
	CreateSchedule(ctx context.Context, schedule *models.UserMealSchedule) error
	FindSchedule(ctx context.Context, id primitive.ObjectID) (*models.UserMealSchedule, error)
	ListSchedules(ctx context.Context, filter ScheduleFilter) ([]*models.UserMealSchedule, int64, error)
	UpdateSchedule(ctx context.Context, schedule *models.UserMealSchedule) error
	DeleteSchedule(ctx context.Context, id primitive.ObjectID) error

	// CreateItems inserts items, silently skipping ones that already exist.
	// It returns how many were inserted.
	CreateItems(ctx context.Context, items []*models.UserMealItem) (int, error)
	FindItem(ctx context.Context, id primitive.ObjectID) (*models.UserMealItem, error)
	FindItems(ctx context.Context, filter ItemFilter) ([]*models.UserMealItem, error)
	CountItems(ctx context.Context, scheduleID primitive.ObjectID) (int64, error)
	UpdateItem(ctx context.Context, item *models.UserMealItem) error
	// MarkReminded stamps reminded_at on a pending item that has not been
	// reminded yet, leaving every other field alone. It reports whether the
	// item was claimed.
	MarkReminded(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)
	DeleteItems(ctx context.Context, scheduleID primitive.ObjectID) (int64, error)
}

// EngagementRepository persists likes, bookmarks, ratings, reports and invites
type EngagementRepository interface {
	CreateLike(ctx context.Context, like *models.Like) error
	HasLike(ctx context.Context, userID, planID primitive.ObjectID) (bool, error)
	DeleteLike(ctx context.Context, userID, planID primitive.ObjectID) error
	DeleteLikes(ctx context.Context, planID primitive.ObjectID) error

	CreateBookmark(ctx context.Context, bookmark *models.Bookmark) error
	HasBookmark(ctx context.Context, userID, planID primitive.ObjectID) (bool, error)
	DeleteBookmark(ctx context.Context, userID, planID primitive.ObjectID) error
	ListBookmarks(ctx context.Context, userID primitive.ObjectID, page Page) ([]*models.Bookmark, int64, error)
	DeleteBookmarks(ctx context.Context, planID primitive.ObjectID) error

	UpsertRating(ctx context.Context, rating *models.Rating) error
	FindRating(ctx context.Context, userID, planID primitive.ObjectID) (*models.Rating, error)
	ListRatings(ctx context.Context, planID primitive.ObjectID) ([]*models.Rating, error)
	DeleteRatings(ctx context.Context, planID primitive.ObjectID) error

	CreateReport(ctx context.Context, report *models.Report) error
	CreateInvite(ctx context.Context, invite *models.Invite) error
	HasInvite(ctx context.Context, senderID, receiverID, planID primitive.ObjectID) (bool, error)
}

// CommentRepository persists meal plan comments
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	FindComment(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	ListComments(ctx context.Context, planID primitive.ObjectID) ([]*models.Comment, error)
	DeleteComments(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	DeleteCommentsByPlan(ctx context.Context, planID primitive.ObjectID) error
}

// NotificationRepository persists user notifications
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, receiverID primitive.ObjectID, page Page) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, id, receiverID primitive.ObjectID) error
}

// FollowRepository persists the follow graph
type FollowRepository interface {
	CreateFollow(ctx context.Context, follow *models.Follow) error
	DeleteFollow(ctx context.Context, followerID, followingID primitive.ObjectID) error
	FollowerIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
	FollowingIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// UserRepository reads user profiles
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUsers(ctx context.Context, ids []primitive.ObjectID) ([]*models.User, error)
}

// Store bundles every repository the services need
type Store struct {
	Plans         MealPlanRepository
	Recipes       RecipeRepository
	Schedules     ScheduleRepository
	Engagement    EngagementRepository
	Comments      CommentRepository
	Notifications NotificationRepository
	Follows       FollowRepository
	Users         UserRepository
}

// Paging defaults for list endpoints
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
)

// NewPage clamps a client supplied page request
func NewPage(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Page: page, Limit: limit}
}
