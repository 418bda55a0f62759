package memory

import (
	"context"
	"testing"
	"time"

	"github.com/daiquydev/fedacn-sub001/internal/models"
	"github.com/daiquydev/fedacn-sub001/internal/storage"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateItemsSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	s := New()
	scheduleID := primitive.NewObjectID()
	mealID := primitive.NewObjectID()

	n, err := s.CreateItems(ctx, []*models.UserMealItem{{ScheduleID: scheduleID, MealPlanMealID: mealID}})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = s.CreateItems(ctx, []*models.UserMealItem{
		{ScheduleID: scheduleID, MealPlanMealID: mealID},
		{ScheduleID: scheduleID, MealPlanMealID: primitive.NewObjectID()},
	})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	count, err := s.CountItems(ctx, scheduleID)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}

func TestLikeIsUniquePerUser(t *testing.T) {
	ctx := context.Background()
	s := New()
	userID, planID := primitive.NewObjectID(), primitive.NewObjectID()

	require.NoError(t, s.CreateLike(ctx, &models.Like{UserID: userID, MealPlanID: planID}))
	require.ErrorIs(t, s.CreateLike(ctx, &models.Like{UserID: userID, MealPlanID: planID}), storage.ErrDuplicate)

	require.NoError(t, s.DeleteLike(ctx, userID, planID))
	require.ErrorIs(t, s.DeleteLike(ctx, userID, planID), storage.ErrNotFound)
}

func TestIncrementCounterNeverNegative(t *testing.T) {
	ctx := context.Background()
	s := New()
	plan := &models.MealPlan{Title: "p"}
	require.NoError(t, s.CreatePlan(ctx, plan))

	require.NoError(t, s.IncrementCounter(ctx, plan.ID, models.CounterLikes, -1))
	require.NoError(t, s.IncrementCounter(ctx, plan.ID, models.CounterLikes, 1))

	got, err := s.FindPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.LikesCount)
}

func TestListPlansPaging(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.CreatePlan(ctx, &models.MealPlan{
			Title:     "plan",
			Status:    models.PlanStatusPublic,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	plans, total, err := s.ListPlans(ctx, storage.PlanFilter{PublicOnly: true, Page: storage.Page{Page: 2, Limit: 2}})
	require.NoError(t, err)
	require.EqualValues(t, 5, total)
	require.Len(t, plans, 2)
	require.Equal(t, base.Add(2*time.Hour), plans[0].CreatedAt)
}

func TestReturnedDocumentsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	plan := &models.MealPlan{Title: "original"}
	require.NoError(t, s.CreatePlan(ctx, plan))

	got, err := s.FindPlan(ctx, plan.ID)
	require.NoError(t, err)
	got.Title = "changed"

	again, err := s.FindPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Equal(t, "original", again.Title)
}

func TestUpdatePlanLeavesCounters(t *testing.T) {
	ctx := context.Background()
	s := New()
	plan := &models.MealPlan{Title: "before", Status: models.PlanStatusPublic}
	require.NoError(t, s.CreatePlan(ctx, plan))

	stale, err := s.FindPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.NoError(t, s.IncrementCounter(ctx, plan.ID, models.CounterLikes, 2))
	require.NoError(t, s.SetRating(ctx, plan.ID, 4.5, 2))

	stale.Title = "after"
	stale.Tags = []string{"vegan"}
	require.NoError(t, s.UpdatePlan(ctx, stale))

	got, err := s.FindPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Equal(t, "after", got.Title)
	require.Equal(t, []string{"vegan"}, got.Tags)
	require.Equal(t, 2, got.LikesCount)
	require.Equal(t, 4.5, got.Rating)
	require.Equal(t, 2, got.RatingCount)

	require.ErrorIs(t, s.UpdatePlan(ctx, &models.MealPlan{ID: primitive.NewObjectID()}), storage.ErrNotFound)
}
