package schedule

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/daiquydev/fedacn-sub001/internal/apperror"
	"github.com/daiquydev/fedacn-sub001/internal/models"
	"github.com/daiquydev/fedacn-sub001/internal/storage"
	"github.com/daiquydev/fedacn-sub001/internal/storage/memory"
	"github.com/daiquydev/fedacn-sub001/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fixture struct {
	svc      *Service
	store    *storage.Store
	userID   primitive.ObjectID
	plan     *models.MealPlan
	schedule *models.UserMealSchedule
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newFixture stores a 3 day plan with breakfast and dinner each day, plus an
// active schedule of it starting 2024-01-01. The clock reads 2024-01-02.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New().Repositories()
	cfg := &config.Config{Location: time.UTC, UpcomingDays: 3}
	svc := NewService(store, storage.NewLocalLocker(), cfg, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC) }

	userID := primitive.NewObjectID()
	recipe := &models.Recipe{Title: "Oatmeal", Calories: 350, Protein: 12, Carbs: 60, Fat: 6, Instructions: "Boil milk\nStir oats"}
	require.NoError(t, store.Recipes.CreateRecipe(ctx, recipe))

	plan := &models.MealPlan{AuthorID: userID, Title: "Lean week", DurationDays: 3, Status: models.PlanStatusPublic}
	require.NoError(t, store.Plans.CreatePlan(ctx, plan))

	for n := 3; n >= 1; n-- {
		day := &models.MealPlanDay{MealPlanID: plan.ID, DayNumber: n}
		require.NoError(t, store.Plans.CreateDays(ctx, []*models.MealPlanDay{day}))
		require.NoError(t, store.Plans.CreateMeals(ctx, []*models.MealPlanMeal{
			{MealPlanID: plan.ID, MealPlanDayID: day.ID, MealType: models.MealTypeDinner, MealOrder: 2, Name: "Salmon", Calories: 600, Protein: 40},
			{MealPlanID: plan.ID, MealPlanDayID: day.ID, MealType: models.MealTypeBreakfast, MealOrder: 1, RecipeID: &recipe.ID},
		}))
	}

	schedule := &models.UserMealSchedule{
		UserID:     userID,
		MealPlanID: plan.ID,
		Title:      plan.Title,
		StartDate:  date(2024, 1, 1),
		EndDate:    date(2024, 1, 3),
		Status:     models.ScheduleActive,
	}
	require.NoError(t, store.Schedules.CreateSchedule(ctx, schedule))

	return &fixture{svc: svc, store: store, userID: userID, plan: plan, schedule: schedule}
}

func (f *fixture) items(t *testing.T) []*models.UserMealItem {
	t.Helper()
	items, err := f.store.Schedules.FindItems(context.Background(), storage.ItemFilter{
		ScheduleIDs: []primitive.ObjectID{f.schedule.ID},
	})
	require.NoError(t, err)
	return items
}

func TestMaterializeDatesEveryMeal(t *testing.T) {
	f := newFixture(t)

	inserted, err := f.svc.Materialize(context.Background(), f.schedule)
	require.NoError(t, err)
	require.Equal(t, 6, inserted)

	items := f.items(t)
	require.Len(t, items, 6)

	want := []time.Time{
		date(2024, 1, 1), date(2024, 1, 1),
		date(2024, 1, 2), date(2024, 1, 2),
		date(2024, 1, 3), date(2024, 1, 3),
	}
	for i, item := range items {
		assert.True(t, want[i].Equal(item.ScheduledDate), "item %d dated %s", i, item.ScheduledDate)
		assert.Equal(t, models.ItemPending, item.Status)
		assert.Equal(t, f.userID, item.UserID)
	}

	breakfast := items[0]
	assert.Equal(t, models.MealTypeBreakfast, breakfast.MealType)
	assert.Equal(t, "Oatmeal", breakfast.Name)
	assert.Equal(t, 350.0, breakfast.Calories)
	assert.Equal(t, 1, breakfast.DayNumber)

	dinner := items[1]
	assert.Equal(t, "Salmon", dinner.Name)
	assert.Equal(t, 600.0, dinner.Calories)
}

func TestMaterializeTwiceIsHarmless(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Materialize(ctx, f.schedule)
	require.NoError(t, err)
	inserted, err := f.svc.Materialize(ctx, f.schedule)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
	assert.Len(t, f.items(t), 6)
}

func TestDayItemsBackfillsAndResolvesDayNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.svc.DayItems(ctx, f.userID, DayQuery{ScheduleID: f.schedule.ID, DayNumber: 2})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", view.Date)
	assert.Equal(t, 2, view.DayNumber)
	assert.Len(t, view.Items, 2)
	assert.Equal(t, 950.0, view.Nutrition.Calories)
	assert.Len(t, f.items(t), 6)

	byDate, err := f.svc.DayItems(ctx, f.userID, DayQuery{ScheduleID: f.schedule.ID, Date: "2024-01-03"})
	require.NoError(t, err)
	assert.Equal(t, 3, byDate.DayNumber)
	assert.Len(t, byDate.Items, 2)
}

func TestDayItemsValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.DayItems(ctx, f.userID, DayQuery{ScheduleID: f.schedule.ID})
	assert.True(t, apperror.Is(err, http.StatusBadRequest))

	_, err = f.svc.DayItems(ctx, primitive.NewObjectID(), DayQuery{ScheduleID: f.schedule.ID, DayNumber: 1})
	assert.True(t, apperror.Is(err, http.StatusForbidden))

	_, err = f.svc.DayItems(ctx, f.userID, DayQuery{ScheduleID: primitive.NewObjectID(), DayNumber: 1})
	assert.True(t, apperror.Is(err, http.StatusNotFound))
}

func TestCompleteSkipAndStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Materialize(ctx, f.schedule)
	require.NoError(t, err)
	items := f.items(t)

	for _, item := range items[:3] {
		_, err := f.svc.Complete(ctx, f.userID, CompleteInput{ItemID: item.ID, Rating: 4})
		require.NoError(t, err)
	}
	skipped, err := f.svc.Skip(ctx, f.userID, items[3].ID, "not hungry")
	require.NoError(t, err)
	assert.Equal(t, models.ItemSkipped, skipped.Status)
	assert.Equal(t, "not hungry", skipped.SkipReason)

	stats, err := f.svc.Stats(ctx, f.userID, f.schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.TotalItems)
	assert.Equal(t, 3, stats.CompletedItems)
	assert.Equal(t, 1, stats.SkippedItems)
	assert.Equal(t, 2, stats.PendingItems)
	assert.Equal(t, 50.0, stats.CompletionRate)
	// Jan 1 is fully completed, Jan 2 has a skipped dinner
	assert.Equal(t, 0, stats.CurrentStreak)
	assert.Equal(t, 3, stats.TotalDays)
	assert.Equal(t, 2, stats.CurrentDay)
	assert.Equal(t, 350.0+600+350, stats.Consumed.Calories)
}

func TestCompleteRejectsForeignItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Materialize(ctx, f.schedule)
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, primitive.NewObjectID(), CompleteInput{ItemID: f.items(t)[0].ID})
	assert.True(t, apperror.Is(err, http.StatusForbidden))

	_, err = f.svc.Complete(ctx, f.userID, CompleteInput{ItemID: primitive.NewObjectID()})
	assert.True(t, apperror.Is(err, http.StatusNotFound))
}

func TestSubstituteKeepsFirstOriginal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Materialize(ctx, f.schedule)
	require.NoError(t, err)
	breakfast := f.items(t)[0]

	_, err = f.svc.Substitute(ctx, f.userID, SubstituteInput{ItemID: breakfast.ID, Name: "Toast", Calories: 200})
	require.NoError(t, err)
	got, err := f.svc.Substitute(ctx, f.userID, SubstituteInput{ItemID: breakfast.ID, Name: "Yogurt", Calories: 150, Reason: "out of bread"})
	require.NoError(t, err)

	assert.Equal(t, "Yogurt", got.Name)
	assert.Nil(t, got.RecipeID)
	require.NotNil(t, got.Substitution)
	assert.Equal(t, "Oatmeal", got.Substitution.OriginalName)
	assert.Equal(t, 350.0, got.Substitution.OriginalCalories)
	assert.Equal(t, "out of bread", got.Substitution.Reason)
}

func TestRescheduleStaysInRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Materialize(ctx, f.schedule)
	require.NoError(t, err)
	item := f.items(t)[0]

	_, err = f.svc.Reschedule(ctx, f.userID, RescheduleInput{ItemID: item.ID, NewDate: "2024-01-09"})
	assert.True(t, apperror.Is(err, http.StatusUnprocessableEntity))

	_, err = f.svc.Reschedule(ctx, f.userID, RescheduleInput{ItemID: item.ID, NewDate: "yesterday-ish"})
	assert.True(t, apperror.Is(err, http.StatusBadRequest))

	moved, err := f.svc.Reschedule(ctx, f.userID, RescheduleInput{ItemID: item.ID, NewDate: "2024-01-03", MealType: "lunch"})
	require.NoError(t, err)
	assert.True(t, date(2024, 1, 3).Equal(moved.ScheduledDate))
	assert.Equal(t, 3, moved.DayNumber)
	assert.Equal(t, models.MealTypeLunch, moved.MealType)
	require.NotNil(t, moved.OriginalDate)
	assert.True(t, date(2024, 1, 1).Equal(*moved.OriginalDate))
}

func TestSwapExchangesSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Materialize(ctx, f.schedule)
	require.NoError(t, err)
	items := f.items(t)
	first, last := items[0], items[5]

	swapped, err := f.svc.Swap(ctx, f.userID, first.ID, last.ID)
	require.NoError(t, err)
	require.Len(t, swapped, 2)

	a, err := f.store.Schedules.FindItem(ctx, first.ID)
	require.NoError(t, err)
	b, err := f.store.Schedules.FindItem(ctx, last.ID)
	require.NoError(t, err)

	assert.True(t, date(2024, 1, 3).Equal(a.ScheduledDate))
	assert.Equal(t, models.MealTypeDinner, a.MealType)
	assert.True(t, date(2024, 1, 1).Equal(b.ScheduledDate))
	assert.Equal(t, models.MealTypeBreakfast, b.MealType)
	assert.Equal(t, &b.ID, a.SwappedWith)

	_, err = f.svc.Swap(ctx, f.userID, first.ID, first.ID)
	assert.True(t, apperror.Is(err, http.StatusBadRequest))
}

func TestTodayAndUpcoming(t *testing.T) {
	f := newFixture(t)

	view, err := f.svc.Today(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", view.Date)
	assert.Len(t, view.Items, 2)
	assert.Equal(t, models.MealTypeBreakfast, view.Items[0].MealType)
	assert.Equal(t, 950.0, view.Planned.Calories)
	assert.Equal(t, 0.0, view.Consumed.Calories)
	require.Len(t, view.Upcoming, 1)
	assert.Equal(t, "2024-01-03", view.Upcoming[0].Date)
}

func TestUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bad := "sleeping"
	_, err := f.svc.Update(ctx, f.userID, f.schedule.ID, UpdateInput{Status: &bad})
	assert.True(t, apperror.Is(err, http.StatusBadRequest))

	early := "2023-12-01"
	_, err = f.svc.Update(ctx, f.userID, f.schedule.ID, UpdateInput{EndDate: &early})
	assert.True(t, apperror.Is(err, http.StatusUnprocessableEntity))

	paused := models.SchedulePaused
	reminders := []models.Reminder{{MealType: models.MealTypeBreakfast, Time: "07:30", Enabled: true}}
	updated, err := f.svc.Update(ctx, f.userID, f.schedule.ID, UpdateInput{Status: &paused, Reminders: &reminders})
	require.NoError(t, err)
	assert.Equal(t, models.SchedulePaused, updated.Status)
	assert.Len(t, updated.Reminders, 1)

	_, err = f.svc.Materialize(ctx, f.schedule)
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, f.userID, f.schedule.ID))
	assert.Empty(t, f.items(t))

	_, err = f.svc.Get(ctx, f.userID, f.schedule.ID)
	assert.True(t, apperror.Is(err, http.StatusNotFound))
}

func TestInstructionsUseRecipe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Materialize(ctx, f.schedule)
	require.NoError(t, err)

	view, err := f.svc.Instructions(ctx, f.userID, f.items(t)[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "recipe", view.Source)
	assert.Equal(t, []string{"Boil milk", "Stir oats"}, view.Steps)
}
