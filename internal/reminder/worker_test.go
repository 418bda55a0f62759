package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/daiquydev/fedacn-sub001/internal/models"
	"github.com/daiquydev/fedacn-sub001/internal/notify"
	"github.com/daiquydev/fedacn-sub001/internal/storage"
	"github.com/daiquydev/fedacn-sub001/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestRunSendsDueRemindersOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.New().Repositories()
	notifier := notify.NewService(store.Notifications, nil, zap.NewNop())
	w := NewWorker(store, notifier, time.UTC, zap.NewNop())
	w.now = func() time.Time { return time.Date(2024, 1, 2, 12, 30, 0, 0, time.UTC) }

	userID := primitive.NewObjectID()
	sched := &models.UserMealSchedule{
		UserID:    userID,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Status:    models.ScheduleActive,
		Reminders: []models.Reminder{
			{MealType: models.MealTypeBreakfast, Time: "08:00", Enabled: true},
			{MealType: models.MealTypeLunch, Time: "12:00", Enabled: false},
			{MealType: models.MealTypeDinner, Time: "19:00", Enabled: true},
		},
	}
	require.NoError(t, store.Schedules.CreateSchedule(ctx, sched))

	today := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	_, err := store.Schedules.CreateItems(ctx, []*models.UserMealItem{
		{ScheduleID: sched.ID, UserID: userID, MealPlanMealID: primitive.NewObjectID(), ScheduledDate: today, MealType: models.MealTypeBreakfast, MealOrder: 1, Name: "Oats", Status: models.ItemPending},
		{ScheduleID: sched.ID, UserID: userID, MealPlanMealID: primitive.NewObjectID(), ScheduledDate: today, MealType: models.MealTypeLunch, MealOrder: 2, Name: "Salad", Status: models.ItemPending},
		{ScheduleID: sched.ID, UserID: userID, MealPlanMealID: primitive.NewObjectID(), ScheduledDate: today, MealType: models.MealTypeDinner, MealOrder: 3, Name: "Fish", Status: models.ItemPending},
		{ScheduleID: sched.ID, UserID: userID, MealPlanMealID: primitive.NewObjectID(), ScheduledDate: today.AddDate(0, 0, 1), MealType: models.MealTypeBreakfast, MealOrder: 1, Name: "Oats", Status: models.ItemPending},
	})
	require.NoError(t, err)

	sent, err := w.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	sent, err = w.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	notes, _, err := notifier.List(ctx, userID, storage.NewPage(1, 10))
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationMealReminder, notes[0].Type)
	assert.Equal(t, "Time for breakfast: Oats", notes[0].Content)
}

// completingRepo completes the item while its reminder is being stored, the
// way a user tapping "done" mid-sweep would
type completingRepo struct {
	storage.NotificationRepository
	items  storage.ScheduleRepository
	itemID primitive.ObjectID
}

func (r *completingRepo) CreateNotification(ctx context.Context, n *models.Notification) error {
	item, err := r.items.FindItem(ctx, r.itemID)
	if err != nil {
		return err
	}
	item.Status = models.ItemCompleted
	if err := r.items.UpdateItem(ctx, item); err != nil {
		return err
	}
	return r.NotificationRepository.CreateNotification(ctx, n)
}

func TestRunKeepsConcurrentStatusChange(t *testing.T) {
	ctx := context.Background()
	store := memory.New().Repositories()

	userID := primitive.NewObjectID()
	sched := &models.UserMealSchedule{
		UserID:    userID,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Status:    models.ScheduleActive,
		Reminders: []models.Reminder{{MealType: models.MealTypeBreakfast, Time: "08:00", Enabled: true}},
	}
	require.NoError(t, store.Schedules.CreateSchedule(ctx, sched))

	item := &models.UserMealItem{
		ScheduleID:     sched.ID,
		UserID:         userID,
		MealPlanMealID: primitive.NewObjectID(),
		ScheduledDate:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		MealType:       models.MealTypeBreakfast,
		Name:           "Oats",
		Status:         models.ItemPending,
	}
	_, err := store.Schedules.CreateItems(ctx, []*models.UserMealItem{item})
	require.NoError(t, err)

	repo := &completingRepo{NotificationRepository: store.Notifications, items: store.Schedules, itemID: item.ID}
	w := NewWorker(store, notify.NewService(repo, nil, zap.NewNop()), time.UTC, zap.NewNop())
	w.now = func() time.Time { return time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC) }

	sent, err := w.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	stored, err := store.Schedules.FindItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemCompleted, stored.Status)
	assert.NotNil(t, stored.RemindedAt)
}

func TestMarkRemindedOnlyClaimsPendingOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.New().Repositories()

	pending := &models.UserMealItem{ScheduleID: primitive.NewObjectID(), MealPlanMealID: primitive.NewObjectID(), Status: models.ItemPending}
	skipped := &models.UserMealItem{ScheduleID: primitive.NewObjectID(), MealPlanMealID: primitive.NewObjectID(), Status: models.ItemSkipped}
	_, err := store.Schedules.CreateItems(ctx, []*models.UserMealItem{pending, skipped})
	require.NoError(t, err)

	at := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	claimed, err := store.Schedules.MarkReminded(ctx, pending.ID, at)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = store.Schedules.MarkReminded(ctx, pending.ID, at)
	require.NoError(t, err)
	assert.False(t, claimed)

	claimed, err = store.Schedules.MarkReminded(ctx, skipped.ID, at)
	require.NoError(t, err)
	assert.False(t, claimed)

	claimed, err = store.Schedules.MarkReminded(ctx, primitive.NewObjectID(), at)
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestDueMealTypes(t *testing.T) {
	now := time.Date(2024, 1, 2, 7, 59, 0, 0, time.UTC)
	due := dueMealTypes([]models.Reminder{
		{MealType: models.MealTypeBreakfast, Time: "08:00", Enabled: true},
		{MealType: models.MealTypeSnack, Time: "bad", Enabled: true},
	}, now)
	assert.Empty(t, due)

	due = dueMealTypes([]models.Reminder{{MealType: models.MealTypeBreakfast, Time: "08:00", Enabled: true}}, now.Add(time.Minute))
	assert.True(t, due[models.MealTypeBreakfast])
}
