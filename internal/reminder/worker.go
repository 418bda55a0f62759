// Package reminder notifies users when a scheduled meal is due
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/daiquydev/fedacn-sub001/internal/models"
	"github.com/daiquydev/fedacn-sub001/internal/notify"
	"github.com/daiquydev/fedacn-sub001/internal/schedule"
	"github.com/daiquydev/fedacn-sub001/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Worker sweeps active schedules for meals whose reminder time has passed
type Worker struct {
	store  *storage.Store
	notify *notify.Service
	loc    *time.Location
	log    *zap.Logger
	now    func() time.Time
}

// NewWorker creates a reminder worker
func NewWorker(store *storage.Store, notifier *notify.Service, loc *time.Location, log *zap.Logger) *Worker {
	if loc == nil {
		loc = time.UTC
	}
	return &Worker{
		store:  store,
		notify: notifier,
		loc:    loc,
		log:    log.Named("reminder-worker"),
		now:    time.Now,
	}
}

// Run performs one sweep and returns how many reminders were sent
func (w *Worker) Run(ctx context.Context) (int, error) {
	schedules, _, err := w.store.Schedules.ListSchedules(ctx, storage.ScheduleFilter{Status: models.ScheduleActive})
	if err != nil {
		return 0, fmt.Errorf("failed to list active schedules: %w", err)
	}

	now := w.now().In(w.loc)
	today := schedule.StartOfDay(now, w.loc)
	tomorrow := schedule.AddDays(today, 1)

	sent := 0
	for _, sched := range schedules {
		due := dueMealTypes(sched.Reminders, now)
		if len(due) == 0 {
			continue
		}

		items, err := w.store.Schedules.FindItems(ctx, storage.ItemFilter{
			ScheduleIDs: []primitive.ObjectID{sched.ID},
			From:        &today,
			To:          &tomorrow,
			Status:      models.ItemPending,
		})
		if err != nil {
			w.log.Error("Failed to load items", zap.String("schedule_id", sched.ID.Hex()), zap.Error(err))
			continue
		}

		for _, item := range items {
			if item.RemindedAt != nil || !due[item.MealType] {
				continue
			}
			claimed, err := w.remind(ctx, item, now)
			if err != nil {
				w.log.Error("Failed to send reminder", zap.String("item_id", item.ID.Hex()), zap.Error(err))
				continue
			}
			if claimed {
				sent++
			}
		}
	}

	w.log.Info("Reminder sweep finished",
		zap.Int("schedules", len(schedules)),
		zap.Int("sent", sent))
	return sent, nil
}

// remind claims the item and then notifies its owner. An item that was
// acted on or reminded since it was loaded is skipped.
func (w *Worker) remind(ctx context.Context, item *models.UserMealItem, now time.Time) (bool, error) {
	claimed, err := w.store.Schedules.MarkReminded(ctx, item.ID, now)
	if err != nil || !claimed {
		return false, err
	}

	content := fmt.Sprintf("Time for %s: %s", item.MealType, item.Name)
	n := models.NewNotification(nil, item.UserID, models.NotificationMealReminder, content, &item.ID)
	if err := w.notify.Notify(ctx, n); err != nil {
		return false, err
	}
	return true, nil
}

// dueMealTypes returns the meal types whose enabled reminder time of day is
// at or before now
func dueMealTypes(reminders []models.Reminder, now time.Time) map[models.MealType]bool {
	due := make(map[models.MealType]bool)
	minutes := now.Hour()*60 + now.Minute()
	for _, r := range reminders {
		if !r.Enabled {
			continue
		}
		at, err := time.Parse("15:04", r.Time)
		if err != nil {
			continue
		}
		if at.Hour()*60+at.Minute() <= minutes {
			due[r.MealType] = true
		}
	}
	return due
}

// StartScheduledRuns sweeps immediately and then on every tick until ctx ends
func (w *Worker) StartScheduledRuns(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.log.Info("Starting scheduled reminder sweeps", zap.Duration("interval", interval))

	if _, err := w.Run(ctx); err != nil {
		w.log.Error("Initial reminder sweep failed", zap.Error(err))
	}

	for {
		select {
		case <-ticker.C:
			if _, err := w.Run(ctx); err != nil {
				w.log.Error("Scheduled reminder sweep failed", zap.Error(err))
			}
		case <-ctx.Done():
			w.log.Info("Stopping scheduled reminder sweeps")
			return
		}
	}
}
