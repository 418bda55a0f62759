package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/daiquydev/fedacn-sub001/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ScheduleRepo handles persistence for schedules and meal items
type ScheduleRepo struct {
	db  *MongoDB
	log *zap.Logger
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *MongoDB, log *zap.Logger) *ScheduleRepo {
	return &ScheduleRepo{
		db:  db,
		log: log.Named("schedule-repository"),
	}
}

func (r *ScheduleRepo) CreateSchedule(ctx context.Context, schedule *models.UserMealSchedule) error {
	ensureID(&schedule.ID)
	return insertOne(ctx, r.db.Collection(CollSchedules), schedule)
}

func (r *ScheduleRepo) FindSchedule(ctx context.Context, id primitive.ObjectID) (*models.UserMealSchedule, error) {
	return findOne[models.UserMealSchedule](ctx, r.db.Collection(CollSchedules), bson.M{"_id": id})
}

func (r *ScheduleRepo) ListSchedules(ctx context.Context, filter ScheduleFilter) ([]*models.UserMealSchedule, int64, error) {
	query := bson.M{}
	if filter.UserID != nil {
		query["user_id"] = *filter.UserID
	}
	if filter.MealPlanID != nil {
		query["meal_plan_id"] = *filter.MealPlanID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	sort := bson.D{{Key: "start_date", Value: -1}, {Key: "created_at", Value: -1}}
	return findPage[models.UserMealSchedule](ctx, r.db.Collection(CollSchedules), query, sort, filter.Page)
}

func (r *ScheduleRepo) UpdateSchedule(ctx context.Context, schedule *models.UserMealSchedule) error {
	return replaceByID(ctx, r.db.Collection(CollSchedules), schedule.ID, schedule)
}

func (r *ScheduleRepo) DeleteSchedule(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, r.db.Collection(CollSchedules), bson.M{"_id": id})
}

// CreateItems bulk-inserts items unordered so one duplicate does not stop the rest
func (r *ScheduleRepo) CreateItems(ctx context.Context, items []*models.UserMealItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, len(items))
	for i, item := range items {
		ensureID(&item.ID)
		docs[i] = item
	}

	_, err := r.db.Collection(CollMealItems).InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	inserted, err := insertedIgnoringDuplicates(len(items), err)
	if err != nil {
		return 0, fmt.Errorf("failed to insert meal items: %w", err)
	}
	if skipped := len(items) - inserted; skipped > 0 {
		r.log.Info("Skipped already materialized meal items", zap.Int("duplicates", skipped))
	}
	return inserted, nil
}

func (r *ScheduleRepo) FindItem(ctx context.Context, id primitive.ObjectID) (*models.UserMealItem, error) {
	return findOne[models.UserMealItem](ctx, r.db.Collection(CollMealItems), bson.M{"_id": id})
}

func (r *ScheduleRepo) FindItems(ctx context.Context, filter ItemFilter) ([]*models.UserMealItem, error) {
	query := bson.M{}
	if filter.ScheduleIDs != nil {
		query["schedule_id"] = bson.M{"$in": filter.ScheduleIDs}
	}
	if filter.UserID != nil {
		query["user_id"] = *filter.UserID
	}
	if filter.From != nil || filter.To != nil {
		dateRange := bson.M{}
		if filter.From != nil {
			dateRange["$gte"] = *filter.From
		}
		if filter.To != nil {
			dateRange["$lt"] = *filter.To
		}
		query["scheduled_date"] = dateRange
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "scheduled_date", Value: 1}, {Key: "meal_order", Value: 1}})
	return findMany[models.UserMealItem](ctx, r.db.Collection(CollMealItems), query, opts)
}

func (r *ScheduleRepo) CountItems(ctx context.Context, scheduleID primitive.ObjectID) (int64, error) {
	count, err := r.db.Collection(CollMealItems).CountDocuments(ctx, bson.M{"schedule_id": scheduleID})
	if err != nil {
		return 0, fmt.Errorf("failed to count meal items: %w", err)
	}
	return count, nil
}

func (r *ScheduleRepo) UpdateItem(ctx context.Context, item *models.UserMealItem) error {
	return replaceByID(ctx, r.db.Collection(CollMealItems), item.ID, item)
}

func (r *ScheduleRepo) MarkReminded(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	res, err := r.db.Collection(CollMealItems).UpdateOne(ctx,
		bson.M{"_id": id, "status": models.ItemPending, "reminded_at": nil},
		bson.M{"$set": bson.M{"reminded_at": at}})
	if err != nil {
		return false, fmt.Errorf("failed to mark meal item reminded: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *ScheduleRepo) DeleteItems(ctx context.Context, scheduleID primitive.ObjectID) (int64, error) {
	return deleteMany(ctx, r.db.Collection(CollMealItems), bson.M{"schedule_id": scheduleID})
}
