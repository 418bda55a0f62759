package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// indexSpecs lists the indexes every deployment needs. The unique ones turn
// concurrent duplicate writes (double like, double backfill) into ErrDuplicate.
var indexSpecs = map[string][]mongo.IndexModel{
	CollMealPlans: {
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
	},
	CollMealPlanDays: {
		{Keys: bson.D{{Key: "meal_plan_id", Value: 1}, {Key: "day_number", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	CollMealPlanMeals: {
		{Keys: bson.D{{Key: "meal_plan_id", Value: 1}, {Key: "meal_order", Value: 1}}},
	},
	CollSchedules: {
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}}},
	},
	CollMealItems: {
		{Keys: bson.D{{Key: "schedule_id", Value: 1}, {Key: "meal_plan_meal_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "scheduled_date", Value: 1}}},
	},
	CollLikes: {
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "meal_plan_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	CollBookmarks: {
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "meal_plan_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	CollRatings: {
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "meal_plan_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	CollReports: {
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "meal_plan_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	CollInvites: {
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "receiver_id", Value: 1}, {Key: "meal_plan_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	CollComments: {
		{Keys: bson.D{{Key: "meal_plan_id", Value: 1}, {Key: "created_at", Value: 1}}},
	},
	CollNotifications: {
		{Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "created_at", Value: -1}}},
	},
	CollFollows: {
		{Keys: bson.D{{Key: "follower_id", Value: 1}, {Key: "following_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "following_id", Value: 1}}},
	},
}

// EnsureIndexes creates missing indexes. It is safe to run on every start.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	for coll, models := range indexSpecs {
		names, err := m.Collection(coll).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
		m.log.Debug("Indexes ensured", zap.String("collection", coll), zap.Strings("indexes", names))
	}
	return nil
}
