package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/daiquydev/fedacn-sub001/pkg/config"
)

// Collection names
const (
	CollMealPlans     = "meal_plans"
	CollMealPlanDays  = "meal_plan_days"
	CollMealPlanMeals = "meal_plan_meals"
	CollRecipes       = "recipes"
	CollSchedules     = "user_meal_schedules"
	CollMealItems     = "user_meal_items"
	CollLikes         = "meal_plan_likes"
	CollBookmarks     = "meal_plan_bookmarks"
	CollComments      = "meal_plan_comments"
	CollRatings       = "meal_plan_ratings"
	CollReports       = "meal_plan_reports"
	CollInvites       = "meal_plan_invites"
	CollNotifications = "notifications"
	CollFollows       = "follows"
	CollUsers         = "users"
)

// MongoDB represents a MongoDB connection
type MongoDB struct {
	client *mongo.Client
	db     *mongo.Database
	log    *zap.Logger
}

// NewMongoDB creates a new MongoDB connection
func NewMongoDB(cfg *config.Config, log *zap.Logger) (*MongoDB, error) {
	logger := log.Named("mongodb")

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Connect to MongoDB
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDBURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping the database
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info("Connected to MongoDB", zap.String("database", cfg.MongoDBDatabase))

	return &MongoDB{
		client: client,
		db:     client.Database(cfg.MongoDBDatabase),
		log:    logger,
	}, nil
}

// Disconnect closes the MongoDB connection
func (m *MongoDB) Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	m.log.Info("Closing MongoDB connection")
	return m.client.Disconnect(ctx)
}

// Collection returns a MongoDB collection
func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

// Database returns the current database
func (m *MongoDB) Database() *mongo.Database {
	return m.db
}

// NewMongoStore wires every repository onto one connection
func NewMongoStore(db *MongoDB, log *zap.Logger) *Store {
	return &Store{
		Plans:         NewMealPlanRepository(db, log),
		Recipes:       NewRecipeRepository(db, log),
		Schedules:     NewScheduleRepository(db, log),
		Engagement:    NewEngagementRepository(db, log),
		Comments:      NewCommentRepository(db, log),
		Notifications: NewNotificationRepository(db, log),
		Follows:       NewFollowRepository(db, log),
		Users:         NewUserRepository(db, log),
	}
}
