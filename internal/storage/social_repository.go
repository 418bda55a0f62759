package storage

import (
	"context"
	"fmt"

	"github.com/daiquydev/fedacn-sub001/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// CommentRepo handles meal plan comments
type CommentRepo struct {
	db  *MongoDB
	log *zap.Logger
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *MongoDB, log *zap.Logger) *CommentRepo {
	return &CommentRepo{db: db, log: log.Named("comment-repository")}
}

func (r *CommentRepo) CreateComment(ctx context.Context, comment *models.Comment) error {
	ensureID(&comment.ID)
	return insertOne(ctx, r.db.Collection(CollComments), comment)
}

func (r *CommentRepo) FindComment(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	return findOne[models.Comment](ctx, r.db.Collection(CollComments), bson.M{"_id": id})
}

func (r *CommentRepo) ListComments(ctx context.Context, planID primitive.ObjectID) ([]*models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return findMany[models.Comment](ctx, r.db.Collection(CollComments), bson.M{"meal_plan_id": planID}, opts)
}

func (r *CommentRepo) DeleteComments(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return deleteMany(ctx, r.db.Collection(CollComments), bson.M{"_id": bson.M{"$in": ids}})
}

func (r *CommentRepo) DeleteCommentsByPlan(ctx context.Context, planID primitive.ObjectID) error {
	_, err := deleteMany(ctx, r.db.Collection(CollComments), bson.M{"meal_plan_id": planID})
	return err
}

// NotificationRepo handles user notifications
type NotificationRepo struct {
	db  *MongoDB
	log *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *MongoDB, log *zap.Logger) *NotificationRepo {
	return &NotificationRepo{db: db, log: log.Named("notification-repository")}
}

func (r *NotificationRepo) CreateNotification(ctx context.Context, n *models.Notification) error {
	ensureID(&n.ID)
	return insertOne(ctx, r.db.Collection(CollNotifications), n)
}

func (r *NotificationRepo) ListNotifications(ctx context.Context, receiverID primitive.ObjectID, page Page) ([]*models.Notification, int64, error) {
	sort := bson.D{{Key: "created_at", Value: -1}}
	return findPage[models.Notification](ctx, r.db.Collection(CollNotifications), bson.M{"receiver_id": receiverID}, sort, page)
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, receiverID primitive.ObjectID) error {
	res, err := r.db.Collection(CollNotifications).UpdateOne(ctx,
		bson.M{"_id": id, "receiver_id": receiverID},
		bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FollowRepo handles the follow graph
type FollowRepo struct {
	db  *MongoDB
	log *zap.Logger
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *MongoDB, log *zap.Logger) *FollowRepo {
	return &FollowRepo{db: db, log: log.Named("follow-repository")}
}

func (r *FollowRepo) CreateFollow(ctx context.Context, follow *models.Follow) error {
	ensureID(&follow.ID)
	return insertOne(ctx, r.db.Collection(CollFollows), follow)
}

func (r *FollowRepo) DeleteFollow(ctx context.Context, followerID, followingID primitive.ObjectID) error {
	return deleteOne(ctx, r.db.Collection(CollFollows), bson.M{"follower_id": followerID, "following_id": followingID})
}

// FollowerIDs returns the users following userID
func (r *FollowRepo) FollowerIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	follows, err := findMany[models.Follow](ctx, r.db.Collection(CollFollows), bson.M{"following_id": userID})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(follows))
	for i, f := range follows {
		ids[i] = f.FollowerID
	}
	return ids, nil
}

// FollowingIDs returns the users userID follows
func (r *FollowRepo) FollowingIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	follows, err := findMany[models.Follow](ctx, r.db.Collection(CollFollows), bson.M{"follower_id": userID})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(follows))
	for i, f := range follows {
		ids[i] = f.FollowingID
	}
	return ids, nil
}

// UserRepo reads user profiles
type UserRepo struct {
	db  *MongoDB
	log *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *MongoDB, log *zap.Logger) *UserRepo {
	return &UserRepo{db: db, log: log.Named("user-repository")}
}

func (r *UserRepo) CreateUser(ctx context.Context, user *models.User) error {
	ensureID(&user.ID)
	return insertOne(ctx, r.db.Collection(CollUsers), user)
}

func (r *UserRepo) FindUsers(ctx context.Context, ids []primitive.ObjectID) ([]*models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return findMany[models.User](ctx, r.db.Collection(CollUsers), bson.M{"_id": bson.M{"$in": ids}})
}
