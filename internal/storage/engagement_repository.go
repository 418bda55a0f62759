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

// EngagementRepo handles likes, bookmarks, ratings, reports and invites.
// Each collection is keyed by (user, meal plan) with a unique index.
type EngagementRepo struct {
	db  *MongoDB
	log *zap.Logger
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *MongoDB, log *zap.Logger) *EngagementRepo {
	return &EngagementRepo{
		db:  db,
		log: log.Named("engagement-repository"),
	}
}

func pairFilter(userID, planID primitive.ObjectID) bson.M {
	return bson.M{"user_id": userID, "meal_plan_id": planID}
}

func (r *EngagementRepo) CreateLike(ctx context.Context, like *models.Like) error {
	ensureID(&like.ID)
	return insertOne(ctx, r.db.Collection(CollLikes), like)
}

func (r *EngagementRepo) HasLike(ctx context.Context, userID, planID primitive.ObjectID) (bool, error) {
	return exists(ctx, r.db.Collection(CollLikes), pairFilter(userID, planID))
}

func (r *EngagementRepo) DeleteLike(ctx context.Context, userID, planID primitive.ObjectID) error {
	return deleteOne(ctx, r.db.Collection(CollLikes), pairFilter(userID, planID))
}

func (r *EngagementRepo) DeleteLikes(ctx context.Context, planID primitive.ObjectID) error {
	_, err := deleteMany(ctx, r.db.Collection(CollLikes), bson.M{"meal_plan_id": planID})
	return err
}

func (r *EngagementRepo) CreateBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	ensureID(&bookmark.ID)
	return insertOne(ctx, r.db.Collection(CollBookmarks), bookmark)
}

func (r *EngagementRepo) HasBookmark(ctx context.Context, userID, planID primitive.ObjectID) (bool, error) {
	return exists(ctx, r.db.Collection(CollBookmarks), pairFilter(userID, planID))
}

func (r *EngagementRepo) DeleteBookmark(ctx context.Context, userID, planID primitive.ObjectID) error {
	return deleteOne(ctx, r.db.Collection(CollBookmarks), pairFilter(userID, planID))
}

func (r *EngagementRepo) ListBookmarks(ctx context.Context, userID primitive.ObjectID, page Page) ([]*models.Bookmark, int64, error) {
	sort := bson.D{{Key: "created_at", Value: -1}}
	return findPage[models.Bookmark](ctx, r.db.Collection(CollBookmarks), bson.M{"user_id": userID}, sort, page)
}

func (r *EngagementRepo) DeleteBookmarks(ctx context.Context, planID primitive.ObjectID) error {
	_, err := deleteMany(ctx, r.db.Collection(CollBookmarks), bson.M{"meal_plan_id": planID})
	return err
}

// UpsertRating creates the user's rating or overwrites the existing one
func (r *EngagementRepo) UpsertRating(ctx context.Context, rating *models.Rating) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"rating":     rating.Rating,
			"review":     rating.Review,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	err := r.db.Collection(CollRatings).
		FindOneAndUpdate(ctx, pairFilter(rating.UserID, rating.MealPlanID), update, opts).
		Decode(rating)
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}
	return nil
}

func (r *EngagementRepo) FindRating(ctx context.Context, userID, planID primitive.ObjectID) (*models.Rating, error) {
	return findOne[models.Rating](ctx, r.db.Collection(CollRatings), pairFilter(userID, planID))
}

func (r *EngagementRepo) ListRatings(ctx context.Context, planID primitive.ObjectID) ([]*models.Rating, error) {
	return findMany[models.Rating](ctx, r.db.Collection(CollRatings), bson.M{"meal_plan_id": planID})
}

func (r *EngagementRepo) DeleteRatings(ctx context.Context, planID primitive.ObjectID) error {
	_, err := deleteMany(ctx, r.db.Collection(CollRatings), bson.M{"meal_plan_id": planID})
	return err
}

func (r *EngagementRepo) CreateReport(ctx context.Context, report *models.Report) error {
	ensureID(&report.ID)
	return insertOne(ctx, r.db.Collection(CollReports), report)
}

func (r *EngagementRepo) CreateInvite(ctx context.Context, invite *models.Invite) error {
	ensureID(&invite.ID)
	return insertOne(ctx, r.db.Collection(CollInvites), invite)
}

func (r *EngagementRepo) HasInvite(ctx context.Context, senderID, receiverID, planID primitive.ObjectID) (bool, error) {
	return exists(ctx, r.db.Collection(CollInvites), bson.M{
		"sender_id":    senderID,
		"receiver_id":  receiverID,
		"meal_plan_id": planID,
	})
}
