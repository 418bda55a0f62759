package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the subset of the user profile this service reads
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Username string             `bson:"user_name,omitempty" json:"user_name,omitempty"`
	Avatar   string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// Like is a user's like on a meal plan. (user_id, meal_plan_id) is unique.
type Like struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	MealPlanID primitive.ObjectID `bson:"meal_plan_id" json:"meal_plan_id"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Bookmark is a saved meal plan. (user_id, meal_plan_id) is unique.
type Bookmark struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	MealPlanID primitive.ObjectID `bson:"meal_plan_id" json:"meal_plan_id"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Comment on a meal plan; ParentID makes it a reply
type Comment struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID  `bson:"user_id" json:"user_id"`
	MealPlanID primitive.ObjectID  `bson:"meal_plan_id" json:"meal_plan_id"`
	ParentID   *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	Content    string              `bson:"content" json:"content"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`

	Replies []*Comment `bson:"-" json:"replies,omitempty"`
}

// Rating of a meal plan, 1..5. (user_id, meal_plan_id) is unique.
type Rating struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	MealPlanID primitive.ObjectID `bson:"meal_plan_id" json:"meal_plan_id"`
	Rating     int                `bson:"rating" json:"rating"`
	Review     string             `bson:"review,omitempty" json:"review,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// Report flags a meal plan for moderation
type Report struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	MealPlanID primitive.ObjectID `bson:"meal_plan_id" json:"meal_plan_id"`
	Reason     string             `bson:"reason" json:"reason"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Invite asks a friend to try a meal plan
type Invite struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID   primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	ReceiverID primitive.ObjectID `bson:"receiver_id" json:"receiver_id"`
	MealPlanID primitive.ObjectID `bson:"meal_plan_id" json:"meal_plan_id"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Follow means FollowerID follows FollowingID
type Follow struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FollowerID  primitive.ObjectID `bson:"follower_id" json:"follower_id"`
	FollowingID primitive.ObjectID `bson:"following_id" json:"following_id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
