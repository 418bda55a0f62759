package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType identifies what triggered a notification
type NotificationType string

const (
	NotificationLike         NotificationType = "meal_plan_like"
	NotificationComment      NotificationType = "meal_plan_comment"
	NotificationRating       NotificationType = "meal_plan_rating"
	NotificationInvite       NotificationType = "meal_plan_invite"
	NotificationFollow       NotificationType = "follow"
	NotificationMealReminder NotificationType = "meal_reminder"
)

// Notification is delivered to ReceiverID
type Notification struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	SenderID   *primitive.ObjectID `bson:"sender_id,omitempty" json:"sender_id,omitempty"`
	ReceiverID primitive.ObjectID  `bson:"receiver_id" json:"receiver_id"`
	Type       NotificationType    `bson:"type" json:"type"`
	Content    string              `bson:"content" json:"content"`
	TargetID   *primitive.ObjectID `bson:"target_id,omitempty" json:"target_id,omitempty"`
	IsRead     bool                `bson:"is_read" json:"is_read"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
}

// NewNotification creates an unread notification
func NewNotification(sender *primitive.ObjectID, receiver primitive.ObjectID, typ NotificationType, content string, target *primitive.ObjectID) *Notification {
	return &Notification{
		SenderID:   sender,
		ReceiverID: receiver,
		Type:       typ,
		Content:    content,
		TargetID:   target,
		CreatedAt:  time.Now(),
	}
}

// String returns a string representation of the notification
func (n *Notification) String() string {
	return fmt.Sprintf("[%s] %s", n.Type, n.Content)
}
