// Package social handles the follow graph and notification inbox
package social

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/daiquydev/fedacn-sub001/internal/apperror"
	"github.com/daiquydev/fedacn-sub001/internal/models"
	"github.com/daiquydev/fedacn-sub001/internal/notify"
	"github.com/daiquydev/fedacn-sub001/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Service resolves friendships and serves notifications
type Service struct {
	store  *storage.Store
	notify *notify.Service
	log    *zap.Logger
}

// NewService creates a social service
func NewService(store *storage.Store, notifier *notify.Service, log *zap.Logger) *Service {
	return &Service{
		store:  store,
		notify: notifier,
		log:    log.Named("social-service"),
	}
}

// MutualFriendIDs returns users who follow userID and are followed back
func (s *Service) MutualFriendIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	followers, err := s.store.Follows.FollowerIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load followers: %w", err)
	}
	following, err := s.store.Follows.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load following: %w", err)
	}
	return Intersect(followers, following), nil
}

// MutualFriends returns the profiles of the user's mutual friends
func (s *Service) MutualFriends(ctx context.Context, userID primitive.ObjectID) ([]*models.User, error) {
	ids, err := s.MutualFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*models.User{}, nil
	}

	users, err := s.store.Users.FindUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// Intersect returns the ids present in both lists, in the order of a
func Intersect(a, b []primitive.ObjectID) []primitive.ObjectID {
	inB := make(map[primitive.ObjectID]struct{}, len(b))
	for _, id := range b {
		inB[id] = struct{}{}
	}

	out := []primitive.ObjectID{}
	seen := make(map[primitive.ObjectID]struct{})
	for _, id := range a {
		if _, ok := inB[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Follow makes followerID follow followingID
func (s *Service) Follow(ctx context.Context, followerID, followingID primitive.ObjectID) error {
	if followerID == followingID {
		return apperror.BadRequest("you cannot follow yourself")
	}

	err := s.store.Follows.CreateFollow(ctx, &models.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now(),
	})
	if errors.Is(err, storage.ErrDuplicate) {
		return apperror.BadRequest("already following this user")
	}
	if err != nil {
		return fmt.Errorf("failed to follow: %w", err)
	}

	n := models.NewNotification(&followerID, followingID, models.NotificationFollow, "started following you", &followerID)
	if err := s.notify.Notify(ctx, n); err != nil {
		s.log.Warn("Failed to notify follow", zap.Error(err))
	}
	return nil
}

// Unfollow removes a follow edge
func (s *Service) Unfollow(ctx context.Context, followerID, followingID primitive.ObjectID) error {
	err := s.store.Follows.DeleteFollow(ctx, followerID, followingID)
	if errors.Is(err, storage.ErrNotFound) {
		return apperror.BadRequest("not following this user")
	}
	if err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}
	return nil
}

// Notifications returns a page of the user's notifications
func (s *Service) Notifications(ctx context.Context, userID primitive.ObjectID, page storage.Page) ([]*models.Notification, models.Pagination, error) {
	return s.notify.List(ctx, userID, page)
}

// MarkNotificationRead marks one of the user's notifications read
func (s *Service) MarkNotificationRead(ctx context.Context, userID, id primitive.ObjectID) error {
	err := s.store.Notifications.MarkRead(ctx, id, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return apperror.NotFound("notification not found")
	}
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
