// Package notify stores user notifications and optionally mirrors them to
// a Discord channel.
package notify

import (
	"context"
	"fmt"

	"github.com/daiquydev/fedacn-sub001/internal/models"
	"github.com/daiquydev/fedacn-sub001/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Mirror receives a copy of every stored notification
type Mirror interface {
	Publish(n *models.Notification)
}

// Service persists notifications
type Service struct {
	repo   storage.NotificationRepository
	mirror Mirror
	log    *zap.Logger
}

// NewService creates a notification service. mirror may be nil.
func NewService(repo storage.NotificationRepository, mirror Mirror, log *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		mirror: mirror,
		log:    log.Named("notify"),
	}
}

// Notify stores n and hands it to the mirror
func (s *Service) Notify(ctx context.Context, n *models.Notification) error {
	if n.SenderID != nil && *n.SenderID == n.ReceiverID {
		// nobody is told about their own actions
		return nil
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	s.log.Debug("Stored notification",
		zap.String("type", string(n.Type)),
		zap.String("receiver_id", n.ReceiverID.Hex()))

	if s.mirror != nil {
		s.mirror.Publish(n)
	}
	return nil
}

// List returns a page of the receiver's notifications, newest first
func (s *Service) List(ctx context.Context, receiver primitive.ObjectID, page storage.Page) ([]*models.Notification, models.Pagination, error) {
	notifications, total, err := s.repo.ListNotifications(ctx, receiver, page)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, models.NewPagination(page.Page, page.Limit, total), nil
}
