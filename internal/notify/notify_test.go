package notify

import (
	"context"
	"testing"
	"time"

	"github.com/daiquydev/fedacn-sub001/internal/models"
	"github.com/daiquydev/fedacn-sub001/internal/storage"
	"github.com/daiquydev/fedacn-sub001/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type recordingMirror struct {
	published []*models.Notification
}

func (m *recordingMirror) Publish(n *models.Notification) {
	m.published = append(m.published, n)
}

func TestNotifyStoresAndMirrors(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	mirror := &recordingMirror{}
	svc := NewService(store, mirror, zap.NewNop())

	sender, receiver := primitive.NewObjectID(), primitive.NewObjectID()
	require.NoError(t, svc.Notify(ctx, models.NewNotification(&sender, receiver, models.NotificationLike, "liked your plan", nil)))

	list, page, err := svc.List(ctx, receiver, storage.NewPage(1, 10))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 1, page.Total)
	assert.Len(t, mirror.published, 1)
}

func TestNotifySkipsSelf(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewService(store, nil, zap.NewNop())

	user := primitive.NewObjectID()
	require.NoError(t, svc.Notify(ctx, models.NewNotification(&user, user, models.NotificationLike, "self", nil)))

	list, _, err := svc.List(ctx, user, storage.NewPage(1, 10))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNotificationEmbed(t *testing.T) {
	target := primitive.NewObjectID()
	n := &models.Notification{
		ReceiverID: primitive.NewObjectID(),
		Type:       models.NotificationMealReminder,
		Content:    "Time for breakfast: Oatmeal",
		TargetID:   &target,
		CreatedAt:  time.Date(2024, 1, 2, 7, 30, 0, 0, time.UTC),
	}

	embed := notificationEmbed(n)
	assert.Equal(t, "Meal reminder", embed.Title)
	assert.Equal(t, "Time for breakfast: Oatmeal", embed.Description)
	assert.Equal(t, "2024-01-02T07:30:00Z", embed.Timestamp)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, target.Hex(), embed.Fields[1].Value)
}
