package social

import (
	"context"
	"net/http"
	"testing"

	"github.com/daiquydev/fedacn-sub001/internal/apperror"
	"github.com/daiquydev/fedacn-sub001/internal/models"
	"github.com/daiquydev/fedacn-sub001/internal/notify"
	"github.com/daiquydev/fedacn-sub001/internal/storage"
	"github.com/daiquydev/fedacn-sub001/internal/storage/memory"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newService() (*Service, *storage.Store) {
	store := memory.New().Repositories()
	notifier := notify.NewService(store.Notifications, nil, zap.NewNop())
	return NewService(store, notifier, zap.NewNop()), store
}

func TestIntersect(t *testing.T) {
	a, b, c, d := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	got := Intersect([]primitive.ObjectID{a, b, c, b}, []primitive.ObjectID{d, c, b})
	if diff := cmp.Diff([]primitive.ObjectID{b, c}, got); diff != "" {
		t.Errorf("Intersect() mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, Intersect(nil, []primitive.ObjectID{a}))
}

func TestMutualFriends(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()

	me := &models.User{Name: "me"}
	friend := &models.User{Name: "friend"}
	fan := &models.User{Name: "fan"}
	idol := &models.User{Name: "idol"}
	for _, u := range []*models.User{me, friend, fan, idol} {
		require.NoError(t, store.Users.CreateUser(ctx, u))
	}

	require.NoError(t, svc.Follow(ctx, me.ID, friend.ID))
	require.NoError(t, svc.Follow(ctx, friend.ID, me.ID))
	require.NoError(t, svc.Follow(ctx, fan.ID, me.ID))
	require.NoError(t, svc.Follow(ctx, me.ID, idol.ID))

	friends, err := svc.MutualFriends(ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "friend", friends[0].Name)

	require.NoError(t, svc.Unfollow(ctx, friend.ID, me.ID))
	friends, err = svc.MutualFriends(ctx, me.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)
}

func TestFollowErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	assert.True(t, apperror.Is(svc.Follow(ctx, a, a), http.StatusBadRequest))
	require.NoError(t, svc.Follow(ctx, a, b))
	assert.True(t, apperror.Is(svc.Follow(ctx, a, b), http.StatusBadRequest))
	assert.True(t, apperror.Is(svc.Unfollow(ctx, b, a), http.StatusBadRequest))
}

func TestNotificationsInbox(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	require.NoError(t, svc.Follow(ctx, a, b))

	list, page, err := svc.Notifications(ctx, b, storage.NewPage(1, 10))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationFollow, list[0].Type)
	assert.EqualValues(t, 1, page.Total)

	assert.True(t, apperror.Is(svc.MarkNotificationRead(ctx, a, list[0].ID), http.StatusNotFound))
	require.NoError(t, svc.MarkNotificationRead(ctx, b, list[0].ID))

	list, _, err = svc.Notifications(ctx, b, storage.NewPage(1, 10))
	require.NoError(t, err)
	assert.True(t, list[0].IsRead)
}
