package memory

import (
	"context"
	"sort"
	"time"

	"github.com/daiquydev/fedacn-sub001/internal/models"
	"github.com/daiquydev/fedacn-sub001/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

/* ─── Engagement ─────────────────────────────────────────────────────── */

func (s *Store) CreateLike(_ context.Context, like *models.Like) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.likes.find(func(l *models.Like) bool {
		return l.UserID == like.UserID && l.MealPlanID == like.MealPlanID
	}); dup {
		return storage.ErrDuplicate
	}
	newID(&like.ID)
	s.likes.put(like.ID, like)
	return nil
}

func (s *Store) HasLike(_ context.Context, userID, planID primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.likes.find(func(l *models.Like) bool { return l.UserID == userID && l.MealPlanID == planID })
	return ok, nil
}

func (s *Store) DeleteLike(_ context.Context, userID, planID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.likes.remove(func(l *models.Like) bool { return l.UserID == userID && l.MealPlanID == planID }) == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteLikes(_ context.Context, planID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likes.remove(func(l *models.Like) bool { return l.MealPlanID == planID })
	return nil
}

func (s *Store) CreateBookmark(_ context.Context, bookmark *models.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.bookmarks.find(func(b *models.Bookmark) bool {
		return b.UserID == bookmark.UserID && b.MealPlanID == bookmark.MealPlanID
	}); dup {
		return storage.ErrDuplicate
	}
	newID(&bookmark.ID)
	s.bookmarks.put(bookmark.ID, bookmark)
	return nil
}

func (s *Store) HasBookmark(_ context.Context, userID, planID primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.bookmarks.find(func(b *models.Bookmark) bool { return b.UserID == userID && b.MealPlanID == planID })
	return ok, nil
}

func (s *Store) DeleteBookmark(_ context.Context, userID, planID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bookmarks.remove(func(b *models.Bookmark) bool { return b.UserID == userID && b.MealPlanID == planID }) == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListBookmarks(_ context.Context, userID primitive.ObjectID, page storage.Page) ([]*models.Bookmark, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bookmarks := s.bookmarks.filter(func(b *models.Bookmark) bool { return b.UserID == userID })
	sort.SliceStable(bookmarks, func(i, j int) bool { return bookmarks[i].CreatedAt.After(bookmarks[j].CreatedAt) })
	return paginate(bookmarks, page), int64(len(bookmarks)), nil
}

func (s *Store) DeleteBookmarks(_ context.Context, planID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookmarks.remove(func(b *models.Bookmark) bool { return b.MealPlanID == planID })
	return nil
}

func (s *Store) UpsertRating(_ context.Context, rating *models.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	existing, ok := s.ratings.find(func(r *models.Rating) bool {
		return r.UserID == rating.UserID && r.MealPlanID == rating.MealPlanID
	})
	if ok {
		rating.ID = existing.ID
		rating.CreatedAt = existing.CreatedAt
	} else {
		rating.ID = primitive.NewObjectID()
		rating.CreatedAt = now
	}
	rating.UpdatedAt = now
	s.ratings.put(rating.ID, rating)
	return nil
}

func (s *Store) FindRating(_ context.Context, userID, planID primitive.ObjectID) (*models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rating, ok := s.ratings.find(func(r *models.Rating) bool { return r.UserID == userID && r.MealPlanID == planID })
	if !ok {
		return nil, storage.ErrNotFound
	}
	return rating, nil
}

func (s *Store) ListRatings(_ context.Context, planID primitive.ObjectID) ([]*models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ratings.filter(func(r *models.Rating) bool { return r.MealPlanID == planID }), nil
}

func (s *Store) DeleteRatings(_ context.Context, planID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratings.remove(func(r *models.Rating) bool { return r.MealPlanID == planID })
	return nil
}

func (s *Store) CreateReport(_ context.Context, report *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.reports.find(func(r *models.Report) bool {
		return r.UserID == report.UserID && r.MealPlanID == report.MealPlanID
	}); dup {
		return storage.ErrDuplicate
	}
	newID(&report.ID)
	s.reports.put(report.ID, report)
	return nil
}

func (s *Store) CreateInvite(_ context.Context, invite *models.Invite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.invites.find(func(i *models.Invite) bool {
		return i.SenderID == invite.SenderID && i.ReceiverID == invite.ReceiverID && i.MealPlanID == invite.MealPlanID
	}); dup {
		return storage.ErrDuplicate
	}
	newID(&invite.ID)
	s.invites.put(invite.ID, invite)
	return nil
}

func (s *Store) HasInvite(_ context.Context, senderID, receiverID, planID primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.invites.find(func(i *models.Invite) bool {
		return i.SenderID == senderID && i.ReceiverID == receiverID && i.MealPlanID == planID
	})
	return ok, nil
}

/* ─── Comments ───────────────────────────────────────────────────────── */

func (s *Store) CreateComment(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	newID(&comment.ID)
	stored := *comment
	stored.Replies = nil
	s.comments.put(comment.ID, &stored)
	return nil
}

func (s *Store) FindComment(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comment, ok := s.comments.get(id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return comment, nil
}

func (s *Store) ListComments(_ context.Context, planID primitive.ObjectID) ([]*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comments := s.comments.filter(func(c *models.Comment) bool { return c.MealPlanID == planID })
	sort.SliceStable(comments, func(i, j int) bool { return comments[i].CreatedAt.Before(comments[j].CreatedAt) })
	return comments, nil
}

func (s *Store) DeleteComments(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comments.remove(func(c *models.Comment) bool { return containsID(ids, c.ID) }), nil
}

func (s *Store) DeleteCommentsByPlan(_ context.Context, planID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments.remove(func(c *models.Comment) bool { return c.MealPlanID == planID })
	return nil
}

/* ─── Notifications ──────────────────────────────────────────────────── */

func (s *Store) CreateNotification(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	newID(&n.ID)
	s.notifs.put(n.ID, n)
	return nil
}

func (s *Store) ListNotifications(_ context.Context, receiverID primitive.ObjectID, page storage.Page) ([]*models.Notification, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	notifs := s.notifs.filter(func(n *models.Notification) bool { return n.ReceiverID == receiverID })
	sort.SliceStable(notifs, func(i, j int) bool { return notifs[i].CreatedAt.After(notifs[j].CreatedAt) })
	return paginate(notifs, page), int64(len(notifs)), nil
}

func (s *Store) MarkRead(_ context.Context, id, receiverID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifs.get(id)
	if !ok || n.ReceiverID != receiverID {
		return storage.ErrNotFound
	}
	n.IsRead = true
	s.notifs.put(id, n)
	return nil
}

/* ─── Follows and users ──────────────────────────────────────────────── */

func (s *Store) CreateFollow(_ context.Context, follow *models.Follow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.follows.find(func(f *models.Follow) bool {
		return f.FollowerID == follow.FollowerID && f.FollowingID == follow.FollowingID
	}); dup {
		return storage.ErrDuplicate
	}
	newID(&follow.ID)
	s.follows.put(follow.ID, follow)
	return nil
}

func (s *Store) DeleteFollow(_ context.Context, followerID, followingID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.follows.remove(func(f *models.Follow) bool {
		return f.FollowerID == followerID && f.FollowingID == followingID
	}) == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) FollowerIDs(_ context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []primitive.ObjectID
	for _, f := range s.follows.filter(func(f *models.Follow) bool { return f.FollowingID == userID }) {
		ids = append(ids, f.FollowerID)
	}
	return ids, nil
}

func (s *Store) FollowingIDs(_ context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []primitive.ObjectID
	for _, f := range s.follows.filter(func(f *models.Follow) bool { return f.FollowerID == userID }) {
		ids = append(ids, f.FollowingID)
	}
	return ids, nil
}

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	newID(&user.ID)
	s.users.put(user.ID, user)
	return nil
}

func (s *Store) FindUsers(_ context.Context, ids []primitive.ObjectID) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users.filter(func(u *models.User) bool { return containsID(ids, u.ID) }), nil
}
