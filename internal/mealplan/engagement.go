package mealplan

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/daiquydev/fedacn-sub001/internal/apperror"
	"github.com/daiquydev/fedacn-sub001/internal/models"
	"github.com/daiquydev/fedacn-sub001/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Like records the caller's like. Liking twice is a client error and leaves
// likes_count alone.
func (s *Service) Like(ctx context.Context, userID, id primitive.ObjectID) error {
	plan, err := s.visiblePlan(ctx, userID, id)
	if err != nil {
		return err
	}

	liked, err := s.store.Engagement.HasLike(ctx, userID, plan.ID)
	if err != nil {
		return fmt.Errorf("failed to check like: %w", err)
	}
	if liked {
		return apperror.BadRequest("already liked")
	}

	err = s.store.Engagement.CreateLike(ctx, &models.Like{
		UserID:     userID,
		MealPlanID: plan.ID,
		CreatedAt:  s.now(),
	})
	if errors.Is(err, storage.ErrDuplicate) {
		return apperror.BadRequest("already liked")
	}
	if err != nil {
		return fmt.Errorf("failed to like meal plan: %w", err)
	}

	if err := s.store.Plans.IncrementCounter(ctx, plan.ID, models.CounterLikes, 1); err != nil {
		return fmt.Errorf("failed to update likes_count: %w", err)
	}
	s.notifyAuthor(ctx, userID, plan, models.NotificationLike, fmt.Sprintf("liked your meal plan %q", plan.Title))
	return nil
}

// Unlike removes the caller's like
func (s *Service) Unlike(ctx context.Context, userID, id primitive.ObjectID) error {
	plan, err := s.findPlan(ctx, id)
	if err != nil {
		return err
	}

	err = s.store.Engagement.DeleteLike(ctx, userID, plan.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return apperror.BadRequest("not liked yet")
	}
	if err != nil {
		return fmt.Errorf("failed to unlike meal plan: %w", err)
	}

	if err := s.store.Plans.IncrementCounter(ctx, plan.ID, models.CounterLikes, -1); err != nil {
		return fmt.Errorf("failed to update likes_count: %w", err)
	}
	return nil
}

// Bookmark saves a plan for the caller
func (s *Service) Bookmark(ctx context.Context, userID, id primitive.ObjectID) error {
	plan, err := s.visiblePlan(ctx, userID, id)
	if err != nil {
		return err
	}

	err = s.store.Engagement.CreateBookmark(ctx, &models.Bookmark{
		UserID:     userID,
		MealPlanID: plan.ID,
		CreatedAt:  s.now(),
	})
	if errors.Is(err, storage.ErrDuplicate) {
		return apperror.BadRequest("already bookmarked")
	}
	if err != nil {
		return fmt.Errorf("failed to bookmark meal plan: %w", err)
	}

	if err := s.store.Plans.IncrementCounter(ctx, plan.ID, models.CounterBookmarks, 1); err != nil {
		return fmt.Errorf("failed to update bookmarks_count: %w", err)
	}
	return nil
}

// Unbookmark removes a saved plan
func (s *Service) Unbookmark(ctx context.Context, userID, id primitive.ObjectID) error {
	plan, err := s.findPlan(ctx, id)
	if err != nil {
		return err
	}

	err = s.store.Engagement.DeleteBookmark(ctx, userID, plan.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return apperror.BadRequest("not bookmarked yet")
	}
	if err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}

	if err := s.store.Plans.IncrementCounter(ctx, plan.ID, models.CounterBookmarks, -1); err != nil {
		return fmt.Errorf("failed to update bookmarks_count: %w", err)
	}
	return nil
}

// Bookmarked lists the caller's saved plans, most recently saved first.
// Plans that went private since are left out.
func (s *Service) Bookmarked(ctx context.Context, userID primitive.ObjectID, page storage.Page) (*PlanList, error) {
	bookmarks, total, err := s.store.Engagement.ListBookmarks(ctx, userID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}

	list := &PlanList{
		MealPlans:  []*models.MealPlan{},
		Pagination: models.NewPagination(page.Page, page.Limit, total),
	}
	if len(bookmarks) == 0 {
		return list, nil
	}

	ids := make([]primitive.ObjectID, len(bookmarks))
	for i, b := range bookmarks {
		ids[i] = b.MealPlanID
	}
	plans, _, err := s.store.Plans.ListPlans(ctx, storage.PlanFilter{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmarked plans: %w", err)
	}
	byID := make(map[primitive.ObjectID]*models.MealPlan, len(plans))
	for _, p := range plans {
		byID[p.ID] = p
	}
	for _, id := range ids {
		if p, ok := byID[id]; ok && p.VisibleTo(userID) {
			list.MealPlans = append(list.MealPlans, p)
		}
	}
	return list, nil
}

// RatingSummary is a plan's rating after the caller rated it
type RatingSummary struct {
	Rating      int     `json:"rating"`
	Average     float64 `json:"average"`
	RatingCount int     `json:"rating_count"`
}

// Rate creates or replaces the caller's 1 to 5 rating and refreshes the
// plan's average
func (s *Service) Rate(ctx context.Context, userID, id primitive.ObjectID, value int, review string) (*RatingSummary, error) {
	if value < 1 || value > 5 {
		return nil, apperror.BadRequest("rating must be between 1 and 5")
	}
	plan, err := s.visiblePlan(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	rating := &models.Rating{
		UserID:     userID,
		MealPlanID: plan.ID,
		Rating:     value,
		Review:     strings.TrimSpace(review),
	}
	if err := s.store.Engagement.UpsertRating(ctx, rating); err != nil {
		return nil, fmt.Errorf("failed to save rating: %w", err)
	}

	ratings, err := s.store.Engagement.ListRatings(ctx, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	average := AverageRating(ratings)
	if err := s.store.Plans.SetRating(ctx, plan.ID, average, len(ratings)); err != nil {
		return nil, fmt.Errorf("failed to update plan rating: %w", err)
	}

	s.notifyAuthor(ctx, userID, plan, models.NotificationRating, fmt.Sprintf("rated your meal plan %q %d stars", plan.Title, value))
	return &RatingSummary{Rating: value, Average: average, RatingCount: len(ratings)}, nil
}

// AverageRating is the mean rating rounded to one decimal
func AverageRating(ratings []*models.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(ratings))*10) / 10
}

// Report flags a plan for moderation, once per user
func (s *Service) Report(ctx context.Context, userID, id primitive.ObjectID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperror.BadRequest("reason is required")
	}
	plan, err := s.visiblePlan(ctx, userID, id)
	if err != nil {
		return err
	}

	err = s.store.Engagement.CreateReport(ctx, &models.Report{
		UserID:     userID,
		MealPlanID: plan.ID,
		Reason:     reason,
		CreatedAt:  s.now(),
	})
	if errors.Is(err, storage.ErrDuplicate) {
		return apperror.BadRequest("already reported")
	}
	if err != nil {
		return fmt.Errorf("failed to report meal plan: %w", err)
	}

	s.log.Info("Meal plan reported",
		zap.String("plan_id", plan.ID.Hex()),
		zap.String("reporter_id", userID.Hex()))
	return nil
}

// InviteResult lists who was invited and who already had an invite
type InviteResult struct {
	Invited []primitive.ObjectID `json:"invited"`
	Skipped []primitive.ObjectID `json:"skipped"`
}

// Invite sends the plan to mutual friends of the caller
func (s *Service) Invite(ctx context.Context, userID, id primitive.ObjectID, receiverIDs []string) (*InviteResult, error) {
	if len(receiverIDs) == 0 {
		return nil, apperror.BadRequest("receiver_ids is required")
	}
	plan, err := s.visiblePlan(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	friendIDs, err := s.friends.MutualFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	friends := make(map[primitive.ObjectID]bool, len(friendIDs))
	for _, f := range friendIDs {
		friends[f] = true
	}

	receivers := make([]primitive.ObjectID, 0, len(receiverIDs))
	seen := make(map[primitive.ObjectID]bool)
	for _, hex := range receiverIDs {
		receiver, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return nil, apperror.BadRequest("invalid receiver id %q", hex)
		}
		if !friends[receiver] {
			return nil, apperror.BadRequest("you can only invite mutual friends")
		}
		if !seen[receiver] {
			seen[receiver] = true
			receivers = append(receivers, receiver)
		}
	}

	result := &InviteResult{Invited: []primitive.ObjectID{}, Skipped: []primitive.ObjectID{}}
	for _, receiver := range receivers {
		invited, err := s.store.Engagement.HasInvite(ctx, userID, receiver, plan.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check invite: %w", err)
		}
		if invited {
			result.Skipped = append(result.Skipped, receiver)
			continue
		}

		err = s.store.Engagement.CreateInvite(ctx, &models.Invite{
			SenderID:   userID,
			ReceiverID: receiver,
			MealPlanID: plan.ID,
			CreatedAt:  s.now(),
		})
		if errors.Is(err, storage.ErrDuplicate) {
			result.Skipped = append(result.Skipped, receiver)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create invite: %w", err)
		}
		result.Invited = append(result.Invited, receiver)

		n := models.NewNotification(&userID, receiver, models.NotificationInvite,
			fmt.Sprintf("invited you to try the meal plan %q", plan.Title), &plan.ID)
		if err := s.notify.Notify(ctx, n); err != nil {
			s.log.Warn("Failed to send invite notification", zap.Error(err))
		}
	}
	return result, nil
}
