package mealplan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/daiquydev/fedacn-sub001/internal/apperror"
	"github.com/daiquydev/fedacn-sub001/internal/models"
	"github.com/daiquydev/fedacn-sub001/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxCommentLength = 2000

// Comment adds a comment, or a reply when parentID is set. Replies to a
// reply attach to the top-level comment so threads stay one level deep.
func (s *Service) Comment(ctx context.Context, userID, id primitive.ObjectID, content, parentID string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.BadRequest("content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return nil, apperror.BadRequest("content must be at most %d characters", maxCommentLength)
	}
	plan, err := s.visiblePlan(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		UserID:     userID,
		MealPlanID: plan.ID,
		Content:    content,
		CreatedAt:  s.now(),
	}
	if parentID != "" {
		pid, err := primitive.ObjectIDFromHex(parentID)
		if err != nil {
			return nil, apperror.BadRequest("invalid parent_id %q", parentID)
		}
		parent, err := s.store.Comments.FindComment(ctx, pid)
		if errors.Is(err, storage.ErrNotFound) || (err == nil && parent.MealPlanID != plan.ID) {
			return nil, apperror.NotFound("parent comment not found")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to find parent comment: %w", err)
		}
		if parent.ParentID != nil {
			pid = *parent.ParentID
		}
		comment.ParentID = &pid
	}

	if err := s.store.Comments.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	if err := s.store.Plans.IncrementCounter(ctx, plan.ID, models.CounterComments, 1); err != nil {
		return nil, fmt.Errorf("failed to update comments_count: %w", err)
	}

	s.notifyAuthor(ctx, userID, plan, models.NotificationComment, fmt.Sprintf("commented on your meal plan %q", plan.Title))
	return comment, nil
}

// CommentList is one page of top-level comments with their replies
type CommentList struct {
	Comments   []*models.Comment `json:"comments"`
	Pagination models.Pagination `json:"pagination"`
}

// Comments returns a page of threads, oldest first
func (s *Service) Comments(ctx context.Context, userID, id primitive.ObjectID, page storage.Page) (*CommentList, error) {
	plan, err := s.visiblePlan(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	all, err := s.store.Comments.ListComments(ctx, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	threads := Thread(all)

	start := page.Skip()
	if start > len(threads) {
		start = len(threads)
	}
	end := start + page.Limit
	if page.Limit <= 0 || end > len(threads) {
		end = len(threads)
	}
	return &CommentList{
		Comments:   threads[start:end],
		Pagination: models.NewPagination(page.Page, page.Limit, int64(len(threads))),
	}, nil
}

// Thread nests replies under their top-level comment, keeping input order.
// Replies whose parent is gone are dropped.
func Thread(comments []*models.Comment) []*models.Comment {
	roots := []*models.Comment{}
	byID := make(map[primitive.ObjectID]*models.Comment)
	for _, c := range comments {
		if c.ParentID == nil {
			c.Replies = []*models.Comment{}
			roots = append(roots, c)
			byID[c.ID] = c
		}
	}
	for _, c := range comments {
		if c.ParentID == nil {
			continue
		}
		if root, ok := byID[*c.ParentID]; ok {
			root.Replies = append(root.Replies, c)
		}
	}
	return roots
}

// DeleteComment removes a comment and its replies. The comment's author and
// the plan's author may delete it.
func (s *Service) DeleteComment(ctx context.Context, userID, commentID primitive.ObjectID) error {
	comment, err := s.store.Comments.FindComment(ctx, commentID)
	if errors.Is(err, storage.ErrNotFound) {
		return apperror.NotFound("comment not found")
	}
	if err != nil {
		return fmt.Errorf("failed to find comment: %w", err)
	}

	plan, err := s.findPlan(ctx, comment.MealPlanID)
	if err != nil {
		return err
	}
	if comment.UserID != userID && plan.AuthorID != userID {
		return apperror.Forbidden("you cannot delete this comment")
	}

	ids := []primitive.ObjectID{comment.ID}
	if comment.ParentID == nil {
		all, err := s.store.Comments.ListComments(ctx, plan.ID)
		if err != nil {
			return fmt.Errorf("failed to list replies: %w", err)
		}
		for _, c := range all {
			if c.ParentID != nil && *c.ParentID == comment.ID {
				ids = append(ids, c.ID)
			}
		}
	}

	removed, err := s.store.Comments.DeleteComments(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	if err := s.store.Plans.IncrementCounter(ctx, plan.ID, models.CounterComments, -int(removed)); err != nil {
		return fmt.Errorf("failed to update comments_count: %w", err)
	}
	return nil
}
