package server

import (
	"context"
	"net/http"

	"github.com/daiquydev/fedacn-sub001/internal/mealplan"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *Server) createPlan(c *gin.Context) {
	var body mealplan.PlanInput
	if !s.bind(c, &body) {
		return
	}
	plan, err := s.svc.MealPlans.Create(c, userID(c), body)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusCreated, "Create meal plan successfully", plan)
}

type listPlansQuery struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	AuthorID string `form:"author_id"`
	Mine     bool   `form:"mine"`
	Sort     string `form:"sort"`
}

func (s *Server) listPlans(c *gin.Context) {
	var q listPlansQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.fail(c, err)
		return
	}
	page, valid := s.page(c)
	if !valid {
		return
	}

	list, err := s.svc.MealPlans.List(c, userID(c), mealplan.ListInput{
		Search:   q.Search,
		Category: q.Category,
		AuthorID: q.AuthorID,
		Mine:     q.Mine,
		Sort:     q.Sort,
		Page:     page,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Get meal plans successfully", list)
}

func (s *Server) bookmarkedPlans(c *gin.Context) {
	page, valid := s.page(c)
	if !valid {
		return
	}
	list, err := s.svc.MealPlans.Bookmarked(c, userID(c), page)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Get bookmarked meal plans successfully", list)
}

func (s *Server) getPlan(c *gin.Context) {
	id, valid := s.pathID(c, "id")
	if !valid {
		return
	}
	plan, err := s.svc.MealPlans.Get(c, userID(c), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Get meal plan successfully", plan)
}

func (s *Server) updatePlan(c *gin.Context) {
	id, valid := s.pathID(c, "id")
	if !valid {
		return
	}
	var body mealplan.PlanUpdate
	if !s.bind(c, &body) {
		return
	}
	plan, err := s.svc.MealPlans.Update(c, userID(c), id, body)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Update meal plan successfully", plan)
}

func (s *Server) deletePlan(c *gin.Context) {
	id, valid := s.pathID(c, "id")
	if !valid {
		return
	}
	if err := s.svc.MealPlans.Delete(c, userID(c), id); err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Delete meal plan successfully", nil)
}

// planAction runs a body-less action on the plan in the :id path parameter
func (s *Server) planAction(action func(context.Context, primitive.ObjectID, primitive.ObjectID) error, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := s.pathID(c, "id")
		if !valid {
			return
		}
		if err := action(c, userID(c), id); err != nil {
			s.fail(c, err)
			return
		}
		success(c, http.StatusOK, message, nil)
	}
}

func (s *Server) commentPlan(c *gin.Context) {
	id, valid := s.pathID(c, "id")
	if !valid {
		return
	}
	var body struct {
		Content  string `json:"content"`
		ParentID string `json:"parent_id"`
	}
	if !s.bind(c, &body) {
		return
	}
	comment, err := s.svc.MealPlans.Comment(c, userID(c), id, body.Content, body.ParentID)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusCreated, "Comment meal plan successfully", comment)
}

func (s *Server) planComments(c *gin.Context) {
	id, valid := s.pathID(c, "id")
	if !valid {
		return
	}
	page, valid := s.page(c)
	if !valid {
		return
	}
	list, err := s.svc.MealPlans.Comments(c, userID(c), id, page)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Get meal plan comments successfully", list)
}

func (s *Server) deleteComment(c *gin.Context) {
	id, valid := s.pathID(c, "comment_id")
	if !valid {
		return
	}
	if err := s.svc.MealPlans.DeleteComment(c, userID(c), id); err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Delete comment successfully", nil)
}

func (s *Server) ratePlan(c *gin.Context) {
	id, valid := s.pathID(c, "id")
	if !valid {
		return
	}
	var body struct {
		Rating int    `json:"rating"`
		Review string `json:"review"`
	}
	if !s.bind(c, &body) {
		return
	}
	summary, err := s.svc.MealPlans.Rate(c, userID(c), id, body.Rating, body.Review)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Rate meal plan successfully", summary)
}

func (s *Server) reportPlan(c *gin.Context) {
	id, valid := s.pathID(c, "id")
	if !valid {
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if !s.bind(c, &body) {
		return
	}
	if err := s.svc.MealPlans.Report(c, userID(c), id, body.Reason); err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Report meal plan successfully", nil)
}

func (s *Server) applyPlan(c *gin.Context) {
	id, valid := s.pathID(c, "id")
	if !valid {
		return
	}
	var body mealplan.ApplyInput
	if !s.bind(c, &body) {
		return
	}
	applied, err := s.svc.MealPlans.Apply(c, userID(c), id, body)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusCreated, "Apply meal plan successfully", applied)
}

func (s *Server) invitePlan(c *gin.Context) {
	id, valid := s.pathID(c, "id")
	if !valid {
		return
	}
	var body struct {
		ReceiverIDs []string `json:"receiver_ids"`
	}
	if !s.bind(c, &body) {
		return
	}
	result, err := s.svc.MealPlans.Invite(c, userID(c), id, body.ReceiverIDs)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Invite friends successfully", result)
}
