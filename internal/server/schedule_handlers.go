package server

import (
	"net/http"

	"github.com/daiquydev/fedacn-sub001/internal/apperror"
	"github.com/daiquydev/fedacn-sub001/internal/schedule"
	"github.com/gin-gonic/gin"
)

func (s *Server) listSchedules(c *gin.Context) {
	page, valid := s.page(c)
	if !valid {
		return
	}
	schedules, pagination, err := s.svc.Schedules.List(c, userID(c), c.Query("status"), page)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Get meal schedules successfully", gin.H{
		"schedules":  schedules,
		"pagination": pagination,
	})
}

func (s *Server) activeSchedules(c *gin.Context) {
	schedules, err := s.svc.Schedules.Active(c, userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Get active meal schedules successfully", schedules)
}

func (s *Server) todaySchedule(c *gin.Context) {
	view, err := s.svc.Schedules.Today(c, userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Get today's meals successfully", view)
}

type dayItemsQuery struct {
	ScheduleID string `form:"schedule_id"`
	Date       string `form:"date"`
	DayNumber  int    `form:"day_number"`
}

func (s *Server) dayItems(c *gin.Context) {
	var q dayItemsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.fail(c, apperror.BadRequest("day_number must be a number"))
		return
	}
	scheduleID, err := bodyID("schedule_id", q.ScheduleID)
	if err != nil {
		s.fail(c, err)
		return
	}

	view, err := s.svc.Schedules.DayItems(c, userID(c), schedule.DayQuery{
		ScheduleID: scheduleID,
		Date:       q.Date,
		DayNumber:  q.DayNumber,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Get day meal items successfully", view)
}

func (s *Server) getSchedule(c *gin.Context) {
	id, valid := s.pathID(c, "id")
	if !valid {
		return
	}
	detail, err := s.svc.Schedules.Get(c, userID(c), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Get meal schedule successfully", detail)
}

func (s *Server) scheduleStats(c *gin.Context) {
	id, valid := s.pathID(c, "id")
	if !valid {
		return
	}
	stats, err := s.svc.Schedules.Stats(c, userID(c), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Get meal schedule stats successfully", stats)
}

func (s *Server) updateSchedule(c *gin.Context) {
	id, valid := s.pathID(c, "id")
	if !valid {
		return
	}
	var body schedule.UpdateInput
	if !s.bind(c, &body) {
		return
	}
	updated, err := s.svc.Schedules.Update(c, userID(c), id, body)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Update meal schedule successfully", updated)
}

func (s *Server) deleteSchedule(c *gin.Context) {
	id, valid := s.pathID(c, "id")
	if !valid {
		return
	}
	if err := s.svc.Schedules.Delete(c, userID(c), id); err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Delete meal schedule successfully", nil)
}

/* ─── Meal items ─────────────────────────────────────────────────────── */

func (s *Server) completeItem(c *gin.Context) {
	var body struct {
		ItemID string `json:"item_id"`
		Notes  string `json:"notes"`
		Rating int    `json:"rating"`
	}
	if !s.bind(c, &body) {
		return
	}
	itemID, err := bodyID("item_id", body.ItemID)
	if err != nil {
		s.fail(c, err)
		return
	}

	item, err := s.svc.Schedules.Complete(c, userID(c), schedule.CompleteInput{
		ItemID: itemID,
		Notes:  body.Notes,
		Rating: body.Rating,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Complete meal item successfully", item)
}

func (s *Server) skipItem(c *gin.Context) {
	var body struct {
		ItemID string `json:"item_id"`
		Reason string `json:"reason"`
	}
	if !s.bind(c, &body) {
		return
	}
	itemID, err := bodyID("item_id", body.ItemID)
	if err != nil {
		s.fail(c, err)
		return
	}

	item, err := s.svc.Schedules.Skip(c, userID(c), itemID, body.Reason)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Skip meal item successfully", item)
}

func (s *Server) substituteItem(c *gin.Context) {
	var body struct {
		ItemID   string  `json:"item_id"`
		Name     string  `json:"name"`
		Calories float64 `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fat      float64 `json:"fat"`
		Reason   string  `json:"reason"`
	}
	if !s.bind(c, &body) {
		return
	}
	itemID, err := bodyID("item_id", body.ItemID)
	if err != nil {
		s.fail(c, err)
		return
	}

	item, err := s.svc.Schedules.Substitute(c, userID(c), schedule.SubstituteInput{
		ItemID:   itemID,
		Name:     body.Name,
		Calories: body.Calories,
		Protein:  body.Protein,
		Carbs:    body.Carbs,
		Fat:      body.Fat,
		Reason:   body.Reason,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Substitute meal item successfully", item)
}

func (s *Server) rescheduleItem(c *gin.Context) {
	var body struct {
		ItemID   string `json:"item_id"`
		NewDate  string `json:"new_date"`
		MealType string `json:"meal_type"`
	}
	if !s.bind(c, &body) {
		return
	}
	itemID, err := bodyID("item_id", body.ItemID)
	if err != nil {
		s.fail(c, err)
		return
	}

	item, err := s.svc.Schedules.Reschedule(c, userID(c), schedule.RescheduleInput{
		ItemID:   itemID,
		NewDate:  body.NewDate,
		MealType: body.MealType,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Reschedule meal item successfully", item)
}

func (s *Server) swapItems(c *gin.Context) {
	var body struct {
		ItemID      string `json:"item_id"`
		OtherItemID string `json:"other_item_id"`
	}
	if !s.bind(c, &body) {
		return
	}
	itemID, err := bodyID("item_id", body.ItemID)
	if err != nil {
		s.fail(c, err)
		return
	}
	otherID, err := bodyID("other_item_id", body.OtherItemID)
	if err != nil {
		s.fail(c, err)
		return
	}

	items, err := s.svc.Schedules.Swap(c, userID(c), itemID, otherID)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Swap meal items successfully", items)
}

func (s *Server) itemInstructions(c *gin.Context) {
	id, valid := s.pathID(c, "id")
	if !valid {
		return
	}
	view, err := s.svc.Schedules.Instructions(c, userID(c), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Get meal item instructions successfully", view)
}
