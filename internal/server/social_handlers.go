package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) friends(c *gin.Context) {
	users, err := s.svc.Social.MutualFriends(c, userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Get friends successfully", users)
}

func (s *Server) follow(c *gin.Context) {
	id, valid := s.pathID(c, "id")
	if !valid {
		return
	}
	if err := s.svc.Social.Follow(c, userID(c), id); err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Follow user successfully", nil)
}

func (s *Server) unfollow(c *gin.Context) {
	id, valid := s.pathID(c, "id")
	if !valid {
		return
	}
	if err := s.svc.Social.Unfollow(c, userID(c), id); err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Unfollow user successfully", nil)
}

func (s *Server) notifications(c *gin.Context) {
	page, valid := s.page(c)
	if !valid {
		return
	}
	list, pagination, err := s.svc.Social.Notifications(c, userID(c), page)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Get notifications successfully", gin.H{
		"notifications": list,
		"pagination":    pagination,
	})
}

func (s *Server) markNotificationRead(c *gin.Context) {
	id, valid := s.pathID(c, "id")
	if !valid {
		return
	}
	if err := s.svc.Social.MarkNotificationRead(c, userID(c), id); err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Mark notification read successfully", nil)
}
