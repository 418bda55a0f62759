package server

import (
	"net/http"

	"github.com/daiquydev/fedacn-sub001/internal/apperror"
	"github.com/daiquydev/fedacn-sub001/internal/storage"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// envelope wraps every response body
type envelope struct {
	Result  interface{} `json:"result"`
	Message string      `json:"message"`
}

func success(c *gin.Context, status int, message string, result interface{}) {
	c.JSON(status, envelope{Result: result, Message: message})
}

// fail renders err. Errors without a status become a logged 500.
func (s *Server) fail(c *gin.Context, err error) {
	appErr := apperror.From(err)
	if appErr.Status >= http.StatusInternalServerError {
		s.log.Error("Request failed",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(appErr.Status, envelope{Message: appErr.Message})
}

// userID is set by the auth middleware
func userID(c *gin.Context) primitive.ObjectID {
	id, _ := c.Get(userIDKey)
	oid, _ := id.(primitive.ObjectID)
	return oid
}

// pathID parses an ObjectID path parameter, rendering a 400 when invalid
func (s *Server) pathID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		s.fail(c, apperror.BadRequest("invalid %s", name))
		return primitive.NilObjectID, false
	}
	return id, true
}

// bodyID parses an ObjectID from a request body field
func bodyID(field, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperror.BadRequest("invalid %s", field)
	}
	return id, nil
}

// bind decodes the JSON body, rendering a 400 on failure
func (s *Server) bind(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		s.fail(c, apperror.BadRequest("invalid request body: %v", err))
		return false
	}
	return true
}

type pageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// page reads page and limit from the query string
func (s *Server) page(c *gin.Context) (storage.Page, bool) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.fail(c, apperror.BadRequest("page and limit must be numbers"))
		return storage.Page{}, false
	}
	return storage.NewPage(q.Page, q.Limit), true
}
