// Package server exposes the services over a JSON HTTP API
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/daiquydev/fedacn-sub001/internal/mealplan"
	"github.com/daiquydev/fedacn-sub001/internal/schedule"
	"github.com/daiquydev/fedacn-sub001/internal/social"
	"github.com/daiquydev/fedacn-sub001/pkg/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Services are the use cases the API serves
type Services struct {
	Schedules *schedule.Service
	MealPlans *mealplan.Service
	Social    *social.Service
}

// Server is the HTTP API
type Server struct {
	cfg    *config.Config
	svc    Services
	log    *zap.Logger
	router *gin.Engine
}

// New builds the router with every route registered
func New(cfg *config.Config, svc Services, log *zap.Logger) *Server {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:    cfg,
		svc:    svc,
		log:    log.Named("http"),
		router: gin.New(),
	}
	s.router.Use(s.requestID(), s.accessLog(), s.recovery())
	s.registerRoutes()
	return s
}

// Handler returns the root http handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", zap.String("addr", s.cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) registerRoutes() {
	// Public routes
	s.router.GET("/health", s.health)

	// Authenticated routes
	api := s.router.Group("/", s.auth())

	schedules := api.Group("/meal-schedules")
	schedules.GET("", s.listSchedules)
	schedules.GET("/active", s.activeSchedules)
	schedules.GET("/today", s.todaySchedule)
	schedules.GET("/day-items", s.dayItems)
	schedules.GET("/:id", s.getSchedule)
	schedules.GET("/:id/stats", s.scheduleStats)
	schedules.PATCH("/:id", s.updateSchedule)
	schedules.DELETE("/:id", s.deleteSchedule)

	items := api.Group("/meal-items")
	items.POST("/complete", s.completeItem)
	items.POST("/skip", s.skipItem)
	items.POST("/substitute", s.substituteItem)
	items.POST("/reschedule", s.rescheduleItem)
	items.POST("/swap", s.swapItems)
	items.GET("/:id/instructions", s.itemInstructions)

	plans := api.Group("/meal-plans")
	plans.POST("", s.createPlan)
	plans.GET("", s.listPlans)
	plans.GET("/bookmarked", s.bookmarkedPlans)
	plans.DELETE("/comments/:comment_id", s.deleteComment)
	plans.GET("/:id", s.getPlan)
	plans.PATCH("/:id", s.updatePlan)
	plans.DELETE("/:id", s.deletePlan)
	plans.POST("/:id/like", s.planAction(s.svc.MealPlans.Like, "Like meal plan successfully"))
	plans.DELETE("/:id/like", s.planAction(s.svc.MealPlans.Unlike, "Unlike meal plan successfully"))
	plans.POST("/:id/bookmark", s.planAction(s.svc.MealPlans.Bookmark, "Bookmark meal plan successfully"))
	plans.DELETE("/:id/bookmark", s.planAction(s.svc.MealPlans.Unbookmark, "Unbookmark meal plan successfully"))
	plans.POST("/:id/comment", s.commentPlan)
	plans.GET("/:id/comments", s.planComments)
	plans.POST("/:id/rate", s.ratePlan)
	plans.POST("/:id/report", s.reportPlan)
	plans.POST("/:id/apply", s.applyPlan)
	plans.POST("/:id/invite", s.invitePlan)

	users := api.Group("/users")
	users.GET("/friends", s.friends)
	users.POST("/:id/follow", s.follow)
	users.DELETE("/:id/follow", s.unfollow)

	notifications := api.Group("/notifications")
	notifications.GET("", s.notifications)
	notifications.PATCH("/:id/read", s.markNotificationRead)
}

func (s *Server) health(c *gin.Context) {
	success(c, http.StatusOK, "OK", gin.H{"status": "ok"})
}
