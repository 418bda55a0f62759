package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/daiquydev/fedacn-sub001/internal/app"
	"github.com/daiquydev/fedacn-sub001/internal/mealplan"
	"github.com/daiquydev/fedacn-sub001/internal/schedule"
	"github.com/daiquydev/fedacn-sub001/internal/server"
	"github.com/daiquydev/fedacn-sub001/internal/social"
	"github.com/daiquydev/fedacn-sub001/pkg/config"
	"github.com/daiquydev/fedacn-sub001/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New("mealplanner", logger.Options{Dir: cfg.LogDir, Debug: cfg.IsDevelopment})
	defer log.Sync()

	// Create context that will be canceled on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	go func() {
		sc := make(chan os.Signal, 1)
		signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
		<-sc
		log.Info("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	backend, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open backend", zap.Error(err))
	}
	defer backend.Close()

	schedules := schedule.NewService(backend.Store, backend.Locker, cfg, log)
	friends := social.NewService(backend.Store, backend.Notifier, log)
	plans := mealplan.NewService(backend.Store, schedules, friends, backend.Notifier, log)

	srv := server.New(cfg, server.Services{
		Schedules: schedules,
		MealPlans: plans,
		Social:    friends,
	}, log)

	if err := srv.Run(ctx); err != nil {
		log.Error("Server error", zap.Error(err))
		return
	}

	log.Info("Meal planner API shut down successfully")
}
