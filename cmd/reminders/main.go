package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daiquydev/fedacn-sub001/internal/app"
	"github.com/daiquydev/fedacn-sub001/internal/reminder"
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

	log := logger.New("reminders", logger.Options{Dir: cfg.LogDir, Debug: cfg.IsDevelopment})
	defer log.Sync()

	// Create context that will be canceled on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	worker := reminder.NewWorker(backend.Store, backend.Notifier, cfg.Location, log)

	interval := time.Duration(cfg.ReminderIntervalMinutes) * time.Minute
	log.Info("Reminder sweep configured", zap.Duration("interval", interval))

	// Blocks until ctx is canceled
	worker.StartScheduledRuns(ctx, interval)

	log.Info("Reminder service shut down successfully")
}
