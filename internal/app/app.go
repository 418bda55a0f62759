// Package app opens the backing services shared by the binaries
package app

import (
	"context"
	"fmt"

	"github.com/daiquydev/fedacn-sub001/internal/notify"
	"github.com/daiquydev/fedacn-sub001/internal/storage"
	"github.com/daiquydev/fedacn-sub001/internal/storage/memory"
	"github.com/daiquydev/fedacn-sub001/pkg/config"
	"go.uber.org/zap"
)

// Backend is the storage, lock and notification plumbing of one process
type Backend struct {
	Store    *storage.Store
	Locker   storage.Locker
	Notifier *notify.Service

	closers []func() error
	log     *zap.Logger
}

// Open connects to the configured storage driver, redis and Discord. The
// Discord mirror, when enabled, is drained until ctx is cancelled.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Backend, error) {
	b := &Backend{log: log}

	switch cfg.StorageDriver {
	case config.DriverMemory:
		log.Warn("Using in-memory storage, data is lost on exit")
		b.Store = memory.New().Repositories()
	default:
		db, err := storage.NewMongoDB(cfg, log)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, db.Disconnect)
		if err := db.EnsureIndexes(ctx); err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to ensure indexes: %w", err)
		}
		b.Store = storage.NewMongoStore(db, log)
	}

	if cfg.RedisAddr != "" {
		locker, err := storage.NewRedisLocker(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.LockTTL, log)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, locker.Close)
		b.Locker = locker
	} else {
		b.Locker = storage.NewLocalLocker()
	}

	var mirror notify.Mirror
	if cfg.DiscordEnabled() {
		discord, err := notify.NewDiscordMirror(cfg, log)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, discord.Close)
		go discord.Run(ctx)
		mirror = discord
	}
	b.Notifier = notify.NewService(b.Store.Notifications, mirror, log)

	return b, nil
}

// Close releases connections in reverse order of opening
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			b.log.Error("Error closing backend", zap.Error(err))
		}
	}
	b.closers = nil
}
