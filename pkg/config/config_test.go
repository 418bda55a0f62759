package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("requires jwt secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("ENVIRONMENT", "")
		t.Setenv("MONGODB_DATABASE", "")
		t.Setenv("UPCOMING_DAYS", "")
		t.Setenv("LOCK_TTL_SECONDS", "")
		t.Setenv("TIMEZONE", "")
		t.Setenv("STORAGE_DRIVER", "")

		cfg, err := Load()
		require.NoError(t, err)
		require.True(t, cfg.IsDevelopment)
		require.Equal(t, "mealplanner_dev", cfg.MongoDBDatabase)
		require.Equal(t, DriverMongo, cfg.StorageDriver)
		require.Equal(t, 3, cfg.UpcomingDays)
		require.Equal(t, 30*time.Second, cfg.LockTTL)
		require.Equal(t, time.UTC, cfg.Location)
		require.False(t, cfg.DiscordEnabled())
	})

	t.Run("garbage integers fall back", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("UPCOMING_DAYS", "many")
		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, 3, cfg.UpcomingDays)
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("STORAGE_DRIVER", "sqlite")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("rejects bad timezone", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("TIMEZONE", "Mars/Olympus")
		_, err := Load()
		require.Error(t, err)
	})
}
