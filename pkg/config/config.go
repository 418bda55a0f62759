package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Environment   string
	IsProduction  bool
	IsDevelopment bool

	// HTTP server
	HTTPAddr  string
	JWTSecret string

	// Storage
	StorageDriver   string
	MongoDBURI      string
	MongoDBDatabase string

	// Redis is optional; without it materialization locks are process-local
	RedisAddr     string
	RedisPassword string
	LockTTL       time.Duration

	// Scheduling
	Timezone     string
	Location     *time.Location
	UpcomingDays int

	// Discord mirror for notifications
	DiscordToken     string
	DiscordChannelID string

	// Reminder sweep
	ReminderIntervalMinutes int

	LogDir string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Environment:      getEnv("ENVIRONMENT", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		StorageDriver:    getEnv("STORAGE_DRIVER", DriverMongo),
		MongoDBURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDBDatabase:  getEnv("MONGODB_DATABASE", ""),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		Timezone:         getEnv("TIMEZONE", "UTC"),
		DiscordToken:     getEnv("DISCORD_TOKEN", ""),
		DiscordChannelID: getEnv("DISCORD_CHANNEL_ID", ""),
		LogDir:           getEnv("LOG_DIR", "logs"),
	}

	// Derived properties
	cfg.IsProduction = cfg.Environment == "production"
	cfg.IsDevelopment = !cfg.IsProduction

	if cfg.MongoDBDatabase == "" {
		cfg.MongoDBDatabase = "mealplanner"
		if cfg.IsDevelopment {
			cfg.MongoDBDatabase = "mealplanner_dev"
		}
	}

	cfg.LockTTL = time.Duration(getInt("LOCK_TTL_SECONDS", 30)) * time.Second
	cfg.UpcomingDays = getInt("UPCOMING_DAYS", 3)
	cfg.ReminderIntervalMinutes = getInt("REMINDER_INTERVAL_MINUTES", 15)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}

	switch c.StorageDriver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.UpcomingDays < 0 {
		return fmt.Errorf("UPCOMING_DAYS must not be negative")
	}

	if c.ReminderIntervalMinutes <= 0 {
		return fmt.Errorf("REMINDER_INTERVAL_MINUTES must be positive")
	}

	return nil
}

// DiscordEnabled reports whether notifications should be mirrored to Discord.
func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != "" && c.DiscordChannelID != ""
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getInt parses an integer variable, falling back to the default on garbage
func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return n
}
