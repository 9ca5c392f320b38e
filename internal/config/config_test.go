package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/Anthanoess/task-app/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := config.FromEnv()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, config.DriverPostgres, cfg.StoreDriver)
	assert.Zero(t, cfg.JWTExpiry)
	assert.Equal(t, 2, cfg.NotifyWorkers)
	assert.Equal(t, 64, cfg.NotifyQueue)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.True(t, cfg.RunMigrations)
	assert.Empty(t, cfg.SeedManager.Username)
	require.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	// Arrange
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("JWT_EXPIRY_HOURS", "12")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("SEED_MANAGER_USERNAME", "boss")
	t.Setenv("SEED_MANAGER_PASSWORD", "secret1")

	// Act
	cfg := config.FromEnv()

	// Assert
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, config.DriverMongo, cfg.StoreDriver)
	assert.Equal(t, 12*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, "boss", cfg.SeedManager.Username)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("NOTIFY_WORKERS", "many")
	t.Setenv("RUN_MIGRATIONS", "maybe")

	cfg := config.FromEnv()

	assert.Equal(t, 2, cfg.NotifyWorkers)
	assert.True(t, cfg.RunMigrations)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown driver", func(c *config.Config) { c.StoreDriver = "sqlite" }},
		{"empty secret", func(c *config.Config) { c.JWTSecret = "" }},
		{"seed without password", func(c *config.Config) { c.SeedManager = config.SeedUser{Username: "boss"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.FromEnv()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := &config.Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "n"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", cfg.PostgresDSN())
}
