package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	ServerPort  string
	StoreDriver string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	MongoURI      string
	MongoDatabase string

	JWTSecret string
	JWTExpiry time.Duration

	FrontendURL string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string

	NotifyWorkers int
	NotifyQueue   int

	LogLevel      slog.Level
	RunMigrations bool

	SeedManager SeedUser
}

// SeedUser describes an account ensured at start-up. An empty Username disables seeding.
type SeedUser struct {
	Username string
	Password string
	Email    string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using system environment variables")
	}
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() *Config {
	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "taskboard"),
		DBPassword: getEnv("DB_PASSWORD", "taskboard"),
		DBName:     getEnv("DB_NAME", "taskboard"),

		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "taskboard"),

		JWTSecret: getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpiry: time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 0)) * time.Hour,

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		EmailFrom:    getEnv("EMAIL_FROM", "no-reply@taskboard.local"),

		NotifyWorkers: getEnvInt("NOTIFY_WORKERS", 2),
		NotifyQueue:   getEnvInt("NOTIFY_QUEUE", 64),

		LogLevel:      getEnvLevel("LOG_LEVEL", slog.LevelInfo),
		RunMigrations: getEnvBool("RUN_MIGRATIONS", true),

		SeedManager: SeedUser{
			Username: getEnv("SEED_MANAGER_USERNAME", ""),
			Password: getEnv("SEED_MANAGER_PASSWORD", ""),
			Email:    getEnv("SEED_MANAGER_EMAIL", ""),
		},
	}
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres, DriverMongo:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.SeedManager.Username != "" && c.SeedManager.Password == "" {
		return fmt.Errorf("SEED_MANAGER_PASSWORD is required when SEED_MANAGER_USERNAME is set")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", raw, "default", defaultVal)
		return defaultVal
	}
	return n
}

func getEnvBool(key string, defaultVal bool) bool {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", raw, "default", defaultVal)
		return defaultVal
	}
	return b
}

func getEnvLevel(key string, defaultVal slog.Level) slog.Level {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		slog.Warn("invalid log level in environment, using default", "key", key, "value", raw)
		return defaultVal
	}
	return level
}
