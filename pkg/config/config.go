package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the RS engine.
// SSOT: every environment variable is read here and nowhere else.
type Config struct {
	Env string // development, staging, production

	// Database
	Database DatabaseConfig

	// RS engine
	Engine EngineConfig

	// Ratings API
	Server ServerConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// EngineConfig holds the RS calculation knobs.
// The horizon weights themselves are fixed in internal/rs and are
// deliberately not configurable: historical rows must stay comparable.
type EngineConfig struct {
	MinHistoryPoints int // new-listing guard: skip computation below this
	ResumeThreshold  int // a date counts as done above this many rating rows
	ChunkSize        int // rows per upsert transaction
	RecentDays       int // default window for the recent mode
}

// ServerConfig holds the ratings API configuration
type ServerConfig struct {
	Port      string
	RateLimit float64 // requests per second per server
	RateBurst int
}

// SchedulerConfig holds the daily refresh schedule
type SchedulerConfig struct {
	// Cron spec with seconds. Tadawul trades Sunday through Thursday.
	DailyRefreshSpec string
}

// Load reads configuration from environment variables.
// SSOT: this is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Engine: EngineConfig{
			MinHistoryPoints: getEnvAsInt("RS_MIN_HISTORY_POINTS", 5),
			ResumeThreshold:  getEnvAsInt("RS_RESUME_THRESHOLD", 50),
			ChunkSize:        getEnvAsInt("RS_UPSERT_CHUNK_SIZE", 5000),
			RecentDays:       getEnvAsInt("RS_RECENT_DAYS", 30),
		},

		Server: ServerConfig{
			Port:      getEnv("PORT", "8090"),
			RateLimit: getEnvAsFloat("API_RATE_LIMIT", 20),
			RateBurst: getEnvAsInt("API_RATE_BURST", 40),
		},

		Scheduler: SchedulerConfig{
			// 16:00 local, Sunday-Thursday (market closes 15:00 AST)
			DailyRefreshSpec: getEnv("RS_DAILY_REFRESH_SPEC", "0 0 16 * * 0,1,2,3,4"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Engine.ChunkSize <= 0 {
		return fmt.Errorf("RS_UPSERT_CHUNK_SIZE must be positive")
	}

	if c.Engine.MinHistoryPoints < 1 {
		return fmt.Errorf("RS_MIN_HISTORY_POINTS must be at least 1")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
