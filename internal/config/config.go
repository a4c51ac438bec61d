package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/meal-planner/internal/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	HTTP      HTTPConfig
	DB        DBConfig
	Cache     CacheConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Logger    LoggerConfig
}

type HTTPConfig struct {
	Addr    string
	GinMode string
}

type DBConfig struct {
	Driver        string
	Path          string // sqlite file
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MigrationsDir string
}

// DSN builds the postgres connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type CacheConfig struct {
	Driver string // empty disables caching
	TTL    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type RateLimitConfig struct {
	RequestsPerSecond float64 // zero disables the limiter
	Burst             int
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var problems []string

	ttl, err := time.ParseDuration(getEnvOrDefault("CACHE_TTL", "24h"))
	if err != nil || ttl <= 0 {
		problems = append(problems, fmt.Sprintf("CACHE_TTL: invalid duration %q", os.Getenv("CACHE_TTL")))
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil || redisDB < 0 {
		problems = append(problems, fmt.Sprintf("REDIS_DB: invalid database index %q", os.Getenv("REDIS_DB")))
	}

	rps, err := strconv.ParseFloat(getEnvOrDefault("RATE_LIMIT_RPS", "0"), 64)
	if err != nil || rps < 0 {
		problems = append(problems, fmt.Sprintf("RATE_LIMIT_RPS: invalid rate %q", os.Getenv("RATE_LIMIT_RPS")))
	}

	burst, err := strconv.Atoi(getEnvOrDefault("RATE_LIMIT_BURST", "20"))
	if err != nil || burst < 1 {
		problems = append(problems, fmt.Sprintf("RATE_LIMIT_BURST: invalid burst %q", os.Getenv("RATE_LIMIT_BURST")))
	}

	cfg := &Config{
		HTTP: HTTPConfig{
			Addr:    getEnvOrDefault("HTTP_ADDR", ":5000"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		DB: DBConfig{
			Driver:        strings.ToLower(getEnvOrDefault("DB_DRIVER", DriverSQLite)),
			Path:          getEnvOrDefault("DB_PATH", "app.db"),
			Host:          getEnvOrDefault("DB_HOST", "localhost"),
			Port:          getEnvOrDefault("DB_PORT", "5432"),
			User:          getEnvOrDefault("DB_USER", "postgres"),
			Password:      getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:        getEnvOrDefault("DB_NAME", "meal_planner"),
			SSLMode:       getEnvOrDefault("DB_SSLMODE", "disable"),
			MigrationsDir: os.Getenv("MIGRATIONS_DIR"),
		},
		Cache: CacheConfig{
			Driver: strings.ToLower(os.Getenv("CACHE_DRIVER")),
			TTL:    ttl,
		},
		Redis: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: rps,
			Burst:             burst,
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	switch cfg.DB.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		problems = append(problems, fmt.Sprintf("DB_DRIVER: unsupported driver %q", cfg.DB.Driver))
	}

	switch cfg.Cache.Driver {
	case "", CacheMemory, CacheRedis:
	default:
		problems = append(problems, fmt.Sprintf("CACHE_DRIVER: unsupported driver %q", cfg.Cache.Driver))
	}

	if cfg.Logger.Format != "json" && cfg.Logger.Format != "text" {
		problems = append(problems, fmt.Sprintf("LOG_FORMAT: expected json or text, got %q", cfg.Logger.Format))
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}

	return cfg, nil
}
