package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vladimiradmaev/meal-planner/internal/logger"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "DB_DRIVER", "DB_PATH", "CACHE_DRIVER", "CACHE_TTL",
		"REDIS_DB", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.HTTP.Addr)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "app.db", cfg.DB.Path)
	assert.Empty(t, cfg.Cache.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Zero(t, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, logger.LevelInfo, cfg.Logger.Level)
	assert.Equal(t, "stdout", cfg.Logger.OutputPath)
}

func TestLoadPostgres(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "meals")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Contains(t, cfg.DB.DSN(), "host=db")
	assert.Contains(t, cfg.DB.DSN(), "dbname=meals")
	assert.Equal(t, logger.LevelDebug, cfg.Logger.Level)
}

func TestLoadCollectsProblems(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	t.Setenv("CACHE_DRIVER", "memcached")
	t.Setenv("RATE_LIMIT_RPS", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
	assert.Contains(t, err.Error(), "CACHE_DRIVER")
	assert.Contains(t, err.Error(), "RATE_LIMIT_RPS")
}
