package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/vladimiradmaev/meal-planner/internal/config"
)

// Store is a byte cache with per-key expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// New builds the configured store. It returns a nil Store when caching is
// disabled.
func New(cfg config.CacheConfig, redisCfg config.RedisConfig) (Store, error) {
	switch cfg.Driver {
	case "":
		return nil, nil
	case config.CacheMemory:
		return NewMemoryStore(), nil
	case config.CacheRedis:
		store, err := NewRedisStore(redisCfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.Driver)
	}
}

// ShoppingListKey is the cache key of a user's aggregated shopping list.
func ShoppingListKey(userID uint) string {
	return fmt.Sprintf("lista_compras:%d", userID)
}
