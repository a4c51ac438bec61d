package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/vladimiradmaev/meal-planner/internal/cache"
	"github.com/vladimiradmaev/meal-planner/internal/domain"
	apperrors "github.com/vladimiradmaev/meal-planner/internal/errors"
	"github.com/vladimiradmaev/meal-planner/internal/logger"
	"github.com/vladimiradmaev/meal-planner/internal/metrics"
	"github.com/vladimiradmaev/meal-planner/internal/repository"
	"gorm.io/gorm"
)

// PlanService manages the weekly plan and the shopping list derived from it.
// Shopping lists are cached per user when a store is configured; saving a
// plan entry drops the user's cached list.
type PlanService struct {
	db       *gorm.DB
	cache    cache.Store
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

func NewPlanService(db *gorm.DB, store cache.Store, ttl time.Duration, m *metrics.Metrics) *PlanService {
	return &PlanService{
		db:       db,
		cache:    store,
		cacheTTL: ttl,
		metrics:  m,
	}
}

func (s *PlanService) PlanMeal(ctx context.Context, userID uint, day, mealSlot string, recipeID uint) error {
	day = strings.TrimSpace(day)
	mealSlot = strings.TrimSpace(mealSlot)
	if day == "" || mealSlot == "" {
		return apperrors.NewValidationError("dia and comida are required")
	}

	entry := &repository.WeeklyPlanEntry{
		UserID:   userID,
		Day:      day,
		MealSlot: mealSlot,
		RecipeID: recipeID,
	}
	if err := entry.Save(ctx, s.db); err != nil {
		return apperrors.NewDatabaseError(err)
	}
	s.metrics.EntitySaved("plan_entry")

	if s.cache != nil {
		if err := s.cache.Delete(ctx, cache.ShoppingListKey(userID)); err != nil {
			logger.WithContext(ctx).Warn("Failed to invalidate shopping list", "user_id", userID, "error", err)
		}
	}
	return nil
}

// ShoppingList aggregates ingredient quantities over every meal the user has
// planned. A user without a plan gets an empty list.
func (s *PlanService) ShoppingList(ctx context.Context, userID uint) ([]domain.ShoppingListItem, error) {
	key := cache.ShoppingListKey(userID)
	if items, ok := s.cached(ctx, key); ok {
		return items, nil
	}

	items, err := repository.ShoppingList(ctx, s.db, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	if s.cache != nil {
		data, err := json.Marshal(items)
		if err == nil {
			err = s.cache.Set(ctx, key, data, s.cacheTTL)
		}
		if err != nil {
			logger.WithContext(ctx).Warn("Failed to cache shopping list", "user_id", userID, "error", err)
		}
	}
	return items, nil
}

func (s *PlanService) cached(ctx context.Context, key string) ([]domain.ShoppingListItem, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.WithContext(ctx).Warn("Shopping list cache unavailable", "key", key, "error", err)
	}
	if err != nil || !ok {
		s.metrics.CacheLookup(false)
		return nil, false
	}

	items := []domain.ShoppingListItem{}
	if err := json.Unmarshal(data, &items); err != nil {
		logger.WithContext(ctx).Warn("Discarding unreadable cached shopping list", "key", key, "error", err)
		s.metrics.CacheLookup(false)
		return nil, false
	}
	s.metrics.CacheLookup(true)
	return items, true
}
