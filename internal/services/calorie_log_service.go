package services

import (
	"context"
	"errors"

	"github.com/vladimiradmaev/meal-planner/internal/domain"
	apperrors "github.com/vladimiradmaev/meal-planner/internal/errors"
	"github.com/vladimiradmaev/meal-planner/internal/metrics"
	"github.com/vladimiradmaev/meal-planner/internal/repository"
	"github.com/vladimiradmaev/meal-planner/internal/utils"
	"gorm.io/gorm"
)

type CalorieLogService struct {
	db      *gorm.DB
	metrics *metrics.Metrics
}

func NewCalorieLogService(db *gorm.DB, m *metrics.Metrics) *CalorieLogService {
	return &CalorieLogService{
		db:      db,
		metrics: m,
	}
}

func (s *CalorieLogService) AddEntry(ctx context.Context, userID uint, date string, calories int) error {
	if !utils.ValidDate(date) {
		return apperrors.NewValidationError("fecha must be a date in YYYY-MM-DD format").
			WithContext("fecha", date)
	}
	if calories < 0 {
		return apperrors.NewValidationError("calorias must not be negative")
	}

	entry := &repository.CalorieLogEntry{
		UserID:   userID,
		Date:     date,
		Calories: calories,
	}
	if err := entry.Save(ctx, s.db); err != nil {
		return apperrors.NewDatabaseError(err)
	}
	s.metrics.EntitySaved("calorie_entry")
	return nil
}

// Summary lists the user's entries with their total and the user's goal.
func (s *CalorieLogService) Summary(ctx context.Context, userID uint) (*domain.CalorieSummary, error) {
	user, err := repository.FindUser(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewUserNotFoundError(userID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	records, err := repository.CalorieLog(ctx, s.db, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	summary := &domain.CalorieSummary{Records: records, Goal: user.CalorieGoal}
	for _, r := range records {
		summary.Total += r.Calories
	}
	return summary, nil
}
