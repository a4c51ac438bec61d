package services

import (
	"context"
	"strings"

	"github.com/vladimiradmaev/meal-planner/internal/database"
	apperrors "github.com/vladimiradmaev/meal-planner/internal/errors"
	"github.com/vladimiradmaev/meal-planner/internal/logger"
	"github.com/vladimiradmaev/meal-planner/internal/metrics"
	"github.com/vladimiradmaev/meal-planner/internal/repository"
	"gorm.io/gorm"
)

type UserService struct {
	db      *gorm.DB
	metrics *metrics.Metrics
}

func NewUserService(db *gorm.DB, m *metrics.Metrics) *UserService {
	return &UserService{db: db, metrics: m}
}

func (s *UserService) RegisterUser(ctx context.Context, name, email string, calorieGoal *int) (*repository.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, apperrors.NewValidationError("nombre and email are required")
	}
	if err := validateGoal(calorieGoal); err != nil {
		return nil, err
	}

	user := &repository.User{Name: name, Email: email, CalorieGoal: calorieGoal}
	if err := user.Save(ctx, s.db); err != nil {
		if database.IsDuplicateKey(err) {
			return nil, apperrors.NewDuplicateEmailError(email)
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	s.metrics.EntitySaved("user")
	logger.WithContext(ctx).Info("User registered", "user_id", user.ID)
	return user, nil
}

// UpdateCalorieGoal changes the goal of the user registered with email.
// An unknown email is not an error.
func (s *UserService) UpdateCalorieGoal(ctx context.Context, email string, calorieGoal *int) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperrors.NewValidationError("email is required")
	}
	if err := validateGoal(calorieGoal); err != nil {
		return err
	}

	user := &repository.User{Email: email}
	updated, err := user.UpdateGoal(ctx, s.db, calorieGoal)
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	if updated == 0 {
		logger.WithContext(ctx).Debug("Calorie goal update matched no user")
	}
	return nil
}

func validateGoal(goal *int) error {
	if goal != nil && *goal < 0 {
		return apperrors.NewValidationError("meta_calorica must not be negative")
	}
	return nil
}
