package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/vladimiradmaev/meal-planner/internal/domain"
	apperrors "github.com/vladimiradmaev/meal-planner/internal/errors"
	"github.com/vladimiradmaev/meal-planner/internal/logger"
	"github.com/vladimiradmaev/meal-planner/internal/metrics"
	"github.com/vladimiradmaev/meal-planner/internal/repository"
	"github.com/vladimiradmaev/meal-planner/internal/utils"
	"gorm.io/gorm"
)

type RecipeService struct {
	db      *gorm.DB
	metrics *metrics.Metrics
}

func NewRecipeService(db *gorm.DB, m *metrics.Metrics) *RecipeService {
	return &RecipeService{db: db, metrics: m}
}

func (s *RecipeService) CreateRecipe(ctx context.Context, name, instructions string, calories int, ingredients map[string]int) (*repository.Recipe, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("nombre is required")
	}
	if calories < 0 {
		return nil, apperrors.NewValidationError("calorias must not be negative")
	}

	normalized := make(map[string]int, len(ingredients))
	for ingredient, quantity := range ingredients {
		ingredient = strings.TrimSpace(ingredient)
		if ingredient == "" {
			return nil, apperrors.NewValidationError("ingredient names must not be empty")
		}
		if quantity < 0 {
			return nil, apperrors.NewValidationError(fmt.Sprintf("cantidad of %q must not be negative", ingredient))
		}
		normalized[ingredient] += quantity
	}

	recipe := &repository.Recipe{
		Name:         name,
		Instructions: instructions,
		Calories:     calories,
		Ingredients:  normalized,
	}
	if err := recipe.Save(ctx, s.db); err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	s.metrics.EntitySaved("recipe")
	logger.WithContext(ctx).Info("Recipe created", "recipe_id", recipe.ID, "ingredients", len(normalized))
	return recipe, nil
}

// Recommend returns the recipes that use any of the pantry ingredients.
// Duplicates in the pantry list are ignored.
func (s *RecipeService) Recommend(ctx context.Context, pantry []string) ([]domain.RecommendedRecipe, error) {
	recipes, err := repository.RecommendRecipes(ctx, s.db, utils.UniqueStrings(pantry))
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return recipes, nil
}
