package interfaces

import (
	"context"

	"github.com/vladimiradmaev/meal-planner/internal/domain"
	"github.com/vladimiradmaev/meal-planner/internal/repository"
)

// UserServiceInterface defines the contract for user operations
type UserServiceInterface interface {
	RegisterUser(ctx context.Context, name, email string, calorieGoal *int) (*repository.User, error)
	UpdateCalorieGoal(ctx context.Context, email string, calorieGoal *int) error
}

// RecipeServiceInterface defines the contract for recipe operations
type RecipeServiceInterface interface {
	CreateRecipe(ctx context.Context, name, instructions string, calories int, ingredients map[string]int) (*repository.Recipe, error)
	Recommend(ctx context.Context, pantry []string) ([]domain.RecommendedRecipe, error)
}

// PlanServiceInterface defines the contract for weekly plan operations
type PlanServiceInterface interface {
	PlanMeal(ctx context.Context, userID uint, day, mealSlot string, recipeID uint) error
	ShoppingList(ctx context.Context, userID uint) ([]domain.ShoppingListItem, error)
}

// CalorieLogServiceInterface defines the contract for calorie log operations
type CalorieLogServiceInterface interface {
	AddEntry(ctx context.Context, userID uint, date string, calories int) error
	Summary(ctx context.Context, userID uint) (*domain.CalorieSummary, error)
}
