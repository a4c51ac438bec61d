package repository

import (
	"context"
	"fmt"

	"github.com/vladimiradmaev/meal-planner/internal/database"
	"github.com/vladimiradmaev/meal-planner/internal/domain"
	"gorm.io/gorm"
)

// RecommendRecipes returns every recipe that uses at least one of the given
// ingredient names. A recipe matching several names appears once per match.
func RecommendRecipes(ctx context.Context, db *gorm.DB, ingredients []string) ([]domain.RecommendedRecipe, error) {
	recipes := []domain.RecommendedRecipe{}
	if len(ingredients) == 0 {
		return recipes, nil
	}

	err := db.WithContext(ctx).
		Table("recetas r").
		Select("r.id AS id, r.nombre AS name, COALESCE(r.instrucciones, '') AS instructions").
		Joins("JOIN receta_ingrediente ri ON r.id = ri.receta_id").
		Joins("JOIN ingredientes i ON ri.ingrediente_id = i.id").
		Where("i.nombre IN ?", ingredients).
		Order("r.id, i.nombre").
		Scan(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query recommended recipes: %w", err)
	}
	if recipes == nil {
		recipes = []domain.RecommendedRecipe{}
	}
	return recipes, nil
}

// ShoppingList sums the quantity of every ingredient across all meals the
// user has planned, ordered by ingredient name.
func ShoppingList(ctx context.Context, db *gorm.DB, userID uint) ([]domain.ShoppingListItem, error) {
	items := []domain.ShoppingListItem{}
	err := db.WithContext(ctx).
		Table("planificacion_semanal ps").
		Select("i.nombre AS ingredient, COALESCE(SUM(ri.cantidad), 0) AS quantity").
		Joins("JOIN receta_ingrediente ri ON ps.receta_id = ri.receta_id").
		Joins("JOIN ingredientes i ON ri.ingrediente_id = i.id").
		Where("ps.usuario_id = ?", userID).
		Group("i.nombre").
		Order("i.nombre").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query shopping list: %w", err)
	}
	if items == nil {
		items = []domain.ShoppingListItem{}
	}
	return items, nil
}

// FindUser loads a user by id. gorm.ErrRecordNotFound is returned unwrapped
// in the chain when no row matches.
func FindUser(ctx context.Context, db *gorm.DB, id uint) (*User, error) {
	var row database.User
	if err := db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &User{
		ID:          row.ID,
		Name:        row.Name,
		Email:       row.Email,
		CalorieGoal: row.CalorieGoal,
	}, nil
}

// CalorieLog lists the user's calorie entries ordered by date.
func CalorieLog(ctx context.Context, db *gorm.DB, userID uint) ([]domain.CalorieRecord, error) {
	records := []domain.CalorieRecord{}
	err := db.WithContext(ctx).
		Model(&database.CalorieLogEntry{}).
		Select("COALESCE(fecha, '') AS date, COALESCE(calorias, 0) AS calories").
		Where("usuario_id = ?", userID).
		Order("fecha").
		Scan(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query calorie log: %w", err)
	}
	if records == nil {
		records = []domain.CalorieRecord{}
	}
	return records, nil
}
