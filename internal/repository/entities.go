package repository

import (
	"context"
	"fmt"

	"github.com/vladimiradmaev/meal-planner/internal/database"
	"github.com/vladimiradmaev/meal-planner/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entity is a record that persists itself in a single transaction.
type Entity interface {
	Save(ctx context.Context, db *gorm.DB) error
}

var (
	_ Entity = (*User)(nil)
	_ Entity = (*Recipe)(nil)
	_ Entity = (*WeeklyPlanEntry)(nil)
	_ Entity = (*CalorieLogEntry)(nil)
)

// User is a registered person. Email is unique.
type User struct {
	ID          uint
	Name        string
	Email       string
	CalorieGoal *int
}

// Save inserts the user. A duplicate email is returned as a unique
// violation, see database.IsDuplicateKey.
func (u *User) Save(ctx context.Context, db *gorm.DB) error {
	row := database.User{
		Name:        u.Name,
		Email:       u.Email,
		CalorieGoal: u.CalorieGoal,
	}
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	u.ID = row.ID
	return nil
}

// UpdateGoal sets the calorie goal of the user with u.Email. No matching row
// is not an error; the number of updated rows is returned instead.
func (u *User) UpdateGoal(ctx context.Context, db *gorm.DB, goal *int) (int64, error) {
	result := db.WithContext(ctx).
		Model(&database.User{}).
		Where("email = ?", u.Email).
		Update("meta_calorica", goal)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update calorie goal: %w", result.Error)
	}
	u.CalorieGoal = goal
	return result.RowsAffected, nil
}

// Recipe with its ingredients keyed by name, valued by quantity.
type Recipe struct {
	ID           uint
	Name         string
	Instructions string
	Calories     int
	Ingredients  map[string]int
}

// Save inserts the recipe, creates missing ingredients and links each one
// with its quantity. Ingredients are processed in name order.
func (r *Recipe) Save(ctx context.Context, db *gorm.DB) error {
	var recipeID uint
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := database.Recipe{
			Name:         r.Name,
			Instructions: r.Instructions,
			Calories:     r.Calories,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to insert recipe: %w", err)
		}

		for _, name := range utils.SortedKeys(r.Ingredients) {
			ingredientID, err := ensureIngredient(tx, name)
			if err != nil {
				return err
			}
			link := database.RecipeIngredient{
				RecipeID:     row.ID,
				IngredientID: ingredientID,
				Quantity:     r.Ingredients[name],
			}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("failed to link ingredient %q: %w", name, err)
			}
		}

		recipeID = row.ID
		return nil
	})
	if err != nil {
		return err
	}
	r.ID = recipeID
	return nil
}

// ensureIngredient inserts the ingredient unless it exists and returns its id.
func ensureIngredient(tx *gorm.DB, name string) (uint, error) {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "nombre"}},
		DoNothing: true,
	}).Create(&database.Ingredient{Name: name}).Error
	if err != nil {
		return 0, fmt.Errorf("failed to insert ingredient %q: %w", name, err)
	}

	var existing database.Ingredient
	if err := tx.Where("nombre = ?", name).Take(&existing).Error; err != nil {
		return 0, fmt.Errorf("failed to look up ingredient %q: %w", name, err)
	}
	return existing.ID, nil
}

// WeeklyPlanEntry assigns a recipe to one meal slot of one day for a user.
type WeeklyPlanEntry struct {
	UserID   uint
	Day      string
	MealSlot string
	RecipeID uint
}

// Save upserts the entry: an existing (user, day, meal slot) row gets the
// new recipe id.
func (p *WeeklyPlanEntry) Save(ctx context.Context, db *gorm.DB) error {
	row := database.WeeklyPlanEntry{
		UserID:   p.UserID,
		Day:      p.Day,
		MealSlot: p.MealSlot,
		RecipeID: p.RecipeID,
	}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "usuario_id"}, {Name: "dia"}, {Name: "comida"}},
		DoUpdates: clause.AssignmentColumns([]string{"receta_id"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save plan entry: %w", err)
	}
	return nil
}

// CalorieLogEntry records calories eaten on a date. Several entries per date
// are allowed.
type CalorieLogEntry struct {
	UserID   uint
	Date     string
	Calories int
}

func (c *CalorieLogEntry) Save(ctx context.Context, db *gorm.DB) error {
	row := database.CalorieLogEntry{
		UserID:   c.UserID,
		Date:     c.Date,
		Calories: c.Calories,
	}
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert calorie log entry: %w", err)
	}
	return nil
}
