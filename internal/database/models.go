package database

// Column names follow the tables created by the first release of the service
// so an existing app.db keeps working.

type User struct {
	ID          uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string `gorm:"column:nombre;not null"`
	Email       string `gorm:"column:email;unique;not null"`
	CalorieGoal *int   `gorm:"column:meta_calorica"`
}

func (User) TableName() string { return "usuarios" }

type Recipe struct {
	ID           uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string `gorm:"column:nombre;not null"`
	Instructions string `gorm:"column:instrucciones"`
	Calories     int    `gorm:"column:calorias"`
}

func (Recipe) TableName() string { return "recetas" }

type Ingredient struct {
	ID   uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:nombre;unique;not null"`
}

func (Ingredient) TableName() string { return "ingredientes" }

// RecipeIngredient links a recipe to one ingredient with the quantity it needs.
type RecipeIngredient struct {
	RecipeID     uint `gorm:"column:receta_id;index"`
	IngredientID uint `gorm:"column:ingrediente_id;index"`
	Quantity     int  `gorm:"column:cantidad"`
}

func (RecipeIngredient) TableName() string { return "receta_ingrediente" }

// WeeklyPlanEntry is unique per (usuario_id, dia, comida); the index is
// created by migration 0002 after legacy duplicates are removed.
type WeeklyPlanEntry struct {
	UserID   uint   `gorm:"column:usuario_id"`
	Day      string `gorm:"column:dia"`
	MealSlot string `gorm:"column:comida"`
	RecipeID uint   `gorm:"column:receta_id"`
}

func (WeeklyPlanEntry) TableName() string { return "planificacion_semanal" }

type CalorieLogEntry struct {
	UserID   uint   `gorm:"column:usuario_id;index"`
	Date     string `gorm:"column:fecha"`
	Calories int    `gorm:"column:calorias"`
}

func (CalorieLogEntry) TableName() string { return "registro_calorico" }

// Tables lists every row model in creation order.
func Tables() []interface{} {
	return []interface{}{
		&User{},
		&Recipe{},
		&Ingredient{},
		&RecipeIngredient{},
		&WeeklyPlanEntry{},
		&CalorieLogEntry{},
	}
}
