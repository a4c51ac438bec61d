package domain

import "encoding/json"

// RecommendedRecipe is one match of the pantry recommendation query.
// It is encoded as a positional triple: [id, nombre, instrucciones].
type RecommendedRecipe struct {
	ID           uint
	Name         string
	Instructions string
}

func (r RecommendedRecipe) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{r.ID, r.Name, r.Instructions})
}

// ShoppingListItem is the total quantity of one ingredient across a user's
// planned meals. It is encoded as a pair: [nombre, cantidad_total].
type ShoppingListItem struct {
	Ingredient string
	Quantity   int
}

func (i ShoppingListItem) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{i.Ingredient, i.Quantity})
}

func (i *ShoppingListItem) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[0], &i.Ingredient); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &i.Quantity)
}

// CalorieRecord is a single calorie log line.
type CalorieRecord struct {
	Date     string `json:"fecha"`
	Calories int    `json:"calorias"`
}

// CalorieSummary aggregates a user's calorie log against their goal.
type CalorieSummary struct {
	Records []CalorieRecord `json:"registros"`
	Total   int             `json:"total"`
	Goal    *int            `json:"meta_calorica"`
}
