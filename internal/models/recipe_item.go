package models

import "time"

// RecipeItem: one ingredient line of a product's recipe. Quantity is the amount
// consumed per ordered unit and is immutable once created.
type RecipeItem struct {
	ID           uint  `gorm:"primaryKey"`
	ProductID    uint  `gorm:"not null;uniqueIndex:idx_recipe_product_ingredient"`
	IngredientID uint  `gorm:"not null;uniqueIndex:idx_recipe_product_ingredient"`
	Ingredient   Ingredient
	Quantity     int64 `gorm:"not null"` // per unit, always > 0
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
