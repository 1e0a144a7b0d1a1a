// Package seed loads the development fixture: one Burger product and the
// Beef/Cheese/Onion ingredients with their recipe lines.
package seed

import (
	"siparis-backend/internal/models"

	"gorm.io/gorm"
)

// Run is a no-op when any product already exists.
func Run(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	beef := models.Ingredient{Name: "Beef", Stock: 20000, Remaining: 20000}
	cheese := models.Ingredient{Name: "Cheese", Stock: 5000, Remaining: 5000}
	onion := models.Ingredient{Name: "Onion", Stock: 1000, Remaining: 1000}
	burger := models.Product{Name: "Burger"}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&beef, &cheese, &onion, &burger} {
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		items := []models.RecipeItem{
			{ProductID: burger.ID, IngredientID: beef.ID, Quantity: 150},
			{ProductID: burger.ID, IngredientID: cheese.ID, Quantity: 30},
			{ProductID: burger.ID, IngredientID: onion.ID, Quantity: 20},
		}
		return tx.Create(&items).Error
	})
}
