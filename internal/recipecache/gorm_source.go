package recipecache

import (
	"context"

	"siparis-backend/internal/models"

	"gorm.io/gorm"
)

// GormSource reads recipe lines from the authoritative Postgres tables.
type GormSource struct {
	db *gorm.DB
}

func NewGormSource(db *gorm.DB) *GormSource {
	return &GormSource{db: db}
}

func (s *GormSource) Entries(ctx context.Context, productID uint) ([]Entry, error) {
	var items []models.RecipeItem
	if err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("ingredient_id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, Entry{IngredientID: item.IngredientID, Quantity: item.Quantity})
	}
	return entries, nil
}
