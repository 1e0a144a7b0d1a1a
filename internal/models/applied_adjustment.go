package models

import "time"

// AppliedAdjustment: ledger of stock decrements that have already been applied.
// The (line_key, ingredient_id) unique index is what makes reconciliation job
// redelivery converge instead of double-decrementing.
type AppliedAdjustment struct {
	ID           uint   `gorm:"primaryKey"`
	LineKey      string `gorm:"size:36;not null;uniqueIndex:idx_adjustment_line_ingredient"`
	IngredientID uint   `gorm:"not null;uniqueIndex:idx_adjustment_line_ingredient"`
	Amount       int64  `gorm:"not null"`
	CreatedAt    time.Time
}
