package models

import "time"

// Ingredient: raw stock tracked by the ledger. Remaining may go negative under
// concurrent decrements; validation treats that as depleted.
type Ingredient struct {
	ID                uint   `gorm:"primaryKey"`
	Name              string `gorm:"size:100;not null;unique"`
	Stock             int64  `gorm:"not null"` // capacity baseline
	Remaining         int64  `gorm:"not null"`
	LowStockAlertSent bool   `gorm:"not null;default:false"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
