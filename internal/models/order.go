package models

import "time"

type Order struct {
	ID        uint `gorm:"primaryKey"`
	Lines     []OrderLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderLine: one (product, quantity) pair of an order. LineKey doubles as the
// idempotency key of the reconciliation job enqueued for this line.
type OrderLine struct {
	ID        uint   `gorm:"primaryKey"`
	LineKey   string `gorm:"size:36;not null;uniqueIndex"`
	OrderID   uint   `gorm:"index;not null"`
	ProductID uint   `gorm:"index;not null"`
	Quantity  int64  `gorm:"not null"` // always >= 1
	CreatedAt time.Time
	UpdatedAt time.Time
}
