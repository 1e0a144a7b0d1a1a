package stock

import (
	"context"
	"errors"

	"siparis-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLedger implements Ledger on Postgres. The decrement is a single
// in-database UPDATE (remaining = remaining - ?) so the row's update
// serialization is what orders concurrent decrements; no load-mutate-store.
type GormLedger struct {
	db *gorm.DB
}

func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{db: db}
}

func (l *GormLedger) Ingredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := l.db.WithContext(ctx).First(&ing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	return &ing, nil
}

func (l *GormLedger) ApplyDecrement(ctx context.Context, lineKey string, ingredientID uint, amount int64) (*models.Ingredient, bool, error) {
	var ing models.Ingredient
	applied := false

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		adj := models.AppliedAdjustment{
			LineKey:      lineKey,
			IngredientID: ingredientID,
			Amount:       amount,
		}
		// The unique (line_key, ingredient_id) index deduplicates redelivered
		// jobs: losing the insert means the decrement already happened.
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&adj)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			upd := tx.Model(&models.Ingredient{}).
				Where("id = ?", ingredientID).
				UpdateColumn("remaining", gorm.Expr("remaining - ?", amount))
			if upd.Error != nil {
				return upd.Error
			}
			if upd.RowsAffected == 0 {
				return ErrIngredientNotFound
			}
			applied = true
		}

		if err := tx.First(&ing, "id = ?", ingredientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrIngredientNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &ing, applied, nil
}

func (l *GormLedger) MarkAlertSent(ctx context.Context, ingredientID uint) (bool, error) {
	res := l.db.WithContext(ctx).Model(&models.Ingredient{}).
		Where("id = ? AND low_stock_alert_sent = ?", ingredientID, false).
		UpdateColumn("low_stock_alert_sent", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (l *GormLedger) Restock(ctx context.Context, ingredientID uint, newStock int64) (*models.Ingredient, error) {
	var ing models.Ingredient
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Ingredient{}).
			Where("id = ?", ingredientID).
			UpdateColumns(map[string]interface{}{
				"stock":                newStock,
				"remaining":            newStock,
				"low_stock_alert_sent": false,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrIngredientNotFound
		}
		return tx.First(&ing, "id = ?", ingredientID).Error
	})
	if err != nil {
		return nil, err
	}
	return &ing, nil
}
