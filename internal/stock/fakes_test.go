package stock

import (
	"context"
	"fmt"
	"sync"

	"siparis-backend/internal/models"
)

// fakeLedger mirrors the GormLedger semantics in memory: idempotent
// decrements keyed by (lineKey, ingredient), conditional alert-flag claim.
type fakeLedger struct {
	mu          sync.Mutex
	ingredients map[uint]*models.Ingredient
	applied     map[string]bool // lineKey + "/" + ingredientID
}

func newFakeLedger(ings ...*models.Ingredient) *fakeLedger {
	l := &fakeLedger{
		ingredients: make(map[uint]*models.Ingredient),
		applied:     make(map[string]bool),
	}
	for _, ing := range ings {
		copy := *ing
		l.ingredients[ing.ID] = &copy
	}
	return l
}

func adjKey(lineKey string, ingredientID uint) string {
	return fmt.Sprintf("%s/%d", lineKey, ingredientID)
}

func (l *fakeLedger) Ingredient(_ context.Context, id uint) (*models.Ingredient, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ing, ok := l.ingredients[id]
	if !ok {
		return nil, ErrIngredientNotFound
	}
	copy := *ing
	return &copy, nil
}

func (l *fakeLedger) ApplyDecrement(_ context.Context, lineKey string, ingredientID uint, amount int64) (*models.Ingredient, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ing, ok := l.ingredients[ingredientID]
	if !ok {
		return nil, false, ErrIngredientNotFound
	}
	key := adjKey(lineKey, ingredientID)
	if l.applied[key] {
		copy := *ing
		return &copy, false, nil
	}
	l.applied[key] = true
	ing.Remaining -= amount
	copy := *ing
	return &copy, true, nil
}

func (l *fakeLedger) MarkAlertSent(_ context.Context, ingredientID uint) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ing, ok := l.ingredients[ingredientID]
	if !ok {
		return false, ErrIngredientNotFound
	}
	if ing.LowStockAlertSent {
		return false, nil
	}
	ing.LowStockAlertSent = true
	return true, nil
}

func (l *fakeLedger) Restock(_ context.Context, ingredientID uint, newStock int64) (*models.Ingredient, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ing, ok := l.ingredients[ingredientID]
	if !ok {
		return nil, ErrIngredientNotFound
	}
	ing.Stock = newStock
	ing.Remaining = newStock
	ing.LowStockAlertSent = false
	copy := *ing
	return &copy, nil
}
