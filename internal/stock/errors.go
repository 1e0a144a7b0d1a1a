package stock

import (
	"errors"
	"fmt"
)

// ErrIngredientNotFound is returned when a decrement or lookup targets an
// unknown ingredient id. Reconciliation jobs treat it as retryable.
var ErrIngredientNotFound = errors.New("ingredient not found")

// InsufficientStockError reports the ingredients whose remaining stock cannot
// cover one order line at validation time.
type InsufficientStockError struct {
	ProductID     uint
	IngredientIDs []uint
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for some ingredients for the product: %d", e.ProductID)
}
