package stock

import (
	"context"

	"siparis-backend/internal/models"
)

// Ledger is the sole owner of ingredient mutation. Decrements must behave as a
// single atomic read-modify-write per ingredient row; concurrent decrements
// serialize at the storage layer, never lose updates, and may drive remaining
// negative.
type Ledger interface {
	// Ingredient loads the current row. Returns ErrIngredientNotFound for
	// unknown ids.
	Ingredient(ctx context.Context, id uint) (*models.Ingredient, error)

	// ApplyDecrement subtracts amount from the ingredient's remaining stock,
	// keyed by the order line's idempotency key. When the (lineKey,
	// ingredient) pair was already applied the decrement is skipped and
	// applied is false; the returned row is current either way.
	ApplyDecrement(ctx context.Context, lineKey string, ingredientID uint, amount int64) (ing *models.Ingredient, applied bool, err error)

	// MarkAlertSent flips low_stock_alert_sent to true if it is still false.
	// Reports whether this call won the transition.
	MarkAlertSent(ctx context.Context, ingredientID uint) (bool, error)

	// Restock resets stock and remaining to the given baseline and clears the
	// low-stock alert flag, opening a new alert episode.
	Restock(ctx context.Context, ingredientID uint, newStock int64) (*models.Ingredient, error)
}
