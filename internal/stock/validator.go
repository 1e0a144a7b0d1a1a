package stock

import (
	"context"

	"siparis-backend/internal/recipecache"
)

// RecipeResolver yields the recipe lines for a product. Satisfied by
// *recipecache.Cache; the cache only spares us recomputing the recipe, the
// stock figures always come from the ledger.
type RecipeResolver interface {
	Entries(ctx context.Context, productID uint) ([]recipecache.Entry, error)
}

// Validator is the advisory stock-sufficiency check run at order intake. It
// reads authoritative remaining values but takes no lock, so stock may still
// be under-run by decrements racing in after validation. That window is a
// documented property of the design, not something the validator closes.
type Validator struct {
	recipes RecipeResolver
	ledger  Ledger
}

func NewValidator(recipes RecipeResolver, ledger Ledger) *Validator {
	return &Validator{recipes: recipes, ledger: ledger}
}

// Validate checks one (product, quantity) line. It returns
// *InsufficientStockError listing every short ingredient, or nil when all
// recipe lines are covered by current remaining stock.
func (v *Validator) Validate(ctx context.Context, productID uint, quantity int64) error {
	entries, err := v.recipes.Entries(ctx, productID)
	if err != nil {
		return err
	}

	var short []uint
	for _, e := range entries {
		ing, err := v.ledger.Ingredient(ctx, e.IngredientID)
		if err != nil {
			return err
		}
		required := e.Quantity * quantity
		if ing.Remaining < required {
			short = append(short, ing.ID)
		}
	}

	if len(short) > 0 {
		return &InsufficientStockError{ProductID: productID, IngredientIDs: short}
	}
	return nil
}
