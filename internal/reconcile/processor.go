// Package reconcile applies an order line's consumption to ingredient stock.
package reconcile

import (
	"context"
	"fmt"

	"siparis-backend/internal/models"
	"siparis-backend/internal/queue"
	"siparis-backend/internal/recipecache"
	"siparis-backend/internal/stock"

	"go.uber.org/zap"
)

// RecipeResolver is the cached recipe lookup (satisfied by *recipecache.Cache).
type RecipeResolver interface {
	Entries(ctx context.Context, productID uint) ([]recipecache.Entry, error)
}

// Notifier fires the post-decrement low-stock check.
type Notifier interface {
	MaybeNotify(ctx context.Context, ing *models.Ingredient)
}

// Processor executes reconciliation jobs. Safe under at-least-once
// redelivery: each per-ingredient decrement is recorded against the job's
// LineID, so a redelivered or partially-applied job converges instead of
// decrementing twice. A mid-job failure leaves earlier ingredients applied;
// the retry re-runs all lines and only the missing ones take effect.
type Processor struct {
	recipes  RecipeResolver
	source   recipecache.Source
	ledger   stock.Ledger
	notifier Notifier
	log      *zap.Logger
}

func NewProcessor(recipes RecipeResolver, source recipecache.Source, ledger stock.Ledger, notifier Notifier, log *zap.Logger) *Processor {
	return &Processor{recipes: recipes, source: source, ledger: ledger, notifier: notifier, log: log}
}

// Process resolves the recipe (cache first, authoritative store when the
// cache yields nothing) and applies quantity * per-unit decrements.
func (p *Processor) Process(ctx context.Context, job queue.ReconcileJob) error {
	entries, err := p.recipes.Entries(ctx, job.ProductID)
	if err != nil {
		return fmt.Errorf("resolve recipe for product %d: %w", job.ProductID, err)
	}
	if len(entries) == 0 {
		entries, err = p.source.Entries(ctx, job.ProductID)
		if err != nil {
			return fmt.Errorf("resolve recipe for product %d from authoritative store: %w", job.ProductID, err)
		}
	}

	for _, e := range entries {
		amount := e.Quantity * job.Quantity
		ing, applied, err := p.ledger.ApplyDecrement(ctx, job.LineID, e.IngredientID, amount)
		if err != nil {
			return fmt.Errorf("decrement ingredient %d by %d: %w", e.IngredientID, amount, err)
		}
		if !applied {
			p.log.Debug("adjustment already applied, skipping decrement",
				zap.String("line_id", job.LineID),
				zap.Uint("ingredient_id", e.IngredientID))
		}
		// Runs on redelivery too: an alert whose send failed the first time
		// gets another chance here.
		p.notifier.MaybeNotify(ctx, ing)
	}

	p.log.Info("order line reconciled",
		zap.String("line_id", job.LineID),
		zap.Uint("order_id", job.OrderID),
		zap.Uint("product_id", job.ProductID),
		zap.Int64("quantity", job.Quantity),
		zap.Int("ingredients", len(entries)))
	return nil
}
