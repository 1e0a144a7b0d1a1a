package stock

import (
	"context"

	"siparis-backend/internal/metrics"
	"siparis-backend/internal/models"

	"go.uber.org/zap"
)

// Alert is the payload handed to the notification sink. Delivery guarantees
// beyond acceptance belong to the sink.
type Alert struct {
	To             string `json:"to"`
	IngredientID   uint   `json:"ingredient_id"`
	IngredientName string `json:"ingredient_name"`
	Remaining      int64  `json:"remaining"`
	Stock          int64  `json:"stock"`
}

// AlertSink accepts low-stock alerts for asynchronous delivery.
type AlertSink interface {
	Send(ctx context.Context, alert Alert) error
}

// Notifier fires at most one low-stock alert per ingredient per episode. The
// episode gate is the ingredient's low_stock_alert_sent flag, claimed through
// a conditional update so concurrent jobs race for a single transition. The
// flag is only set after the sink accepts the alert; a failed send leaves it
// clear so the alert retries on the next qualifying decrement.
type Notifier struct {
	ledger Ledger
	sink   AlertSink
	to     string
	log    *zap.Logger
}

func NewNotifier(ledger Ledger, sink AlertSink, merchantEmail string, log *zap.Logger) *Notifier {
	return &Notifier{ledger: ledger, sink: sink, to: merchantEmail, log: log}
}

// MaybeNotify is called right after each decrement with the updated row.
// Threshold: remaining < 50% of the stock baseline. Never fails the caller;
// the decrement stands regardless of what happens to the alert.
func (n *Notifier) MaybeNotify(ctx context.Context, ing *models.Ingredient) {
	if ing == nil || ing.LowStockAlertSent {
		return
	}
	if 2*ing.Remaining >= ing.Stock { // remaining < stock * 0.5, integer-safe
		return
	}

	alert := Alert{
		To:             n.to,
		IngredientID:   ing.ID,
		IngredientName: ing.Name,
		Remaining:      ing.Remaining,
		Stock:          ing.Stock,
	}
	if err := n.sink.Send(ctx, alert); err != nil {
		n.log.Error("low stock alert send failed, flag left clear for retry",
			zap.Uint("ingredient_id", ing.ID), zap.Error(err))
		return
	}

	won, err := n.ledger.MarkAlertSent(ctx, ing.ID)
	if err != nil {
		n.log.Error("failed to persist low stock alert flag",
			zap.Uint("ingredient_id", ing.ID), zap.Error(err))
		return
	}
	if !won {
		// A concurrent job beat us between the stale read and the claim; the
		// merchant may see a duplicate alert for this episode.
		n.log.Warn("duplicate low stock alert sent",
			zap.Uint("ingredient_id", ing.ID))
		return
	}

	metrics.LowStockAlertsSent.Inc()
	n.log.Info("low stock alert sent",
		zap.Uint("ingredient_id", ing.ID),
		zap.String("ingredient", ing.Name),
		zap.Int64("remaining", ing.Remaining),
		zap.Int64("stock", ing.Stock))
}
