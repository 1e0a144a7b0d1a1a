package queue

// ReconcileJob is the payload queued once per order line. LineID is the order
// line's idempotency key; redelivered jobs carry the same LineID so the
// ledger can recognize decrements it already applied.
type ReconcileJob struct {
	LineID    string `json:"line_id"`
	OrderID   uint   `json:"order_id"`
	ProductID uint   `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}
