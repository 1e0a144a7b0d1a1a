package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders accepted and persisted.",
	})

	OrdersRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_rejected_total",
		Help: "Order requests rejected by validation.",
	})

	ReconcileJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reconcile_jobs_total",
		Help: "Reconciliation jobs by terminal result.",
	}, []string{"result"}) // ok, failed, skipped

	RecipeCacheFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recipe_cache_fallbacks_total",
		Help: "Recipe lookups answered by the authoritative store instead of the cache.",
	})

	LowStockAlertsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "low_stock_alerts_sent_total",
		Help: "Low-stock alerts accepted by the notification sink.",
	})
)
