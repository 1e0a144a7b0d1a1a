package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"siparis-backend/internal/config"
	"siparis-backend/internal/database"
	"siparis-backend/internal/logging"
	"siparis-backend/internal/notify"
	"siparis-backend/internal/queue"
	"siparis-backend/internal/recipecache"
	"siparis-backend/internal/reconcile"
	"siparis-backend/internal/stock"

	"go.uber.org/zap"
)

// Standalone reconcile worker. Runs the same processor as the embedded
// workers in cmd/server but owns its badger directory, so point CACHE_PATH
// somewhere the API process is not using.
func main() {
	cfg := config.Load()

	logger := logging.New("siparis-worker")
	defer logger.Sync()

	database.Init(cfg)

	badgerDB, err := recipecache.OpenBadger(cfg.CachePath, false)
	if err != nil {
		logger.Fatal("recipe cache could not be opened", zap.Error(err))
	}
	defer badgerDB.Close()

	source := recipecache.NewGormSource(database.DB)
	cache := recipecache.New(recipecache.NewBadgerStore(badgerDB), source, logger)

	ledger := stock.NewGormLedger(database.DB)

	alertSink := notify.NewKafkaSink(cfg.KafkaBrokers, cfg.AlertTopic)
	defer alertSink.Close()

	notifier := stock.NewNotifier(ledger, alertSink, cfg.MerchantEmail, logger)
	processor := reconcile.NewProcessor(cache, source, ledger, notifier, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	for i := 0; i < cfg.WorkerCount; i++ {
		consumer := queue.NewConsumer(cfg.KafkaBrokers, cfg.ReconcileTopic, cfg.ConsumerGroup, processor, cfg.WorkerMaxRetries, logger)
		wg.Add(1)
		go func(c *queue.Consumer) {
			defer wg.Done()
			defer c.Close()
			if err := c.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("reconcile consumer stopped", zap.Error(err))
			}
		}(consumer)
	}

	logger.Info("worker running",
		zap.Int("consumers", cfg.WorkerCount),
		zap.String("topic", cfg.ReconcileTopic),
		zap.String("group", cfg.ConsumerGroup))

	<-ctx.Done()
	logger.Info("shutting down")
	wg.Wait()
}
