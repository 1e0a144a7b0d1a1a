package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"siparis-backend/internal/auth"
	"siparis-backend/internal/catalog"
	"siparis-backend/internal/config"
	"siparis-backend/internal/database"
	"siparis-backend/internal/logging"
	"siparis-backend/internal/models"
	"siparis-backend/internal/notify"
	"siparis-backend/internal/order"
	"siparis-backend/internal/queue"
	"siparis-backend/internal/recipecache"
	"siparis-backend/internal/reconcile"
	"siparis-backend/internal/seed"
	"siparis-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	seedFixture := flag.Bool("seed", false, "load the demo catalog on startup")
	flag.Parse()

	cfg := config.Load()
	cfg.RequireJWTSecret()

	logger := logging.New("siparis-api")
	defer logger.Sync()

	database.Init(cfg)

	if *seedFixture {
		if err := seed.Run(database.DB); err != nil {
			logger.Fatal("seeding failed", zap.Error(err))
		}
		logger.Info("demo catalog seeded")
	}

	badgerDB, err := recipecache.OpenBadger(cfg.CachePath, false)
	if err != nil {
		logger.Fatal("recipe cache could not be opened", zap.Error(err))
	}
	defer badgerDB.Close()

	source := recipecache.NewGormSource(database.DB)
	cache := recipecache.New(recipecache.NewBadgerStore(badgerDB), source, logger)

	ledger := stock.NewGormLedger(database.DB)
	validator := stock.NewValidator(cache, ledger)

	publisher := queue.NewKafkaPublisher(cfg.KafkaBrokers, cfg.ReconcileTopic)
	defer publisher.Close()

	orderSvc := order.NewService(
		order.NewGormStore(database.DB),
		order.NewGormProductFinder(database.DB),
		validator,
		publisher,
		logger,
	)

	// Reconcile workers run inside the API process so they share the badger
	// instance with the HTTP handlers. A separate cmd/worker deployment needs
	// its own CACHE_PATH.
	alertSink := notify.NewKafkaSink(cfg.KafkaBrokers, cfg.AlertTopic)
	defer alertSink.Close()

	notifier := stock.NewNotifier(ledger, alertSink, cfg.MerchantEmail, logger)
	processor := reconcile.NewProcessor(cache, source, ledger, notifier, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumers := make([]*queue.Consumer, 0, cfg.WorkerCount)
	for i := 0; i < cfg.WorkerCount; i++ {
		consumer := queue.NewConsumer(cfg.KafkaBrokers, cfg.ReconcileTopic, cfg.ConsumerGroup, processor, cfg.WorkerMaxRetries, logger)
		consumers = append(consumers, consumer)
		go func(c *queue.Consumer) {
			if err := c.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("reconcile consumer stopped", zap.Error(err))
			}
		}(consumer)
	}
	defer func() {
		for _, c := range consumers {
			c.Close()
		}
	}()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logger.Error("unexpected handler error", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "unexpected server error",
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Public catalog and ordering
	api.Get("/products", catalog.ListProductsHandler())
	api.Get("/products/:id/recipe", catalog.GetRecipeHandler(cache))
	api.Post("/orders", order.CreateOrderHandler(orderSvc))
	api.Get("/orders/:id", order.GetOrderHandler(orderSvc))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/products", catalog.CreateProductHandler())
	adminRoutes.Get("/ingredients", catalog.ListIngredientsHandler())
	adminRoutes.Post("/ingredients", catalog.CreateIngredientHandler())
	adminRoutes.Put("/ingredients/:id/restock", catalog.RestockIngredientHandler(ledger))
	adminRoutes.Post("/ingredients/import", catalog.ImportIngredientsHandler())
	adminRoutes.Post("/recipes", catalog.CreateRecipeItemHandler(cache))

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("server listening", zap.String("port", cfg.HTTPPort))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
