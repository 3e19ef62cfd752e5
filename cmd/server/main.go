package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	donationapp "github.com/givebridge/backend/internal/application/donation"
	fulfillmentapp "github.com/givebridge/backend/internal/application/fulfillment"
	partnerapp "github.com/givebridge/backend/internal/application/partner"
	settlementapp "github.com/givebridge/backend/internal/application/settlement"
	"github.com/givebridge/backend/internal/domain/shared"
	"github.com/givebridge/backend/internal/infrastructure/bankfeed"
	"github.com/givebridge/backend/internal/infrastructure/cache"
	"github.com/givebridge/backend/internal/infrastructure/catalog"
	"github.com/givebridge/backend/internal/infrastructure/config"
	"github.com/givebridge/backend/internal/infrastructure/event"
	"github.com/givebridge/backend/internal/infrastructure/logger"
	"github.com/givebridge/backend/internal/infrastructure/marketplace"
	"github.com/givebridge/backend/internal/infrastructure/notification"
	"github.com/givebridge/backend/internal/infrastructure/persistence"
	"github.com/givebridge/backend/internal/infrastructure/scheduler"
	"github.com/givebridge/backend/internal/interfaces/http/handler"
	"github.com/givebridge/backend/internal/interfaces/http/middleware"
	"github.com/givebridge/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Givebridge Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	donationRepo := persistence.NewGormDonationRepository(db.DB)
	unmatchedDepositRepo := persistence.NewGormUnmatchedDepositRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	settlementRepo := persistence.NewGormSettlementRepository(db.DB)
	marketplacePaymentRepo := persistence.NewGormMarketplacePaymentRepository(db.DB)
	organizationRepo := persistence.NewGormOrganizationRepository(db.DB)
	txManager := persistence.NewGormTransactionManager(db.DB)

	// Idempotency store dedupes redelivered deposit notifications and repeated
	// settlement batch runs. Redis is shared across instances; fall back to the
	// in-process store when Redis is not reachable.
	var idempotencyStore shared.IdempotencyStore
	redisStore, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	} else {
		idempotencyStore = redisStore
		defer func() {
			if err := redisStore.Close(); err != nil {
				log.Error("Error closing Redis connection", zap.Error(err))
			}
		}()
		log.Info("Redis connected successfully", zap.String("addr", cfg.Redis.Addr()))
	}

	// External service clients
	marketplaceClient, err := marketplace.NewClient(&marketplace.ClientConfig{
		BaseURL:   cfg.Marketplace.BaseURL,
		APIKey:    cfg.Marketplace.APIKey,
		APISecret: cfg.Marketplace.APISecret,
		Timeout:   cfg.Marketplace.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to initialize marketplace client", zap.Error(err))
	}

	catalogClient, err := catalog.NewClient(&catalog.ClientConfig{
		BaseURL: cfg.Catalog.BaseURL,
		Timeout: cfg.Catalog.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to initialize catalog client", zap.Error(err))
	}

	notifier := notification.NewHTTPNotifier(notification.ClientConfig{
		BaseURL: cfg.Notification.BaseURL,
		APIKey:  cfg.Notification.APIKey,
		Timeout: cfg.Notification.Timeout,
	}, log)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Initialize application services
	donationService := donationapp.NewService(donationRepo)
	donationService.SetEventPublisher(eventBus)

	depositMatcher := donationapp.NewDepositMatcher(donationRepo, unmatchedDepositRepo, nil, idempotencyStore, log)
	depositMatcher.SetEventPublisher(eventBus)

	depositIntake := donationapp.NewDepositIntake(
		cfg.BankFeed.WebhookSecret, organizationRepo, unmatchedDepositRepo, eventBus, log)

	orderService := fulfillmentapp.NewOrderService(
		orderRepo, donationService, donationRepo, marketplaceClient, catalogClient)
	orderService.SetEventPublisher(eventBus)

	shippingTracker := fulfillmentapp.NewShippingTracker(
		orderRepo, donationService, marketplaceClient, notifier, log)
	shippingTracker.SetScanLimit(cfg.Tracker.ScanLimit)

	paymentLedger := settlementapp.NewPaymentLedger(
		marketplacePaymentRepo, cfg.Settlement.PaymentTermsDays, log)

	batchService := settlementapp.NewBatchService(
		donationRepo, settlementRepo, organizationRepo, txManager, idempotencyStore, log)
	batchService.SetEventPublisher(eventBus)

	completionService := settlementapp.NewCompletionService(
		settlementRepo, donationRepo, orderRepo, paymentLedger, txManager, log)
	completionService.SetEventPublisher(eventBus)

	organizationService := partnerapp.NewOrganizationService(organizationRepo)

	// Register event handlers for cross-context integration
	// Bank deposit received -> match and confirm the pending donation
	eventBus.Subscribe(depositMatcher)
	// Marketplace order accepted -> open a scheduled payment record
	eventBus.Subscribe(paymentLedger)

	log.Info("Event handlers registered",
		zap.Strings("deposit_matcher_events", depositMatcher.EventTypes()),
		zap.Strings("payment_ledger_events", paymentLedger.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Deposit feed poller (backstop for missed webhook deliveries)
	if cfg.BankFeed.BaseURL != "" {
		feedClient, err := bankfeed.NewClient(&bankfeed.ClientConfig{
			BaseURL: cfg.BankFeed.BaseURL,
			APIKey:  cfg.BankFeed.APIKey,
			Timeout: cfg.BankFeed.Timeout,
		})
		if err != nil {
			log.Fatal("Failed to initialize bank feed client", zap.Error(err))
		}

		poller := bankfeed.NewPoller(bankfeed.PollerConfig{
			Interval: cfg.BankFeed.PollInterval,
		}, feedClient, organizationRepo, eventBus, log)
		if err := poller.Start(context.Background()); err != nil {
			log.Fatal("Failed to start deposit feed poller", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := poller.Stop(ctx); err != nil {
				log.Error("Error stopping deposit feed poller", zap.Error(err))
			}
		}()
	} else {
		log.Info("Bank feed polling disabled, relying on deposit webhook only")
	}

	// Scheduled jobs
	if cfg.Tracker.Enabled {
		trackerTrigger := scheduler.NewShippingTrackerTrigger(cfg.Tracker.PollInterval, shippingTracker, log)
		if err := trackerTrigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start shipping tracker", zap.Error(err))
		}
		defer func() {
			if err := trackerTrigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping shipping tracker", zap.Error(err))
			}
		}()
		log.Info("Shipping tracker started", zap.Duration("interval", cfg.Tracker.PollInterval))
	}

	if cfg.Settlement.WeeklyEnabled {
		weeklyTrigger := scheduler.NewWeeklySettlementTrigger(cfg.Settlement.WeeklySchedule, batchService, log)
		if err := weeklyTrigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start weekly settlement trigger", zap.Error(err))
		}
		defer func() {
			if err := weeklyTrigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping weekly settlement trigger", zap.Error(err))
			}
		}()
		log.Info("Weekly settlement trigger started", zap.Duration("interval", cfg.Settlement.WeeklySchedule))
	}

	if cfg.Settlement.MonthlyEnabled {
		monthlyTrigger := scheduler.NewMonthlySettlementTrigger(cfg.Settlement.MonthlySchedule, batchService, log)
		if err := monthlyTrigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start monthly settlement trigger", zap.Error(err))
		}
		defer func() {
			if err := monthlyTrigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping monthly settlement trigger", zap.Error(err))
			}
		}()
		log.Info("Monthly settlement trigger started", zap.Duration("interval", cfg.Settlement.MonthlySchedule))
	}

	// Initialize HTTP handlers
	donationHandler := handler.NewDonationHandler(donationService)
	orderHandler := handler.NewOrderHandler(orderService, paymentLedger)
	settlementHandler := handler.NewSettlementHandler(batchService, completionService, paymentLedger)
	organizationHandler := handler.NewOrganizationHandler(organizationService)
	depositHandler := handler.NewDepositHandler(depositIntake)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoints (outside API versioning). /health reports process
	// liveness, /ready gates on the database connection.
	engine.GET("/health", healthHandler())
	engine.GET("/ready", readyHandler(db))

	// Deposit webhook endpoint. Called by the bank and authenticated by
	// payload signature, so it lives outside the versioned router.
	engine.POST("/api/v1/deposits", depositHandler.HandleWebhook)

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	donationRoutes := router.NewDomainGroup("donations", "/donations")
	donationRoutes.POST("", donationHandler.Create)
	donationRoutes.GET("", donationHandler.List)
	donationRoutes.GET("/:id", donationHandler.GetByID)
	donationRoutes.POST("/:id/confirm-payment", donationHandler.ConfirmPayment)
	donationRoutes.POST("/:id/transition", donationHandler.Transition)
	donationRoutes.POST("/:id/cancel", donationHandler.Cancel)

	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.POST("", orderHandler.Create)
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/:id", orderHandler.GetByID)
	orderRoutes.POST("/:id/place", orderHandler.Place)
	orderRoutes.POST("/:id/cancel", orderHandler.Cancel)
	orderRoutes.GET("/:id/payment", orderHandler.GetPayment)

	settlementRoutes := router.NewDomainGroup("settlements", "/settlements")
	settlementRoutes.POST("", settlementHandler.Create)
	settlementRoutes.GET("", settlementHandler.List)
	settlementRoutes.GET("/payments", settlementHandler.ListPayments)
	settlementRoutes.GET("/:id", settlementHandler.GetByID)
	settlementRoutes.POST("/:id/complete", settlementHandler.Complete)
	settlementRoutes.POST("/run/weekly", settlementHandler.RunWeekly)
	settlementRoutes.POST("/run/monthly", settlementHandler.RunMonthly)

	organizationRoutes := router.NewDomainGroup("organizations", "/organizations")
	organizationRoutes.POST("", organizationHandler.Create)
	organizationRoutes.GET("", organizationHandler.List)
	organizationRoutes.GET("/:id", organizationHandler.GetByID)
	organizationRoutes.PUT("/:id/account", organizationHandler.AssignAccount)
	organizationRoutes.PUT("/:id/cycle", organizationHandler.ChangeCycle)
	organizationRoutes.POST("/:id/activate", organizationHandler.Activate)
	organizationRoutes.POST("/:id/deactivate", organizationHandler.Deactivate)

	// Unmatched deposit reconciliation (operations team)
	depositRoutes := router.NewDomainGroup("deposits", "/deposits")
	depositRoutes.GET("/unmatched", depositHandler.ListUnmatched)
	depositRoutes.POST("/unmatched/:transaction_id/resolve", depositHandler.ResolveUnmatched)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(donationRoutes).
		Register(orderRoutes).
		Register(settlementRoutes).
		Register(organizationRoutes).
		Register(depositRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

func readyHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Warn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "not ready",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "ready",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
