package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/billing/backend/internal/application/billing"
	cashierapp "github.com/billing/backend/internal/application/cashier"
	catalogapp "github.com/billing/backend/internal/application/catalog"
	"github.com/billing/backend/internal/application/gateway"
	inventoryapp "github.com/billing/backend/internal/application/inventory"
	"github.com/billing/backend/internal/domain/catalog"
	"github.com/billing/backend/internal/infrastructure/config"
	"github.com/billing/backend/internal/infrastructure/logger"
	"github.com/billing/backend/internal/infrastructure/persistence"
	"github.com/billing/backend/internal/infrastructure/replication"
	"github.com/billing/backend/internal/interfaces/http/handler"
	"github.com/billing/backend/internal/interfaces/http/middleware"
	"github.com/billing/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting billing backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with GORM logging through zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database ready", zap.String("driver", cfg.Database.Driver))

	// Remote replication is optional. Without Redis the services keep
	// working against local storage alone.
	var replicator gateway.RecordReplicator = gateway.NoopReplicator{}
	if cfg.Redis.Enabled {
		redisReplicator, err := replication.NewRedisReplicator(&cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, continuing without remote replication", zap.Error(err))
		} else {
			defer func() {
				if err := redisReplicator.Close(); err != nil {
					log.Error("Error closing redis client", zap.Error(err))
				}
			}()
			replicator = redisReplicator
			log.Info("Remote replication enabled", zap.String("addr", cfg.Redis.Addr()))
		}
	}

	// Repositories
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	sessionRepo := persistence.NewGormCashSessionRepository(db.DB)
	movementRepo := persistence.NewGormCashMovementRepository(db.DB)

	// Application services
	stockSyncService := inventoryapp.NewStockSyncService(productRepo, catalog.DefaultMatcherChain(), log)
	documentService := billingapp.NewDocumentService(
		documentRepo,
		stockSyncService,
		log,
		billingapp.WithPaymentTolerance(cfg.Ledger.PaymentTolerance),
		billingapp.WithReplicator(replicator),
	)
	productService := catalogapp.NewProductService(
		productRepo,
		log,
		catalogapp.WithReplicator(replicator),
	)
	sessionService := cashierapp.NewSessionService(
		sessionRepo,
		movementRepo,
		documentRepo,
		log,
		cashierapp.WithCashMethods(cfg.Ledger.CashMethods),
		cashierapp.WithReplicator(replicator),
	)

	// Handlers
	documentHandler := handler.NewDocumentHandler(documentService)
	productHandler := handler.NewProductHandler(productService)
	cashierHandler := handler.NewCashierHandler(sessionService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r := router.NewRouter(engine)
	r.Register(documentHandler)
	r.Register(productHandler)
	r.Register(cashierHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

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
