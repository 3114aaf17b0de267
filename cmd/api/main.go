package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	bolt "github.com/boltdb/bolt"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/supplier-intel-api/internal/application/service"
	"github.com/sangkips/supplier-intel-api/internal/config"
	domainRepo "github.com/sangkips/supplier-intel-api/internal/domain/repository"
	"github.com/sangkips/supplier-intel-api/internal/infrastructure/cache"
	"github.com/sangkips/supplier-intel-api/internal/infrastructure/database"
	"github.com/sangkips/supplier-intel-api/internal/infrastructure/repository"
	"github.com/sangkips/supplier-intel-api/internal/presentation/http/handler"
	"github.com/sangkips/supplier-intel-api/internal/presentation/http/routes"
	"github.com/sangkips/supplier-intel-api/pkg/callback"
	"github.com/sangkips/supplier-intel-api/pkg/logger"
	"github.com/sangkips/supplier-intel-api/pkg/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/gorm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg := config.Load()
	logger.Init(cfg.App.Debug)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		fatal("Failed to initialize tracing", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Warn("tracer shutdown failed", "error", err)
		}
	}()

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		fatal("Failed to connect to database", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		fatal("Failed to run migrations", err)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	idempotencyRepo, closeStore, err := newIdempotencyRepository(ctx, cfg, db)
	if err != nil {
		fatal("Failed to initialize idempotency store", err)
	}
	defer closeStore()

	// Initialize services
	idempotencyService := service.NewIdempotencyService(idempotencyRepo)
	productService := service.NewProductService(productRepo)
	workflowService := service.NewWorkflowService(callback.NewClient(callback.ClientConfig{
		Timeout: cfg.Workflow.CallbackTimeout,
	}))
	webhookService := service.NewWebhookService(idempotencyService)

	if cfg.Idempotency.SweepEnabled() {
		sweeper := service.NewIdempotencySweeper(idempotencyRepo, cfg.Idempotency.TTL, cfg.Idempotency.SweepInterval)
		go sweeper.Run(ctx)
	}

	// Initialize handlers
	handlers := &routes.Handlers{
		Health:      handler.NewHealthHandler(idempotencyService),
		Product:     handler.NewProductHandler(productService, idempotencyService),
		Workflow:    handler.NewWorkflowHandler(workflowService, idempotencyService),
		Webhook:     handler.NewWebhookHandler(webhookService),
		Idempotency: handler.NewIdempotencyHandler(idempotencyService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{Cfg: cfg, Ctx: ctx})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           otelhttp.NewHandler(router, cfg.Telemetry.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("starting server", "name", cfg.App.Name, "port", port, "env", cfg.App.Env,
			"idempotency_backend", cfg.Idempotency.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("Failed to start server", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
}

// newIdempotencyRepository builds the configured idempotency backend,
// optionally fronted by the redis replay cache
func newIdempotencyRepository(ctx context.Context, cfg *config.Config, db *gorm.DB) (domainRepo.IdempotencyRepository, func(), error) {
	var (
		repo    domainRepo.IdempotencyRepository
		closers []func()
	)

	switch cfg.Idempotency.Backend {
	case config.IdempotencyBackendBolt:
		boltDB, err := database.NewBoltDB(cfg.Idempotency.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { closeBolt(boltDB) })
		repo = repository.NewBoltIdempotencyRepository(boltDB)
	default:
		repo = repository.NewIdempotencyRepository(db)
	}

	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, idempotency cache disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			closers = append(closers, func() { client.Close() })
			repo = repository.NewCachedIdempotencyRepository(repo, client, cfg.Idempotency.CacheTTL)
		}
	}

	return repo, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}, nil
}

func closeBolt(db *bolt.DB) {
	if err := db.Close(); err != nil {
		slog.Warn("failed to close bolt database", "error", err)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
