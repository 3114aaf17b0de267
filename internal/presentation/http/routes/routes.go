package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/supplier-intel-api/internal/config"
	"github.com/sangkips/supplier-intel-api/internal/presentation/http/handler"
	"github.com/sangkips/supplier-intel-api/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health      *handler.HealthHandler
	Product     *handler.ProductHandler
	Workflow    *handler.WorkflowHandler
	Webhook     *handler.WebhookHandler
	Idempotency *handler.IdempotencyHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg *config.Config
	// Ctx bounds background goroutines started by middleware
	Ctx context.Context
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	handler.RegisterValidatorTagNames()

	ctx := deps.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		if deps.Cfg.RateLimit.Requests > 0 && deps.Cfg.RateLimit.Duration > 0 {
			rateLimiter := middleware.NewClientRateLimiter(ctx, middleware.RateLimiterConfig{
				RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
				BurstSize:         deps.Cfg.RateLimit.Requests,
				CleanupInterval:   5 * time.Minute,
				EntryTTL:          10 * time.Minute,
			})
			v1.Use(rateLimiter.Middleware())
		}
		v1.Use(middleware.BodyLimitMiddleware(deps.Cfg.App.MaxPayloadBytes))

		registerProductRoutes(v1, h)
		registerWorkflowRoutes(v1, h, deps)
		registerWebhookRoutes(v1, h)
		registerIdempotencyRoutes(v1, h, deps)
	}

	return router
}

func registerProductRoutes(v1 *gin.RouterGroup, h *Handlers) {
	products := v1.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("/upsert", middleware.IdempotencyKey(), h.Product.Upsert)
		products.GET("/:id", h.Product.Get)
	}
}

func registerWorkflowRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	workflows := v1.Group("/workflows")
	workflows.Use(middleware.TokenAuthMiddleware(deps.Cfg.Workflow.AuthToken))
	{
		workflows.POST("/run", middleware.IdempotencyKey(), h.Workflow.Run)
	}
}

func registerWebhookRoutes(v1 *gin.RouterGroup, h *Handlers) {
	webhooks := v1.Group("/webhooks")
	{
		webhooks.POST("/make", middleware.IdempotencyKey(), h.Webhook.Ingest)
	}
}

func registerIdempotencyRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	keys := v1.Group("/idempotency-keys")
	keys.Use(middleware.TokenAuthMiddleware(deps.Cfg.Workflow.AuthToken))
	{
		keys.GET("/:key", h.Idempotency.Get)
	}
}
