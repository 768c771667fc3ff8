// Package v1 provides HTTP API version 1.
package v1

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"caixa/internal/core/entity"
	"caixa/internal/core/id"
	"caixa/internal/core/numerator"
	"caixa/internal/domain"
	"caixa/internal/domain/auth"
	"caixa/internal/domain/catalog/customer"
	"caixa/internal/domain/catalog/product"
	"caixa/internal/domain/dashboard"
	"caixa/internal/domain/finance"
	"caixa/internal/domain/promotion"
	"caixa/internal/domain/sales"
	"caixa/internal/domain/stock"
	"caixa/internal/infrastructure/http/v1/handlers"
	"caixa/internal/infrastructure/http/v1/middleware"
	"caixa/internal/infrastructure/storage/postgres"
	"caixa/internal/infrastructure/storage/postgres/catalog_repo"
	"caixa/internal/infrastructure/storage/postgres/document_repo"
	"caixa/internal/infrastructure/storage/postgres/register_repo"
	"caixa/internal/infrastructure/storage/postgres/report_repo"
	"caixa/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// TxManager runs queries and transactions
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// Numerator for document number generation
	Numerator numerator.Generator

	// Promotions evaluates discount rules at quote time (may be nil)
	Promotions *promotion.Engine

	// Audit records entity changes (may be nil)
	Audit *postgres.AuditService

	// Events publishes sale events via the transactional outbox (may be nil)
	Events sales.EventPublisher

	// IdempotencyEnabled enables idempotency middleware
	IdempotencyEnabled bool

	// IdempotencyTTL is how long completed keys replay
	IdempotencyTTL time.Duration
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		// Protected endpoints
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		// Apply idempotency middleware for mutating operations
		if cfg.IdempotencyEnabled {
			ttl := cfg.IdempotencyTTL
			if ttl == 0 {
				ttl = 10 * time.Minute
			}
			store := postgres.NewIdempotencyStore(cfg.Pool, cfg.TxManager, ttl)
			protected.Use(middleware.Idempotency(store))
		}

		registerCatalogRoutes(protected, cfg)
		registerSaleRoutes(protected, cfg)
		registerStockRoutes(protected, cfg)
		registerDashboardRoutes(protected, cfg)
		registerBillRoutes(protected, cfg)
		registerUserRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	// Public auth endpoints (no JWT required)
	public := rg.Group("/auth")
	public.POST("/login", authHandler.Login)
	public.POST("/refresh", authHandler.Refresh)

	// Protected auth endpoints (JWT required)
	protected := rg.Group("/auth")
	protected.Use(middleware.Auth(cfg.JWTValidator))
	protected.POST("/logout", authHandler.Logout)
	protected.GET("/me", authHandler.Me)
}

// registerCatalogRoutes registers product and customer endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// --- PRODUCTS ---
	{
		repo := catalog_repo.NewProductRepo(cfg.TxManager)
		service := product.NewService(repo, cfg.TxManager, cfg.Numerator)
		registerCatalogAudit(cfg, service.Hooks(), "product",
			func(p *product.Product) auditRef {
				return auditRef{ID: p.ID, Changes: map[string]any{"code": p.Code, "name": p.Name}}
			})
		handler := handlers.NewProductHandler(baseHandler, service)

		group := catalogs.Group("/products")
		group.GET("/barcode/:barcode", handler.GetByBarcode)
		group.GET("/low-stock", handler.ListLowStock)
		RegisterCatalogRoutes(group, handler)
	}

	// --- CUSTOMERS ---
	{
		repo := catalog_repo.NewCustomerRepo(cfg.TxManager)
		service := customer.NewService(repo, cfg.TxManager, cfg.Numerator)
		registerCatalogAudit(cfg, service.Hooks(), "customer",
			func(c *customer.Customer) auditRef {
				return auditRef{ID: c.ID, Changes: map[string]any{"code": c.Code, "name": c.Name}}
			})
		handler := handlers.NewCustomerHandler(baseHandler, service)

		group := catalogs.Group("/customers")
		group.GET("/document/:document", handler.GetByDocument)
		RegisterCatalogRoutes(group, handler)
	}
}

// registerSaleRoutes registers checkout and sale endpoints.
func registerSaleRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	productService := product.NewService(productRepo, cfg.TxManager, cfg.Numerator)

	saleRepo := document_repo.NewSaleRepo(cfg.TxManager)
	stockRepo := register_repo.NewStockRepo(cfg.TxManager)

	coordinator := sales.NewCoordinator(saleRepo, productRepo, stockRepo, cfg.Events, cfg.TxManager, cfg.Numerator)
	saleService := sales.NewService(saleRepo, productRepo, stockRepo, cfg.Events, cfg.TxManager)

	handler := handlers.NewSaleHandler(baseHandler, coordinator, saleService, productService, cfg.Promotions, cfg.Audit)

	group := rg.Group("/sales")
	group.POST("/quote", handler.Quote)
	group.POST("/checkout", handler.Checkout)
	group.GET("", handler.List)
	group.GET("/:id", handler.Get)
	group.GET("/number/:number", handler.GetByNumber)
	group.POST("/:id/cancel", middleware.RequireAdmin(), handler.Cancel)
}

// registerStockRoutes registers stock movement endpoints.
func registerStockRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	stockRepo := register_repo.NewStockRepo(cfg.TxManager)
	service := stock.NewService(stockRepo, productRepo, cfg.TxManager, cfg.Numerator)

	handler := handlers.NewStockHandler(baseHandler, service, cfg.Audit)

	group := rg.Group("/stock/movements")
	group.GET("", handler.List)
	group.GET("/:productId", handler.GetHistory)
	group.POST("", middleware.RequireAdmin(), handler.RecordMovement)
}

// registerDashboardRoutes registers dashboard endpoints.
func registerDashboardRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	repo := report_repo.NewDashboardRepo(cfg.TxManager)
	service := dashboard.NewService(repo)
	handler := handlers.NewDashboardHandler(baseHandler, service)

	group := rg.Group("/dashboard")
	group.GET("", handler.GetOverview)
	group.GET("/summary", handler.GetSummary)
}

// registerBillRoutes registers payable/receivable endpoints (admin only).
func registerBillRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	repo := document_repo.NewBillRepo(cfg.TxManager)
	service := finance.NewService(repo, cfg.TxManager, cfg.Numerator)
	handler := handlers.NewFinanceHandler(baseHandler, service)

	group := rg.Group("/bills")
	group.Use(middleware.RequireAdmin())
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.POST("/:id/payments", handler.RecordPayment)
	group.POST("/:id/void", handler.Void)
}

// registerUserRoutes registers user management endpoints (admin only).
func registerUserRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	group := rg.Group("/users")
	group.Use(middleware.RequireAdmin())
	group.POST("", authHandler.Register)
	group.GET("", authHandler.ListUsers)
	group.GET("/:id", authHandler.GetUser)
	group.POST("/:id/role", authHandler.SetRole)
	group.POST("/:id/active", authHandler.SetActive)
}

// auditRef carries what a catalog audit hook records.
type auditRef struct {
	ID      id.ID
	Changes map[string]any
}

// registerCatalogAudit attaches audit hooks to a catalog service.
// Hook failures are logged by the service, never surfaced to the caller.
func registerCatalogAudit[T entity.Validatable](
	cfg RouterConfig,
	hooks *domain.HookRegistry[T],
	entityType string,
	ref func(T) auditRef,
) {
	if cfg.Audit == nil {
		return
	}

	log := func(action postgres.AuditAction) func(ctx context.Context, entity T) error {
		return func(ctx context.Context, entity T) error {
			r := ref(entity)
			return cfg.Audit.LogChange(ctx, entityType, r.ID, action, r.Changes)
		}
	}

	hooks.OnAfterCreate(log(postgres.AuditActionCreate))
	hooks.OnAfterUpdate(log(postgres.AuditActionUpdate))
	hooks.OnAfterDelete(log(postgres.AuditActionDelete))
}
