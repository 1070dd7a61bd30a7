package router

import (
	"time"

	"adetta/internal/cache"
	"adetta/internal/config"
	"adetta/internal/handler"
	"adetta/internal/infra"
	"adetta/internal/middleware"
	"adetta/internal/repository"
	"adetta/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb may be nil; the query cache then lives in process memory.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	var queryCache cache.Cache
	if rdb != nil {
		queryCache = cache.NewRedis(rdb, ttl)
	} else {
		queryCache = cache.NewMemory(ttl)
	}
	mailer := infra.NewMailer(cfg)

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(cfg)
	productSvc := service.NewProductService(productRepo, queryCache)
	customerSvc := service.NewCustomerService(customerRepo, reportRepo, queryCache)
	statusEngine := service.NewStatusEngine(invoiceRepo, paymentRepo, queryCache)
	generator := service.NewInvoiceGenerator(invoiceRepo)
	stockLedger := service.NewStockLedger(deliveryRepo, productRepo, customerRepo, invoiceRepo, paymentRepo, generator, statusEngine, queryCache)
	paymentLedger := service.NewPaymentLedger(invoiceRepo, paymentRepo, statusEngine, queryCache, cfg.Tolerance())
	invoiceSvc := service.NewInvoiceService(invoiceRepo, paymentRepo, queryCache)
	expenseSvc := service.NewExpenseService(expenseRepo, customerRepo, queryCache)
	reportSvc := service.NewReportService(reportRepo, queryCache)
	documentSvc := service.NewDocumentService(invoiceRepo, paymentRepo, mailer, cfg.BusinessName)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	deliveriesH := handler.NewDeliveriesHandler(stockLedger)
	invoicesH := handler.NewInvoicesHandler(invoiceSvc, statusEngine, paymentLedger, documentSvc)
	expensesH := handler.NewExpensesHandler(expenseSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailer))

	gate := middleware.SessionGate(cfg.SessionSecret, cfg.GateEnabled())

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.GET("/session", gate, authH.Session)
	}

	v1 := r.Group("/v1", gate, middleware.RequireSession())
	{
		products := v1.Group("/products")
		{
			products.GET("", productsH.List)
			products.POST("", productsH.Create)
			products.GET("/:id", productsH.Get)
			products.PUT("/:id", productsH.Update)
		}

		customers := v1.Group("/customers")
		{
			customers.GET("", customersH.List)
			customers.POST("", customersH.Create)
			customers.GET("/:id", customersH.Get)
			customers.PUT("/:id", customersH.Update)
			customers.GET("/:id/summary", customersH.Summary)
		}

		deliveries := v1.Group("/deliveries")
		{
			deliveries.GET("", deliveriesH.ListRecent)
			deliveries.POST("", deliveriesH.Book)
			deliveries.POST("/batch", deliveriesH.BookBatch)
			deliveries.DELETE("/:id", deliveriesH.Delete)
		}

		invoices := v1.Group("/invoices")
		{
			invoices.GET("", invoicesH.List)
			invoices.POST("/recompute", invoicesH.RecomputeAll)
			invoices.GET("/:id", invoicesH.Get)
			invoices.GET("/:id/status", invoicesH.Status)
			invoices.GET("/:id/payments", invoicesH.ListPayments)
			invoices.POST("/:id/payments", invoicesH.RecordPayment)
			invoices.GET("/:id/pdf", invoicesH.PDF)
			invoices.POST("/:id/send", invoicesH.Send)
		}

		expenses := v1.Group("/expenses")
		{
			expenses.GET("", expensesH.List)
			expenses.POST("", expensesH.Create)
			expenses.GET("/summary", expensesH.Summary)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/low-stock", reportsH.LowStock)
			reports.GET("/revenue", reportsH.Revenue)
			reports.GET("/revenue/customers", reportsH.RevenueByCustomer)
		}
	}

	// Swagger UI outside production only
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
