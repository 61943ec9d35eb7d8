package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/davuth/shopledger/internal/server/handlers"
	"github.com/davuth/shopledger/pkg/metrics"
)

// Handlers groups the HTTP adapters the router mounts.
type Handlers struct {
	Products     *handlers.ProductHandler
	Clients      *handlers.ClientHandler
	Vendors      *handlers.VendorHandler
	Transactions *handlers.TransactionHandler
	Reports      *handlers.ReportHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(metrics.Middleware())

	api := r.Group("/api")
	{
		api.GET("/products", h.Products.List)
		api.POST("/products", h.Products.Create)
		api.PUT("/products/:id", h.Products.Update)
		api.DELETE("/products/:id", h.Products.Delete)

		api.GET("/clients", h.Clients.List)
		api.POST("/clients", h.Clients.Create)
		api.PUT("/clients/:id", h.Clients.Update)
		api.DELETE("/clients/:id", h.Clients.Delete)

		api.GET("/vendors", h.Vendors.List)
		api.POST("/vendors", h.Vendors.Create)
		api.PUT("/vendors/:id", h.Vendors.Update)
		api.DELETE("/vendors/:id", h.Vendors.Delete)

		api.GET("/transactions", h.Transactions.List)
		api.POST("/transactions", h.Transactions.Create)
		api.GET("/transactions/export", h.Transactions.Export)
		api.PUT("/transactions/:id", h.Transactions.Update)
		api.DELETE("/transactions/:id", h.Transactions.Delete)

		api.GET("/dashboard", h.Reports.Dashboard)
		api.GET("/reports/profit-loss", h.Reports.ProfitLoss)
		api.GET("/activities", h.Reports.Activities)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
