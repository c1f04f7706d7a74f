package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/server/handlers"
)

// Handlers groups the HTTP adapters the router mounts. Webhook is optional.
type Handlers struct {
	Inventory *handlers.InventoryHandler
	Sales     *handlers.SalesHandler
	Reports   *handlers.ReportHandler
	Webhook   *handlers.WebhookHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, allowedOrigins []string, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/items", h.Inventory.List)
		api.GET("/items/sellable", h.Inventory.Sellable)
		api.GET("/items/:id", h.Inventory.Get)
		api.POST("/items", h.Inventory.Create)
		api.PUT("/items/:id", h.Inventory.Update)
		api.DELETE("/items/:id", h.Inventory.Delete)
		api.PUT("/items/:id/stock", h.Inventory.AdjustStock)

		api.POST("/sales", h.Sales.Record)
		api.GET("/sales", h.Sales.ListByDate)
		api.POST("/reset", h.Sales.Reset)

		api.GET("/reports/daily", h.Reports.Daily)
		api.GET("/reports/daily/export", h.Reports.Export)
		api.POST("/reports/close", h.Reports.Close)
		api.GET("/dashboard", h.Reports.Dashboard)
	}

	if h.Webhook != nil {
		r.GET("/webhook", h.Webhook.Verify)
		r.POST("/webhook", h.Webhook.Receive)
		r.POST("/send-message", h.Webhook.SendMessage)
	}

	logger.Info("router initialized", zap.Bool("webhook", h.Webhook != nil))

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
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
