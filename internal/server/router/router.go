package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.InventoryHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	items := r.Group("/items")
	items.GET("", handler.ListItems)
	items.POST("", handler.UpsertItem)
	items.GET("/:id", handler.GetItem)
	items.POST("/:id/sell", handler.SellItem)
	items.DELETE("/:id", handler.DeleteItem)

	reports := r.Group("/reports")
	reports.GET("/totals", handler.Totals)
	reports.GET("/extremes", handler.Extremes)
	reports.GET("/categories", handler.Categories)
	reports.GET("/low-stock", handler.LowStock)

	r.POST("/backup", handler.Backup)
	r.POST("/save", handler.Save)
	r.POST("/commands", handler.Command)

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
