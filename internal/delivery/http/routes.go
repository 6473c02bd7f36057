package http

import (
	"github.com/budgettracker/backend/config"
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	switch cfg.Server.Environment {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		v1.POST("/extract", handler.ExtractProductInfo)
		v1.GET("/totals", handler.GetTotals)

		purchases := v1.Group("/purchases")
		{
			purchases.GET("", handler.ListPurchases)
			purchases.POST("", handler.CreatePurchase)
			purchases.GET("/:id", handler.GetPurchase)
			purchases.PUT("/:id", handler.UpdatePurchase)
			purchases.DELETE("/:id", handler.DeletePurchase)
		}
	}

	return router
}
