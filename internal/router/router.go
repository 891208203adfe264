package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lanwatch-dev/lanwatch/internal/handlers"
	"github.com/lanwatch-dev/lanwatch/internal/middleware"
	"github.com/lanwatch-dev/lanwatch/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.POST("/auth/login", handlers.Login)
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocket)

		protected := api.Group("", middleware.AuthMiddleware())
		{
			protected.GET("/status", handlers.GetStatus)
			protected.GET("/incidents", handlers.GetIncidents)
			protected.GET("/analytics/summary", handlers.GetAnalyticsSummary)
			protected.GET("/analytics/hours", handlers.GetProblematicHours)
			protected.GET("/recommendations", handlers.GetRecommendations)
		}
	}

	return r
}
