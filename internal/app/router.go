package app

import (
	"brainbee_backend/internal/config"
	"brainbee_backend/internal/middleware"
	"brainbee_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	a.registerSwagger(router)
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. Browser client surface (bare JSON, session cookie)
	a.registerQuizRoutes(router, c, cfg)

	// 2. Diagnostic / analytics API
	a.registerAPIRoutes(router, c)
}

func (a *App) registerQuizRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	quiz := router.Group("/")
	quiz.Use(middleware.SessionMiddleware(cfg))
	{
		quiz.GET("/", c.quiz.Index)
		quiz.POST("/new_question", c.quiz.NewQuestion)
		quiz.POST("/update", c.quiz.SubmitAnswer)
		quiz.GET("/review_history", c.quiz.ReviewHistory)

		quiz.GET("/storage_status", c.storage.StorageStatus)
		quiz.POST("/cleanup", c.storage.Cleanup)
	}
}

func (a *App) registerAPIRoutes(router *gin.Engine, c *controllers) {
	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)
		api.GET("/categories", c.analytics.GetCategories)
		api.GET("/analytics", c.analytics.GetAnalytics)
		api.GET("/analytics/category/:category", c.analytics.GetCategoryPerformance)
	}
}
