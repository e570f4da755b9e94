package routes

import (
	"net/http"

	"leadtrack/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all HTTP routes.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api)
		appHandlers.TagHandler.RegisterRoutes(api)
		appHandlers.LeadHandler.RegisterRoutes(api)
	}
}
