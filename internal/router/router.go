package router

import (
	"github.com/gin-gonic/gin"

	"github.com/platefile/backend/internal/api"
	"github.com/platefile/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	extractHandler *api.ExtractHandler,
	recipeHandler *api.RecipeHandler,
	shoppingHandler *api.ShoppingListHandler,
	limiter *middleware.RateLimiter,
	corsOrigins []string,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS(corsOrigins))
	router.Use(middleware.ErrorHandler())

	// API v1 routes
	v1 := router.Group("/api/v1")

	// All routes require a resolved user identity; the gateway in front of
	// this service handles authentication.
	protected := v1.Group("")
	protected.Use(middleware.Identity())
	{
		extractHandler.RegisterRoutes(protected, limiter)
		recipeHandler.RegisterRoutes(protected)
		shoppingHandler.RegisterRoutes(protected)
	}

	return router
}
