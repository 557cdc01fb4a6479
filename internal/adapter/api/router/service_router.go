package router

import (
	"time"

	"github.com/labstack/echo/v4"

	"eventhub/internal/adapter/api/handler"
	"eventhub/internal/adapter/api/middleware"
	"eventhub/internal/domain/entity"
	"eventhub/internal/infrastructure/cache"
)

const servicesPath = "/api/services"

func SetupServiceRouter(e *echo.Echo, serviceHandler *handler.ServiceHandler, authMiddleware *middleware.AuthMiddleware, store cache.Store, ttl time.Duration) {
	services := e.Group(servicesPath)

	// Public routes
	cached := middleware.ResponseCache(store, ttl)
	services.GET("", serviceHandler.ListServices, cached)
	services.GET("/:id", serviceHandler.GetService, cached)
	services.GET("/:id/reviews", serviceHandler.ListServiceReviews, cached)

	// Protected routes
	protected := services.Group("", authMiddleware.Authenticate, middleware.InvalidateCache(store, servicesPath))
	protected.POST("", serviceHandler.CreateService, middleware.RequireRole(entity.RoleServiceProvider))
	protected.PUT("/:id", serviceHandler.UpdateService)
	protected.DELETE("/:id", serviceHandler.DeleteService)
	protected.POST("/:id/images", serviceHandler.UploadImage)
	protected.DELETE("/:id/images", serviceHandler.RemoveImage)
}
