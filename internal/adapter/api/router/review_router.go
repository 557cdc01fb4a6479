package router

import (
	"github.com/labstack/echo/v4"

	"eventhub/internal/adapter/api/handler"
	"eventhub/internal/adapter/api/middleware"
	"eventhub/internal/domain/entity"
	"eventhub/internal/infrastructure/cache"
)

// SetupReviewRouter initializes review routes. Writes change service ratings,
// so they drop cached catalog responses.
func SetupReviewRouter(e *echo.Echo, reviewHandler *handler.ReviewHandler, authMiddleware *middleware.AuthMiddleware, store cache.Store) {
	reviews := e.Group("/api/reviews")

	// Public routes
	reviews.GET("", reviewHandler.ListReviews)

	// Protected routes
	protected := reviews.Group("", authMiddleware.Authenticate, middleware.InvalidateCache(store, servicesPath))
	protected.POST("", reviewHandler.CreateReview, middleware.RequireRole(entity.RoleCustomer))
	protected.PUT("/:id", reviewHandler.UpdateReview)
	protected.DELETE("/:id", reviewHandler.DeleteReview)
	protected.PUT("/:id/reply", reviewHandler.ReplyToReview, middleware.RequireRole(entity.RoleServiceProvider))
}
