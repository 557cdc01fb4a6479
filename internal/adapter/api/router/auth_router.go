package router

import (
	"github.com/labstack/echo/v4"

	"eventhub/internal/adapter/api/handler"
	"eventhub/internal/adapter/api/middleware"
)

// SetupAuthRouter initializes auth routes. Register and login are throttled
// per client IP.
func SetupAuthRouter(e *echo.Echo, authHandler *handler.AuthHandler, authMiddleware *middleware.AuthMiddleware, perSecond float64) {
	auth := e.Group("/api/auth")

	limited := auth.Group("", middleware.IPRateLimit(perSecond, 0))
	limited.POST("/register", authHandler.Register)
	limited.POST("/login", authHandler.Login)

	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, authMiddleware.Authenticate)
}
