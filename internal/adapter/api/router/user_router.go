package router

import (
	"github.com/labstack/echo/v4"

	"eventhub/internal/adapter/api/handler"
	"eventhub/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, userHandler *handler.UserHandler, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	users := e.Group("/api/users")

	me := users.Group("/me", authMiddleware.Authenticate)
	me.PUT("", userHandler.UpdateProfile)
	me.PUT("/password", userHandler.ChangePassword)

	// Public
	users.GET("/:id", userHandler.GetProfile)

	admin := e.Group("/api/admin", authMiddleware.Authenticate, adminMiddleware.AdminOnly)
	admin.GET("/users", userHandler.ListUsers)
}
