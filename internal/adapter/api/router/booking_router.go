package router

import (
	"github.com/labstack/echo/v4"

	"eventhub/internal/adapter/api/handler"
	"eventhub/internal/adapter/api/middleware"
	"eventhub/internal/domain/entity"
)

func SetupBookingRouter(e *echo.Echo, bookingHandler *handler.BookingHandler, authMiddleware *middleware.AuthMiddleware) {
	bookings := e.Group("/api/bookings", authMiddleware.Authenticate)

	bookings.GET("", bookingHandler.ListBookings)
	bookings.POST("", bookingHandler.CreateBooking, middleware.RequireRole(entity.RoleCustomer))
	bookings.GET("/:id", bookingHandler.GetBooking)
	bookings.PATCH("/:id", bookingHandler.UpdateBookingStatus)
}
