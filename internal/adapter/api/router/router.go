package router

import (
	"time"

	"github.com/labstack/echo/v4"

	"eventhub/internal/adapter/api/handler"
	"eventhub/internal/adapter/api/middleware"
	"eventhub/internal/infrastructure/cache"
)

// Handlers groups every route handler.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Service      *handler.ServiceHandler
	Booking      *handler.BookingHandler
	Review       *handler.ReviewHandler
	Conversation *handler.ConversationHandler
	Health       *handler.HealthHandler
}

// Options carries the middleware shared across route groups. A nil Cache
// disables response caching.
type Options struct {
	AuthMiddleware  *middleware.AuthMiddleware
	AdminMiddleware *middleware.AdminMiddleware
	Cache           cache.Store
	CacheTTL        time.Duration
	AuthRateLimit   float64
}

func Setup(e *echo.Echo, h Handlers, opts Options) {
	SetupHealthRouter(e, h.Health)
	SetupAuthRouter(e, h.Auth, opts.AuthMiddleware, opts.AuthRateLimit)
	SetupUserRouter(e, h.User, opts.AuthMiddleware, opts.AdminMiddleware)
	SetupServiceRouter(e, h.Service, opts.AuthMiddleware, opts.Cache, opts.CacheTTL)
	SetupBookingRouter(e, h.Booking, opts.AuthMiddleware)
	SetupReviewRouter(e, h.Review, opts.AuthMiddleware, opts.Cache)
	SetupConversationRouter(e, h.Conversation, opts.AuthMiddleware)
}
