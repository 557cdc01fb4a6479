package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"eventhub/internal/adapter/api"
	"eventhub/internal/adapter/api/handler"
	apimiddleware "eventhub/internal/adapter/api/middleware"
	"eventhub/internal/adapter/api/router"
	"eventhub/internal/adapter/repository"
	"eventhub/internal/adapter/repository/memory"
	domainrepo "eventhub/internal/domain/repository"
	"eventhub/internal/domain/service"
	"eventhub/internal/infrastructure/cache"
	"eventhub/internal/infrastructure/events"
	"eventhub/internal/infrastructure/firebase"
	"eventhub/internal/infrastructure/ratelimit"
	"eventhub/internal/infrastructure/storage"
	"eventhub/internal/infrastructure/token"
	"eventhub/internal/usecase"
	"eventhub/pkg/config"
	"eventhub/pkg/logger"
	"eventhub/pkg/response"
)

type repositories struct {
	users         domainrepo.UserRepository
	services      domainrepo.ServiceRepository
	bookings      domainrepo.BookingRepository
	reviews       domainrepo.ReviewRepository
	conversations domainrepo.ConversationRepository
	ping          handler.PingFunc
	close         func() error
}

func openRepositories(ctx context.Context, cfg *config.Config, creds firebase.Credentials) (*repositories, error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("Using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			users:         memory.NewUserRepository(store),
			services:      memory.NewServiceRepository(store),
			bookings:      memory.NewBookingRepository(store),
			reviews:       memory.NewReviewRepository(store),
			conversations: memory.NewConversationRepository(store),
			ping:          store.Ping,
			close:         func() error { return nil },
		}, nil
	}

	client, err := firebase.NewFirestore(ctx, cfg.FirebaseProject, creds)
	if err != nil {
		return nil, err
	}

	return &repositories{
		users:         repository.NewFirestoreUserRepository(client),
		services:      repository.NewFirestoreServiceRepository(client),
		bookings:      repository.NewFirestoreBookingRepository(client),
		reviews:       repository.NewFirestoreReviewRepository(client),
		conversations: repository.NewFirestoreConversationRepository(client),
		ping:          repository.FirestorePing(client),
		close:         client.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Configure(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	creds := firebase.Credentials{
		JSON: cfg.FirebaseCredentialsJSON,
		Path: cfg.FirebaseCredentialsPath,
	}

	repos, err := openRepositories(ctx, cfg, creds)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.StorageDriver, err)
	}
	defer repos.close()

	var files service.FileUploadService
	if cfg.StorageBucket != "" {
		opts, err := creds.ClientOptions()
		if err != nil {
			log.Fatalf("Failed to resolve storage credentials: %v", err)
		}
		storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opts...)
		if err != nil {
			log.Fatalf("Failed to initialize Cloud Storage: %v", err)
		}
		defer storageClient.Close()
		files = storageClient
	} else {
		logger.Warn("STORAGE_BUCKET not set; image uploads are disabled")
	}

	var responseCache cache.Store
	var redisPing handler.PingFunc
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Error("Redis unavailable, response cache disabled: %v", err)
		} else {
			defer redisClient.Close()
			redisStore := cache.NewRedisStore(redisClient)
			responseCache = redisStore
			redisPing = redisStore.Ping
		}
	}

	var publisher events.Publisher = events.NewLogPublisher()
	if cfg.RabbitMQURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.RabbitMQURL, "")
		if err != nil {
			logger.Error("RabbitMQ unavailable, domain events will only be logged: %v", err)
		} else {
			publisher = amqpPublisher
		}
	}
	defer publisher.Close()

	limiter := ratelimit.NewRateLimiter(ratelimit.DefaultRules(cfg.MessageRateLimit))
	limiter.StartCleanupRoutine(ctx, 5*time.Minute)

	hasher := token.NewPasswordHasher(cfg.BcryptCost)
	jwtManager := token.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL())

	authUseCase := usecase.NewAuthUseCase(repos.users, hasher, jwtManager)
	userUseCase := usecase.NewUserUseCase(repos.users, hasher)
	serviceUseCase := usecase.NewServiceUseCase(repos.services, repos.users, repos.reviews, files)
	bookingUseCase := usecase.NewBookingUseCase(repos.bookings, repos.services, repos.users, publisher)
	reviewUseCase := usecase.NewReviewUseCase(repos.reviews, repos.bookings, repos.services, repos.users, publisher)
	conversationUseCase := usecase.NewConversationUseCase(repos.conversations, repos.users, repos.services, repos.bookings, limiter)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = response.HTTPErrorHandler
	e.Validator = api.NewValidator()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("10M"))

	router.Setup(e, router.Handlers{
		Auth:         handler.NewAuthHandler(authUseCase, cfg.CookieSecure),
		User:         handler.NewUserHandler(userUseCase),
		Service:      handler.NewServiceHandler(serviceUseCase, reviewUseCase),
		Booking:      handler.NewBookingHandler(bookingUseCase),
		Review:       handler.NewReviewHandler(reviewUseCase),
		Conversation: handler.NewConversationHandler(conversationUseCase),
		Health: handler.NewHealthHandler(map[string]handler.PingFunc{
			"store": repos.ping,
			"redis": redisPing,
		}),
	}, router.Options{
		AuthMiddleware:  apimiddleware.NewAuthMiddleware(jwtManager),
		AdminMiddleware: apimiddleware.NewAdminMiddleware(repos.users),
		Cache:           responseCache,
		CacheTTL:        cfg.CacheTTL,
		AuthRateLimit:   cfg.AuthRateLimit,
	})

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}
