package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/socialnet/friends-api/internal/api/handler"
	"github.com/socialnet/friends-api/internal/api/middleware"
	"github.com/socialnet/friends-api/internal/core/service"
	mongodb "github.com/socialnet/friends-api/internal/infrastructure/db/mongo"
	redisdb "github.com/socialnet/friends-api/internal/infrastructure/db/redis"
	"github.com/socialnet/friends-api/internal/infrastructure/http/handlers"
	"github.com/socialnet/friends-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The notifier is optional; pass nil to skip async fan-out (tests do).
func NewRouter(db *mongo.Database, rdb *redis.Client, notifier service.Notifier, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("friends"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	requestRepo := mongodb.NewRequestRepository(db)
	limiter := redisdb.NewSendLimiter(rdb, cfg.SendLimit, cfg.SendWindow)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, cfg.RefreshTTL)
	userService := service.NewUserService(userRepo, log)
	friendService := service.NewFriendService(userRepo, requestRepo, limiter, notifier, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	friendHandler := handler.NewFriendHandler(friendService)
	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// --- Public routes ---
	e.POST("/register/", authHandler.Register)
	e.POST("/login/", authHandler.Login)
	e.POST("/login/refresh/", authHandler.Refresh)

	// --- Authenticated routes ---
	e.GET("/search/", userHandler.Search, authMiddleware)
	e.POST("/friend-request/send/:to_user_id/", friendHandler.Send, authMiddleware)
	e.POST("/friend-request/respond/:request_id/:action/", friendHandler.Respond, authMiddleware)
	e.GET("/friends/", friendHandler.Friends, authMiddleware)
	e.GET("/friend-requests/pending/", friendHandler.Pending, authMiddleware)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
