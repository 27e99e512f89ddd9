package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trailhead/tours-api/internal/api/handler"
	"github.com/trailhead/tours-api/internal/api/middleware"
	"github.com/trailhead/tours-api/internal/core/domain"
	"github.com/trailhead/tours-api/internal/core/ports"
	"github.com/trailhead/tours-api/internal/core/service"
	"github.com/trailhead/tours-api/internal/infrastructure/config"
	mongodb "github.com/trailhead/tours-api/internal/infrastructure/db/mongo"
	redisdb "github.com/trailhead/tours-api/internal/infrastructure/db/redis"
)

// Dependencies bundles everything the router needs that main constructs.
type Dependencies struct {
	DB      *mongo.Database
	Redis   *redis.Client
	Mailer  ports.Mailer
	Welcome service.WelcomeDispatcher
	Config  *config.Config
	Logger  zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("tours"))

	// --- Dependencies ---
	accountRepo := mongodb.NewAccountRepository(deps.DB)
	tourRepo := mongodb.NewTourRepository(deps.DB)
	reviewRepo := mongodb.NewReviewRepository(deps.DB)

	tokenService := service.NewTokenService(deps.Config.JWT.Secret, deps.Config.JWT.TTL)
	credentialService := service.NewCredentialService(accountRepo, deps.Config.Auth.BcryptCost, deps.Config.Auth.ResetTokenTTL)
	throttle := redisdb.NewResetThrottle(deps.Redis, deps.Config.Auth.ResetCooldown)
	authService := service.NewAuthService(accountRepo, credentialService, tokenService, deps.Mailer, deps.Welcome, throttle, deps.Logger)
	userService := service.NewUserService(accountRepo, deps.Logger)
	tourService := service.NewTourService(tourRepo, deps.Logger)
	reviewService := service.NewReviewService(reviewRepo, tourRepo, deps.Logger)

	cookieName := deps.Config.JWT.CookieName
	authHandler := handler.NewAuthHandler(authService, cookieName)
	userHandler := handler.NewUserHandler(userService)
	tourHandler := handler.NewTourHandler(tourService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	healthHandler := handler.NewHealthHandler(deps.DB, deps.Redis)

	protect := middleware.Protect(tokenService, accountRepo, cookieName)

	// --- Users ---
	users := e.Group("/api/v1/users")
	users.POST("/signup", authHandler.Signup)
	users.POST("/login", authHandler.Login)
	users.GET("/logout", authHandler.Logout)
	users.POST("/forgotPassword", authHandler.ForgotPassword)
	users.PATCH("/resetPassword/:token", authHandler.ResetPassword)

	users.PATCH("/updateMyPassword", authHandler.UpdatePassword, protect)
	users.GET("/me", userHandler.Me, protect)
	users.PATCH("/updateMe", userHandler.UpdateMe, protect)
	users.DELETE("/deleteMe", userHandler.DeleteMe, protect)

	admin := users.Group("", protect, middleware.RequireRoles(domain.RoleAdmin))
	admin.GET("", userHandler.List)
	admin.GET("/:id", userHandler.Get)
	admin.PATCH("/:id", userHandler.Update)
	admin.DELETE("/:id", userHandler.Delete)

	// --- Tours ---
	tours := e.Group("/api/v1/tours")
	tours.GET("", tourHandler.List)
	tours.GET("/:id", tourHandler.Get)

	tourWriters := middleware.RequireRoles(domain.RoleAdmin, domain.RoleLeadGuide)
	tours.POST("", tourHandler.Create, protect, tourWriters)
	tours.PATCH("/:id", tourHandler.Update, protect, tourWriters)
	tours.DELETE("/:id", tourHandler.Delete, protect, tourWriters)

	// --- Reviews (top-level and nested under tours) ---
	reviewWriters := middleware.RequireRoles(domain.RoleUser, domain.RoleAdmin)

	reviews := e.Group("/api/v1/reviews", protect)
	reviews.GET("", reviewHandler.List)
	reviews.GET("/:id", reviewHandler.Get)
	reviews.POST("", reviewHandler.Create, middleware.RequireRoles(domain.RoleUser))
	reviews.PATCH("/:id", reviewHandler.Update, reviewWriters)
	reviews.DELETE("/:id", reviewHandler.Delete, reviewWriters)

	tourReviews := tours.Group("/:tourId/reviews", protect)
	tourReviews.GET("", reviewHandler.List)
	tourReviews.POST("", reviewHandler.Create, middleware.RequireRoles(domain.RoleUser))

	// --- Observability ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
