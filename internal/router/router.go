package router

import (
	"log"

	"github.com/inkwell-social/inkwell/internal/cache"
	"github.com/inkwell-social/inkwell/internal/handlers"
	"github.com/inkwell-social/inkwell/internal/middleware"
	"github.com/inkwell-social/inkwell/internal/models"
	"github.com/inkwell-social/inkwell/internal/repositories"
	"github.com/inkwell-social/inkwell/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config) {
	// AutoMigrate models
	err := db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("Auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// Uploaded images
	e.Static("/media", cfg.MediaDir)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	groupRepo := repositories.NewPostgresGroupRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	followRepo := repositories.NewPostgresFollowRepository(db)

	// Home feed response cache
	pageCache := cache.NewPageCache(cache.DefaultTTL)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Public read routes ---
	public := e.Group("/api/v1")

	feedHandler := handlers.NewFeedHandler(postRepo)
	feedHandler.RegisterPublicFeedRoutes(public, pageCache.Middleware())

	postHandler := handlers.NewPostHandler(postRepo, groupRepo, commentRepo, pageCache)
	postHandler.RegisterPublicPostRoutes(public)

	groupHandler := handlers.NewGroupHandler(groupRepo, postRepo)
	groupHandler.RegisterPublicGroupRoutes(public)

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo)
	commentHandler.RegisterPublicCommentRoutes(public)

	// Profiles personalize for signed-in viewers, so they get the optional gate
	viewer := e.Group("/api/v1")
	viewer.Use(middleware.OptionalJWTAuthMiddleware())
	userHandler := handlers.NewUserHandler(userRepo, postRepo, followRepo)
	userHandler.RegisterPublicProfileRoutes(viewer)
	log.Println("Public routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())

	postHandler.RegisterPostRoutes(api)
	groupHandler.RegisterGroupRoutes(api)
	commentHandler.RegisterCommentRoutes(api)
	feedHandler.RegisterFeedRoutes(api)

	followHandler := handlers.NewFollowHandler(followRepo, userRepo)
	followHandler.RegisterFollowRoutes(api)

	userHandler.RegisterProfileRoutes(api)

	mediaHandler := handlers.NewMediaHandler(cfg.MediaDir)
	mediaHandler.RegisterMediaRoutes(api)

	cacheHandler := handlers.NewCacheHandler(pageCache)
	cacheHandler.RegisterCacheRoutes(api)

	log.Println("All routes configured.")
}
