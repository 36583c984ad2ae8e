package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rhamilton21/rememora-web/internal/access"
	"github.com/rhamilton21/rememora-web/internal/handlers"
	"github.com/rhamilton21/rememora-web/internal/middleware"
	"github.com/rhamilton21/rememora-web/internal/models"
	"github.com/rhamilton21/rememora-web/internal/realtime"
	"github.com/rhamilton21/rememora-web/internal/repositories"
	"github.com/rhamilton21/rememora-web/pkg/config"
	"github.com/rhamilton21/rememora-web/pkg/mailer"
	"github.com/rhamilton21/rememora-web/pkg/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client, mediaStore storage.MediaStore, mail *mailer.Mailer, hub *realtime.Hub) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Memorial{},
		&models.CollaborationRequest{},
		&models.Reaction{},
		&models.Comment{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	memorialRepo := repositories.NewPostgresMemorialRepository(pgdb)
	collabRepo := repositories.NewPostgresCollaborationRepository(pgdb)
	reactionRepo := repositories.NewPostgresReactionRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	itemRepo := repositories.NewMongoMemorialItemRepository(mgClient.Database(cfg.MongoDatabase))

	accessEngine := access.NewEngine(collabRepo)
	notifier := handlers.NewNotifier(notificationRepo, hub)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// --- Public read routes (JWT honored when present, anonymous otherwise) ---
	// The access engine resolves anonymous callers to viewers of public
	// memorials; private ones still come back 403.
	public := e.Group("/api/v1")
	public.Use(middleware.OptionalJWTAuthMiddleware(cfg.JWTSecret))
	log.Println("Optional JWT middleware applied to public read routes.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Memorial routes
	memorialHandler := handlers.NewMemorialHandler(memorialRepo, accessEngine, mail, cfg.PublicBaseURL)
	memorialHandler.RegisterMemorialRoutes(api)
	memorialHandler.RegisterPublicMemorialRoutes(public)
	log.Println("Memorial routes configured.")

	// Item (contribution) routes
	itemHandler := handlers.NewItemHandler(itemRepo, memorialRepo, commentRepo, accessEngine, mediaStore, notifier)
	itemHandler.RegisterItemRoutes(api)
	itemHandler.RegisterPublicItemRoutes(public)
	log.Println("Item routes configured.")

	// Moderation routes
	moderationHandler := handlers.NewModerationHandler(itemRepo, memorialRepo, accessEngine, notifier)
	moderationHandler.RegisterModerationRoutes(api)
	log.Println("Moderation routes configured.")

	// Collaboration request routes
	collabHandler := handlers.NewCollaborationHandler(collabRepo, memorialRepo, accessEngine, notifier)
	collabHandler.RegisterCollaborationRoutes(api)
	log.Println("Collaboration routes configured.")

	// Reaction routes
	reactionHandler := handlers.NewReactionHandler(reactionRepo, memorialRepo, itemRepo, commentRepo, accessEngine, notifier)
	reactionHandler.RegisterReactionRoutes(api)
	reactionHandler.RegisterPublicReactionRoutes(public)
	log.Println("Reaction routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, itemRepo, memorialRepo, userRepo, accessEngine, notifier)
	commentHandler.RegisterCommentRoutes(api)
	commentHandler.RegisterPublicCommentRoutes(public)
	log.Println("Comment routes configured.")

	// Notification routes (including the realtime WebSocket endpoint)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, hub)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}
