package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/tempofeed/tempofeed-api/internal/config"
	"github.com/tempofeed/tempofeed-api/internal/constants"
	"github.com/tempofeed/tempofeed-api/internal/database"
	"github.com/tempofeed/tempofeed-api/internal/handlers"
	"github.com/tempofeed/tempofeed-api/internal/middleware"
	"github.com/tempofeed/tempofeed-api/internal/repository"
	"github.com/tempofeed/tempofeed-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Supplemental indexes (pg_indexes based, postgres only)
	if cfg.DBDriver == "postgres" {
		if err := database.AddIndexes(database.GetDB()); err != nil {
			log.Fatalf("Failed to add indexes: %v", err)
		}
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	typeRepo := repository.NewActivityTypeRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	followService := services.NewFollowService(followRepo, userRepo)
	typeService := services.NewActivityTypeService(typeRepo)
	sessionService := services.NewSessionService(sessionRepo, typeService)
	groupService := services.NewGroupService(groupRepo)
	feedService := services.NewFeedService(sessionRepo, followRepo, groupRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(authService, followService)
	sessionHandler := handlers.NewSessionHandler(sessionService, followService)
	groupHandler := handlers.NewGroupHandler(groupService)
	typeHandler := handlers.NewActivityTypeHandler(typeService)
	feedHandler := handlers.NewFeedHandler(feedService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "TempoFeed API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// User and follow-graph routes (protected)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("/:id", userHandler.GetUser)
			users.POST("/:id/follow", userHandler.Follow)
			users.DELETE("/:id/follow", userHandler.Unfollow)
			users.GET("/:id/following", userHandler.ListFollowing)
			users.GET("/:id/followers", userHandler.ListFollowers)
			users.GET("/:id/sessions", sessionHandler.ListUserSessions)
		}

		// Feed routes (protected)
		api.GET("/feed", middleware.RequireAuth(), feedHandler.GetFeed)

		// Session routes (protected)
		sess := api.Group("/sessions")
		sess.Use(middleware.RequireAuth())
		{
			sess.POST("", sessionHandler.CreateSession)
			sess.GET("", sessionHandler.ListMySessions)
			sess.GET("/:id", middleware.RequireSessionAccess(), sessionHandler.GetSession)
			sess.PATCH("/:id", middleware.RequireSessionAccess(), sessionHandler.UpdateSession)
			sess.DELETE("/:id", middleware.RequireSessionAccess(), sessionHandler.DeleteSession)
			sess.POST("/:id/support", middleware.RequireSessionAccess(), sessionHandler.SupportSession)
			sess.DELETE("/:id/support", middleware.RequireSessionAccess(), sessionHandler.UnsupportSession)
			sess.POST("/:id/comments", middleware.RequireSessionAccess(), sessionHandler.AddComment)
			sess.GET("/:id/comments", middleware.RequireSessionAccess(), sessionHandler.ListComments)
		}

		// Group routes (protected)
		groups := api.Group("/groups")
		groups.Use(middleware.RequireAuth())
		{
			groups.POST("", groupHandler.CreateGroup)
			groups.GET("", groupHandler.ListGroups)
			groups.GET("/mine", groupHandler.ListMyGroups)
			groups.GET("/:id", middleware.RequireGroupAccess(), groupHandler.GetGroup)
			groups.PATCH("/:id", middleware.RequireGroupAccess(), middleware.RequireGroupAdmin(), groupHandler.UpdateGroup)
			groups.POST("/:id/join", groupHandler.JoinGroup)
			groups.POST("/:id/leave", groupHandler.LeaveGroup)
			groups.GET("/:id/can-join", groupHandler.CanJoin)
			groups.DELETE("/:id/members/:user_id", middleware.RequireGroupAccess(), middleware.RequireGroupAdmin(), groupHandler.RemoveMember)
		}

		// Activity type routes (protected)
		types := api.Group("/activity-types")
		types.Use(middleware.RequireAuth())
		{
			types.GET("", typeHandler.ListActivityTypes)
			types.POST("", typeHandler.CreateActivityType)
			types.PATCH("/:id", typeHandler.UpdateActivityType)
			types.DELETE("/:id", typeHandler.DeleteActivityType)
			types.GET("/preferences", typeHandler.GetPreferences)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
