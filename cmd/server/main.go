package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"contenthub/internal/config"
	"contenthub/internal/handlers"
	"contenthub/internal/middleware"
	"contenthub/internal/pkg"
	"contenthub/internal/repository"
	"contenthub/internal/services"

	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
)

func main() {
	logger := pkg.NewLoggerWithPrefix(pkg.LevelInfo, "SERVER")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	gin.SetMode(cfg.Server.Mode)

	db, err := repository.NewMongoDB(cfg.MongoDB.URI, cfg.MongoDB.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	redisClient, err := middleware.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}

	jwtManager := pkg.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL, cfg.JWT.Issuer)

	repos := &repository.Repository{
		User:     repository.NewUserRepository(db),
		Project:  repository.NewProjectRepository(db),
		Folder:   repository.NewFolderRepository(db),
		Content:  repository.NewContentRepository(db),
		AuditLog: repository.NewAuditLogRepository(db),
	}

	accessService := services.NewAccessService(repos.Project, repos.Folder, repos.Content, repos.AuditLog)
	sharingService := services.NewSharingService(repos.User, repos.Project, repos.AuditLog, accessService)
	hierarchyService := services.NewHierarchyService(repos.Folder, repos.Content, repos.Project, repos.AuditLog, accessService)
	projectService := services.NewProjectService(repos.Project, repos.AuditLog, accessService)
	generationService := services.NewGenerationService(cfg.Generation.BaseURL, cfg.Generation.APIKey, cfg.Generation.Timeout)
	contentService := services.NewContentService(repos.Content, repos.Folder, repos.AuditLog, accessService, generationService)
	userService := services.NewUserService(repos.User, repos.AuditLog, jwtManager)

	storageService, err := services.NewStorageService(&services.StorageConfig{
		Bucket:      cfg.Storage.Bucket,
		Region:      cfg.Storage.Region,
		AccessKey:   cfg.Storage.AccessKey,
		SecretKey:   cfg.Storage.SecretKey,
		Endpoint:    cfg.Storage.Endpoint,
		BaseURL:     cfg.Storage.BaseURL,
		MaxFileSize: cfg.Storage.MaxFileSize,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	authHandler := handlers.NewAuthHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService, sharingService)
	folderHandler := handlers.NewFolderHandler(hierarchyService, storageService)
	contentHandler := handlers.NewContentHandler(contentService)
	sharingHandler := handlers.NewSharingHandler(sharingService)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, repos.User, logger, redisClient)
	rateLimiter := middleware.NewRateLimiter(redisClient, &middleware.RateLimitConfig{
		Requests: cfg.RateLimit.Requests,
		Window:   cfg.RateLimit.Window,
	}, logger)

	router := gin.New()

	prom := ginprometheus.NewWithConfig(ginprometheus.Config{Subsystem: "gin"})
	prom.Use(router)

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		protected := api.Group("")
		protected.Use(authMiddleware.RequireAuth(), rateLimiter.Limit())
		{
			protected.GET("/me", authHandler.Profile)
			protected.PUT("/me", authHandler.UpdateProfile)
			protected.PUT("/me/password", authHandler.ChangePassword)

			protected.POST("/projects", projectHandler.CreateProject)
			protected.GET("/projects", projectHandler.ListProjects)
			protected.GET("/projects/shared", projectHandler.ListSharedProjects)
			protected.GET("/projects/:id", projectHandler.GetProject)
			protected.PUT("/projects/:id", projectHandler.UpdateProject)
			protected.DELETE("/projects/:id", projectHandler.DeleteProject)

			protected.POST("/projects/:id/share", sharingHandler.Grant)
			protected.GET("/projects/:id/share", sharingHandler.ListGrants)
			protected.DELETE("/projects/:id/share/:username", sharingHandler.Revoke)

			protected.GET("/projects/:id/folders", folderHandler.ListFolders)
			protected.POST("/folders", folderHandler.CreateFolder)
			protected.GET("/folders/:id", folderHandler.GetFolder)
			protected.PUT("/folders/:id", folderHandler.UpdateFolder)
			protected.DELETE("/folders/:id", folderHandler.DeleteFolder)
			protected.PUT("/folders/:id/move", folderHandler.MoveFolder)
			protected.POST("/folders/:id/assets", folderHandler.AddAssets)
			protected.POST("/folders/:id/images", folderHandler.UploadImage)
			protected.POST("/content/move", folderHandler.MoveContent)

			protected.GET("/folders/:id/content", contentHandler.ListContent)
			protected.POST("/content", contentHandler.CreateContent)
			protected.GET("/content/:id", contentHandler.GetContent)
			protected.PUT("/content/:id", contentHandler.UpdateContent)
			protected.DELETE("/content/:id", contentHandler.DeleteContent)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", map[string]interface{}{
			"port": cfg.Server.Port,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Forced shutdown: %v", err)
	}
	if err := db.Close(ctx); err != nil {
		logger.Errorf("MongoDB close error: %v", err)
	}
	if err := redisClient.Close(); err != nil {
		logger.Errorf("Redis close error: %v", err)
	}
}
