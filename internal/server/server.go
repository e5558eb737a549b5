package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"noteboard/internal/config"
	"noteboard/internal/database"
	"noteboard/internal/handler"
	"noteboard/internal/middleware"
	"noteboard/internal/realtime"
	"noteboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	logrus.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Setup Gin
	r := gin.Default()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	inviteRepo := repository.NewInviteRepository(db)

	// Board events are published to the relay after commits; a relay outage
	// only degrades realtime, never the API.
	publisher := realtime.NewPublisher(cfg.RelayURL, cfg.RelaySecret)
	if !publisher.Enabled() {
		logrus.Info("Relay not configured, realtime publishing disabled")
	}

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, membershipRepo)
	orgHandler := handler.NewOrganizationHandler(orgRepo)
	boardHandler := handler.NewBoardHandler(boardRepo, userRepo)
	noteHandler := handler.NewNoteHandler(noteRepo, boardRepo, userRepo, publisher)
	inviteHandler := handler.NewInviteHandler(inviteRepo, membershipRepo, userRepo)

	// Public routes, rate limited when Redis is configured
	public := r.Group("/")
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		public.Use(middleware.RateLimit(redisClient, 20, time.Minute))
		logrus.Info("Rate limiting enabled")
	}
	public.POST("/register", userHandler.Register)
	public.POST("/login", userHandler.Login)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Organization context
		authorized.GET("/user", userHandler.GetCurrent)
		authorized.POST("/user/switch-organization", userHandler.SwitchOrganization)
		authorized.POST("/organizations", orgHandler.Create)
		authorized.POST("/organizations/invites", inviteHandler.Create)
		authorized.POST("/join/:token", inviteHandler.Join)

		// Board routes
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.PUT("/boards/:id", boardHandler.Update)
		authorized.DELETE("/boards/:id", boardHandler.Delete)

		// Note routes
		authorized.GET("/boards/:id/notes", noteHandler.List)
		authorized.POST("/boards/:id/notes", noteHandler.Create)
		authorized.PUT("/notes/:id", noteHandler.Update)
		authorized.DELETE("/notes/:id", noteHandler.Delete)

		// Checklist item routes
		authorized.POST("/notes/:id/items", noteHandler.AddItem)
		authorized.PUT("/notes/:id/items/:itemId", noteHandler.UpdateItem)
		authorized.DELETE("/notes/:id/items/:itemId", noteHandler.DeleteItem)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		logrus.Infof("Server running on port %s", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to listen")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("Server forced to shutdown")
	}

	logrus.Info("Server exited properly")
}
