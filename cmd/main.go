package main

import (
	"database/sql"

	"github.com/AlePlets/otasoft-auth/internal/command"
	"github.com/AlePlets/otasoft-auth/internal/config"
	"github.com/AlePlets/otasoft-auth/internal/events"
	"github.com/AlePlets/otasoft-auth/internal/handler"
	"github.com/AlePlets/otasoft-auth/internal/mailer"
	"github.com/AlePlets/otasoft-auth/internal/middleware"
	"github.com/AlePlets/otasoft-auth/internal/password"
	"github.com/AlePlets/otasoft-auth/internal/query"
	sharedredis "github.com/AlePlets/otasoft-auth/internal/redis"
	"github.com/AlePlets/otasoft-auth/internal/repository"
	"github.com/AlePlets/otasoft-auth/internal/token"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Database connection
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Redis connection
	redisClient, err := sharedredis.NewClient(cfg.RedisAddr, cfg.RedisPassword, 0)
	if err != nil {
		logger.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	// CQRS wiring: write repos feed the command service, the cached read
	// repo feeds the query service.
	userRepo := repository.NewUserWriteRepository(db)
	confirmRepo := repository.NewConfirmationRepository(db)
	readRepo := repository.NewAuthReadRepository(db, redisClient.Client)
	publisher := events.NewPublisher(redisClient.Client)

	hasher := password.NewHasher(0)
	tokens := token.NewService(cfg.JWTSecret, cfg.ResetTokenTTL)
	sender := mailer.NewSender(cfg, logger)

	commandSvc := command.NewAccountCommandService(
		userRepo, confirmRepo, readRepo, hasher, tokens, sender, publisher, logger,
	)
	querySvc := query.NewAccountQueryService(userRepo, readRepo, hasher)
	authHandler := handler.NewAuthHandler(commandSvc, querySvc)

	// Scheduled purge of stale confirmation records
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", func() {
		purged, err := confirmRepo.DeleteExpired(cfg.ConfirmTTL)
		if err != nil {
			logger.Errorf("Failed to purge expired confirmations: %v", err)
			return
		}
		if purged > 0 {
			logger.Infof("Purged %d expired confirmations", purged)
		}
	}); err != nil {
		logger.Fatalf("Failed to schedule confirmation purge: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware(logger))

	authHandler.RegisterRoutes(router.Group("/v1/auth"))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	logger.Infof("Auth service starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
