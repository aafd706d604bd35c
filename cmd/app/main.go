package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "videobot-backend/docs"
	"videobot-backend/internal/common/cache"
	"videobot-backend/internal/common/config"
	"videobot-backend/internal/common/logger"
	"videobot-backend/internal/common/middleware"
	analyticsHTTP "videobot-backend/internal/features/analytics/delivery/http"
	analyticsRepo "videobot-backend/internal/features/analytics/repository/postgres"
	analyticsService "videobot-backend/internal/features/analytics/service"
	botHTTP "videobot-backend/internal/features/bot/delivery/http"
	botService "videobot-backend/internal/features/bot/service"
	downloadsHTTP "videobot-backend/internal/features/downloads/delivery/http"
	downloadsRepo "videobot-backend/internal/features/downloads/repository/postgres"
	downloadsQueue "videobot-backend/internal/features/downloads/repository/redis"
	downloadsService "videobot-backend/internal/features/downloads/service"
	pointsHTTP "videobot-backend/internal/features/points/delivery/http"
	pointsRepo "videobot-backend/internal/features/points/repository/postgres"
	pointsService "videobot-backend/internal/features/points/service"
	rewardsHTTP "videobot-backend/internal/features/rewards/delivery/http"
	rewardsRepo "videobot-backend/internal/features/rewards/repository/postgres"
	rewardsService "videobot-backend/internal/features/rewards/service"
	syslogRepo "videobot-backend/internal/features/syslog/repository/postgres"
	syslogService "videobot-backend/internal/features/syslog/service"
	userHTTP "videobot-backend/internal/features/user/delivery/http"
	userRepo "videobot-backend/internal/features/user/repository/postgres"
	userCache "videobot-backend/internal/features/user/repository/redis"
	userService "videobot-backend/internal/features/user/service"
	"videobot-backend/internal/platform/postgres"
	"videobot-backend/internal/platform/redis"
	"videobot-backend/internal/platform/telegram"
	"videobot-backend/internal/workers"
)

// @title           Video Bot API
// @version         1.0
// @description     API server behind the Telegram video download bot. All endpoints require init_data authentication.

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey TelegramInitData
// @in header
// @name init_data
// @description Telegram Mini App init_data string for authentication

// @tag.name users
// @tag.description User profile and settings

// @tag.name points
// @tag.description Points balance and daily bonus

// @tag.name rewards
// @tag.description Reward catalog and claims

// @tag.name downloads
// @tag.description Download history and statistics

// @tag.name analytics
// @tag.description Admin analytics

const serviceName = "videobot-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.Debug, logger.FileOptions{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})

	logger.Info().
		Str("version", "1.0.0").
		Str("env", cfg.Env).
		Bool("debug", cfg.Debug).
		Msg("Starting Video Bot Backend")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	postgresClient, err := postgres.NewClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer postgresClient.Close()

	if cfg.Postgres.AutoMigrate {
		if err := postgresClient.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}
	logger.Info().Msg("Database connection established")

	redisClient, err := redis.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	cacheService := cache.NewCacheService(redisClient)

	db := postgresClient.GetDB()
	pointsRepository := pointsRepo.NewPostgresRepository(db)
	rewardsRepository := rewardsRepo.NewPostgresRepository(db)
	userRepository := userCache.NewUserRepository(redisClient, userRepo.NewPostgresRepository(db))
	syslogRepository := syslogRepo.NewPostgresRepository(db)
	downloadsRepository := downloadsRepo.NewPostgresRepository(db)
	analyticsRepository := analyticsRepo.NewPostgresRepository(db)
	jobQueue := downloadsQueue.NewJobQueue(redisClient, cfg.Downloads.RequestStream)

	adminIDs := cfg.AdminIDs()

	syslogSvc := syslogService.NewSystemLogService(syslogRepository)
	pointsSvc := pointsService.NewPointsService(pointsRepository, cfg.Location())
	rewardsSvc := rewardsService.NewRewardsService(rewardsRepository)
	userSvc := userService.NewUserService(userRepository, userService.Options{
		DefaultQuality: cfg.Downloads.DefaultQuality,
		MaxFileSizeMB:  cfg.Downloads.MaxFileSizeMB,
		AdminIDs:       adminIDs,
	})
	downloadsSvc := downloadsService.NewDownloadService(downloadsRepository, jobQueue, pointsSvc, syslogSvc, downloadsService.Options{
		PointsPerDownload: cfg.Points.PerDownload,
	})
	analyticsSvc := analyticsService.NewAnalyticsService(analyticsRepository, cacheService, analyticsService.Options{
		Timeout:  cfg.Analytics.Timeout,
		Retries:  cfg.Analytics.Retries,
		CacheTTL: cfg.Analytics.CacheTTL,
	})

	bot := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.APIBaseURL)
	dispatcher := botService.NewDispatcher(userSvc, pointsSvc, rewardsSvc, downloadsSvc, analyticsSvc, syslogSvc, botService.Options{
		PointsPerDownload:  cfg.Points.PerDownload,
		MaxFileSizeMB:      cfg.Downloads.MaxFileSizeMB,
		RateLimitPerMinute: cfg.RateLimit.PerMinute,
	})

	logger.Info().Msg("Services initialized")

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "init_data"}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.TelegramInitDataMiddleware(cfg.Telegram.BotToken, cfg.Telegram.InitDataTTL))
	v1.Use(middleware.AutoCreateUser(userSvc))

	pointsHTTP.NewPointsHandler(pointsSvc).RegisterRoutes(v1)
	rewardsHTTP.NewRewardsHandler(rewardsSvc).RegisterRoutes(v1)
	userHTTP.NewUserHandler(userSvc).RegisterRoutes(v1)
	downloadsHTTP.NewDownloadHandler(downloadsSvc).RegisterRoutes(v1)
	analyticsHTTP.NewAnalyticsHandler(analyticsSvc, adminIDs).RegisterRoutes(v1)

	botHTTP.NewWebhookHandler(dispatcher, bot, cfg.Telegram.WebhookSecret).RegisterRoutes(router)

	if !cfg.IsProduction() {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	setupProbes(router, postgresClient, redisClient)

	logger.Info().Msg("Routes configured")

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	consumer, err := os.Hostname()
	if err != nil || consumer == "" {
		consumer = serviceName
	}
	streamWorker := workers.NewRedisStreamWorker(redisClient, cfg.Downloads.ResultStream, consumer, downloadsSvc, userSvc, bot, analyticsSvc)
	streamDone := make(chan struct{})
	go func() {
		defer close(streamDone)
		streamWorker.Start(workerCtx)
	}()

	maintenance := workers.NewMaintenanceService(cfg.Workers.MaintenanceInterval, rewardsSvc, analyticsSvc, syslogSvc, dispatcher.Limiter())
	maintenance.Start()

	if cfg.Telegram.WebhookURL != "" {
		info, err := bot.RegisterWebhook(ctx, cfg.Telegram.WebhookURL, cfg.Telegram.WebhookSecret)
		if err != nil {
			logger.Error().Err(err).Str("url", cfg.Telegram.WebhookURL).Msg("Failed to register webhook")
		} else {
			logger.Info().
				Str("url", info.URL).
				Int("pending_updates", info.PendingUpdateCount).
				Msg("Webhook registered")
		}
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.Telegram.WebhookURL != "" {
		if err := bot.DeleteWebhook(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Failed to delete webhook")
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	maintenance.Stop()
	cancelWorkers()
	<-streamDone

	logger.Info().Msg("Server exited")
}

func setupProbes(router *gin.Engine, postgresClient *postgres.Client, redisClient *redis.Client) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})

	// Liveness probe
	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Readiness probe
	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := postgresClient.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "postgres unavailable",
				"details": err.Error(),
			})
			return
		}

		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "redis unavailable",
				"details": err.Error(),
			})
			return
		}

		stats := postgresClient.Stats()
		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
			"db_open":   stats.OpenConnections,
			"db_in_use": stats.InUse,
		})
	})
}
