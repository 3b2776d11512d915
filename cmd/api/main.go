// @title           Approval Flow API
// @version         1.0
// @description     Enterprise approval workflow API

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "approval-flow-api/docs" // Swagger docs import

	"approval-flow-api/internal/client"
	"approval-flow-api/internal/config"
	"approval-flow-api/internal/database"
	"approval-flow-api/internal/job"
	"approval-flow-api/internal/metrics"
	"approval-flow-api/internal/repository"
	"approval-flow-api/internal/router"
	"approval-flow-api/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Approval Flow API",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("storage_driver", cfg.Storage.Driver),
	)

	// Initialize database
	db, err := database.New(database.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.Info("Database migrations completed")

	// Initialize metrics
	m := metrics.New()
	logger.Info("Metrics initialized")

	// Initialize file store
	var fileStore client.FileStore
	uploadDir := ""
	if cfg.Storage.Driver == "s3" {
		s3Store, err := client.NewS3Store(&cfg.Storage.S3)
		if err != nil {
			logger.Fatal("Failed to initialize S3 store", zap.Error(err))
		}
		fileStore = s3Store
		logger.Info("S3 store initialized",
			zap.String("bucket", cfg.Storage.S3.Bucket),
			zap.String("region", cfg.Storage.S3.Region),
		)
	} else {
		localStore, err := client.NewLocalStore(cfg.Storage.LocalDir)
		if err != nil {
			logger.Fatal("Failed to initialize local store", zap.Error(err))
		}
		fileStore = localStore
		uploadDir = localStore.Dir()
		logger.Info("Local store initialized", zap.String("dir", uploadDir))
	}

	// Initialize redis (optional, department tree cache)
	var redisClient *goredis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = database.NewRedis(cfg.Redis.URL)
		if err != nil {
			logger.Warn("Failed to connect to redis, caching disabled", zap.Error(err))
			redisClient = nil
		} else {
			logger.Info("Redis connected successfully")
		}
	}

	// Start websocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Schedule the per-status gauge refresh
	approvalRepo := repository.NewApprovalRepository(db)
	scheduler := cron.New()
	if _, err := scheduler.AddJob("@every 1m", job.NewStatusGaugeJob(approvalRepo, m, logger)); err != nil {
		logger.Warn("Failed to schedule status gauge job", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Setup router with all dependencies
	r := router.Setup(router.Config{
		DB:        db,
		Redis:     redisClient,
		Logger:    logger,
		JWTSecret: cfg.JWT.Secret,
		BasePath:  cfg.Server.BasePath,
		CacheTTL:  cfg.Redis.CacheTTL,
		FileStore: fileStore,
		Metrics:   m,
		Hub:       hub,
		UploadDir: uploadDir,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Approval Flow API started successfully",
			zap.String("address", srv.Addr),
			zap.String("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Server.Port)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := database.Close(db); err != nil {
		logger.Error("Failed to close database", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return zapConfig.Build()
}
