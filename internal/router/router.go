// Package router wires middleware, handlers and routes into the gin engine.
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"approval-flow-api/internal/client"
	"approval-flow-api/internal/handler"
	"approval-flow-api/internal/metrics"
	"approval-flow-api/internal/middleware"
	"approval-flow-api/internal/repository"
	"approval-flow-api/internal/service"
	"approval-flow-api/internal/websocket"
)

// Config holds router configuration
type Config struct {
	DB              *gorm.DB
	Redis           *redis.Client
	Logger          *zap.Logger
	JWTSecret       string
	BasePath        string
	CacheTTL        time.Duration
	FileStore       client.FileStore
	Metrics         *metrics.Metrics
	Hub             *websocket.Hub
	UploadDir       string
	ApprovalService service.ApprovalService
}

// Setup sets up the router with all routes
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(middleware.Identity(cfg.JWTSecret))

	// Prometheus metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check routes
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "service": "approval-flow-api"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if cfg.DB == nil {
			c.JSON(503, gin.H{"status": "not ready", "service": "approval-flow-api"})
			return
		}
		sqlDB, err := cfg.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			c.JSON(503, gin.H{"status": "not ready", "service": "approval-flow-api"})
			return
		}
		c.JSON(200, gin.H{"status": "ready", "service": "approval-flow-api"})
	})

	// Initialize repositories
	approvalRepo := repository.NewApprovalRepository(cfg.DB)
	attachmentRepo := repository.NewAttachmentRepository(cfg.DB)
	departmentRepo := repository.NewDepartmentRepository(cfg.DB)
	formConfigRepo := repository.NewFormConfigRepository(cfg.DB)

	// Initialize services
	approvalService := cfg.ApprovalService
	if approvalService == nil {
		var notifier service.StatusNotifier
		if cfg.Hub != nil {
			notifier = websocket.NewPublisher(cfg.Hub, cfg.Logger)
		}
		approvalService = service.NewApprovalService(approvalRepo, departmentRepo, notifier, cfg.Metrics, cfg.Logger)
	}
	attachmentService := service.NewAttachmentService(attachmentRepo, approvalRepo, cfg.FileStore, cfg.Metrics, cfg.Logger)
	departmentService := service.NewDepartmentService(departmentRepo, cfg.Redis, cfg.CacheTTL, cfg.Logger)
	formConfigService := service.NewFormConfigService(formConfigRepo, cfg.Logger)

	// Initialize handlers
	approvalHandler := handler.NewApprovalHandler(approvalService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)
	departmentHandler := handler.NewDepartmentHandler(departmentService)
	formConfigHandler := handler.NewFormConfigHandler(formConfigService)

	// API routes group
	api := r.Group(cfg.BasePath)

	approvals := api.Group("/approvals")
	{
		approvals.GET("", approvalHandler.List)
		approvals.GET("/:id", approvalHandler.Get)

		authed := approvals.Group("")
		authed.Use(middleware.RequireUser())
		{
			authed.POST("", approvalHandler.Create)
			authed.PUT("/:id", approvalHandler.Update)
			authed.POST("/:id/withdraw", approvalHandler.Withdraw)
			authed.POST("/:id/approve", approvalHandler.Approve)
			authed.POST("/:id/reject", approvalHandler.Reject)
			authed.POST("/:id/attachments", attachmentHandler.Upload)
		}
	}

	api.GET("/departments", departmentHandler.GetTree)
	api.GET("/form-configs/:key", formConfigHandler.GetSchema)

	// Status event stream
	if cfg.Hub != nil {
		r.GET("/ws", websocket.Handler(cfg.Hub, cfg.Logger))
	}

	// Locally stored uploads are served straight from disk
	if cfg.UploadDir != "" {
		r.Static("/uploads", cfg.UploadDir)
	}

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
