// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/parkspot/admin-backend/internal/config"
	"github.com/parkspot/admin-backend/internal/handlers"
	"github.com/parkspot/admin-backend/internal/middleware"
	"github.com/parkspot/admin-backend/internal/services"
	"github.com/parkspot/admin-backend/internal/utils"
	"github.com/parkspot/admin-backend/internal/workflow"
)

func Initialize(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, _ := services.NewStorageService(cfg)
	paymentService := services.NewPaymentService(db, cfg, logger)

	authService := services.NewAuthService(db, cfg)
	moderationService := services.NewModerationService(db, logger, notificationService, paymentService)
	statsService := services.NewStatsService(db, redisClient, cfg, logger)
	bookingService := services.NewBookingService(db)
	listingService := services.NewListingService(db, logger)
	userService := services.NewUserService(db, logger, notificationService)
	settingsService := services.NewSettingsService(db)
	exportService := services.NewExportService()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	moderationHandler := handlers.NewModerationHandler(moderationService, statsService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	listingHandler := handlers.NewListingHandler(listingService)
	userHandler := handlers.NewUserHandler(userService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	exportHandler := handlers.NewExportHandler(exportService, userService, bookingService)
	documentHandler := handlers.NewDocumentHandler(storageService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Admin console routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard/stats", moderationHandler.GetDashboardStats)

			// One queue per moderation kind. Every kind gets approve and
			// reject; verification and listing add revision; payout adds
			// complete after approval.
			registerModerationRoutes(admin, "verifications", workflow.KindVerification, moderationHandler)
			registerModerationRoutes(admin, "refunds", workflow.KindRefund, moderationHandler)
			registerModerationRoutes(admin, "payouts", workflow.KindPayout, moderationHandler)
			registerModerationRoutes(admin, "listings", workflow.KindListing, moderationHandler)
			registerModerationRoutes(admin, "disputes", workflow.KindDispute, moderationHandler)

			// Listing content management, separate from moderation
			admin.GET("/listings/:id", listingHandler.GetListing)
			admin.PATCH("/listings/:id", listingHandler.UpdateListing)

			// Bookings
			bookings := admin.Group("/bookings")
			{
				bookings.GET("", bookingHandler.GetBookings)
				bookings.GET("/search", bookingHandler.SearchBookings)
				bookings.GET("/:id", bookingHandler.GetBooking)
			}

			// Users and job applications
			users := admin.Group("/users")
			{
				users.GET("", userHandler.GetUsers)
				users.GET("/:id", userHandler.GetUser)
				users.PUT("/:id/status", userHandler.UpdateUserStatus)
			}
			applications := admin.Group("/applications")
			{
				applications.GET("", userHandler.GetJobApplications)
				applications.PUT("/:id/status", userHandler.ReviewJobApplication)
			}

			// CSV exports
			exports := admin.Group("/exports")
			exports.Use(middleware.ExportRateLimit())
			{
				exports.GET("/users", exportHandler.ExportUsers)
				exports.GET("/newsletter", exportHandler.ExportNewsletter)
				exports.GET("/applications", exportHandler.ExportApplications)
				exports.GET("/bookings", exportHandler.ExportBookings)
			}

			// Documents
			admin.GET("/documents/presign", documentHandler.PresignDocument)
			admin.POST("/uploads", documentHandler.UploadFile)

			// Settings, audit trail, notifications
			admin.GET("/settings", settingsHandler.GetSettings)
			admin.PUT("/settings", settingsHandler.UpdateSettings)
			admin.GET("/audit-logs", settingsHandler.GetAuditLogs)
			admin.GET("/notifications", settingsHandler.GetNotifications)
			admin.PUT("/notifications/:id/read", settingsHandler.MarkNotificationRead)
		}
	}

	return r
}

func registerModerationRoutes(admin *gin.RouterGroup, path string, kind workflow.Kind, h *handlers.ModerationHandler) {
	group := admin.Group("/" + path)

	group.GET("", h.Queue(kind))
	group.GET("/stats", h.KindStats(kind))

	for _, action := range []workflow.Action{
		workflow.ActionApprove,
		workflow.ActionReject,
		workflow.ActionRevision,
		workflow.ActionComplete,
	} {
		if !workflow.Supports(kind, action) {
			continue
		}
		group.POST("/:id/"+string(action), h.Act(kind, action))
	}
}
