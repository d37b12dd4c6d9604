// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/qrtrace/qrtrace-api/internal/config"
	"github.com/qrtrace/qrtrace-api/internal/handlers"
	"github.com/qrtrace/qrtrace-api/internal/middleware"
	"github.com/qrtrace/qrtrace-api/internal/models"
	"github.com/qrtrace/qrtrace-api/internal/services"
	"github.com/qrtrace/qrtrace-api/internal/store"
	"github.com/qrtrace/qrtrace-api/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize stores
	qrCodeStore := store.NewGormQRCodeStore(db)
	trackingStore := store.NewGormTrackingStore(db)
	userStore := store.NewGormUserStore(db)

	// Initialize services
	qrCodeService := services.NewQRCodeService(qrCodeStore, trackingStore)
	authService := services.NewAuthService(userStore, cfg)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Warn("Storage service unavailable, QR images served inline only")
	}

	// Initialize handlers
	qrCodeHandler := handlers.NewQRCodeHandler(qrCodeService, storageService, cfg.QR.ImageSize)
	verificationHandler := handlers.NewVerificationHandler(qrCodeService)
	authHandler := handlers.NewAuthHandler(authService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.GeneralRateLimit())

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
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// QR code routes
		qrcodes := v1.Group("/qrcodes")
		{
			qrcodes.GET("/:serialNumber", qrCodeHandler.GetQRCode)
			qrcodes.GET("/:serialNumber/history", qrCodeHandler.GetQRCodeHistory)
			qrcodes.GET("/:serialNumber/qr-image", qrCodeHandler.GenerateQRImage)

			// Record issuance requires a manufacturer account with the
			// qrcode:create permission
			protected := qrcodes.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("",
					middleware.PermissionRequired(userStore, models.PermissionQRCodeCreate),
					qrCodeHandler.CreateQRCode)
			}
		}

		// Verification routes (public)
		verify := v1.Group("/verify")
		verify.Use(middleware.VerifyRateLimit())
		{
			verify.POST("/serial", verificationHandler.VerifyBySerial)
		}
	}

	return r
}
