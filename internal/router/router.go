package router

import (
	"log"
	"time"

	"skillswap/config"
	"skillswap/internal/handler"
	"skillswap/internal/middleware"
	"skillswap/internal/repository"
	"skillswap/internal/service"
	"skillswap/internal/ws"
	"skillswap/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires repositories, services, and handlers and returns the engine
// plus the reminder scheduler for the caller to start.
func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) (*gin.Engine, *service.ReminderService) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	swapRepo := repository.NewSwapRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	hub := ws.NewHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	emailSvc := service.NewEmailService(cfg.Email.APIKey, cfg.Email.FromEmail)
	if emailSvc == nil {
		log.Printf("[Email] disabled: set RESEND_API_KEY to enable")
	}
	smsSvc := service.NewSMSService(cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.FromNumber)
	if smsSvc == nil {
		log.Printf("[SMS] disabled: set TWILIO_ACCOUNT_SID to enable")
	}
	fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath)
	if fcmSvc != nil {
		log.Printf("[FCM] push notifications enabled")
	} else if cfg.Firebase.ServiceAccountPath != "" {
		log.Printf("[FCM] push notifications disabled: failed to init (check service account file)")
	} else {
		log.Printf("[FCM] push notifications disabled: set FIREBASE_SERVICE_ACCOUNT_PATH to enable")
	}
	notifSvc := service.NewNotificationService(userRepo, notificationRepo, emailSvc, smsSvc, fcmSvc, hub)
	convoSvc := service.NewConversationService(messageRepo, userRepo)
	reminderSvc := service.NewReminderService(
		sessionRepo, userRepo, notificationRepo, notifSvc,
		cfg.Reminders.ScanInterval, cfg.Reminders.EmailLookahead,
		cfg.Reminders.SMSLookahead, cfg.Reminders.RetentionDays,
	)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, notifSvc)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc, notifSvc)
	userHandler := handler.NewUserHandler(userRepo, cloud)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	messageHandler := handler.NewMessageHandler(messageRepo, userRepo, convoSvc, notifSvc, hub)
	swapHandler := handler.NewSwapHandler(swapRepo, userRepo, notifSvc)
	sessionHandler := handler.NewSessionHandler(sessionRepo, userRepo, notifSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		api.GET("/users", authMw, userHandler.Search)
		api.GET("/users/:id", authMw, userHandler.Get)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", userHandler.Me)
			me.PATCH("/profile", userHandler.UpdateMe)
			me.POST("/avatar", userHandler.UploadAvatar)
			me.POST("/device-token", userHandler.RegisterDeviceToken)
			me.GET("/notifications", notificationHandler.List)
			me.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
			me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
			me.DELETE("/notifications/:id", notificationHandler.Delete)
		}

		messages := api.Group("/messages")
		messages.Use(authMw)
		{
			messages.POST("", messageHandler.Send)
			messages.GET("/conversations", messageHandler.Conversations)
			messages.GET("/:userId", messageHandler.History)
			messages.PUT("/:userId/read", messageHandler.MarkRead)
		}

		swaps := api.Group("/swaps")
		swaps.Use(authMw)
		{
			swaps.POST("", swapHandler.Create)
			swaps.GET("", swapHandler.List)
			swaps.GET("/:id", swapHandler.Get)
			swaps.PUT("/:id/status", swapHandler.UpdateStatus)
			swaps.DELETE("/:id", swapHandler.Delete)
		}

		sessions := api.Group("/sessions")
		sessions.Use(authMw)
		{
			sessions.POST("", sessionHandler.Create)
			sessions.GET("", sessionHandler.List)
			sessions.GET("/upcoming", sessionHandler.Upcoming)
			sessions.GET("/:id", sessionHandler.Get)
			sessions.PUT("/:id", sessionHandler.Update)
			sessions.PUT("/:id/status", sessionHandler.UpdateStatus)
			sessions.DELETE("/:id", sessionHandler.Cancel)
		}
	}

	r.GET("/ws", ws.Upgrade(&cfg.JWT, hub))

	return r, reminderSvc
}
