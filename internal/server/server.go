package server

import (
	"strings"
	"time"

	"cryptoheaven.app/api/internal/config"
	"cryptoheaven.app/api/internal/handler"
	"cryptoheaven.app/api/internal/middleware"
	"cryptoheaven.app/api/internal/repository"
	"cryptoheaven.app/api/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Server {
	userRepo := repository.NewUserRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	threadRepo := repository.NewThreadRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := service.NewSearchService(meiliClient)

	notificationSvc := service.NewNotificationService(notificationRepo, redisClient)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, userRepo, redisClient)

	userSvc := service.NewUserService(userRepo)
	userHandler := handler.NewUserHandler(userSvc)

	communitySvc := service.NewCommunityService(communityRepo, userRepo, threadRepo, notificationSvc, searchSvc)
	communityHandler := handler.NewCommunityHandler(communitySvc)

	messageSvc := service.NewMessageService(messageRepo, communityRepo, userRepo, notificationSvc, redisClient, cfg.RateLimitMessage)
	messageHandler := handler.NewMessageHandler(messageSvc)

	threadSvc := service.NewThreadService(threadRepo, communityRepo, userRepo, notificationSvc, searchSvc, redisClient, cfg.RateLimitThread)
	threadHandler := handler.NewThreadHandler(threadSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	api.GET("/communities", communityHandler.ListCommunities)
	api.GET("/communities/:id", communityHandler.GetCommunityDetails)
	api.GET("/threads", threadHandler.FetchPosts)
	api.GET("/threads/:id", threadHandler.FetchThreadByID)

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// User routes
		protected.POST("/users/onboard", userHandler.OnboardUser)
		protected.GET("/users/me", userHandler.GetCurrentUser)
		protected.GET("/users/me/communities", userHandler.GetCurrentUserCommunities)

		// Community routes
		protected.POST("/communities", communityHandler.CreateCommunity)
		protected.PUT("/communities/:id", communityHandler.UpdateCommunityInfo)
		protected.DELETE("/communities/:id", communityHandler.DeleteCommunity)

		// Membership routes
		protected.POST("/communities/:id/join", communityHandler.JoinCommunity)
		protected.POST("/communities/:id/leave", communityHandler.LeaveCommunity)
		protected.POST("/communities/:id/requests/:userID/approve", communityHandler.ApproveJoinRequest)
		protected.POST("/communities/:id/requests/:userID/reject", communityHandler.RejectJoinRequest)
		protected.POST("/communities/:id/admins", communityHandler.AddCommunityAdmin)

		// Chat routes
		protected.POST("/communities/:id/messages", messageHandler.SendMessage)
		protected.GET("/communities/:id/messages", messageHandler.FetchCommunityMessages)
		protected.POST("/messages/:id/like", messageHandler.LikeMessage)
		protected.DELETE("/messages/:id", messageHandler.DeleteMessage)

		// Thread routes
		protected.POST("/threads", threadHandler.CreateThread)
		protected.POST("/threads/:id/comments", threadHandler.AddComment)
		protected.POST("/threads/:id/like", threadHandler.LikeThread)
		protected.DELETE("/threads/:id", threadHandler.DeleteThread)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
