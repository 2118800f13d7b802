package server

import (
	"context"
	"log"
	"strings"
	"time"

	"campus.clubhub.id/clubhub/internal/agent"
	"campus.clubhub.id/clubhub/internal/agent/agents"
	"campus.clubhub.id/clubhub/internal/agent/providers"
	"campus.clubhub.id/clubhub/internal/config"
	"campus.clubhub.id/clubhub/internal/middleware"
	"campus.clubhub.id/clubhub/internal/model"
	"campus.clubhub.id/clubhub/pkg/mail"
	"campus.clubhub.id/clubhub/pkg/qr"
	"campus.clubhub.id/clubhub/pkg/storage"

	aiHttp "campus.clubhub.id/clubhub/internal/modules/ai/delivery/http"
	aiService "campus.clubhub.id/clubhub/internal/modules/ai/service"

	analyticsHttp "campus.clubhub.id/clubhub/internal/modules/analytics/delivery/http"
	analyticsRepo "campus.clubhub.id/clubhub/internal/modules/analytics/repository"
	analyticsService "campus.clubhub.id/clubhub/internal/modules/analytics/service"

	checkinHttp "campus.clubhub.id/clubhub/internal/modules/checkin/delivery/http"
	checkinService "campus.clubhub.id/clubhub/internal/modules/checkin/service"

	clubHttp "campus.clubhub.id/clubhub/internal/modules/club/delivery/http"
	clubRepo "campus.clubhub.id/clubhub/internal/modules/club/repository"
	clubService "campus.clubhub.id/clubhub/internal/modules/club/service"

	clubRequestHttp "campus.clubhub.id/clubhub/internal/modules/clubrequest/delivery/http"
	clubRequestRepo "campus.clubhub.id/clubhub/internal/modules/clubrequest/repository"
	clubRequestService "campus.clubhub.id/clubhub/internal/modules/clubrequest/service"

	eventHttp "campus.clubhub.id/clubhub/internal/modules/event/delivery/http"
	eventRepo "campus.clubhub.id/clubhub/internal/modules/event/repository"
	eventService "campus.clubhub.id/clubhub/internal/modules/event/service"

	gamificationHttp "campus.clubhub.id/clubhub/internal/modules/gamification/delivery/http"
	gamificationRepo "campus.clubhub.id/clubhub/internal/modules/gamification/repository"
	gamificationService "campus.clubhub.id/clubhub/internal/modules/gamification/service"

	notiHttp "campus.clubhub.id/clubhub/internal/modules/notification/delivery/http"
	notifRepo "campus.clubhub.id/clubhub/internal/modules/notification/repository"
	notifService "campus.clubhub.id/clubhub/internal/modules/notification/service"

	profileHttp "campus.clubhub.id/clubhub/internal/modules/profile/delivery/http"
	profileService "campus.clubhub.id/clubhub/internal/modules/profile/service"

	registrationHttp "campus.clubhub.id/clubhub/internal/modules/registration/delivery/http"
	registrationRepo "campus.clubhub.id/clubhub/internal/modules/registration/repository"
	registrationService "campus.clubhub.id/clubhub/internal/modules/registration/service"

	searchService "campus.clubhub.id/clubhub/internal/modules/search/service"

	userHttp "campus.clubhub.id/clubhub/internal/modules/user/delivery/http"
	userRepo "campus.clubhub.id/clubhub/internal/modules/user/repository"
	userService "campus.clubhub.id/clubhub/internal/modules/user/service"

	view "campus.clubhub.id/clubhub/internal/modules/view/service"

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
	scheduler   *agent.Scheduler
}

func NewServer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Server {
	// Repositories
	users := userRepo.NewUserRepository(db)
	clubs := clubRepo.NewClubRepository(db)
	events := eventRepo.NewEventRepository(db)
	registrations := registrationRepo.NewRegistrationRepository(db)
	gamificationRepository := gamificationRepo.NewGamificationRepository(db)
	clubRequests := clubRequestRepo.NewClubRequestRepository(db)
	analytics := analyticsRepo.NewAnalyticsRepository(db)
	notifications := notifRepo.NewNotificationRepository(db)

	// Shared infrastructure
	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Printf("⚠️ Cloudinary unavailable, image uploads disabled: %v", err)
		imageStorage = nil
	}

	mailer, err := mail.NewResendMailer()
	if err != nil {
		log.Printf("⚠️ Resend unavailable, emails disabled: %v", err)
		mailer = nil
	}

	qrStore, err := qr.NewDiskStore(cfg.QRCodeDir)
	if err != nil {
		log.Fatalf("failed to prepare QR directory: %v", err)
	}

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := searchService.NewEventSearchService(meiliClient)

	// Services
	authSvc := userService.NewAuthService(users, cfg.JWTSecret)
	authHandler := userHttp.NewAuthHandler(authSvc)

	notificationSvc := notifService.NewNotificationService(notifications, redisClient)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, redisClient)

	gamificationSvc := gamificationService.NewGamificationService(gamificationRepository)
	gamificationHandler := gamificationHttp.NewGamificationHandler(gamificationSvc)

	clubSvc := clubService.NewClubService(clubs, users)
	clubHandler := clubHttp.NewClubHandler(clubSvc)

	eventSvc := eventService.NewEventService(events, clubs, registrations, searchSvc, imageStorage)
	viewSvc := view.NewViewService(redisClient, events)
	if redisClient != nil {
		go viewSvc.StartViewSyncWorker(context.Background())
	}
	eventHandler := eventHttp.NewEventHandler(eventSvc, viewSvc)

	registrationSvc := registrationService.NewRegistrationService(
		registrations, events, users, clubs,
		gamificationSvc, notificationSvc, qrStore, mailer,
	)
	registrationHandler := registrationHttp.NewRegistrationHandler(registrationSvc)

	checkinSvc := checkinService.NewCheckInService(registrations, clubs, users, gamificationSvc, notificationSvc)
	checkinHandler := checkinHttp.NewCheckInHandler(checkinSvc)

	clubRequestSvc := clubRequestService.NewClubRequestService(clubRequests, clubs, users, notificationSvc)
	clubRequestHandler := clubRequestHttp.NewClubRequestHandler(clubRequestSvc)

	analyticsSvc := analyticsService.NewAnalyticsService(analytics, clubs)
	analyticsHandler := analyticsHttp.NewAnalyticsHandler(analyticsSvc)

	profileSvc := profileService.NewProfileService(users, clubs, gamificationSvc, registrationSvc, imageStorage)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	var llm providers.LLMProvider
	if cfg.GeminiAPIKey != "" {
		gemini, err := providers.NewGeminiProvider(context.Background(), "")
		if err != nil {
			log.Printf("⚠️ Gemini unavailable, AI features run on fallbacks: %v", err)
		} else {
			llm = gemini
		}
	}
	aiSvc := aiService.NewAIService(llm, analyticsSvc, gamificationSvc, events)
	aiHandler := aiHttp.NewAIHandler(aiSvc)

	// Background agents
	scheduler := agent.NewScheduler()
	scheduler.RegisterAgent(agents.NewEventReminderAgent(events, registrations, mailer))
	scheduler.Start()

	router := gin.New()
	setupCORS(router, cfg)
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(users, cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	api.GET("/clubs", clubHandler.List)
	api.GET("/clubs/:id", clubHandler.Get)

	// Event browsing and guest RSVPs identify the caller when possible.
	public := api.Group("")
	public.Use(authMiddleware.OptionalAuth())
	{
		public.GET("/events", eventHandler.List)
		public.GET("/events/:id", eventHandler.Get)
		public.POST("/events/:id/register", registrationHandler.Register)
		public.DELETE("/events/:id/register", registrationHandler.Cancel)
	}

	// Authenticated routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/registrations/:id/qr", registrationHandler.QRImage)

		protected.GET("/profile", profileHandler.Get)
		protected.PATCH("/profile", profileHandler.Update)
		protected.POST("/profile/avatar", profileHandler.UploadAvatar)
		protected.GET("/profile/history", profileHandler.History)

		protected.GET("/gamification/me", gamificationHandler.MyStats)
		protected.GET("/gamification/leaderboard", gamificationHandler.Leaderboard)

		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		protected.POST("/club-requests", clubRequestHandler.Submit)
		protected.GET("/club-requests/mine", clubRequestHandler.MyRequests)

		protected.GET("/ai/recommendations", aiHandler.Recommendations)

		// Leader routes
		leader := protected.Group("/leader")
		leader.Use(authMiddleware.RequireRole(model.RoleLeader))
		{
			leader.GET("/club", clubHandler.MyClub)
			leader.PATCH("/club", clubHandler.UpdateMyClub)

			leader.GET("/events", eventHandler.Dashboard)
			leader.POST("/events", eventHandler.Create)
			leader.PUT("/events/:id", eventHandler.Update)
			leader.DELETE("/events/:id", eventHandler.Delete)
			leader.POST("/events/:id/poster", eventHandler.UploadPoster)
			leader.GET("/events/:id/registrations", registrationHandler.ListForLeader)

			leader.POST("/checkin", checkinHandler.Scan)

			leader.GET("/analytics/attendance", analyticsHandler.LeaderAttendance)
			leader.GET("/ai/insights", aiHandler.LeaderInsights)
			leader.POST("/ai/title-suggestions", aiHandler.SuggestTitles)
		}

		// University admin routes
		university := protected.Group("/university")
		university.Use(authMiddleware.RequireRole(model.RoleUniversity))
		{
			university.GET("/clubs", clubHandler.Overview)
			university.DELETE("/clubs/:id", clubHandler.Delete)
			university.POST("/clubs/:id/revoke-leader", clubHandler.RevokeLeader)

			university.GET("/club-requests", clubRequestHandler.List)
			university.PATCH("/club-requests/:id", clubRequestHandler.Decide)

			university.GET("/analytics/overview", analyticsHandler.Overview)
			university.GET("/analytics/popular-clubs", analyticsHandler.PopularClubs)
			university.GET("/analytics/active-days", analyticsHandler.ActiveDays)
			university.GET("/analytics/attendance", analyticsHandler.Attendance)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		scheduler:   scheduler,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, cfg *config.Config) {
	origins := strings.Split(cfg.AllowedOrigins, ",")

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
