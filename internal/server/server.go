package server

import (
	"strings"
	"time"

	"anoa.com/dispatchhub/internal/config"
	"anoa.com/dispatchhub/internal/middleware"
	"anoa.com/dispatchhub/internal/modules/monitor"

	monitorHttp "anoa.com/dispatchhub/internal/modules/monitor/delivery/http"

	noticeHttp "anoa.com/dispatchhub/internal/modules/notice/delivery/http"
	noticeRepo "anoa.com/dispatchhub/internal/modules/notice/repository"
	noticeService "anoa.com/dispatchhub/internal/modules/notice/service"

	subHttp "anoa.com/dispatchhub/internal/modules/subcontractor/delivery/http"
	subService "anoa.com/dispatchhub/internal/modules/subcontractor/service"

	userHttp "anoa.com/dispatchhub/internal/modules/user/delivery/http"
	userRepo "anoa.com/dispatchhub/internal/modules/user/repository"
	userService "anoa.com/dispatchhub/internal/modules/user/service"

	workHttp "anoa.com/dispatchhub/internal/modules/work/delivery/http"
	workRepo "anoa.com/dispatchhub/internal/modules/work/repository"
	workService "anoa.com/dispatchhub/internal/modules/work/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, mon *monitor.Monitor) *Server {
	users := userRepo.NewUserRepository(db)
	works := workRepo.NewWorkRepository(db)
	notices := noticeRepo.NewNoticeRepository(db)

	authSvc := userService.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := userHttp.NewAuthHandler(authSvc)

	subSvc := subService.NewSubcontractorService(users, notices, cfg.ContractorCreateKey)
	subHandler := subHttp.NewSubcontractorHandler(subSvc)

	workSvc := workService.NewWorkService(works, cfg.CommissionRate)
	workHandler := workHttp.NewWorkHandler(workSvc)

	noticeSvc := noticeService.NewNoticeService(notices, redisClient)
	noticeHandler := noticeHttp.NewNoticeHandler(noticeSvc, redisClient)

	healthHandler := monitorHttp.NewHealthHandler(mon)

	router := gin.New()
	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/health"},
	}))

	authMiddleware := middleware.NewAuthMiddleware(users, cfg.JWTSecret)

	router.GET("/health", healthHandler.Health)
	router.GET("/health/detailed", healthHandler.DetailedHealth)

	// Public routes (no auth required)
	router.POST("/user/sign-in", authHandler.SignIn)
	router.POST("/users/contractor", subHandler.CreateContractor)

	// Protected routes (apply auth middleware explicitly)
	protected := router.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Session routes
		protected.GET("/user", authHandler.Me)
		protected.POST("/user/password", authHandler.ChangePassword)

		// Driver work routes
		protected.GET("/user/works", workHandler.GetMyWorks)
		protected.GET("/user/works/complete", workHandler.GetMyCompletedWorks)
		protected.GET("/user/works/analysis", workHandler.GetMyWorksAnalysis)
		protected.PATCH("/works/:id", workHandler.SetWorkState)

		// Notice routes
		protected.GET("/notices/activation", noticeHandler.ListActiveNotices)
		protected.POST("/notices/:id/confirm", noticeHandler.ConfirmNotice)
		protected.GET("/notices/ws", noticeHandler.HandleWebSocket)

		// Contractor routes
		contractor := protected.Group("")
		contractor.Use(authMiddleware.RequireContractor())
		{
			contractor.GET("/users", subHandler.ListSubcontractors)
			contractor.POST("/users", subHandler.CreateSubcontractor)
			contractor.GET("/users/:id", subHandler.GetSubcontractor)
			contractor.PUT("/users/:id", subHandler.UpdateSubcontractor)
			contractor.DELETE("/users/:id", subHandler.DeleteSubcontractor)
			contractor.GET("/users/:id/works", workHandler.GetUserWorks)

			contractor.GET("/works", workHandler.ListWorks)
			contractor.POST("/works", workHandler.CreateWork)
			contractor.PUT("/works/:id", workHandler.UpdateWork)
			contractor.DELETE("/works/:id", workHandler.DeleteWork)
			contractor.PATCH("/works/:id/force-activate", workHandler.ForceActivateWork)
			contractor.PATCH("/works/:id/force-complete", workHandler.ForceCompleteWork)

			contractor.GET("/notices", noticeHandler.ListNotices)
			contractor.POST("/notices", noticeHandler.CreateNotice)
			contractor.GET("/notices/:id", noticeHandler.GetNotice)
			contractor.PUT("/notices/:id", noticeHandler.UpdateNotice)
			contractor.DELETE("/notices/:id", noticeHandler.DeleteNotice)
		}
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
	origins := []string{"http://localhost:3000"}
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
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
