package router

import (
	"database/sql"
	"net/http"
	"time"

	"restaurant_backend/internal/config"
	"restaurant_backend/internal/handlers"
	"restaurant_backend/internal/metrics"
	"restaurant_backend/internal/middleware"
	"restaurant_backend/internal/repositories"
	"restaurant_backend/internal/services"
	"restaurant_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps carries what the router needs from main. MenuCache and OrderEvents are optional.
type Deps struct {
	DB          *sql.DB
	Config      *config.Config
	Metrics     *metrics.Metrics
	MenuCache   services.MenuCache
	OrderEvents services.OrderEvents
	// Stop ends background work started by the router, such as rate limiter cleanup.
	Stop <-chan struct{}
}

// App exposes the services main needs after routing is set up.
type App struct {
	Users services.UserService
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, deps Deps) *App {
	cfg := deps.Config
	handlers.ExposeErrorDetails(cfg.IsDevelopment())

	engine.Use(middleware.RequestID())
	engine.Use(utils.GinLogger())
	engine.Use(middleware.Recovery(cfg.IsDevelopment()))
	if deps.Metrics != nil {
		engine.Use(deps.Metrics.Middleware())
		engine.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins()
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	engine.Static("/uploads", cfg.UploadsDir)

	// Initialize Repositories
	userRepo := repositories.NewUserRepository(deps.DB)
	menuRepo := repositories.NewMenuRepository(deps.DB)
	tableRepo := repositories.NewTableRepository(deps.DB)
	orderRepo := repositories.NewOrderRepository(deps.DB)
	reservationRepo := repositories.NewReservationRepository(deps.DB)
	reportRepo := repositories.NewReportRepository(deps.DB)
	txManager := repositories.NewTxManager(deps.DB)

	// Initialize Services
	jwtManager := utils.NewJWTManager(cfg.JWTSecret, cfg.JWTExpire)
	availability := services.NewTableAvailability(tableRepo)

	var orderMetrics services.OrderMetrics
	var reservationMetrics services.ReservationMetrics
	if deps.Metrics != nil {
		orderMetrics = deps.Metrics
		reservationMetrics = deps.Metrics
	}

	authService := services.NewAuthService(userRepo, jwtManager, 0)
	userService := services.NewUserService(userRepo, 0)
	menuService := services.NewMenuService(menuRepo, deps.MenuCache, cfg.BackendURL)
	tableService := services.NewTableService(tableRepo, availability, txManager)
	orderService := services.NewOrderService(services.OrderServiceDeps{
		Orders:       orderRepo,
		Menu:         menuRepo,
		Users:        userRepo,
		Availability: availability,
		Tx:           txManager,
		Events:       deps.OrderEvents,
		Metrics:      orderMetrics,
		QR:           services.ReceiptQRGenerator{BaseURL: cfg.FrontendURL},
	})
	reservationService := services.NewReservationService(reservationRepo, tableRepo, availability, txManager, reservationMetrics)
	dashboardService := services.NewDashboardService(reportRepo, orderRepo, cfg.BackendURL)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	menuHandler := handlers.NewMenuHandler(menuService, cfg.UploadsDir)
	tableHandler := handlers.NewTableHandler(tableService)
	orderHandler := handlers.NewOrderHandler(orderService)
	reservationHandler := handlers.NewReservationHandler(reservationService)
	adminHandler := handlers.NewAdminHandler(dashboardService)

	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
	if deps.Stop != nil {
		limiter.StartCleanup(5*time.Minute, deps.Stop)
	}
	authRequired := middleware.AuthMiddleware(jwtManager)

	api := engine.Group("/api")
	SetupAuthRoutes(api, authHandler, authRequired, limiter.Middleware())
	SetupMenuRoutes(api, menuHandler, authRequired)
	SetupTableRoutes(api, tableHandler, authRequired)
	SetupOrderRoutes(api, orderHandler, authRequired)
	SetupReservationRoutes(api, reservationHandler, authRequired)
	SetupUserRoutes(api, userHandler, authRequired)
	SetupAdminRoutes(api, adminHandler, authRequired)

	return &App{Users: userService}
}
