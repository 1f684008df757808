package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dockside/truck-management/internal/api/handler"
	"github.com/dockside/truck-management/internal/api/middleware"
	"github.com/dockside/truck-management/internal/core/domain"
	"github.com/dockside/truck-management/internal/core/service"
	mongodb "github.com/dockside/truck-management/internal/infrastructure/db/mongo"
	redisdb "github.com/dockside/truck-management/internal/infrastructure/db/redis"
	"github.com/dockside/truck-management/internal/realtime"
	"github.com/dockside/truck-management/internal/spreadsheet"
)

// RouterConfig carries everything the router needs to assemble the
// application: connected stores, the realtime hub, and auth settings.
type RouterConfig struct {
	Mongo      *mongo.Database
	Redis      *redis.Client
	Hub        *realtime.Hub
	JWTSecret  string
	TokenTTL   time.Duration
	SessionTTL time.Duration
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("truckmgmt"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Dependencies ---
	truckRepo := mongodb.NewTruckRepository(cfg.Mongo)
	authRepo := mongodb.NewAuthRepository(cfg.Mongo)
	sessionStore := redisdb.NewSessionStore(cfg.Redis, cfg.SessionTTL)

	authService := service.NewAuthService(authRepo, cfg.JWTSecret, cfg.TokenTTL)
	truckService := service.NewTruckService(truckRepo, cfg.Hub, cfg.Logger)
	importService := service.NewImportService(spreadsheet.NewParser(), sessionStore, truckRepo, cfg.Hub, cfg.Logger)

	authHandler := handler.NewAuthHandler(authService)
	truckHandler := handler.NewTruckHandler(truckService)
	importHandler := handler.NewImportHandler(importService)
	exportHandler := handler.NewExportHandler(truckService)
	wsHandler := handler.NewWSHandler(cfg.Hub, cfg.Logger)

	authRequired := middleware.Auth(cfg.JWTSecret)
	viewerUp := middleware.RequireRole(domain.RoleViewer)
	userUp := middleware.RequireRole(domain.RoleUser)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)
	e.GET("/api/auth/me", authHandler.Me, authRequired)

	// --- Truck routes ---
	trucks := e.Group("/api/trucks", authRequired)
	trucks.GET("", truckHandler.List, viewerUp)
	trucks.GET("/export", exportHandler.Export, viewerUp)
	trucks.GET("/template", exportHandler.Template, viewerUp)
	trucks.GET("/:id", truckHandler.Get, viewerUp)
	trucks.POST("", truckHandler.Create, userUp)
	trucks.PUT("/:id", truckHandler.Update, userUp)
	trucks.PATCH("/:id/status", truckHandler.UpdateStatus, userUp)
	trucks.DELETE("/:id", truckHandler.Delete, adminOnly)

	// --- Import routes ---
	trucks.POST("/import/preview", importHandler.Preview, userUp)
	trucks.POST("/import/confirm", importHandler.Confirm, userUp)

	// --- Stats ---
	e.GET("/api/stats", truckHandler.Stats, authRequired, viewerUp)

	// --- Realtime feed (no auth: carries only public change events) ---
	e.GET("/ws", wsHandler.Serve)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(cfg.Mongo, cfg.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operational surfaces ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
