package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Daesol/touchgrass-sub000/internal/api/handlers"
	"github.com/Daesol/touchgrass-sub000/internal/api/middleware"
	"github.com/Daesol/touchgrass-sub000/internal/api/routes"
	"github.com/Daesol/touchgrass-sub000/internal/domain/actionitem"
	"github.com/Daesol/touchgrass-sub000/internal/domain/contact"
	"github.com/Daesol/touchgrass-sub000/internal/domain/dashboard"
	"github.com/Daesol/touchgrass-sub000/internal/domain/event"
	"github.com/Daesol/touchgrass-sub000/internal/domain/events"
	"github.com/Daesol/touchgrass-sub000/internal/domain/note"
	"github.com/Daesol/touchgrass-sub000/internal/domain/profile"
	"github.com/Daesol/touchgrass-sub000/internal/domain/user"
	"github.com/Daesol/touchgrass-sub000/internal/infrastructure/cache"
	"github.com/Daesol/touchgrass-sub000/internal/infrastructure/persistence/postgres/connection"
	"github.com/Daesol/touchgrass-sub000/internal/infrastructure/persistence/postgres/migrations"
	"github.com/Daesol/touchgrass-sub000/pkg/config"
	"github.com/Daesol/touchgrass-sub000/pkg/logger"
	"github.com/Daesol/touchgrass-sub000/pkg/security/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// @title           TouchGrass API
// @version         1.0
// @description     Personal networking CRM: events, contacts, notes and follow-ups.

// @host      localhost:8000
// @BasePath

// RequestLoggerMiddleware logs all incoming HTTP requests
func RequestLoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("Request completed",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("") // Empty string will make it search in default locations
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Configuration loaded successfully")
	log.Info("Server mode: " + cfg.Server.Mode)

	// Set up Gin
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	gin.DefaultWriter = os.Stdout

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware(log))
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: cfg.CORS.AllowedMethods,
		AllowHeaders: append(cfg.CORS.AllowedHeaders,
			"Accept-Encoding",
			"Content-Type",
			"X-Requested-With",
		),
		ExposeHeaders: []string{
			"Content-Length",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
		},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	metricsMiddleware := middleware.NewMetricsMiddleware()
	router.Use(metricsMiddleware.CollectMetrics())

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Connect to database
	db, err := connection.NewDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if err := migrations.AutoMigrate(db, log.Logger); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize Redis
	redisConfig := cache.NewConfigFromEnv(cfg)
	redisClient, err := cache.NewRedisClient(redisConfig)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Session infrastructure: server-side session store plus the cookie-bound
	// client factory used by the auth middleware and handlers.
	sessionTTL := time.Duration(cfg.Session.MaxAgeHours) * time.Hour
	sessionStore := auth.NewSessionStore(redisClient.GetClient(), sessionTTL)
	clientFactory := auth.NewClientFactory(cfg, sessionStore, log)
	authMiddleware := middleware.NewAuthMiddleware(clientFactory)

	// Credential endpoints get a tighter limit than the global API.
	loginLimiter := auth.NewRedisRateLimiter(redisClient.GetClient(), 1*time.Minute, 20)

	// Initialize repositories
	userRepo := user.NewUserRepository(db)
	eventRepo := event.NewEventRepository(db)
	contactRepo := contact.NewContactRepository(db)
	actionItemRepo := actionitem.NewActionItemRepository(db)
	noteRepo := note.NewNoteRepository(db)
	profileRepo := profile.NewProfileRepository(db)

	// Initialize services
	userService := user.NewService(userRepo, log.Logger)
	eventService := event.NewService(eventRepo, redisClient, log.Logger)
	contactService := contact.NewService(contactRepo, eventRepo, redisClient, log.Logger)
	actionItemService := actionitem.NewService(actionItemRepo, contactRepo, eventRepo, redisClient, log.Logger)
	noteService := note.NewService(noteRepo, contactRepo, redisClient, log.Logger)
	profileService := profile.NewService(profileRepo, redisClient, log.Logger)
	dashboardService := dashboard.NewService(eventRepo, contactRepo, actionItemRepo, redisClient)

	// Initialize OAuth2 service
	oauthService := auth.NewOAuthService(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, clientFactory, oauthService, cfg, log.Logger)
	eventHandler := handlers.NewEventHandler(eventService, contactService, actionItemService, log.Logger)
	contactHandler := handlers.NewContactHandler(contactService, log.Logger)
	actionItemHandler := handlers.NewActionItemHandler(actionItemService, log.Logger)
	noteHandler := handlers.NewNoteHandler(noteService, log.Logger)
	profileHandler := handlers.NewProfileHandler(profileService, log.Logger)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, redisClient, log.Logger)
	syncHandler := handlers.NewSyncHandler(redisClient, log.Logger)

	// Register routes
	routes.NewHealthRoutes(db, redisClient).RegisterRoutes(router)
	routes.NewAuthRoutes(authHandler, loginLimiter, log).RegisterRoutes(router, authMiddleware)
	routes.NewEventRoutes(eventHandler, log).RegisterRoutes(router, authMiddleware)
	routes.NewContactRoutes(contactHandler, log).RegisterRoutes(router, authMiddleware)
	routes.NewActionItemRoutes(actionItemHandler, log).RegisterRoutes(router, authMiddleware)
	routes.NewNoteRoutes(noteHandler, log).RegisterRoutes(router, authMiddleware)
	routes.NewProfileRoutes(profileHandler, log).RegisterRoutes(router, authMiddleware)
	routes.NewDashboardRoutes(dashboardHandler, syncHandler, log).RegisterRoutes(router, authMiddleware)

	// Entity writes publish dashboard events; drop the cached overview for
	// that user so the next request rebuilds it.
	go func() {
		ctx := context.Background()
		err := redisClient.SubscribeToDashboardEvents(ctx, func(evt *events.DashboardEvent) error {
			if err := redisClient.InvalidateDashboardCache(ctx, evt.UserID); err != nil {
				log.Warn("Failed to invalidate dashboard cache",
					zap.String("user_id", evt.UserID.String()),
					zap.Error(err))
			}
			return nil
		})
		if err != nil {
			log.Error("Dashboard event subscription stopped", zap.Error(err))
		}
	}()

	for _, route := range router.Routes() {
		log.Info("Route registered",
			zap.String("method", route.Method),
			zap.String("path", route.Path),
		)
	}

	// Start server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info(fmt.Sprintf("Server starting on port %d", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited properly")
}
