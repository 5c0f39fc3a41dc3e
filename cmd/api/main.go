package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/mapbrew/brewfinder/internal/config"
	"github.com/mapbrew/brewfinder/internal/database"
	"github.com/mapbrew/brewfinder/internal/handlers"
	"github.com/mapbrew/brewfinder/internal/middleware"
	"github.com/mapbrew/brewfinder/internal/provider"
	"github.com/mapbrew/brewfinder/internal/services"
	"github.com/mapbrew/brewfinder/internal/telemetry"
	"github.com/mapbrew/brewfinder/pkg/logger"
)

// @title BrewFinder API
// @version 1.0.0
// @description Coffee-shop & brewery discovery API
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if err := logger.Init(cfg.ServerEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize OpenTelemetry Tracer
	ctx := context.Background()
	tracerShutdown, err := telemetry.InitTracer(ctx, "brewfinder-api", cfg.SigNozEndpoint)
	if err != nil {
		log.Printf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	// Initialize OpenTelemetry Metrics
	meterShutdown, err := telemetry.InitMeter(ctx, "brewfinder-api", cfg.SigNozEndpoint)
	if err != nil {
		log.Printf("Failed to initialize metrics: %v", err)
	}
	defer func() {
		if err := meterShutdown(ctx); err != nil {
			log.Printf("Error shutting down metrics: %v", err)
		}
	}()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	poolCtx, cancelPool := context.WithCancel(ctx)
	defer cancelPool()
	go database.StartConnectionPoolMetricsCollector(poolCtx, db.DB, 15*time.Second)

	// Composition root: the ledger, cache and favorites manager are
	// process-wide singletons wired here and passed down explicitly.
	placesClient := provider.NewClient(cfg.PlacesBaseURL, cfg.PlacesAPIKey, cfg.PlacesTimeout)

	cache := services.NewPlaceResultCache(cfg.SearchCacheTTL, database.NewCacheStore(db))
	ledger := services.NewCreditLedger(database.NewCreditStore(db))
	favorites := services.NewFavoritesSlotManager(cfg.DefaultFavoriteSlots, cfg.RemovalRetention, database.NewFavoriteStore(db))
	filter := services.DefaultExclusionFilter()

	coordinator := services.NewFetchCoordinator(cache, ledger, filter, placesClient)
	identity := services.NewIdentityService(ledger)
	rewards := services.NewRewardService(ledger, favorites)
	authService := services.NewAuthService(db, cfg, identity, ledger)
	appConfigService := services.NewAppConfigService(db)

	// Periodic maintenance: sweep expired cache entries hourly, purge
	// stale recently-removed favorites daily.
	scheduler := cron.New()
	_, _ = scheduler.AddFunc("@hourly", func() {
		cache.EvictExpired()
	})
	_, _ = scheduler.AddFunc("@daily", func() {
		favorites.PurgeAllExpiredRemovals()
	})
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "BrewFinder API",
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     `{"time":"${time}","status":${status},"latency":"${latency}","ip":"${ip}","method":"${method}","path":"${path}","user_agent":"${ua}","error":"${error}"}` + "\n",
		TimeFormat: "2006-01-02T15:04:05Z07:00",
	}))
	app.Use(telemetry.New(telemetry.Config{
		ServiceName: "brewfinder-api",
	}))
	app.Use(middleware.PrometheusMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowHeaders:     "Accept, Accept-Encoding, Authorization, Content-Type, DNT, Origin, User-Agent, X-Requested-With, X-Device-ID",
		AllowCredentials: false,
		ExposeHeaders:    "Content-Length, Content-Type",
		MaxAge:           86400,
	}))

	setupRoutes(app, db, cfg, coordinator, ledger, favorites, rewards, authService, appConfigService)

	port := cfg.ServerPort
	if port == "" {
		port = "3000"
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}()

	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(
	app *fiber.App,
	db *database.DB,
	cfg *config.Config,
	coordinator *services.FetchCoordinator,
	ledger *services.CreditLedger,
	favorites *services.FavoritesSlotManager,
	rewards *services.RewardService,
	authService *services.AuthService,
	appConfigService *services.AppConfigService,
) {
	// Prometheus metrics
	app.Get("/metrics", middleware.PrometheusHandler())

	// Health check endpoints for k8s probes
	app.Get("/healthz", handlers.HealthCheck)
	app.Get("/v1/healthz", handlers.HealthCheck)
	app.Get("/v1/readiness", handlers.ReadinessCheck(db))
	app.Get("/v1/liveness", handlers.LivenessCheck)

	// API v1 group
	v1 := app.Group("/v1")

	// Auth routes (no auth required)
	auth := v1.Group("/auth")
	handlers.SetupAuthRoutes(auth, authService, cfg)

	// Place search (guest or authenticated)
	places := v1.Group("/places")
	handlers.SetupSearchRoutes(places, coordinator, cfg)

	// Favorites (guest or authenticated)
	favoritesGroup := v1.Group("/favorites", middleware.OptionalAuth(cfg))
	handlers.SetupFavoriteRoutes(favoritesGroup, favorites)

	// Credits & reward completion (guest or authenticated)
	credits := v1.Group("/credits", middleware.OptionalAuth(cfg))
	handlers.SetupCreditRoutes(credits, ledger, rewards)

	// App config routes (public)
	appConfig := v1.Group("/app-config")
	handlers.SetupAppConfigRoutes(appConfig, appConfigService)
}
