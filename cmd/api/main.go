package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devjkoo/wayfarer/server/docs"
	"github.com/devjkoo/wayfarer/server/internal/cache"
	"github.com/devjkoo/wayfarer/server/internal/config"
	"github.com/devjkoo/wayfarer/server/internal/database"
	"github.com/devjkoo/wayfarer/server/internal/handlers"
	"github.com/devjkoo/wayfarer/server/internal/middleware"
	"github.com/devjkoo/wayfarer/server/internal/telemetry"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/joho/godotenv"
)

// @title Wayfarer API
// @version 1.0.0
// @description 여행 계획/추천 백엔드 API
// @host api.wayfarer.dev
// @BasePath /v1
// @schemes https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Swagger host는 배포 환경에 따라 달라진다
	docs.SwaggerInfo.Host = cfg.ServerHost

	// Initialize OpenTelemetry Tracer
	ctx := context.Background()
	tracerShutdown, err := telemetry.InitTracer(ctx, "wayfarer-api", cfg.SigNozEndpoint)
	if err != nil {
		log.Printf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	// Initialize OpenTelemetry Metrics
	meterShutdown, err := telemetry.InitMeter(ctx, "wayfarer-api", cfg.SigNozEndpoint)
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

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Connection pool 메트릭 수집 (백그라운드)
	poolCtx, poolCancel := context.WithCancel(ctx)
	defer poolCancel()
	go database.StartConnectionPoolMetricsCollector(poolCtx, db.DB, 15*time.Second)

	// 외부 API 응답 캐시. Redis가 없으면 no-op으로 동작한다.
	var cacheStore cache.Cache = cache.NoopCache{}
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("Redis unavailable, external API caching disabled: %v", err)
		} else {
			cacheStore = redisCache
			defer redisCache.Close()
		}
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Wayfarer API",
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	// JSON 구조화 로깅
	app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","status":${status},"latency":"${latency}","ip":"${ip}","method":"${method}","path":"${path}","user_agent":"${ua}","error":"${error}"}` + "\n",
		TimeFormat: "2006-01-02T15:04:05Z07:00",
		TimeZone:   "Asia/Seoul",
	}))
	app.Use(telemetry.New(telemetry.Config{
		ServiceName: "wayfarer-api",
	}))
	app.Use(middleware.PrometheusMiddleware())
	// CORS 설정
	// Mobile app (Android/iOS)에서 API 호출을 위해 모든 origin 허용
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowHeaders:     "Accept, Accept-Encoding, Authorization, Content-Type, DNT, Origin, User-Agent, X-Requested-With, X-API-Key",
		AllowCredentials: false, // AllowOrigins가 "*"일 때는 false여야 함
		ExposeHeaders:    "Content-Length, Content-Type",
		MaxAge:           86400, // Preflight 캐시 24시간
	}))

	// Setup routes
	setupRoutes(app, db, cfg, cacheStore)

	// Start server
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

func setupRoutes(app *fiber.App, db *database.DB, cfg *config.Config, cacheStore cache.Cache) {
	// Swagger UI
	app.Get("/v1/docs/*", swagger.HandlerDefault)

	// Prometheus scrape 엔드포인트 (내부망 전용)
	app.Get("/metrics", middleware.InternalOnly(), middleware.PrometheusHandler())

	// Health check endpoints for k8s probes
	app.Get("/healthz", handlers.HealthCheck)
	app.Get("/v1/healthz", handlers.HealthCheck)
	app.Get("/v1/readyz", handlers.ReadinessCheck(db))
	app.Get("/v1/livez", handlers.LivenessCheck)

	// API v1 group
	v1 := app.Group("/v1")

	// Auth routes (no auth required)
	auth := v1.Group("/auth")
	handlers.SetupAuthRoutes(auth, db, cfg)

	// Users routes (auth required)
	users := v1.Group("/users", middleware.AuthRequired(cfg))
	handlers.SetupUserRoutes(users, db)

	// Trips routes + per-trip suggestions (auth required)
	trips := v1.Group("/trips", middleware.AuthRequired(cfg))
	handlers.SetupTripRoutes(trips, db)
	handlers.SetupSuggestionRoutes(trips, db, cfg)

	// Places catalog (public)
	places := v1.Group("/places")
	handlers.SetupPlaceRoutes(places, db)

	// External provider proxies (public)
	weather := v1.Group("/weather")
	handlers.SetupWeatherRoutes(weather, cfg, cacheStore)

	news := v1.Group("/news")
	handlers.SetupNewsRoutes(news, cfg, cacheStore)

	hotels := v1.Group("/hotels")
	handlers.SetupHotelRoutes(hotels, cfg, cacheStore)

	// Internal API (importer 전용, X-API-Key 인증)
	internal := v1.Group("/internal")
	handlers.SetupInternalRoutes(internal, db, cfg)
}
