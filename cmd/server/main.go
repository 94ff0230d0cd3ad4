package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/api"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/cache"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/config"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/logging"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/metrics"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/payment"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/repository/mongo"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/service"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
)

// @title FitPal API
// @version 1.0
// @description Workout completions and streaks, timed sessions, premium membership and diet plans.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logging.Setup(logging.SetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.Stdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	log.Println("starting FitPal server...")

	clock, err := domain.NewSystemClock(cfg.App.Timezone)
	if err != nil {
		log.Fatalf("invalid app.timezone: %v", err)
	}
	log.Infof("calendar days are computed in %s", clock.Location)

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), time.Minute)
	if err := mongo.EnsureIndexes(indexCtx, appDB); err != nil {
		log.Fatalf("could not create MongoDB indexes: %v", err)
	}
	cancelIndexes()

	// --- Redis ---
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client: %v", err)
		}
	}()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warnf("redis not reachable at %s, membership cache and chat limits will fail: %v", cfg.Redis.Address, err)
	}
	cancelPing()

	// --- Storage ---
	fileStorage, err := storage.NewS3Storage(context.Background(), cfg.S3)
	if err != nil {
		log.Fatalf("failed to initialize S3 storage: %v", err)
	}

	// --- Metrics ---
	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager(cfg.Metrics.Namespace, cfg.Metrics.Subsystem, promRegistry)

	// --- Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	completionRepo := mongo.NewMongoCompletionRepository(appDB)
	sessionRepo := mongo.NewMongoSessionRepository(appDB)
	membershipRepo := mongo.NewMongoMembershipRepository(appDB)
	orderRepo := mongo.NewMongoOrderRepository(appDB)
	splitRepo := mongo.NewMongoSplitRepository(appDB)
	profileRepo := mongo.NewMongoProfileRepository(appDB)

	// --- Services ---
	services := api.Services{
		Auth:        service.NewAuthService(userRepo, clock, cfg.JWT.Secret, cfg.JWT.Expiration),
		Completions: service.NewCompletionService(completionRepo, clock, metricsManager),
		Sessions:    service.NewSessionService(sessionRepo, clock, metricsManager),
		Membership: service.NewMembershipService(
			membershipRepo,
			orderRepo,
			cache.NewMembershipCache(redisClient, cfg.Membership.CacheTTL),
			cache.NewMembershipNotifier(redisClient),
			cfg.Membership.Plans,
			clock,
			metricsManager,
		),
		Splits:     service.NewSplitService(splitRepo, clock),
		Diet:       service.NewDietService(),
		ChatLimits: service.NewChatLimitService(cache.NewChatPromptCounter(redisClient), clock, cfg.Chat.DailyPromptLimit, metricsManager),
		Exports: service.NewExportService(
			completionRepo,
			sessionRepo,
			fileStorage,
			clock,
			cfg.S3.ExportURLExpiry,
			metricsManager,
		),
		Progress: service.NewProgressService(
			mongo.NewMongoWeightRepository(appDB),
			mongo.NewMongoStrengthRepository(appDB),
			clock,
			metricsManager,
		),
		Nutrition: service.NewNutritionService(
			mongo.NewMongoMealRepository(appDB),
			mongo.NewMongoCalculationRepository(appDB),
			profileRepo,
			clock,
			metricsManager,
		),
		Profiles:        service.NewProfileService(profileRepo, clock),
		PaymentVerifier: payment.NewSignatureVerifier(cfg.Payment.KeySecret),
	}
	if cfg.Payment.KeySecret == "" {
		log.Warn("payment.key_secret is empty, membership purchases will be rejected")
	}

	// --- Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(
		api.PanicRecovery(),
		api.RequestMetrics(metricsManager),
		api.LogRequest(),
	)

	api.SetupRoutes(router, services, api.RouteOptions{
		JWTSecret:            cfg.JWT.Secret,
		RateLimiter:          redis_rate.NewLimiter(redisClient),
		LoginRateLimitPerMin: cfg.Server.LoginRateLimitPerMin,
		MetricsGatherer:      promRegistry,
	})

	// --- Start HTTP Server ---
	// no WriteTimeout, the membership event stream is long lived
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	server := &http.Server{
		Addr:        cfg.Server.Address,
		Handler:     router,
		ReadTimeout: cfg.Server.ReadTimeout,
		IdleTimeout: cfg.Server.IdleTimeout,
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen and serve: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")
	// ends open event streams so Shutdown does not wait on them
	cancelBase()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}

	log.Println("server exiting")
}
