package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/niramaya-health/hospital-finder/internal/adapters/cache"
	"github.com/niramaya-health/hospital-finder/internal/adapters/providers/geolocation"
	"github.com/niramaya-health/hospital-finder/internal/api/handlers"
	"github.com/niramaya-health/hospital-finder/internal/api/middleware"
	"github.com/niramaya-health/hospital-finder/internal/api/routes"
	"github.com/niramaya-health/hospital-finder/internal/application/services"
	"github.com/niramaya-health/hospital-finder/internal/catalog"
	"github.com/niramaya-health/hospital-finder/internal/domain/providers"
	"github.com/niramaya-health/hospital-finder/internal/infrastructure/clients/redis"
	"github.com/niramaya-health/hospital-finder/internal/infrastructure/observability"
	"github.com/niramaya-health/hospital-finder/pkg/config"
	"github.com/niramaya-health/hospital-finder/pkg/retry"
)

func main() {
	// .env is optional; real deployments configure via the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Environment)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	cat, err := catalog.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load hospital catalog")
	}
	logger.Info().Int("hospitals", len(cat.Hospitals())).Msg("hospital catalog loaded")

	// Redis is optional; the service runs without response caching or stored
	// analytics when it is unavailable.
	var redisClient *redis.Client
	if err := retry.Do(ctx, retry.DefaultConfig(), func() error {
		c, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			return err
		}
		redisClient = c
		return nil
	}); err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, continuing without cache")
	} else {
		defer redisClient.Close()
		logger.Info().Msg("Redis client initialized")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	var geocoder providers.Geocoder
	switch cfg.Geolocation.Provider {
	case "mock":
		geocoder = geolocation.NewMockGeocoder()
		logger.Info().Msg("using mock geocoder")
	default:
		geocoder = geolocation.NewNominatimProvider(
			cfg.Geolocation.BaseURL,
			cfg.Geolocation.UserAgent,
			cfg.Geolocation.Timeout(),
		)
	}

	taxonomyService := services.NewTaxonomyService(cat)
	locationService := services.NewLocationService(cat, geocoder)
	proximityService := services.NewProximityService(metrics)
	scoringService := services.NewScoringService(taxonomyService)
	analyticsService := services.NewSearchAnalyticsService(cacheProvider)

	matchService := services.NewMatchService(
		cat,
		locationService,
		proximityService,
		scoringService,
		analyticsService,
		metrics,
		cfg.Search.MaxResults,
	)

	searchHandler := handlers.NewSearchHandler(matchService, cfg.Search.DefaultMaxDistanceKm)
	hospitalHandler := handlers.NewHospitalHandler(cat)
	conditionHandler := handlers.NewConditionHandler(cat, taxonomyService)
	locationHandler := handlers.NewLocationHandler(cat, locationService)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics)
	}

	router := routes.NewRouter(
		searchHandler,
		hospitalHandler,
		conditionHandler,
		locationHandler,
		cacheMiddleware,
		metrics,
	)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	logger.Info().Msg("server stopped")
}
