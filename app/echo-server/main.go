package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appmetrics "productReco/app/echo-server/metrics"
	"productReco/app/echo-server/router"
	"productReco/business/catalog"
	"productReco/business/estimator"
	"productReco/business/recommender"
	"productReco/internal/middleware"
	fileRepo "productReco/internal/repository/file"
	psqlRepo "productReco/internal/repository/postgres"
	"productReco/internal/repository/predictor"
	redisRepo "productReco/internal/repository/redis"
	"productReco/internal/rest"
	"productReco/pkg/config"
	"productReco/pkg/database"
	redisdb "productReco/pkg/database/redis"
	"productReco/pkg/logger"
	"productReco/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting "+cfg.App.Name, "version", cfg.App.Version, "mode", cfg.Recommender.Mode)

	metrics.Init()
	appmetrics.Init()

	// Load catalog
	src, closeSource := newCatalogSource(cfg)
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*time.Minute)
	cat, err := catalog.Load(loadCtx, src)
	cancelLoad()
	closeSource()
	if err != nil {
		logger.Fatal("Failed to load catalog", "error", err)
	}

	// Init personalizer
	var personalizer recommender.Personalizer
	var cleanup []func()
	switch cfg.Recommender.Mode {
	case config.ModeOnDemand:
		est, closeEst := newEstimator(cfg, cat)
		cleanup = append(cleanup, closeEst)
		personalizer = recommender.NewOnDemandPersonalizer(cat, est, recommender.UnseenChecker{Catalog: cat}, recommender.OnDemandConfig{
			Threshold:      cfg.Recommender.ScoringThreshold,
			MaxConcurrency: cfg.Recommender.MaxConcurrency,
			Timeout:        cfg.Predictor.Timeout,
		})
	default:
		personalizer = recommender.NewPrecomputedPersonalizer(cat)
	}

	// Init service
	recoService := recommender.NewService(cat, personalizer, recommender.ServiceConfig{
		TopN:                 cfg.Recommender.TopN,
		FallbackMinRatings:   cfg.Recommender.FallbackMinRatings,
		DemoUserCount:        cfg.Recommender.DemoUserCount,
		DemoUsersIndexedOnly: cfg.Recommender.Mode == config.ModePrecomputed,
	})

	// Init handler
	recoHandler := rest.NewRecommendationHandler(recoService)
	healthHandler := rest.NewHealthHandler(cat, cfg.Recommender.Mode)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(appmetrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
	}))
	e.Use(echomiddleware.ContextTimeoutWithConfig(echomiddleware.ContextTimeoutConfig{
		Timeout: cfg.Server.RequestTimeout,
	}))

	// Setup routes
	router.SetHealthRoutes(e, healthHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1", middleware.RateLimiter(cfg.Server.RateLimitRPS))
	router.SetRecommendationRoutes(api, recoHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	for _, fn := range cleanup {
		fn()
	}

	logger.Info("Server stopped")
}

// newCatalogSource picks the artifact source. The returned func releases it
// once the catalog is built.
func newCatalogSource(cfg *config.Config) (catalog.Source, func()) {
	if cfg.Data.Source != config.DataSourcePostgres {
		logger.Info("Reading catalog from files", "dir", cfg.Data.Dir)
		return fileRepo.NewCatalogSource(cfg.Data.Dir), func() {}
	}

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connected successfully")

	return psqlRepo.NewCatalogRepository(db), func() {
		if err := database.ClosePostgres(db); err != nil {
			logger.Warn("Failed to close database", "error", err)
		}
	}
}

// newEstimator builds the rating estimator for on-demand scoring, optionally
// behind the redis cache.
func newEstimator(cfg *config.Config, cat *catalog.Catalog) (estimator.RatingEstimator, func()) {
	var est estimator.RatingEstimator
	switch cfg.Recommender.Estimator {
	case config.EstimatorBaseline:
		logger.Info("Training baseline estimator", "interactions", cat.Sizes().Interactions)
		est = estimator.TrainBaseline(cat.Interactions(), 0, 0)
	default:
		logger.Info("Using remote predictor", "url", cfg.Predictor.URL)
		est = predictor.NewClient(predictor.Config{
			BaseURL:          cfg.Predictor.URL,
			Timeout:          cfg.Predictor.Timeout,
			FailureThreshold: cfg.Predictor.FailureThreshold,
			OpenTimeout:      cfg.Predictor.OpenTimeout,
		})
	}

	if !cfg.Redis.Enabled {
		return est, func() {}
	}

	client, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, estimate cache disabled", "error", err)
		return est, func() {}
	}
	logger.Info("Estimate cache enabled", "ttl", cfg.Redis.EstimateTTL.String())

	return redisRepo.NewEstimateCache(client, est, cfg.Redis.EstimateTTL), func() {
		if err := redisdb.CloseRedisClient(client); err != nil {
			logger.Warn("Failed to close redis", "error", err)
		}
	}
}
