package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"itinsort/internal/adapters"
	"itinsort/internal/adapters/cache"
	"itinsort/internal/adapters/httpclient"
	"itinsort/internal/adapters/postgres"
	"itinsort/internal/api"
	"itinsort/internal/config"
	"itinsort/internal/currency"
	"itinsort/internal/itinerary"
	"itinsort/internal/itinerary/handler"
	"itinsort/internal/platform/db"
	httpserver "itinsort/internal/platform/http"

	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts HTTP server and scheduler
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	if parsedLvl, parseErr := logrus.ParseLevel(appCfg.Logging.Level); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional durable tier for rate snapshots
	var snapshotRepo adapters.SnapshotRepository
	if appCfg.DbServer.Enabled() {
		repo, closeDB, dbErr := openSnapshotRepository(ctx, appCfg.DbServer)
		if dbErr != nil {
			logrus.WithError(dbErr).Error("Error connecting to db")
			return dbErr
		}
		defer closeDB()
		snapshotRepo = repo
		logrus.Info("✅ Postgres connection successful")
	} else {
		logrus.Info("db_server.host is empty, rate snapshots are kept in memory only")
	}

	// In-process snapshot cache
	snapshotCache, err := cache.NewSnapshotCache(appCfg.RateCache.MaxBases)
	if err != nil {
		return err
	}
	defer snapshotCache.Close()

	// Rate source
	rateClient := httpclient.NewExchangeRateClient(
		&http.Client{Timeout: appCfg.HTTPClientTimeout()},
		appCfg.ExchangeRateAPI.BaseURL,
	)

	// Services
	provider := currency.NewProvider(rateClient, snapshotCache, snapshotRepo, appCfg.RateTTL(), appCfg.FetchTimeout())
	sortService := itinerary.NewService(itinerary.DefaultRegistry(), provider, appCfg.Sorting.TargetCurrency)
	validator := itinerary.NewValidator(appCfg.Sorting.MaxItineraries)
	logrus.WithFields(logrus.Fields{
		"target_currency": sortService.TargetCurrency(),
		"sorting_types":   sortService.Names(),
	}).Info("✅ Sort service ready")

	scheduler := currency.NewScheduler(provider, appCfg.Scheduler.WarmBases, appCfg.RefreshInterval())
	// Ensure scheduler stops before DB pool closes
	defer func() {
		if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
		}
	}()
	if startErr := scheduler.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start scheduler")
		return startErr
	}
	logrus.Info("✅ Scheduler activation successful")

	// Handlers and router
	itineraryHandler := handler.NewItineraryHandler(validator, sortService)
	router := api.NewRouter(itineraryHandler, api.RouterOptions{
		RequestTimeout: appCfg.RequestTimeout(),
		AllowedOrigins: appCfg.CORS.AllowedOrigins,
	})

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}

// openSnapshotRepository migrates the schema and returns a repository
// together with a func releasing its pool.
func openSnapshotRepository(ctx context.Context, cfg config.DbServer) (*postgres.SnapshotRepository, func(), error) {
	// Bounded context for startup operations
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.Migrate(startupCtx, cfg.GetURL()); err != nil {
		return nil, nil, err
	}

	pool, err := db.CreatePoolAndPing(startupCtx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create db pool: %w", err)
	}
	return postgres.NewSnapshotRepository(pool), pool.Close, nil
}
