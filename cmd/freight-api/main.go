// README: Entry point; loads config, wires resolvers and rate services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"freightrate/internal/config"
	"freightrate/internal/geo"
	"freightrate/internal/geocache"
	httptransport "freightrate/internal/http"
	"freightrate/internal/logging"
	"freightrate/internal/modules/distance"
	"freightrate/internal/modules/itinerary"
	"freightrate/internal/modules/location"
	"freightrate/internal/modules/multimodal"
	"freightrate/internal/modules/pricing"
	"freightrate/internal/refdata"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	data, err := refdata.Load(cfg.Data.Dir)
	if err != nil {
		logger.Fatal("loading reference data", zap.Error(err))
	}

	var cache geocache.Store
	switch cfg.Geocache.Backend {
	case "redis":
		cache = geocache.NewRedisStore(cfg.Geocache.RedisAddr)
	default:
		cache, err = geocache.OpenFile(cfg.Geocache.Path)
		if err != nil {
			logger.Fatal("opening geocode cache", zap.Error(err))
		}
	}

	var geocoder geo.Geocoder
	var router geo.Router
	if cfg.Maps.APIKey != "" {
		client, err := geo.NewGoogleClient(cfg.Maps.APIKey)
		if err != nil {
			logger.Fatal("maps client init", zap.Error(err))
		}
		geocoder, router = client, client
	} else {
		logger.Warn("MAPS_API_KEY not set; distances come from the matrix fallback only")
	}

	locations := location.NewResolver(data)
	distances := distance.NewResolver(geocoder, router, cache, data, logger)

	europeSvc := pricing.NewService(locations, distances, data, logger)
	multimodalSvc := multimodal.NewService(data, logger)
	overlandSvc := itinerary.NewService(locations, distances, data, cfg.Itinerary.HubAddress, logger)

	handler := httptransport.NewRouter(europeSvc, multimodalSvc, overlandSvc, data, logger)
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server", zap.Error(err))
	}
}
