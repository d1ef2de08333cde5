// README: Entry point; loads config, wires stores, services and the HTTP server, then serves until signalled.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"tabihi/internal/cache"
	"tabihi/internal/config"
	httptransport "tabihi/internal/http"
	"tabihi/internal/http/middleware"
	"tabihi/internal/infra"
	"tabihi/internal/maps"
	"tabihi/internal/modules/pricing"
	"tabihi/internal/modules/settings"
	"tabihi/internal/modules/trip"
	"tabihi/internal/modules/vehicle"
	"tabihi/internal/obs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger := infra.NewLogger(cfg.Log.Format, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	sessions, err := newSessionValidator(ctx, cfg)
	if err != nil {
		return fmt.Errorf("session validator: %w", err)
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
	if err != nil {
		// Caching is optional; run uncached rather than refuse to start.
		logger.Warn().Err(err).Msg("redis unavailable, caching disabled")
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	appCache := cache.New(redisClient, "tabihi:", cfg.Redis.CacheTTL)
	metrics := obs.NewMetrics("tabihi", nil)

	mapsOpts := []maps.Option{
		maps.WithTimeout(cfg.Maps.Timeout),
		maps.WithCache(appCache),
		maps.WithMetrics(metrics),
		maps.WithLogger(logger),
	}
	routeSvc, err := maps.NewRouteService(cfg.Maps.APIKey, mapsOpts...)
	if err != nil {
		return fmt.Errorf("route service: %w", err)
	}
	placesSvc, err := maps.NewPlacesService(cfg.Maps.APIKey, mapsOpts...)
	if err != nil {
		return fmt.Errorf("places service: %w", err)
	}

	settingsSvc := settings.NewService(settings.NewStore(dbPool), appCache, cfg.DB.StoreTimeout, logger)
	vehicleSvc := vehicle.NewService(vehicle.NewStore(dbPool), cfg.DB.StoreTimeout)
	pricingSvc := pricing.NewService(settingsSvc, routeSvc, vehicleSvc)
	tripSvc := trip.NewService(trip.NewStore(dbPool), pricingSvc, cfg.DB.StoreTimeout, logger)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Routes:   routeSvc,
		Places:   placesSvc,
		Quoter:   pricingSvc,
		Settings: settingsSvc,
		Vehicles: vehicleSvc,
		Trips:    tripSvc,
		Sessions: sessions,
		Logger:   logger,
		Metrics:  metrics,
		Limiter:  middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	})

	logger.Info().Str("addr", cfg.HTTP.Addr).Str("auth", cfg.Auth.Provider).Msg("starting tabihi api")
	return httptransport.NewServer(cfg.HTTP.Addr, router, logger).Run(ctx)
}

func newSessionValidator(ctx context.Context, cfg config.Config) (infra.SessionValidator, error) {
	switch cfg.Auth.Provider {
	case config.AuthFirebase:
		return infra.NewFirebaseValidator(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	default:
		return infra.NewSupabaseValidator(cfg.Auth.SupabaseJWTSecret)
	}
}
