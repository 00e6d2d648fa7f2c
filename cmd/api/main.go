package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "hbnb_api/internal/adapters/http_server"
	"hbnb_api/internal/adapters/observability"
	redisad "hbnb_api/internal/adapters/redis"
	"hbnb_api/internal/app"
	"hbnb_api/internal/domain"
	"hbnb_api/internal/shared"
	"hbnb_api/internal/storage"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	store, closeStore, err := storage.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.StorageType).Msg("storage open failed")
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error().Err(err).Msg("storage close failed")
		}
	}()

	// cache is optional; keep the interface nil when Redis is not configured
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, place cache will miss")
		}
		cache = rc
	}

	places := app.NewPlaceService(store, cache, cfg.CacheTTL)
	catalog := app.NewCatalogService(store)

	// http
	srv := server.New(server.Options{RatePerSec: cfg.RatePerSec, RateBurst: cfg.RateBurst})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{P: places, C: catalog})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("storage", cfg.StorageType).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
