package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hbnb_api/internal/adapters/observability"
	redisad "hbnb_api/internal/adapters/redis"
	"hbnb_api/internal/adapters/upstream"
	"hbnb_api/internal/app"
	"hbnb_api/internal/domain"
	"hbnb_api/internal/shared"
	"hbnb_api/internal/storage"
)

func main() {
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MirrorSource == "" {
		log.Fatal().Msg("MIRROR_SOURCE_URL is required")
	}
	log.Info().
		Str("source", cfg.MirrorSource).
		Int("workers", cfg.MirrorWorkers).
		Str("storage", cfg.StorageType).
		Msg("mirror starting")

	store, closeStore, err := storage.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("storage open failed")
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error().Err(err).Msg("storage close failed")
		}
	}()

	client, err := upstream.New(cfg.MirrorSource, cfg.MirrorRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize upstream client")
	}

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}

	mir := app.NewMirrorService(client, store, cache)

	n, err := mir.MirrorAmenities(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("amenity mirror failed")
	}
	log.Info().Int("amenities", n).Msg("amenities mirrored")

	states, err := mir.ListStates(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("state listing failed")
	}

	workers := cfg.MirrorWorkers
	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total app.MirrorStats
	)

	for _, st := range states {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("mirror interrupted")
			break
		}

		wg.Add(1)
		go func(st domain.State) {
			defer wg.Done()
			defer sem.Release(1)

			stats, err := mir.MirrorState(ctx, st)
			mu.Lock()
			total.Cities += stats.Cities
			total.Places += stats.Places
			total.Links += stats.Links
			total.Skips += stats.Skips
			mu.Unlock()
			if err != nil {
				log.Warn().Str("state_id", st.ID).Err(err).Msg("mirror failed")
				return
			}
			log.Info().Str("state_id", st.ID).Int("places", stats.Places).Msg("mirror ok")
		}(st)
	}

	wg.Wait()
	log.Info().
		Int("states", len(states)).
		Int("cities", total.Cities).
		Int("places", total.Places).
		Int("links", total.Links).
		Int("skipped", total.Skips).
		Msg("mirror completed")
}
