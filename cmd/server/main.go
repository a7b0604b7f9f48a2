// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

// Package main is the entry point for the Folio server application.
//
// Folio is a content-based article recommendation service. It builds a
// TF-IDF vector index over a CSV article catalog, derives per-user taste
// profiles from interaction history, and serves ranked recommendations
// over a small REST API. Interest-based queries fall through a chain of
// sources: result cache, external news providers, local similarity
// search, and finally a random catalog sample.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, config file, environment variables (Koanf v2)
//  2. Store: article and interaction CSVs loaded into memory
//  3. Engine: TF-IDF index built, swapped atomically on rebuild
//  4. Sources: NewsAPI and Guardian clients behind circuit breakers,
//     chained with the cache and local fallbacks
//  5. HTTP Server: chi router with Prometheus metrics on /metrics
//  6. Supervisor: suture tree running the HTTP server and the periodic
//     catalog reload
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (HTTP_PORT, NEWS_API_KEY, GUARDIAN_API_KEY, ...)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// External providers are disabled by default; enabling one requires its
// API key, which is validated at startup.
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections and waits for in-flight requests up to the
// configured shutdown timeout.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foliosys/folio/internal/api"
	"github.com/foliosys/folio/internal/cache"
	"github.com/foliosys/folio/internal/config"
	"github.com/foliosys/folio/internal/logging"
	"github.com/foliosys/folio/internal/recommend"
	"github.com/foliosys/folio/internal/sources"
	"github.com/foliosys/folio/internal/store"
	"github.com/foliosys/folio/internal/supervisor"
	"github.com/foliosys/folio/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Folio with supervisor tree")

	st, err := store.Load(cfg.Data.ArticlesPath, cfg.Data.InteractionsPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load catalog data")
	}
	articles, interactions := st.Counts()
	logging.Info().
		Int("articles", articles).
		Int("interactions", interactions).
		Str("articles_path", cfg.Data.ArticlesPath).
		Str("interactions_path", cfg.Data.InteractionsPath).
		Msg("Catalog loaded")

	// An empty catalog leaves the engine unready; the API reports
	// "data not loaded" until a reload picks the files up.
	engine := recommend.NewEngine(st, cfg.Recommend.TopN)
	if !engine.Ready() {
		logging.Warn().Msg("Recommendation index not built - catalog is empty")
	}

	resultCache := cache.New(cfg.Cache.TTL)

	var providers []sources.Provider
	if cfg.Providers.NewsAPI.Enabled {
		providers = append(providers, sources.WithBreaker(sources.NewNewsAPIClient(cfg.Providers.NewsAPI)))
		logging.Info().Str("base_url", cfg.Providers.NewsAPI.BaseURL).Msg("NewsAPI provider enabled")
	}
	if cfg.Providers.Guardian.Enabled {
		providers = append(providers, sources.WithBreaker(sources.NewGuardianClient(cfg.Providers.Guardian)))
		logging.Info().Str("base_url", cfg.Providers.Guardian.BaseURL).Msg("Guardian provider enabled")
	}
	if len(providers) == 0 {
		logging.Info().Msg("No external providers enabled - interest queries use local search only")
	}

	chain := sources.NewChain(resultCache, engine, cfg.Recommend.MaxExternalItems, cfg.Cache.TTL, providers...)

	srv := api.NewServer(cfg, engine, chain, st)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      srv.Routes(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog compatibility
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	reloader := &catalogReloader{
		store:            st,
		engine:           engine,
		articlesPath:     cfg.Data.ArticlesPath,
		interactionsPath: cfg.Data.InteractionsPath,
	}
	tree.AddDataService(services.NewReloadService(reloader, cfg.Data.ReloadInterval, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(httpServer, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", httpServer.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
