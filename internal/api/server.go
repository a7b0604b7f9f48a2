// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

// Package api wires the HTTP surface: the two recommendation endpoints,
// health, and metrics, behind the shared middleware stack.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/foliosys/folio/internal/config"
	"github.com/foliosys/folio/internal/middleware"
	"github.com/foliosys/folio/internal/recommend"
	"github.com/foliosys/folio/internal/sources"
	"github.com/foliosys/folio/internal/store"
)

// Server holds the handler dependencies. It is the explicit owner of
// what used to be process-wide state: handlers reach the engine and the
// chain only through it.
type Server struct {
	engine   *recommend.Engine
	chain    *sources.Chain
	store    *store.Store
	cfg      *config.Config
	validate *validator.Validate
}

// NewServer builds the API server around its collaborators.
func NewServer(cfg *config.Config, eng *recommend.Engine, chain *sources.Chain, st *store.Store) *Server {
	return &Server{
		engine:   eng,
		chain:    chain,
		store:    st,
		cfg:      cfg,
		validate: validator.New(),
	}
}

// Routes assembles the router and middleware stack.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(s.recoverer)
	r.Use(middleware.Prometheus)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	if s.cfg.Server.RateLimitReqs > 0 {
		r.Use(httprate.Limit(
			s.cfg.Server.RateLimitReqs,
			s.cfg.Server.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
		))
	}

	r.Get("/recommend/{userID}", s.handleRecommendUser)
	r.Post("/recommend-by-interests", s.handleRecommendByInterests)
	r.Get("/api/v1/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
