// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// CatalogReloader reloads the CSV-backed catalog and rebuilds the vector
// index. Implemented in cmd/server over the store and engine; defined
// here as an interface to avoid circular imports.
type CatalogReloader interface {
	Reload(ctx context.Context) error
}

// ReloadService periodically refreshes the catalog so new articles and
// interactions picked up from the CSV files reach the index without a
// restart. An interval of zero disables reloading; the service then just
// parks until shutdown so the supervisor does not restart-loop it.
type ReloadService struct {
	reloader CatalogReloader
	interval time.Duration
	logger   zerolog.Logger
}

// NewReloadService creates a supervised periodic reload.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewReloadService(reloader CatalogReloader, interval time.Duration, logger zerolog.Logger) *ReloadService {
	return &ReloadService{
		reloader: reloader,
		interval: interval,
		logger:   logger.With().Str("service", "catalog-reload").Logger(),
	}
}

// Serve implements suture.Service. Reload failures are logged and retried
// on the next tick; only context cancellation stops the loop.
func (s *ReloadService) Serve(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Info().Msg("catalog reload disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	s.logger.Info().Dur("interval", s.interval).Msg("catalog reload service running")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("catalog reload service shutting down")
			return ctx.Err()

		case <-ticker.C:
			start := time.Now()
			if err := s.reloader.Reload(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("catalog reload failed")
				continue
			}
			s.logger.Info().Dur("took", time.Since(start)).Msg("catalog reloaded")
		}
	}
}

// String identifies the service in supervisor logs.
func (s *ReloadService) String() string {
	return "catalog-reload"
}
