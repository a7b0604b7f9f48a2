// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

package sources

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/foliosys/folio/internal/logging"
	"github.com/foliosys/folio/internal/metrics"
)

// BreakerProvider wraps a Provider with a circuit breaker so a flapping
// external service stops being hammered. The breaker uses real time for
// its recovery windows; tests exercise the wrapped provider directly.
type BreakerProvider struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker[[]Item]
}

// WithBreaker wraps a provider in a circuit breaker. The circuit opens
// after a 60% failure rate over at least 5 requests and probes recovery
// after 30 seconds. Quota exhaustion counts as a failure but is passed
// through unchanged so the chain's suppression logic still sees it.
func WithBreaker(p Provider) *BreakerProvider {
	name := p.Name()
	metrics.RecordBreakerState(name, "closed")

	cb := gobreaker.NewCircuitBreaker[[]Item](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("provider", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("provider circuit breaker state change")
			metrics.RecordBreakerState(name, stateToString(to))
		},
	})

	return &BreakerProvider{inner: p, cb: cb}
}

// Name implements Provider.
func (b *BreakerProvider) Name() string { return b.inner.Name() }

// Fetch implements Provider through the breaker.
func (b *BreakerProvider) Fetch(ctx context.Context, query string, categories []string, max int) ([]Item, error) {
	items, err := b.cb.Execute(func() ([]Item, error) {
		return b.inner.Fetch(ctx, query, categories, max)
	})
	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.CircuitBreakerRequests.WithLabelValues(b.Name(), "rejected").Inc()
		default:
			metrics.CircuitBreakerRequests.WithLabelValues(b.Name(), "failure").Inc()
		}
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.Name(), "success").Inc()
	return items, nil
}

func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
