// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

// Package sources implements the fallback retrieval chain for free-text
// interest queries: result cache, external providers in priority order,
// then local catalog similarity and a random sample as last resorts.
package sources

import (
	"context"
	"errors"

	"github.com/foliosys/folio/internal/models"
)

// ErrQuotaExhausted marks a provider response indicating the API quota is
// spent (HTTP 429). The chain suppresses that provider for the remainder
// of the current request instead of merely falling through once.
var ErrQuotaExhausted = errors.New("provider quota exhausted")

// Item is one raw article from an external provider, before keyword
// extraction and score annotation.
type Item struct {
	Title       string
	Snippet     string
	URL         string
	Category    string
	PublishedAt string
}

// Provider fetches fresh articles for a topic query from an external
// service. Implementations translate canonical categories through their
// own mapping table and must honor the context deadline.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, query string, categories []string, max int) ([]Item, error)
}

// LocalSearcher is the catalog-backed tail of the chain. The
// recommendation engine implements it; the interface lives here so the
// chain has no dependency on the engine package.
type LocalSearcher interface {
	SearchSimilar(ctx context.Context, query string, categories []string, n int) ([]models.ScoredArticle, error)
	RandomSample(categories []string, n int) []models.ScoredArticle
}

// attemptStatus classifies one source attempt. "Failed" and "succeeded
// with zero items" are distinct outcomes: both fall through, but they are
// logged and counted differently.
type attemptStatus int

const (
	attemptFailed attemptStatus = iota
	attemptEmpty
	attemptSucceeded
)

// attempt is the typed outcome of trying one source.
type attempt struct {
	source string
	status attemptStatus
	items  []models.ScoredArticle
	err    error
}
