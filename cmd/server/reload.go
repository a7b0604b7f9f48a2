// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

package main

import (
	"context"
	"fmt"

	"github.com/foliosys/folio/internal/recommend"
	"github.com/foliosys/folio/internal/store"
)

// catalogReloader rereads the CSV files and rebuilds the vector index.
// It backs the supervised catalog-reload service so edits to the data
// files show up without a restart.
type catalogReloader struct {
	store            *store.Store
	engine           *recommend.Engine
	articlesPath     string
	interactionsPath string
}

// Reload swaps in a fresh catalog snapshot. The store is only replaced
// after both files parse, so a bad edit never clobbers a working catalog.
func (r *catalogReloader) Reload(ctx context.Context) error {
	articles, err := store.LoadArticles(r.articlesPath)
	if err != nil {
		return fmt.Errorf("reload articles: %w", err)
	}
	interactions, err := store.LoadInteractions(r.interactionsPath)
	if err != nil {
		return fmt.Errorf("reload interactions: %w", err)
	}

	r.store.ReplaceCatalog(articles, interactions)
	if err := r.engine.Rebuild(ctx); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}
	return nil
}
