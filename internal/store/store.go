// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

// Package store holds the in-memory article catalog and interaction log
// loaded from CSV files. It is the single source of truth the
// recommendation engine rebuilds its index from.
package store

import (
	"sync"
	"time"

	"github.com/foliosys/folio/internal/models"
)

// Store guards the catalog and interaction log behind a read-write lock.
// Readers receive snapshot copies so engine rebuilds never race with
// appends.
type Store struct {
	mu           sync.RWMutex
	articles     []models.Article
	interactions []models.Interaction
}

// New creates a Store seeded with the given catalog and interaction log.
// Either slice may be nil for an empty state.
func New(articles []models.Article, interactions []models.Interaction) *Store {
	return &Store{
		articles:     articles,
		interactions: interactions,
	}
}

// Load reads both CSV files and returns a populated Store. Missing files
// yield an empty state rather than an error.
func Load(articlesPath, interactionsPath string) (*Store, error) {
	articles, err := LoadArticles(articlesPath)
	if err != nil {
		return nil, err
	}
	interactions, err := LoadInteractions(interactionsPath)
	if err != nil {
		return nil, err
	}
	return New(articles, interactions), nil
}

// Articles returns a snapshot copy of the catalog.
func (s *Store) Articles() []models.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Article, len(s.articles))
	copy(out, s.articles)
	return out
}

// Interactions returns a snapshot copy of the interaction log.
func (s *Store) Interactions() []models.Interaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Interaction, len(s.interactions))
	copy(out, s.interactions)
	return out
}

// InteractionsFor returns the interactions recorded for one user, in log
// order.
func (s *Store) InteractionsFor(userID int) []models.Interaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Interaction
	for _, in := range s.interactions {
		if in.UserID == userID {
			out = append(out, in)
		}
	}
	return out
}

// AppendInteraction records a new interaction. A zero timestamp is
// stamped with the current time.
func (s *Store) AppendInteraction(in models.Interaction) {
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactions = append(s.interactions, in)
}

// ReplaceCatalog swaps in a freshly loaded catalog and interaction log.
// Used by the periodic reload service.
func (s *Store) ReplaceCatalog(articles []models.Article, interactions []models.Interaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = articles
	s.interactions = interactions
}

// Counts reports the catalog and log sizes.
func (s *Store) Counts() (articles, interactions int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.articles), len(s.interactions)
}
