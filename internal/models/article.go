// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

// Package models defines the core domain types shared across Folio:
// articles, user interactions, and the wire shapes of the HTTP API.
package models

import (
	"strings"
	"time"
)

// Canonical article categories. Provider category mappings are validated
// against this set at startup.
const (
	CategoryTechnology = "technology"
	CategoryBusiness   = "business"
	CategoryScience    = "science"
	CategoryLifestyle  = "lifestyle"
	CategorySports     = "sports"
)

// Categories lists every canonical category.
var Categories = []string{
	CategoryTechnology,
	CategoryBusiness,
	CategoryScience,
	CategoryLifestyle,
	CategorySports,
}

// IsValidCategory reports whether name is a canonical category.
// Comparison is case-insensitive; the catalog stores lowercase names.
func IsValidCategory(name string) bool {
	name = strings.ToLower(name)
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// NormalizeCategory lowercases a category name for catalog storage and
// comparison.
func NormalizeCategory(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Article represents a content item in the catalog.
//
// The ID is a positive integer, nominally dense and aligned with the
// article's row in the vector-space index (ID = row + 1). The index does
// not depend on that density: it maps identifiers to rows explicitly, so
// a catalog with gaps after skipped rows still resolves correctly.
type Article struct {
	// ID is the 1-based article identifier.
	ID int `json:"article_id"`

	// Title is the article headline.
	Title string `json:"title"`

	// Category is one of the canonical categories.
	Category string `json:"category"`

	// Keywords is the comma-joined set of normalized keyword tokens the
	// vector-space index is built from.
	Keywords string `json:"keywords"`

	// URL is the source link, when known (externally fetched articles).
	URL string `json:"url,omitempty"`

	// Snippet is a short description or lede.
	Snippet string `json:"snippet,omitempty"`

	// PublishedAt is the publication timestamp, when known.
	PublishedAt time.Time `json:"published_date,omitempty"`
}

// KeywordList splits the comma-joined keyword field into tokens.
func (a Article) KeywordList() []string {
	if a.Keywords == "" {
		return nil
	}
	parts := strings.Split(a.Keywords, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// InteractionType classifies a user-article interaction.
type InteractionType string

const (
	// InteractionView records an article impression.
	InteractionView InteractionType = "view"
	// InteractionClick records an explicit click-through.
	InteractionClick InteractionType = "click"
)

// Interaction is one row of the append-only interaction log. Multiple
// interactions per (user, article) pair are allowed and all counted.
type Interaction struct {
	UserID    int             `json:"user_id"`
	ArticleID int             `json:"article_id"`
	Timestamp time.Time       `json:"timestamp"`
	Type      InteractionType `json:"interaction_type"`
}

// ScoredArticle pairs an article with a recommendation score.
//
// The score is a true cosine similarity for catalog-ranked results and a
// synthetic position-decayed placeholder for externally fetched results;
// the two scales are not reconciled.
type ScoredArticle struct {
	ID              int      `json:"article_id"`
	Title           string   `json:"title"`
	Category        string   `json:"category"`
	Keywords        []string `json:"keywords,omitempty"`
	SimilarityScore float64  `json:"similarity_score"`
	URL             string   `json:"url,omitempty"`
	Snippet         string   `json:"snippet,omitempty"`
	PublishedDate   string   `json:"published_date,omitempty"`
}
