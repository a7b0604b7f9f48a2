// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

package sources

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/foliosys/folio/internal/cache"
	"github.com/foliosys/folio/internal/logging"
	"github.com/foliosys/folio/internal/metrics"
	"github.com/foliosys/folio/internal/models"
	"github.com/foliosys/folio/internal/textproc"
)

// Synthetic score decay for externally fetched items: the first result
// gets the ceiling, each following position steps down linearly to the
// floor. These are provenance placeholders for uniform ranking display,
// not true similarity, and are not reconciled with cosine scores.
const (
	syntheticScoreCeiling = 0.95
	syntheticScoreStep    = 0.05
	syntheticScoreFloor   = 0.30
)

const cacheType = "results"

// Chain tries sources for a topic query in strict priority order: result
// cache, external providers, local catalog similarity, random catalog
// sample. The first source that yields any items wins; a failed or empty
// attempt always falls through.
type Chain struct {
	cache     *cache.Cache
	providers []Provider
	local     LocalSearcher
	maxItems  int
	cacheTTL  time.Duration
}

// NewChain assembles a fallback chain. Providers are tried in the order
// given.
func NewChain(c *cache.Cache, local LocalSearcher, maxItems int, cacheTTL time.Duration, providers ...Provider) *Chain {
	if maxItems <= 0 {
		maxItems = 10
	}
	if cacheTTL <= 0 {
		cacheTTL = cache.DefaultTTL
	}
	c.SetEvictionHook(func(count int64) {
		metrics.CacheEvictions.WithLabelValues(cacheType).Add(float64(count))
	})
	return &Chain{
		cache:     c,
		providers: providers,
		local:     local,
		maxItems:  maxItems,
		cacheTTL:  cacheTTL,
	}
}

// FetchTopic produces up to max candidate items for a free-text query
// restricted to the requested categories. Provider failures are logged
// and swallowed; the chain itself never fails, it only gets emptier.
func (ch *Chain) FetchTopic(ctx context.Context, query string, categories []string, max int) []models.ScoredArticle {
	if max <= 0 {
		max = ch.maxItems
	}
	log := logging.Ctx(ctx)
	key := topicKey(query, categories)

	if cached, ok := ch.cache.Get(key); ok {
		if items, ok := cached.([]models.ScoredArticle); ok {
			metrics.CacheHits.WithLabelValues(cacheType).Inc()
			metrics.ChainSourceServed.WithLabelValues("cache").Inc()
			log.Debug().Str("query", query).Int("results", len(items)).Msg("interest query served from cache")
			return items
		}
	}
	metrics.CacheMisses.WithLabelValues(cacheType).Inc()

	// Quota-exhausted providers are suppressed for the rest of this
	// request.
	suppressed := make(map[string]struct{})

	for _, p := range ch.providers {
		if _, skip := suppressed[p.Name()]; skip {
			continue
		}
		att := ch.tryProvider(ctx, p, query, categories, max)
		switch att.status {
		case attemptSucceeded:
			ch.cache.SetWithTTL(key, att.items, ch.cacheTTL)
			metrics.ChainSourceServed.WithLabelValues(att.source).Inc()
			log.Info().Str("source", att.source).Int("results", len(att.items)).Msg("interest query served by external provider")
			return att.items
		case attemptEmpty:
			log.Debug().Str("source", att.source).Msg("provider returned no items, falling through")
		case attemptFailed:
			if errors.Is(att.err, ErrQuotaExhausted) {
				suppressed[p.Name()] = struct{}{}
			}
			log.Warn().Err(att.err).Str("source", att.source).Msg("provider attempt failed, falling through")
		}
	}

	items, err := ch.local.SearchSimilar(ctx, query, categories, max)
	if err != nil {
		log.Warn().Err(err).Msg("local similarity search failed, falling through")
	} else if len(items) > 0 {
		ch.cache.SetWithTTL(key, items, ch.cacheTTL)
		metrics.ChainSourceServed.WithLabelValues("local").Inc()
		log.Info().Int("results", len(items)).Msg("interest query served by local catalog similarity")
		return items
	}

	sample := ch.local.RandomSample(categories, max)
	if len(sample) > 0 {
		ch.cache.SetWithTTL(key, sample, ch.cacheTTL)
	}
	metrics.ChainSourceServed.WithLabelValues("random").Inc()
	log.Info().Int("results", len(sample)).Msg("interest query served by random catalog sample")
	return sample
}

// tryProvider runs one provider attempt and annotates any items it
// yields. All provider errors are captured in the attempt, never
// propagated.
func (ch *Chain) tryProvider(ctx context.Context, p Provider, query string, categories []string, max int) attempt {
	start := time.Now()
	raw, err := p.Fetch(ctx, query, categories, max)
	if err != nil {
		result := "failure"
		if errors.Is(err, ErrQuotaExhausted) {
			result = "quota"
		}
		metrics.RecordProviderRequest(p.Name(), result, time.Since(start))
		return attempt{source: p.Name(), status: attemptFailed, err: err}
	}
	if len(raw) == 0 {
		metrics.RecordProviderRequest(p.Name(), "empty", time.Since(start))
		return attempt{source: p.Name(), status: attemptEmpty}
	}
	metrics.RecordProviderRequest(p.Name(), "success", time.Since(start))

	if len(raw) > max {
		raw = raw[:max]
	}
	return attempt{source: p.Name(), status: attemptSucceeded, items: annotate(raw)}
}

// annotate turns raw provider items into scored articles: keywords
// extracted from title and snippet, a position-decayed synthetic score,
// and a position-based placeholder identifier (external items have no
// catalog row).
func annotate(raw []Item) []models.ScoredArticle {
	out := make([]models.ScoredArticle, len(raw))
	for i, item := range raw {
		score := syntheticScoreCeiling - syntheticScoreStep*float64(i)
		if score < syntheticScoreFloor {
			score = syntheticScoreFloor
		}
		out[i] = models.ScoredArticle{
			ID:              i + 1,
			Title:           item.Title,
			Category:        item.Category,
			Keywords:        textproc.ExtractKeywords(item.Title+" "+item.Snippet, textproc.DefaultMaxKeywords),
			SimilarityScore: score,
			URL:             item.URL,
			Snippet:         item.Snippet,
			PublishedDate:   item.PublishedAt,
		}
	}
	return out
}

// topicKey derives the cache key from the query and the sorted,
// normalized category set, so equivalent requests share an entry.
func topicKey(query string, categories []string) string {
	sorted := make([]string, 0, len(categories))
	for _, c := range categories {
		sorted = append(sorted, models.NormalizeCategory(c))
	}
	sort.Strings(sorted)
	return cache.GenerateKey("interests", struct {
		Query      string   `json:"query"`
		Categories []string `json:"categories"`
	}{Query: query, Categories: sorted})
}
