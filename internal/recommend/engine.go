// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

package recommend

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/foliosys/folio/internal/logging"
	"github.com/foliosys/folio/internal/metrics"
	"github.com/foliosys/folio/internal/models"
	"github.com/foliosys/folio/internal/store"
)

// ColdStartMessage annotates popularity-based responses for users
// without usable history.
const ColdStartMessage = "New user. Recommending popular articles."

// defaultSampleScore is assigned to unranked random-sample results so
// they render uniformly alongside ranked ones.
const defaultSampleScore = 0.5

// Strategy names the path a recommendation took.
type Strategy string

const (
	StrategyContent    Strategy = "content"
	StrategyPopularity Strategy = "popularity"
)

// UserResult is the outcome of a per-user recommendation. On the
// popularity path only IDs and Message are set; on the content path only
// Items.
type UserResult struct {
	Strategy Strategy
	IDs      []int
	Items    []models.ScoredArticle
	Message  string
}

// Engine owns the recommendation state: the catalog store and the active
// vector index. The index is swapped atomically on rebuild so concurrent
// requests never observe a partial build.
type Engine struct {
	store *store.Store
	index atomic.Pointer[Index]
	topN  int
}

// NewEngine creates an Engine over a store and attempts an initial index
// build. An empty catalog leaves the engine unready rather than failing;
// requests then get ErrIndexNotReady until a reload supplies articles.
func NewEngine(st *store.Store, topN int) *Engine {
	if topN <= 0 {
		topN = 5
	}
	e := &Engine{store: st, topN: topN}
	if err := e.Rebuild(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("engine starting without an index")
	}
	return e
}

// Ready reports whether an index has been built.
func (e *Engine) Ready() bool {
	return e.index.Load() != nil
}

// Index returns the active index, or nil when unready.
func (e *Engine) Index() *Index {
	return e.index.Load()
}

// Rebuild fits a fresh index over the current catalog snapshot and swaps
// it in. Wholesale replacement only; the previous index stays visible to
// in-flight requests until the swap.
func (e *Engine) Rebuild(ctx context.Context) error {
	start := time.Now()
	articles := e.store.Articles()
	idx, err := BuildIndex(articles)
	if err != nil {
		return err
	}
	e.index.Store(idx)
	metrics.RecordIndexRebuild(time.Since(start), idx.Len(), idx.VocabularySize())
	logging.Ctx(ctx).Debug().
		Int("articles", idx.Len()).
		Int("vocabulary", idx.VocabularySize()).
		Dur("took", time.Since(start)).
		Msg("vector index rebuilt")
	return nil
}

// RecommendForUser produces up to n recommendations for a user. Users
// with no valid in-bounds interactions get the popularity cold-start
// path; everyone else gets cosine-ranked articles with already-seen
// items excluded.
func (e *Engine) RecommendForUser(ctx context.Context, userID, n int) (*UserResult, error) {
	idx := e.index.Load()
	if idx == nil {
		return nil, ErrIndexNotReady
	}
	if n <= 0 {
		n = e.topN
	}

	history := e.store.InteractionsFor(userID)
	profile, err := BuildProfile(idx, history)
	if errors.Is(err, ErrNoHistory) {
		ids := RankByPopularity(idx, e.store.Interactions(), n)
		metrics.RecommendationsServed.WithLabelValues(string(StrategyPopularity)).Inc()
		logging.Ctx(ctx).Info().
			Int("user_id", userID).
			Int("results", len(ids)).
			Msg("cold start, serving popular articles")
		return &UserResult{
			Strategy: StrategyPopularity,
			IDs:      ids,
			Message:  ColdStartMessage,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	items := RankBySimilarity(idx, profile, SeenArticles(history), n)
	metrics.RecommendationsServed.WithLabelValues(string(StrategyContent)).Inc()
	logging.Ctx(ctx).Info().
		Int("user_id", userID).
		Int("results", len(items)).
		Msg("served content-based recommendations")
	return &UserResult{Strategy: StrategyContent, Items: items}, nil
}

// SearchSimilar projects a free-text query into the vector space and
// returns the most similar catalog articles whose category is in the
// requested set. When no index has been built yet it fits a transient one
// over the filtered subset, leaving the engine's own state untouched.
// Implements the fallback chain's local search step.
func (e *Engine) SearchSimilar(ctx context.Context, query string, categories []string, n int) ([]models.ScoredArticle, error) {
	wanted := categorySet(categories)

	idx := e.index.Load()
	if idx == nil {
		subset := e.filteredCatalog(wanted)
		sub, err := BuildIndex(subset)
		if err != nil {
			return nil, nil
		}
		idx = sub
		wanted = nil // subset already filtered
	}

	q := idx.Project(query)
	exclude := make(map[int]struct{})
	if wanted != nil {
		for row := 0; row < idx.Len(); row++ {
			a := idx.ArticleAt(row)
			if _, ok := wanted[a.Category]; !ok {
				exclude[a.ID] = struct{}{}
			}
		}
		if len(exclude) == idx.Len() {
			return nil, nil
		}
	}

	items := RankBySimilarity(idx, q, exclude, n)
	// A zero projection means the query shares no terms with the
	// vocabulary; those all score 0 and carry no signal.
	out := items[:0]
	for _, it := range items {
		if it.SimilarityScore > 0 {
			out = append(out, it)
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	for i := range out {
		row, ok := idx.Row(out[i].ID)
		if !ok {
			continue
		}
		a := idx.ArticleAt(row)
		out[i].Keywords = a.KeywordList()
		out[i].URL = a.URL
		out[i].Snippet = a.Snippet
		if !a.PublishedAt.IsZero() {
			out[i].PublishedDate = a.PublishedAt.Format(time.RFC3339)
		}
	}
	logging.Ctx(ctx).Debug().
		Str("query", query).
		Int("results", len(out)).
		Msg("local similarity search")
	return out, nil
}

// RandomSample returns up to n articles drawn at random from the
// categories-filtered catalog, each with a fixed placeholder score. Last
// resort of the fallback chain.
func (e *Engine) RandomSample(categories []string, n int) []models.ScoredArticle {
	subset := e.filteredCatalog(categorySet(categories))
	if len(subset) == 0 || n <= 0 {
		return nil
	}

	rand.Shuffle(len(subset), func(i, j int) {
		subset[i], subset[j] = subset[j], subset[i]
	})
	if len(subset) > n {
		subset = subset[:n]
	}

	out := make([]models.ScoredArticle, len(subset))
	for i, a := range subset {
		out[i] = models.ScoredArticle{
			ID:              a.ID,
			Title:           a.Title,
			Category:        a.Category,
			Keywords:        a.KeywordList(),
			SimilarityScore: defaultSampleScore,
			URL:             a.URL,
			Snippet:         a.Snippet,
		}
		if !a.PublishedAt.IsZero() {
			out[i].PublishedDate = a.PublishedAt.Format(time.RFC3339)
		}
	}
	return out
}

// filteredCatalog snapshots the catalog restricted to the wanted
// categories. A nil or empty set means no restriction.
func (e *Engine) filteredCatalog(wanted map[string]struct{}) []models.Article {
	articles := e.store.Articles()
	if len(wanted) == 0 {
		return articles
	}
	out := articles[:0]
	for _, a := range articles {
		if _, ok := wanted[a.Category]; ok {
			out = append(out, a)
		}
	}
	return out
}

func categorySet(categories []string) map[string]struct{} {
	if len(categories) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		set[models.NormalizeCategory(c)] = struct{}{}
	}
	return set
}
