// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

package recommend

import (
	"context"
	"math"
	"testing"

	"github.com/foliosys/folio/internal/models"
	"github.com/foliosys/folio/internal/store"
)

func TestBuildProfileSingleItemIsIdentity(t *testing.T) {
	idx, err := BuildIndex(testCatalog())
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	history := []models.Interaction{
		{UserID: 1, ArticleID: 2, Type: models.InteractionView},
		{UserID: 1, ArticleID: 2, Type: models.InteractionClick},
	}
	profile, err := BuildProfile(idx, history)
	if err != nil {
		t.Fatalf("BuildProfile: %v", err)
	}
	want := idx.Vector(2)
	for col := range want {
		if math.Abs(profile[col]-want[col]) > 1e-12 {
			t.Fatalf("single-item profile differs from item vector at col %d", col)
		}
	}
}

func TestBuildProfileDropsStaleIdentifiers(t *testing.T) {
	idx, err := BuildIndex(testCatalog())
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	history := []models.Interaction{
		{UserID: 1, ArticleID: 42},
		{UserID: 1, ArticleID: 1},
	}
	profile, err := BuildProfile(idx, history)
	if err != nil {
		t.Fatalf("BuildProfile: %v", err)
	}
	want := idx.Vector(1)
	for col := range want {
		if math.Abs(profile[col]-want[col]) > 1e-12 {
			t.Fatal("stale identifier must not dilute the profile")
		}
	}
}

func TestBuildProfileNoHistory(t *testing.T) {
	idx, err := BuildIndex(testCatalog())
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if _, err := BuildProfile(idx, nil); err != ErrNoHistory {
		t.Errorf("empty history: err = %v, want ErrNoHistory", err)
	}
	// only stale references counts as no history too
	stale := []models.Interaction{{UserID: 1, ArticleID: 99}}
	if _, err := BuildProfile(idx, stale); err != ErrNoHistory {
		t.Errorf("all-stale history: err = %v, want ErrNoHistory", err)
	}
}

func TestEngineNotReadyOnEmptyCatalog(t *testing.T) {
	e := NewEngine(store.New(nil, nil), 5)
	if e.Ready() {
		t.Fatal("engine must not be ready with an empty catalog")
	}
	if _, err := e.RecommendForUser(context.Background(), 1, 5); err != ErrIndexNotReady {
		t.Errorf("err = %v, want ErrIndexNotReady", err)
	}
}

func TestEngineColdStart(t *testing.T) {
	interactions := []models.Interaction{
		{UserID: 10, ArticleID: 7}, {UserID: 11, ArticleID: 7}, {UserID: 12, ArticleID: 7},
		{UserID: 10, ArticleID: 1},
	}
	e := NewEngine(store.New(paddedCatalog(7), interactions), 5)

	res, err := e.RecommendForUser(context.Background(), 999, 5)
	if err != nil {
		t.Fatalf("RecommendForUser: %v", err)
	}
	if res.Strategy != StrategyPopularity {
		t.Fatalf("strategy = %q, want popularity", res.Strategy)
	}
	if res.Message != ColdStartMessage {
		t.Errorf("message = %q", res.Message)
	}
	if len(res.IDs) == 0 || res.IDs[0] != 7 {
		t.Errorf("ids = %v, want article 7 first", res.IDs)
	}
	if len(res.Items) != 0 {
		t.Error("popularity path must not carry scored items")
	}
}

func TestEngineContentPathExcludesSeen(t *testing.T) {
	interactions := []models.Interaction{
		{UserID: 1, ArticleID: 3, Type: models.InteractionView},
	}
	e := NewEngine(store.New(testCatalog(), interactions), 5)

	res, err := e.RecommendForUser(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("RecommendForUser: %v", err)
	}
	if res.Strategy != StrategyContent {
		t.Fatalf("strategy = %q, want content", res.Strategy)
	}
	for _, item := range res.Items {
		if item.ID == 3 {
			t.Error("already-seen article must be excluded")
		}
	}
	// user read the ai/research article; the ai/cloud one ranks above sports
	if len(res.Items) != 2 || res.Items[0].ID != 1 {
		t.Errorf("items = %+v, want article 1 first", res.Items)
	}
}

func TestEngineContentPathSurvivesCatalogGap(t *testing.T) {
	// A loader-skipped row leaves a hole in the identifier sequence.
	// History on a surviving article must still take the content path,
	// not fall back to cold start.
	gapped := []models.Article{
		{ID: 1, Title: "Cloud AI", Category: models.CategoryTechnology, Keywords: "ai, cloud"},
		{ID: 2, Title: "League Roundup", Category: models.CategorySports, Keywords: "sports, league"},
		{ID: 4, Title: "AI Research", Category: models.CategoryTechnology, Keywords: "ai, research"},
	}
	interactions := []models.Interaction{
		{UserID: 1, ArticleID: 4, Type: models.InteractionView},
	}
	e := NewEngine(store.New(gapped, interactions), 5)

	res, err := e.RecommendForUser(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("RecommendForUser: %v", err)
	}
	if res.Strategy != StrategyContent {
		t.Fatalf("strategy = %q, want content", res.Strategy)
	}
	for _, item := range res.Items {
		if item.ID == 4 {
			t.Error("already-seen article must be excluded")
		}
	}
	if len(res.Items) != 2 || res.Items[0].ID != 1 {
		t.Errorf("items = %+v, want article 1 first", res.Items)
	}
}

func TestEngineRebuildSwapsIndex(t *testing.T) {
	st := store.New(testCatalog(), nil)
	e := NewEngine(st, 5)
	if !e.Ready() {
		t.Fatal("engine should be ready")
	}
	old := e.Index()

	st.ReplaceCatalog(paddedCatalog(5), nil)
	if err := e.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if e.Index() == old {
		t.Error("rebuild must swap in a new index")
	}
	if e.Index().Len() != 5 {
		t.Errorf("rebuilt index length = %d, want 5", e.Index().Len())
	}
}

func TestSearchSimilarCategoryFilter(t *testing.T) {
	e := NewEngine(store.New(testCatalog(), nil), 5)

	got, err := e.SearchSimilar(context.Background(), "ai research", []string{models.CategoryTechnology}, 5)
	if err != nil {
		t.Fatalf("SearchSimilar: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].ID != 3 || got[1].ID != 1 {
		t.Errorf("order = [%d %d], want [3 1]", got[0].ID, got[1].ID)
	}
	for _, item := range got {
		if item.Category == models.CategorySports {
			t.Error("category filter leaked a sports article")
		}
	}
	if len(got[0].Keywords) == 0 {
		t.Error("interest results must carry extracted keywords")
	}
}

func TestSearchSimilarUnreadyEngineFitsSubset(t *testing.T) {
	// Engine built over an empty catalog, then articles arrive without a
	// rebuild. The local search fits a transient subset index.
	st := store.New(nil, nil)
	e := NewEngine(st, 5)
	st.ReplaceCatalog(testCatalog(), nil)

	got, err := e.SearchSimilar(context.Background(), "ai research", []string{models.CategoryTechnology}, 5)
	if err != nil {
		t.Fatalf("SearchSimilar: %v", err)
	}
	if len(got) != 2 || got[0].ID != 3 {
		t.Errorf("subset search = %+v, want article 3 first", got)
	}
}

func TestSearchSimilarNoSignal(t *testing.T) {
	e := NewEngine(store.New(testCatalog(), nil), 5)
	got, err := e.SearchSimilar(context.Background(), "gardening recipes", []string{models.CategoryTechnology}, 5)
	if err != nil {
		t.Fatalf("SearchSimilar: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("out-of-vocabulary query must yield nothing, got %+v", got)
	}
}

func TestRandomSample(t *testing.T) {
	e := NewEngine(store.New(testCatalog(), nil), 5)

	got := e.RandomSample([]string{models.CategoryTechnology}, 10)
	if len(got) != 2 {
		t.Fatalf("sample size = %d, want full filtered subset of 2", len(got))
	}
	for _, item := range got {
		if item.Category != models.CategoryTechnology {
			t.Errorf("unexpected category %q", item.Category)
		}
		if item.SimilarityScore != defaultSampleScore {
			t.Errorf("score = %v, want fixed default", item.SimilarityScore)
		}
	}

	if got := e.RandomSample([]string{models.CategoryLifestyle}, 3); len(got) != 0 {
		t.Errorf("empty subset must yield nothing, got %+v", got)
	}

	if got := e.RandomSample([]string{models.CategoryTechnology}, 1); len(got) != 1 {
		t.Errorf("sample must honor n, got %d items", len(got))
	}
}
