// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/foliosys/folio/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadArticles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "articles.csv",
		"article_id,title,category,keywords\n"+
			"1,AI Advances,Technology,\"ai, machine learning\"\n"+
			"2,Market Watch,business,\"stocks, markets\"\n"+
			"bad,Broken Row,science,oops\n"+
			"3,Deep Space,science,\"astronomy, telescope\"\n")

	articles, err := LoadArticles(path)
	if err != nil {
		t.Fatalf("LoadArticles: %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("expected 3 articles (malformed row skipped), got %d", len(articles))
	}
	if articles[0].ID != 1 || articles[0].Title != "AI Advances" {
		t.Errorf("unexpected first article: %+v", articles[0])
	}
	if articles[0].Category != models.CategoryTechnology {
		t.Errorf("category not normalized: %q", articles[0].Category)
	}
	if got := articles[0].KeywordList(); len(got) != 2 || got[0] != "ai" || got[1] != "machine learning" {
		t.Errorf("unexpected keyword list: %v", got)
	}
	if articles[2].ID != 3 {
		t.Errorf("expected third surviving row to be article 3, got %d", articles[2].ID)
	}
}

func TestLoadArticlesOptionalColumns(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "articles.csv",
		"article_id,title,category,keywords,url,snippet,published_date\n"+
			"1,AI Advances,technology,ai,https://example.com/1,Short summary,2025-03-01 10:00:00\n")

	articles, err := LoadArticles(path)
	if err != nil {
		t.Fatalf("LoadArticles: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	a := articles[0]
	if a.URL != "https://example.com/1" || a.Snippet != "Short summary" {
		t.Errorf("optional columns not read: %+v", a)
	}
	if a.PublishedAt.IsZero() {
		t.Error("published_date not parsed")
	}
}

func TestLoadArticlesMissingFile(t *testing.T) {
	articles, err := LoadArticles(filepath.Join(t.TempDir(), "none.csv"))
	if err != nil {
		t.Fatalf("missing file should yield empty state, got error: %v", err)
	}
	if len(articles) != 0 {
		t.Fatalf("expected empty catalog, got %d", len(articles))
	}
}

func TestLoadArticlesMissingColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "articles.csv", "article_id,title\n1,No Category\n")
	if _, err := LoadArticles(path); err == nil {
		t.Fatal("expected error for missing required column")
	}
}

func TestLoadInteractions(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "user_interactions.csv",
		"user_id,article_id,timestamp,interaction_type\n"+
			"1,2,2025-01-15 08:30:00,view\n"+
			"1,3,2025-01-15T09:00:00Z,click\n"+
			"2,1,2025-01-16 10:00:00,\n"+
			"x,1,2025-01-16 10:00:00,view\n")

	interactions, err := LoadInteractions(path)
	if err != nil {
		t.Fatalf("LoadInteractions: %v", err)
	}
	if len(interactions) != 3 {
		t.Fatalf("expected 3 interactions, got %d", len(interactions))
	}
	if interactions[0].Type != models.InteractionView {
		t.Errorf("expected view, got %q", interactions[0].Type)
	}
	if interactions[1].Type != models.InteractionClick {
		t.Errorf("expected click, got %q", interactions[1].Type)
	}
	if interactions[2].Type != models.InteractionView {
		t.Errorf("blank type should default to view, got %q", interactions[2].Type)
	}
	if interactions[0].Timestamp.IsZero() || interactions[1].Timestamp.IsZero() {
		t.Error("timestamps not parsed")
	}
}

func TestStoreSnapshots(t *testing.T) {
	s := New(
		[]models.Article{{ID: 1, Title: "One", Category: models.CategoryScience, Keywords: "space"}},
		[]models.Interaction{{UserID: 1, ArticleID: 1, Type: models.InteractionView}},
	)

	articles := s.Articles()
	articles[0].Title = "mutated"
	if s.Articles()[0].Title != "One" {
		t.Error("Articles must return a copy")
	}

	s.AppendInteraction(models.Interaction{UserID: 2, ArticleID: 1, Type: models.InteractionClick})
	if got := len(s.Interactions()); got != 2 {
		t.Fatalf("expected 2 interactions after append, got %d", got)
	}
	if s.Interactions()[1].Timestamp.IsZero() {
		t.Error("append should stamp zero timestamps")
	}

	if got := s.InteractionsFor(1); len(got) != 1 || got[0].ArticleID != 1 {
		t.Errorf("unexpected per-user interactions: %+v", got)
	}

	a, i := s.Counts()
	if a != 1 || i != 2 {
		t.Errorf("Counts = (%d, %d), want (1, 2)", a, i)
	}
}

func TestStoreReplaceCatalog(t *testing.T) {
	s := New(nil, nil)
	s.ReplaceCatalog(
		[]models.Article{{ID: 1}, {ID: 2}},
		[]models.Interaction{{UserID: 1, ArticleID: 1}},
	)
	a, i := s.Counts()
	if a != 2 || i != 1 {
		t.Errorf("Counts after replace = (%d, %d), want (2, 1)", a, i)
	}
}
