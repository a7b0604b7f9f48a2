// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foliosys/folio/internal/config"
)

func newsAPIConfig(baseURL string) config.ProviderConfig {
	return config.ProviderConfig{
		Enabled: true,
		BaseURL: baseURL,
		APIKey:  "test-key",
		CategoryMap: map[string]string{
			"technology": "technology",
			"lifestyle":  "health",
		},
	}
}

func TestNewsAPIFetch(t *testing.T) {
	var gotQuery, gotCategory, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/top-headlines" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("q")
		gotCategory = r.URL.Query().Get("category")
		gotKey = r.URL.Query().Get("apiKey")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{"title": "AI Model Sets Record", "description": "A new benchmark result", "url": "https://example.com/1", "publishedAt": "2026-08-01T10:00:00Z"},
				{"title": "", "description": "untitled noise"},
				{"title": "Chips Shortage Eases", "description": "", "url": "https://example.com/2"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewNewsAPIClient(newsAPIConfig(srv.URL))
	items, err := c.Fetch(context.Background(), "artificial intelligence", []string{"lifestyle", "technology"}, 10)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotQuery != "artificial intelligence" || gotKey != "test-key" {
		t.Errorf("query params: q=%q apiKey=%q", gotQuery, gotKey)
	}
	// first mappable category wins: lifestyle → health
	if gotCategory != "health" {
		t.Errorf("category = %q, want health", gotCategory)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (untitled dropped)", len(items))
	}
	if items[0].Title != "AI Model Sets Record" || items[0].URL != "https://example.com/1" {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	if items[0].Category != "lifestyle" {
		t.Errorf("item category = %q, want canonical lifestyle", items[0].Category)
	}
}

func TestNewsAPIQuotaExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status":"error","code":"rateLimited"}`))
	}))
	defer srv.Close()

	c := NewNewsAPIClient(newsAPIConfig(srv.URL))
	_, err := c.Fetch(context.Background(), "ai", []string{"technology"}, 5)
	if !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("err = %v, want ErrQuotaExhausted", err)
	}
}

func TestNewsAPINonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewNewsAPIClient(newsAPIConfig(srv.URL))
	if _, err := c.Fetch(context.Background(), "ai", []string{"technology"}, 5); err == nil {
		t.Fatal("expected error on HTTP 500")
	}
}

func TestNewsAPIErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","message":"apiKeyInvalid"}`))
	}))
	defer srv.Close()

	c := NewNewsAPIClient(newsAPIConfig(srv.URL))
	if _, err := c.Fetch(context.Background(), "ai", []string{"technology"}, 5); err == nil {
		t.Fatal("expected error on status=error body")
	}
}

func TestTranslateCategory(t *testing.T) {
	m := map[string]string{"technology": "tech", "sports": "sport"}
	tests := []struct {
		categories []string
		want       string
	}{
		{[]string{"technology"}, "tech"},
		{[]string{"Business", "SPORTS"}, "sport"},
		{[]string{"business"}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := translateCategory(m, tt.categories); got != tt.want {
			t.Errorf("translateCategory(%v) = %q, want %q", tt.categories, got, tt.want)
		}
	}
}
