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

func guardianConfig(baseURL string) config.ProviderConfig {
	return config.ProviderConfig{
		Enabled: true,
		BaseURL: baseURL,
		APIKey:  "guardian-key",
		CategoryMap: map[string]string{
			"lifestyle": "lifeandstyle",
			"sports":    "sport",
		},
	}
}

func TestGuardianFetch(t *testing.T) {
	var gotSection, gotKey, gotFields string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotSection = r.URL.Query().Get("section")
		gotKey = r.URL.Query().Get("api-key")
		gotFields = r.URL.Query().Get("show-fields")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"response": {
				"status": "ok",
				"results": [
					{"webTitle": "Marathon Training Guide", "webUrl": "https://example.com/g1", "sectionId": "sport", "webPublicationDate": "2026-08-10T07:00:00Z", "fields": {"trailText": "How to prepare for race day"}}
				]
			}
		}`))
	}))
	defer srv.Close()

	c := NewGuardianClient(guardianConfig(srv.URL))
	items, err := c.Fetch(context.Background(), "marathon", []string{"sports"}, 5)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotSection != "sport" || gotKey != "guardian-key" || gotFields != "trailText" {
		t.Errorf("query params: section=%q api-key=%q show-fields=%q", gotSection, gotKey, gotFields)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Title != "Marathon Training Guide" || items[0].Snippet != "How to prepare for race day" {
		t.Errorf("unexpected item: %+v", items[0])
	}
	if items[0].Category != "sports" {
		t.Errorf("item category = %q, want canonical sports", items[0].Category)
	}
}

func TestGuardianQuotaExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewGuardianClient(guardianConfig(srv.URL))
	_, err := c.Fetch(context.Background(), "marathon", []string{"sports"}, 5)
	if !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("err = %v, want ErrQuotaExhausted", err)
	}
}

func TestGuardianBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response": {"status": "error", "results": []}}`))
	}))
	defer srv.Close()

	c := NewGuardianClient(guardianConfig(srv.URL))
	if _, err := c.Fetch(context.Background(), "marathon", []string{"sports"}, 5); err == nil {
		t.Fatal("expected error on non-ok body status")
	}
}
