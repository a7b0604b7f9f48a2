// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/foliosys/folio/internal/config"
	"github.com/foliosys/folio/internal/models"
)

// NewsAPIClient fetches top headlines from a NewsAPI-shaped endpoint.
type NewsAPIClient struct {
	baseURL     string
	apiKey      string
	categoryMap map[string]string
	httpClient  *http.Client
	limiter     *rate.Limiter
}

// newsAPIResponse is the provider's wire shape. Only the fields the chain
// needs are decoded.
type newsAPIResponse struct {
	Status   string           `json:"status"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// NewNewsAPIClient builds a client from provider configuration.
func NewNewsAPIClient(cfg config.ProviderConfig) *NewsAPIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	return &NewsAPIClient{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		categoryMap: cfg.CategoryMap,
		httpClient:  &http.Client{Timeout: timeout},
		limiter:     rate.NewLimiter(limit, 1),
	}
}

// Name implements Provider.
func (c *NewsAPIClient) Name() string { return "newsapi" }

// Fetch queries the top-headlines endpoint. The first requested category
// with a mapping becomes the provider's category parameter; a 429 maps to
// ErrQuotaExhausted so the chain suppresses this provider for the rest of
// the request.
func (c *NewsAPIClient) Fetch(ctx context.Context, query string, categories []string, max int) ([]Item, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("newsapi rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("pageSize", strconv.Itoa(max))
	params.Set("apiKey", c.apiKey)
	category := translateCategory(c.categoryMap, categories)
	if category != "" {
		params.Set("category", category)
	}

	fullURL := c.baseURL + "/top-headlines?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create newsapi request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, ErrQuotaExhausted
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi returned status %d", resp.StatusCode)
	}

	var body newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode newsapi response: %w", err)
	}
	if body.Status != "ok" {
		return nil, fmt.Errorf("newsapi status %q: %s", body.Status, body.Message)
	}

	items := make([]Item, 0, len(body.Articles))
	fallbackCategory := firstCanonical(categories)
	for _, a := range body.Articles {
		if a.Title == "" {
			continue
		}
		items = append(items, Item{
			Title:       a.Title,
			Snippet:     a.Description,
			URL:         a.URL,
			Category:    fallbackCategory,
			PublishedAt: a.PublishedAt,
		})
	}
	return items, nil
}

// translateCategory returns the provider-side name of the first requested
// category present in the mapping table, or "" when none maps.
func translateCategory(categoryMap map[string]string, categories []string) string {
	for _, c := range categories {
		if mapped, ok := categoryMap[models.NormalizeCategory(c)]; ok {
			return mapped
		}
	}
	return ""
}

// firstCanonical picks the first valid canonical category to label
// external results with.
func firstCanonical(categories []string) string {
	for _, c := range categories {
		norm := models.NormalizeCategory(c)
		if models.IsValidCategory(norm) {
			return norm
		}
	}
	if len(categories) > 0 {
		return models.NormalizeCategory(categories[0])
	}
	return ""
}
