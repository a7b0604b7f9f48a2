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
)

// GuardianClient fetches articles from a Guardian Content API-shaped
// endpoint. Same chain contract as NewsAPIClient.
type GuardianClient struct {
	baseURL     string
	apiKey      string
	categoryMap map[string]string
	httpClient  *http.Client
	limiter     *rate.Limiter
}

type guardianResponse struct {
	Response guardianBody `json:"response"`
}

type guardianBody struct {
	Status  string           `json:"status"`
	Results []guardianResult `json:"results"`
}

type guardianResult struct {
	WebTitle           string         `json:"webTitle"`
	WebURL             string         `json:"webUrl"`
	SectionID          string         `json:"sectionId"`
	WebPublicationDate string         `json:"webPublicationDate"`
	Fields             guardianFields `json:"fields"`
}

type guardianFields struct {
	TrailText string `json:"trailText"`
}

// NewGuardianClient builds a client from provider configuration.
func NewGuardianClient(cfg config.ProviderConfig) *GuardianClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	return &GuardianClient{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		categoryMap: cfg.CategoryMap,
		httpClient:  &http.Client{Timeout: timeout},
		limiter:     rate.NewLimiter(limit, 1),
	}
}

// Name implements Provider.
func (c *GuardianClient) Name() string { return "guardian" }

// Fetch queries the content search endpoint, translating the first
// mappable requested category to a Guardian section.
func (c *GuardianClient) Fetch(ctx context.Context, query string, categories []string, max int) ([]Item, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("guardian rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("page-size", strconv.Itoa(max))
	params.Set("show-fields", "trailText")
	params.Set("api-key", c.apiKey)
	if section := translateCategory(c.categoryMap, categories); section != "" {
		params.Set("section", section)
	}

	fullURL := c.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create guardian request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("guardian request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, ErrQuotaExhausted
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("guardian returned status %d", resp.StatusCode)
	}

	var body guardianResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode guardian response: %w", err)
	}
	if body.Response.Status != "ok" {
		return nil, fmt.Errorf("guardian status %q", body.Response.Status)
	}

	items := make([]Item, 0, len(body.Response.Results))
	fallbackCategory := firstCanonical(categories)
	for _, r := range body.Response.Results {
		if r.WebTitle == "" {
			continue
		}
		items = append(items, Item{
			Title:       r.WebTitle,
			Snippet:     r.Fields.TrailText,
			URL:         r.WebURL,
			Category:    fallbackCategory,
			PublishedAt: r.WebPublicationDate,
		})
	}
	return items, nil
}
