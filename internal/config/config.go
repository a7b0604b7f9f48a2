// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

// Package config defines the Folio configuration structure and its
// layered loading: struct defaults, then an optional YAML file, then
// environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/foliosys/folio/internal/models"
)

// Config is the complete Folio service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Data      DataConfig      `koanf:"data"`
	Cache     CacheConfig     `koanf:"cache"`
	Recommend RecommendConfig `koanf:"recommend"`
	Providers ProvidersConfig `koanf:"providers"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DataConfig points at the CSV files backing the catalog and the
// interaction log, and controls the periodic reload.
type DataConfig struct {
	ArticlesPath     string        `koanf:"articles_path"`
	InteractionsPath string        `koanf:"interactions_path"`
	ReloadInterval   time.Duration `koanf:"reload_interval"`
}

// CacheConfig controls the interest-query result cache.
type CacheConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

// RecommendConfig controls the recommendation engine.
type RecommendConfig struct {
	// TopN is the default number of recommendations returned.
	TopN int `koanf:"top_n"`
	// MaxExternalItems caps how many items one external fetch may return.
	MaxExternalItems int `koanf:"max_external_items"`
}

// ProvidersConfig groups the external article providers.
type ProvidersConfig struct {
	NewsAPI  ProviderConfig `koanf:"newsapi"`
	Guardian ProviderConfig `koanf:"guardian"`
}

// ProviderConfig describes one external article provider. CategoryMap
// translates canonical category names into the provider's own section or
// category identifiers; every key must be a canonical category.
type ProviderConfig struct {
	Enabled     bool              `koanf:"enabled"`
	BaseURL     string            `koanf:"base_url"`
	APIKey      string            `koanf:"api_key"`
	Timeout     time.Duration     `koanf:"timeout"`
	RateLimit   float64           `koanf:"rate_limit"`
	CategoryMap map[string]string `koanf:"category_map"`
}

// defaultConfig returns a Config with every default applied. Defaults are
// loaded first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Data: DataConfig{
			ArticlesPath:     "data/articles.csv",
			InteractionsPath: "data/user_interactions.csv",
			ReloadInterval:   15 * time.Minute,
		},
		Cache: CacheConfig{
			TTL: time.Hour,
		},
		Recommend: RecommendConfig{
			TopN:             5,
			MaxExternalItems: 10,
		},
		Providers: ProvidersConfig{
			NewsAPI: ProviderConfig{
				Enabled:   false,
				BaseURL:   "https://newsapi.org/v2",
				Timeout:   8 * time.Second,
				RateLimit: 1,
				CategoryMap: map[string]string{
					models.CategoryTechnology: "technology",
					models.CategoryBusiness:   "business",
					models.CategoryScience:    "science",
					models.CategoryLifestyle:  "health",
					models.CategorySports:     "sports",
				},
			},
			Guardian: ProviderConfig{
				Enabled:   false,
				BaseURL:   "https://content.guardianapis.com",
				Timeout:   8 * time.Second,
				RateLimit: 1,
				CategoryMap: map[string]string{
					models.CategoryTechnology: "technology",
					models.CategoryBusiness:   "business",
					models.CategoryScience:    "science",
					models.CategoryLifestyle:  "lifeandstyle",
					models.CategorySports:     "sport",
				},
			},
		},
	}
}

// Validate checks the configuration for values that would cause runtime
// misbehavior. It runs once at startup; a failure aborts boot.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.Recommend.TopN < 1 {
		return fmt.Errorf("recommend.top_n must be at least 1, got %d", c.Recommend.TopN)
	}
	if c.Recommend.MaxExternalItems < 1 {
		return fmt.Errorf("recommend.max_external_items must be at least 1, got %d", c.Recommend.MaxExternalItems)
	}
	if c.Data.ReloadInterval < 0 {
		return fmt.Errorf("data.reload_interval must not be negative, got %s", c.Data.ReloadInterval)
	}
	if err := validateProvider("newsapi", c.Providers.NewsAPI); err != nil {
		return err
	}
	if err := validateProvider("guardian", c.Providers.Guardian); err != nil {
		return err
	}
	return nil
}

// validateProvider rejects category maps keyed by anything other than a
// canonical category. An unknown key would silently route requests to the
// wrong provider section, so it fails startup instead.
func validateProvider(name string, p ProviderConfig) error {
	for key := range p.CategoryMap {
		if !models.IsValidCategory(key) {
			return fmt.Errorf("providers.%s.category_map: unknown category %q", name, key)
		}
	}
	if p.Enabled && p.APIKey == "" {
		return fmt.Errorf("providers.%s: enabled but api_key is empty", name)
	}
	if p.Enabled && p.BaseURL == "" {
		return fmt.Errorf("providers.%s: enabled but base_url is empty", name)
	}
	return nil
}
