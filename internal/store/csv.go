// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/foliosys/folio/internal/logging"
	"github.com/foliosys/folio/internal/models"
)

// timestampLayouts are tried in order when parsing interaction timestamps.
// The canonical export format is RFC 3339; legacy dumps use a space
// separator without a zone.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// LoadArticles reads the article catalog from a CSV file.
//
// The file must carry a header row naming at least article_id, title,
// category, and keywords; url, snippet, and published_date columns are
// optional. A missing file is a valid empty state and returns (nil, nil).
// Malformed rows are logged and skipped rather than aborting the load.
func LoadArticles(path string) ([]models.Article, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Warn().Str("path", path).Msg("article catalog file absent, starting empty")
			return nil, nil
		}
		return nil, fmt.Errorf("open article catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read article catalog header: %w", err)
	}
	cols := columnIndex(header)
	for _, required := range []string{"article_id", "title", "category", "keywords"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("article catalog missing required column %q", required)
		}
	}

	var articles []models.Article
	line := 1
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			logging.Warn().Err(err).Int("line", line).Msg("skipping malformed article row")
			continue
		}

		id, err := strconv.Atoi(field(record, cols, "article_id"))
		if err != nil || id <= 0 {
			logging.Warn().Int("line", line).Msg("skipping article row with invalid identifier")
			continue
		}

		a := models.Article{
			ID:       id,
			Title:    field(record, cols, "title"),
			Category: models.NormalizeCategory(field(record, cols, "category")),
			Keywords: field(record, cols, "keywords"),
			URL:      field(record, cols, "url"),
			Snippet:  field(record, cols, "snippet"),
		}
		if raw := field(record, cols, "published_date"); raw != "" {
			if ts, err := parseTimestamp(raw); err == nil {
				a.PublishedAt = ts
			}
		}
		articles = append(articles, a)
	}

	return articles, nil
}

// LoadInteractions reads the append-only interaction log from a CSV file.
// As with LoadArticles, a missing file is a valid empty state.
func LoadInteractions(path string) ([]models.Interaction, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Warn().Str("path", path).Msg("interaction log file absent, starting empty")
			return nil, nil
		}
		return nil, fmt.Errorf("open interaction log: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read interaction log header: %w", err)
	}
	cols := columnIndex(header)
	for _, required := range []string{"user_id", "article_id"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("interaction log missing required column %q", required)
		}
	}

	var interactions []models.Interaction
	line := 1
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			logging.Warn().Err(err).Int("line", line).Msg("skipping malformed interaction row")
			continue
		}

		userID, uerr := strconv.Atoi(field(record, cols, "user_id"))
		articleID, aerr := strconv.Atoi(field(record, cols, "article_id"))
		if uerr != nil || aerr != nil || userID <= 0 || articleID <= 0 {
			logging.Warn().Int("line", line).Msg("skipping interaction row with invalid identifiers")
			continue
		}

		in := models.Interaction{
			UserID:    userID,
			ArticleID: articleID,
			Type:      models.InteractionType(strings.ToLower(field(record, cols, "interaction_type"))),
		}
		if in.Type == "" {
			in.Type = models.InteractionView
		}
		if raw := field(record, cols, "timestamp"); raw != "" {
			if ts, err := parseTimestamp(raw); err == nil {
				in.Timestamp = ts
			}
		}
		interactions = append(interactions, in)
	}

	return interactions, nil
}

// columnIndex maps normalized header names to their positions.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

// field returns the named column of a record, or "" when the column is
// absent or the record is short.
func field(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseTimestamp tries the known timestamp layouts in order.
func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}
