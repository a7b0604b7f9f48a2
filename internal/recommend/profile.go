// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

package recommend

import "github.com/foliosys/folio/internal/models"

// BuildProfile averages the weight vectors of the distinct articles a
// user has interacted with into a single query vector. Interactions
// referencing identifiers outside the index bounds are dropped; if none
// survive, ErrNoHistory is returned and the caller falls back to the
// popularity path. View and click interactions carry equal weight.
func BuildProfile(idx *Index, interactions []models.Interaction) ([]float64, error) {
	distinct := make(map[int]struct{})
	var rows []int
	for _, in := range interactions {
		if _, seen := distinct[in.ArticleID]; seen {
			continue
		}
		distinct[in.ArticleID] = struct{}{}
		if row, ok := idx.Row(in.ArticleID); ok {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, ErrNoHistory
	}

	profile := make([]float64, idx.VocabularySize())
	for _, row := range rows {
		for col, w := range idx.rows[row] {
			profile[col] += w
		}
	}
	inv := 1 / float64(len(rows))
	for col := range profile {
		profile[col] *= inv
	}
	return profile, nil
}

// SeenArticles collects every article identifier a user has interacted
// with, valid or stale. Used as the ranker's exclusion set.
func SeenArticles(interactions []models.Interaction) map[int]struct{} {
	seen := make(map[int]struct{}, len(interactions))
	for _, in := range interactions {
		seen[in.ArticleID] = struct{}{}
	}
	return seen
}
