// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

package recommend

import (
	"math"
	"sort"

	"github.com/foliosys/folio/internal/models"
)

// scored pairs an index row with its similarity score during ranking.
type scored struct {
	row   int
	score float64
}

// RankBySimilarity scores every indexed article against the query vector
// and returns the top n, excluding the given identifiers. Ties are broken
// by article identifier ascending so output is deterministic. Output may
// be shorter than n when exclusion leaves fewer candidates.
func RankBySimilarity(idx *Index, query []float64, exclude map[int]struct{}, n int) []models.ScoredArticle {
	if n <= 0 {
		return nil
	}

	candidates := make([]scored, 0, idx.Len())
	for row := range idx.rows {
		if _, skip := exclude[idx.ArticleAt(row).ID]; skip {
			continue
		}
		candidates = append(candidates, scored{row: row, score: Cosine(query, idx.rows[row])})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].row < candidates[j].row
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	out := make([]models.ScoredArticle, len(candidates))
	for i, c := range candidates {
		a := idx.ArticleAt(c.row)
		out[i] = models.ScoredArticle{
			ID:              a.ID,
			Title:           a.Title,
			Category:        a.Category,
			SimilarityScore: roundScore(c.score),
		}
	}
	return out
}

// RankByPopularity orders article identifiers by raw interaction count
// across all users, descending, ties broken by identifier ascending.
// Identifiers outside the catalog bounds are ignored. Similarity scores
// are not computed on this path.
func RankByPopularity(idx *Index, interactions []models.Interaction, n int) []int {
	if n <= 0 {
		return nil
	}

	counts := make(map[int]int)
	for _, in := range interactions {
		if _, ok := idx.Row(in.ArticleID); ok {
			counts[in.ArticleID]++
		}
	}

	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})

	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}

// Cosine computes the cosine similarity of two equal-length vectors. A
// zero-magnitude vector on either side compares as 0 rather than failing
// on division by zero.
func Cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// roundScore trims similarity scores to four decimal places for stable
// wire output.
func roundScore(s float64) float64 {
	return math.Round(s*10000) / 10000
}
