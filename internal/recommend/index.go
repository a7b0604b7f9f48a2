// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

// Package recommend implements the content-based recommendation engine:
// a TF-IDF vector-space index over the article catalog, user profiles
// averaged from interaction history, and a cosine-similarity ranker with
// a popularity fallback for cold-start users.
package recommend

import (
	"math"
	"sort"

	"github.com/foliosys/folio/internal/models"
	"github.com/foliosys/folio/internal/textproc"
)

// Index is an immutable TF-IDF vector space fitted over one catalog
// snapshot. Row order equals catalog order, and article identifiers map
// onto rows through Row; that translation lives here and nowhere else.
//
// Term weights use smoothed inverse document frequency,
//
//	idf(t) = ln((1 + N) / (1 + df(t))) + 1
//
// and every row is L2-normalized, so the dot product of two rows is
// already their cosine similarity.
type Index struct {
	articles []models.Article
	vocab    map[string]int
	idf      []float64
	rows     [][]float64
	idToRow  map[int]int
}

// BuildIndex fits a vector space over the catalog. It fails only on an
// empty catalog.
func BuildIndex(articles []models.Article) (*Index, error) {
	if len(articles) == 0 {
		return nil, ErrEmptyCatalog
	}

	docs := make([][]string, len(articles))
	vocab := make(map[string]int)
	for i, a := range articles {
		docs[i] = textproc.VectorTokens(a.Keywords)
		for _, tok := range docs[i] {
			if _, seen := vocab[tok]; !seen {
				vocab[tok] = len(vocab)
			}
		}
	}

	// Document frequency per term.
	df := make([]int, len(vocab))
	for _, doc := range docs {
		seen := make(map[int]struct{}, len(doc))
		for _, tok := range doc {
			seen[vocab[tok]] = struct{}{}
		}
		for col := range seen {
			df[col]++
		}
	}

	n := float64(len(articles))
	idf := make([]float64, len(vocab))
	for col, count := range df {
		idf[col] = math.Log((1+n)/(1+float64(count))) + 1
	}

	rows := make([][]float64, len(articles))
	for i, doc := range docs {
		row := make([]float64, len(vocab))
		for _, tok := range doc {
			row[vocab[tok]]++
		}
		for col := range row {
			row[col] *= idf[col]
		}
		normalize(row)
		rows[i] = row
	}

	idx := &Index{
		articles: make([]models.Article, len(articles)),
		vocab:    vocab,
		idf:      idf,
		rows:     rows,
		idToRow:  make(map[int]int, len(articles)),
	}
	copy(idx.articles, articles)
	for row, a := range idx.articles {
		idx.idToRow[a.ID] = row
	}
	return idx, nil
}

// Project maps free text into the fitted vocabulary. Out-of-vocabulary
// terms contribute zero weight; text with no known terms yields the zero
// vector, which the ranker compares as similarity 0.
func (idx *Index) Project(text string) []float64 {
	vec := make([]float64, len(idx.vocab))
	for _, tok := range textproc.VectorTokens(text) {
		if col, ok := idx.vocab[tok]; ok {
			vec[col]++
		}
	}
	for col := range vec {
		vec[col] *= idx.idf[col]
	}
	normalize(vec)
	return vec
}

// Row translates an article identifier to its row position through the
// map fitted at build time. Identifiers are nominally 1-based and dense
// (id = row + 1), but the lookup does not rely on that: a catalog with
// gaps, say after the loader skipped a malformed row, still resolves
// every surviving identifier to its own vector. Stale identifiers report
// ok=false.
func (idx *Index) Row(articleID int) (row int, ok bool) {
	row, ok = idx.idToRow[articleID]
	return row, ok
}

// Vector returns the weight vector for an article, or nil for an
// out-of-bounds identifier. The returned slice is shared; callers must
// not mutate it.
func (idx *Index) Vector(articleID int) []float64 {
	row, ok := idx.Row(articleID)
	if !ok {
		return nil
	}
	return idx.rows[row]
}

// ArticleAt returns the catalog entry at a row position.
func (idx *Index) ArticleAt(row int) models.Article {
	return idx.articles[row]
}

// Len reports the number of indexed articles.
func (idx *Index) Len() int {
	return len(idx.rows)
}

// VocabularySize reports the number of fitted terms.
func (idx *Index) VocabularySize() int {
	return len(idx.vocab)
}

// Terms returns the fitted vocabulary in column order. Used by tests and
// diagnostics.
func (idx *Index) Terms() []string {
	out := make([]string, len(idx.vocab))
	for term, col := range idx.vocab {
		out[col] = term
	}
	return out
}

// normalize scales a vector to unit L2 length in place. Zero vectors are
// left untouched.
func normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}

// sortedVocabulary is a test helper kept here so diagnostics and tests
// agree on term ordering.
func sortedVocabulary(idx *Index) []string {
	terms := idx.Terms()
	sort.Strings(terms)
	return terms
}
