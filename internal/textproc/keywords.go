// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

// Package textproc provides the tokenization and keyword extraction used by
// the vector-space index and the provider annotation path.
package textproc

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxKeywords bounds ExtractKeywords output when the caller passes a
// non-positive max.
const DefaultMaxKeywords = 5

// minTokenLength drops short function words the stop list misses.
const minTokenLength = 4

// stopwords is the fixed stop-word set. Tokens in this set never appear in
// extractor output regardless of frequency.
var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {}, "all": {},
	"an": {}, "and": {}, "any": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "because": {}, "been": {}, "before": {}, "being": {},
	"below": {}, "between": {}, "both": {}, "but": {}, "by": {},
	"can": {}, "could": {}, "did": {}, "do": {}, "does": {}, "doing": {},
	"down": {}, "during": {}, "each": {}, "few": {}, "for": {}, "from": {},
	"further": {}, "had": {}, "has": {}, "have": {}, "having": {}, "he": {},
	"her": {}, "here": {}, "him": {}, "his": {}, "how": {}, "if": {},
	"in": {}, "into": {}, "is": {}, "it": {}, "its": {}, "just": {},
	"me": {}, "more": {}, "most": {}, "my": {}, "no": {}, "nor": {},
	"not": {}, "now": {}, "of": {}, "off": {}, "on": {}, "once": {},
	"only": {}, "or": {}, "other": {}, "our": {}, "out": {}, "over": {},
	"own": {}, "same": {}, "she": {}, "should": {}, "so": {}, "some": {},
	"such": {}, "than": {}, "that": {}, "the": {}, "their": {}, "them": {},
	"then": {}, "there": {}, "these": {}, "they": {}, "this": {},
	"those": {}, "through": {}, "to": {}, "too": {}, "under": {},
	"until": {}, "up": {}, "very": {}, "was": {}, "we": {}, "were": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "while": {},
	"who": {}, "why": {}, "will": {}, "with": {}, "would": {},
	"you": {}, "your": {},
}

// ExtractKeywords turns raw text into a bounded, ordered keyword list.
//
// Pipeline: strip punctuation, lowercase, split on whitespace, drop stop
// words and tokens shorter than four characters, count frequencies, sort by
// count descending with first-occurrence order breaking ties, take the
// first max tokens. Empty or whitespace-only input yields an empty slice,
// never an error.
//
// The extractor is deterministic: identical input always produces the same
// ordered sequence.
func ExtractKeywords(text string, max int) []string {
	if max <= 0 {
		max = DefaultMaxKeywords
	}

	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return []string{}
	}

	type keyword struct {
		token string
		count int
		first int // index of first occurrence, for stable tie-breaking
	}

	counts := make(map[string]*keyword, len(tokens))
	order := make([]*keyword, 0, len(tokens))
	for i, tok := range tokens {
		if kw, ok := counts[tok]; ok {
			kw.count++
			continue
		}
		kw := &keyword{token: tok, count: 1, first: i}
		counts[tok] = kw
		order = append(order, kw)
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})

	if len(order) > max {
		order = order[:max]
	}
	out := make([]string, len(order))
	for i, kw := range order {
		out[i] = kw.token
	}
	return out
}

// Tokenize lowercases text, strips punctuation, and returns the surviving
// alphanumeric tokens: no stop words, no tokens shorter than four runes.
// Used by both the keyword extractor and the vector-space projection.
func Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	out := make([]string, 0, len(fields))
	for _, tok := range fields {
		if utf8.RuneCountInString(tok) < minTokenLength {
			continue
		}
		if _, isStop := stopwords[tok]; isStop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// VectorTokens tokenizes text for the vector-space index. Unlike the
// keyword extractor it keeps short domain terms ("ai", "5g"): only
// single-rune tokens and stop words are dropped. Index fitting and query
// projection must both go through this function so vocabulary stays
// consistent.
func VectorTokens(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	out := make([]string, 0, len(fields))
	for _, tok := range fields {
		if utf8.RuneCountInString(tok) < 2 {
			continue
		}
		if _, isStop := stopwords[tok]; isStop {
			continue
		}
		out = append(out, tok)
	}
	return out
}
