// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

package recommend

import "errors"

var (
	// ErrEmptyCatalog is returned when an index build is attempted over a
	// catalog with no articles. Callers treat it as an empty-index state,
	// not a crash.
	ErrEmptyCatalog = errors.New("article catalog is empty")

	// ErrNoHistory signals that a user has no valid in-bounds
	// interactions. It triggers the popularity cold-start path and is
	// never surfaced to API clients as an error.
	ErrNoHistory = errors.New("user has no usable interaction history")

	// ErrIndexNotReady is returned when a recommendation is requested
	// before any index has been built.
	ErrIndexNotReady = errors.New("vector index not ready")
)
