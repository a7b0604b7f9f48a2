// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

package models

import "github.com/goccy/go-json"

// marshalJSON isolates the JSON codec choice so the rest of the package
// stays codec-agnostic.
func marshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}
