// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

package api

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/foliosys/folio/internal/logging"
	"github.com/foliosys/folio/internal/models"
)

// respondJSON writes a JSON body with the right headers.
func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(body)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("failed to write JSON response")
	}
}

// respondError writes the API error shape.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.ErrorResponse{Error: message})
}

// recoverer converts a handler panic into a generic internal error so the
// long-lived process survives any single bad request.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.Ctx(r.Context()).Error().
					Interface("panic", rec).
					Str("path", r.URL.Path).
					Msg("recovered panic in request handler")
				respondError(w, http.StatusInternalServerError, "Error generating recommendations.")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
