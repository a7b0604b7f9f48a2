// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	json "github.com/goccy/go-json"

	"github.com/foliosys/folio/internal/logging"
	"github.com/foliosys/folio/internal/models"
	"github.com/foliosys/folio/internal/recommend"
)

// handleRecommendUser serves GET /recommend/{userID}.
func (s *Server) handleRecommendUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil || userID <= 0 {
		respondError(w, http.StatusBadRequest, "user id must be a positive integer")
		return
	}

	res, err := s.engine.RecommendForUser(r.Context(), userID, s.cfg.Recommend.TopN)
	if err != nil {
		if errors.Is(err, recommend.ErrIndexNotReady) || errors.Is(err, recommend.ErrEmptyCatalog) {
			respondError(w, http.StatusInternalServerError, "Data not loaded. Please check server logs.")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Int("user_id", userID).Msg("recommendation failed")
		respondError(w, http.StatusInternalServerError, "Error generating recommendations.")
		return
	}

	respondJSON(w, http.StatusOK, models.UserRecommendationsResponse{
		UserID:  userID,
		IDs:     res.IDs,
		Items:   res.Items,
		Message: res.Message,
	})
}

// handleRecommendByInterests serves POST /recommend-by-interests.
func (s *Server) handleRecommendByInterests(w http.ResponseWriter, r *http.Request) {
	var req models.InterestsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			respondError(w, http.StatusBadRequest, "missing or empty required field: "+verrs[0].Field())
			return
		}
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}

	items := s.chain.FetchTopic(r.Context(), req.Interests, req.Categories, s.cfg.Recommend.MaxExternalItems)
	if items == nil {
		items = []models.ScoredArticle{}
	}
	respondJSON(w, http.StatusOK, models.InterestsResponse{Recommendations: items})
}

// handleHealth reports liveness plus index readiness and data sizes.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	articles, interactions := s.store.Counts()
	respondJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"ready":        s.engine.Ready(),
		"articles":     articles,
		"interactions": interactions,
	})
}
