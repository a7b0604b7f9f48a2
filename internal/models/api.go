// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

package models

// UserRecommendationsResponse is the body of GET /recommend/{userId}.
//
// Exactly one of IDs or Items is populated: IDs for the cold-start
// popularity fallback (with Message explaining the annotation), Items for
// similarity-ranked results.
type UserRecommendationsResponse struct {
	UserID int `json:"user_id"`

	// IDs carries bare article identifiers on the cold-start path.
	IDs []int `json:"-"`

	// Items carries scored articles on the personalized path.
	Items []ScoredArticle `json:"-"`

	// Message annotates non-personalized results
	// ("New user. Recommending popular articles.").
	Message string `json:"message,omitempty"`
}

// MarshalJSON flattens the two recommendation shapes into the single
// "recommendations" field the API contract specifies.
func (r UserRecommendationsResponse) MarshalJSON() ([]byte, error) {
	type alias struct {
		UserID          int    `json:"user_id"`
		Recommendations any    `json:"recommendations"`
		Message         string `json:"message,omitempty"`
	}
	out := alias{UserID: r.UserID, Message: r.Message}
	if r.Items != nil {
		out.Recommendations = r.Items
	} else if r.IDs != nil {
		out.Recommendations = r.IDs
	} else {
		out.Recommendations = []int{}
	}
	return marshalJSON(out)
}

// InterestsRequest is the body of POST /recommend-by-interests.
type InterestsRequest struct {
	// Interests is the free-text topic query.
	Interests string `json:"interests" validate:"required"`

	// Categories restricts results to the named canonical categories.
	Categories []string `json:"categories" validate:"required,min=1,dive,required"`
}

// InterestsResponse is the body of a successful POST /recommend-by-interests.
type InterestsResponse struct {
	Recommendations []ScoredArticle `json:"recommendations"`
}

// ErrorResponse is the body of any non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
