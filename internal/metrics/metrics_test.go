// Folio - Article Recommendation Service
// Copyright 2026 Folio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/foliosys/folio

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/recommend/{userID}", "200"))
	RecordAPIRequest("GET", "/recommend/{userID}", "200", 25*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/recommend/{userID}", "200"))
	if after != before+1 {
		t.Errorf("counter = %v, want %v", after, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	base := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != base+1 {
		t.Errorf("gauge after inc = %v, want %v", got, base+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != base {
		t.Errorf("gauge after dec = %v, want %v", got, base)
	}
}

func TestRecordProviderRequest(t *testing.T) {
	before := testutil.ToFloat64(ProviderRequests.WithLabelValues("newsapi", "success"))
	RecordProviderRequest("newsapi", "success", 120*time.Millisecond)
	after := testutil.ToFloat64(ProviderRequests.WithLabelValues("newsapi", "success"))
	if after != before+1 {
		t.Errorf("counter = %v, want %v", after, before+1)
	}
}

func TestRecordIndexRebuild(t *testing.T) {
	RecordIndexRebuild(5*time.Millisecond, 10, 42)
	if got := testutil.ToFloat64(IndexArticles); got != 10 {
		t.Errorf("IndexArticles = %v, want 10", got)
	}
	if got := testutil.ToFloat64(IndexVocabulary); got != 42 {
		t.Errorf("IndexVocabulary = %v, want 42", got)
	}
}

func TestRecordBreakerState(t *testing.T) {
	cases := []struct {
		state string
		want  float64
	}{
		{"closed", 0},
		{"half-open", 1},
		{"open", 2},
	}
	for _, tc := range cases {
		RecordBreakerState("newsapi", tc.state)
		if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("newsapi")); got != tc.want {
			t.Errorf("state %q = %v, want %v", tc.state, got, tc.want)
		}
	}
}
