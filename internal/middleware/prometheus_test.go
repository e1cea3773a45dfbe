// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yaelgoede/TheLogicalProject/internal/metrics"
)

func TestPrometheusMetrics_RecordsStatusCode(t *testing.T) {
	handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("POST", "/conflict", "409"))

	req := httptest.NewRequest(http.MethodPost, "/conflict", nil)
	handler(httptest.NewRecorder(), req)

	after := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("POST", "/conflict", "409"))
	if after != before+1 {
		t.Errorf("expected counter to increment, got %v -> %v", before, after)
	}
}

func TestPrometheusMetrics_DefaultsTo200(t *testing.T) {
	handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
		// no explicit WriteHeader
	})

	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/ok", "200"))

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	handler(httptest.NewRecorder(), req)

	after := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/ok", "200"))
	if after != before+1 {
		t.Errorf("expected 200 to be recorded, got %v -> %v", before, after)
	}
}
