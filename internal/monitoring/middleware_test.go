// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/team-planner/internal/logging"
)

type recordingMonitor struct {
	NoopMonitor

	tags []map[string]string
}

func (m *recordingMonitor) SetResponseTimeMetric(tags map[string]string, _ float64) error {
	m.tags = append(m.tags, tags)
	return nil
}

func TestResponseTimeUsesRoutePattern(t *testing.T) {
	monitor := new(recordingMonitor)

	router := chi.NewMux()
	router.Use(NewMiddleware(monitor, logging.NewNoopLogger()).ResponseTime())
	router.Get("/api/v0/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v0/tasks/0192", nil))

	if len(monitor.tags) != 1 {
		t.Fatalf("expected one sample, got %d", len(monitor.tags))
	}

	if got := monitor.tags[0]["route"]; got != "GET/api/v0/tasks/{id}" {
		t.Errorf("unexpected route label %q", got)
	}

	if got := monitor.tags[0]["status"]; got != "418" {
		t.Errorf("unexpected status label %q", got)
	}
}
