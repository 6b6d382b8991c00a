// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package status

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
	"github.com/canonical/team-planner/internal/version"
)

//go:generate mockgen -build_flags=--mod=mod -package status -destination ./mock_interfaces.go -source=./interfaces.go

func newMux(deps map[string]PingerInterface) *chi.Mux {
	logger := logging.NewNoopLogger()
	mux := chi.NewMux()
	NewAPI(deps, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger).RegisterEndpoints(mux)

	return mux
}

func TestAlive(t *testing.T) {
	w := httptest.NewRecorder()
	newMux(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v0/status", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Data   Status `json:"data"`
		Status int    `json:"status"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if body.Status != http.StatusOK {
		t.Errorf("expected envelope status 200, got %d", body.Status)
	}

	if body.Data.Status != "ok" {
		t.Errorf("expected status ok, got %s", body.Data.Status)
	}

	if body.Data.Version != version.Version {
		t.Errorf("expected version %s, got %s", version.Version, body.Data.Version)
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name           string
		redisErr       error
		expectedStatus int
		expectedRedis  string
	}{
		{"all dependencies up", nil, http.StatusOK, "ok"},
		{"redis down", errors.New("connection refused"), http.StatusServiceUnavailable, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			database := NewMockPingerInterface(ctrl)
			database.EXPECT().Ping(gomock.Any()).Return(nil)

			redis := NewMockPingerInterface(ctrl)
			redis.EXPECT().Ping(gomock.Any()).Return(tt.redisErr)

			w := httptest.NewRecorder()
			newMux(map[string]PingerInterface{"database": database, "redis": redis}).
				ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v0/ready", nil))

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected %d, got %d", tt.expectedStatus, w.Code)
			}

			var body struct {
				Data Readiness `json:"data"`
			}
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}

			if body.Data.Ready != (tt.expectedStatus == http.StatusOK) {
				t.Errorf("expected ready %v, got %v", tt.expectedStatus == http.StatusOK, body.Data.Ready)
			}

			if body.Data.Dependencies["database"] != "ok" {
				t.Errorf("expected database ok, got %s", body.Data.Dependencies["database"])
			}

			if body.Data.Dependencies["redis"] != tt.expectedRedis {
				t.Errorf("expected redis %s, got %s", tt.expectedRedis, body.Data.Dependencies["redis"])
			}
		})
	}
}
