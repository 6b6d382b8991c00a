// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/canonical/team-planner/internal/authorization"
	"github.com/canonical/team-planner/internal/idp"
	"github.com/canonical/team-planner/internal/storage"
	"github.com/canonical/team-planner/internal/types"
)

func TestStatusFromError(t *testing.T) {
	validationErr := validator.New().Var("not-a-color", "hexcolor")

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, http.StatusOK},
		{"unauthorized", fmt.Errorf("list tasks: %w", authorization.ErrUnauthorized), http.StatusUnauthorized},
		{"forbidden", fmt.Errorf("update task: %w", authorization.ErrForbidden), http.StatusForbidden},
		{"not found", fmt.Errorf("get task: %w", storage.ErrNotFound), http.StatusNotFound},
		{"duplicate", fmt.Errorf("already a member: %w", storage.ErrDuplicateKey), http.StatusConflict},
		{"invalid input", fmt.Errorf("%w: title is required", types.ErrInvalidInput), http.StatusBadRequest},
		{"validation", validationErr, http.StatusBadRequest},
		{"unknown role", fmt.Errorf("normalize: %w", idp.ErrUnknownRole), http.StatusBadRequest},
		{"identity provider down", fmt.Errorf("change role: %w", idp.ErrUpstream), http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := StatusFromError(test.err); got != test.expected {
				t.Errorf("expected %d, got %d", test.expected, got)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "forbidden is echoed",
			err:             fmt.Errorf("update event: %w", authorization.ErrForbidden),
			expectedStatus:  http.StatusForbidden,
			expectedMessage: "update event: forbidden",
		},
		{
			name:            "internal errors are hidden",
			err:             errors.New("pq: connection refused"),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Internal Server Error",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, test.err)

			if w.Code != test.expectedStatus {
				t.Fatalf("expected status %d, got %d", test.expectedStatus, w.Code)
			}

			var body ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}

			if body.Status != test.expectedStatus || body.Message != test.expectedMessage {
				t.Errorf("unexpected body %+v", body)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Title string `json:"title"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"x"}`))
	if err := DecodeJSON(r, &v); err != nil || v.Title != "x" {
		t.Fatalf("unexpected result %v %+v", err, v)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"owner":"x"}`))
	if err := DecodeJSON(r, &v); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusCreated, map[string]string{"id": "t-1"})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %s", ct)
	}

	var body struct {
		Data   map[string]string `json:"data"`
		Status int               `json:"status"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}

	if body.Data["id"] != "t-1" || body.Status != http.StatusCreated {
		t.Errorf("unexpected body %+v", body)
	}
}
