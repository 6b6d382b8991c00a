// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
)

func TestAPI_Identity(t *testing.T) {
	created := []byte(`{"type":"organizationMembership.created","object":"event","data":` + membershipPayload + `}`)

	tests := []struct {
		name           string
		body           []byte
		sign           bool
		setupMocks     func(*MockServiceInterface)
		expectedStatus int
	}{
		{
			name: "signed event",
			body: created,
			sign: true,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().Handle(gomock.Any(), gomock.Cond(func(e *Event) bool {
					return e.Type == EventMembershipCreated
				})).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unsigned event",
			body:           created,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "signed garbage",
			body:           []byte(`not json`),
			sign:           true,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "handler failure",
			body: created,
			sign: true,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().Handle(gomock.Any(), gomock.Any()).Return(errors.New("database unavailable"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSvc := NewMockServiceInterface(ctrl)
			tt.setupMocks(mockSvc)

			verifier, err := NewVerifier(testSecret, DefaultTolerance)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			logger := logging.NewNoopLogger()
			api := NewAPI(mockSvc, verifier, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

			mux := chi.NewMux()
			api.RegisterEndpoints(mux)

			req := httptest.NewRequest(http.MethodPost, "/webhooks/identity", bytes.NewReader(tt.body))
			if tt.sign {
				req.Header = signedHeaders(t, "msg_1", time.Now(), tt.body)
			}

			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
