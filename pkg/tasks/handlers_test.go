// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tasks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/canonical/team-planner/internal/authorization"
	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/storage"
	"github.com/canonical/team-planner/internal/tracing"
	"github.com/canonical/team-planner/internal/types"
)

func TestAPI(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		setupMocks     func(*MockServiceInterface)
		expectedStatus int
	}{
		{
			name:   "list personal",
			method: http.MethodGet,
			path:   "/api/v0/tasks?organization_id=o-1",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().ListPersonal(gomock.Any(), "", gomock.Cond(func(o *string) bool {
					return o != nil && *o == "o-1"
				})).Return([]*types.Task{{ID: "t-1"}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "list organization forbidden",
			method: http.MethodGet,
			path:   "/api/v0/organizations/o-1/tasks",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().ListForOrganization(gomock.Any(), "o-1").Return(nil, fmt.Errorf("read: %w", authorization.ErrForbidden))
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:   "create",
			method: http.MethodPost,
			path:   "/api/v0/tasks",
			body:   `{"title":"release","priority":"high"}`,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&types.Task{ID: "t-1", Title: "release"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "create without title",
			method:         http.MethodPost,
			path:           "/api/v0/tasks",
			body:           `{"priority":"high"}`,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "create with unknown priority",
			method:         http.MethodPost,
			path:           "/api/v0/tasks",
			body:           `{"title":"release","priority":"urgent"}`,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "organization is not patchable",
			method:         http.MethodPatch,
			path:           "/api/v0/tasks/t-1",
			body:           `{"organization_id":"o-2"}`,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "update missing task",
			method: http.MethodPatch,
			path:   "/api/v0/tasks/t-404",
			body:   `{"completed":true}`,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().Update(gomock.Any(), "t-404", gomock.Any()).Return(nil, storage.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "delete",
			method: http.MethodDelete,
			path:   "/api/v0/tasks/t-1",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().Delete(gomock.Any(), "t-1").Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSvc := NewMockServiceInterface(ctrl)
			tt.setupMocks(mockSvc)

			logger := logging.NewNoopLogger()
			api := NewAPI(mockSvc, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

			mux := chi.NewMux()
			api.RegisterEndpoints(mux)

			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if w.Code >= http.StatusBadRequest {
				var body map[string]any
				if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
					t.Fatalf("error body is not json: %v", err)
				}
			}
		})
	}
}
