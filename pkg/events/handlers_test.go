// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package events

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/canonical/team-planner/internal/authorization"
	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
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
			name:   "conflicts",
			method: http.MethodGet,
			path:   "/api/v0/organizations/o-1/events/conflicts",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().Conflicts(gomock.Any(), "o-1").Return([]types.ConflictPair{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "list organization",
			method: http.MethodGet,
			path:   "/api/v0/organizations/o-1/events",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().ListForOrganization(gomock.Any(), "o-1").Return([]*types.Event{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "list for user unauthenticated",
			method: http.MethodGet,
			path:   "/api/v0/events",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().ListForUser(gomock.Any(), "", nil).Return(nil, authorization.ErrUnauthorized)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "create",
			method: http.MethodPost,
			path:   "/api/v0/events",
			body:   `{"title":"standup","start_time":1772445600000,"end_time":1772449200000,"organization_id":"o-1"}`,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&types.Event{ID: "e-1"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:   "create starting at the epoch",
			method: http.MethodPost,
			path:   "/api/v0/events",
			body:   `{"title":"standup","start_time":0,"end_time":0,"organization_id":"o-1"}`,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().Create(gomock.Any(), gomock.Cond(func(req *CreateEventRequest) bool {
					return req.StartTime == 0 && req.EndTime == 0
				})).Return(&types.Event{ID: "e-2"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:   "update clearing the description",
			method: http.MethodPatch,
			path:   "/api/v0/events/e-1",
			body:   `{"clear_description":true}`,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().Update(gomock.Any(), "e-1", types.EventPatch{ClearDescription: true}).Return(&types.Event{ID: "e-1"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "update setting and clearing the description",
			method:         http.MethodPatch,
			path:           "/api/v0/events/e-1",
			body:           `{"description":"agenda","clear_description":true}`,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "create without organization",
			method:         http.MethodPost,
			path:           "/api/v0/events",
			body:           `{"title":"standup","start_time":1,"end_time":2}`,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "update with unknown status",
			method:         http.MethodPatch,
			path:           "/api/v0/events/e-1",
			body:           `{"status":"postponed"}`,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "reassignment refused",
			method: http.MethodPatch,
			path:   "/api/v0/events/e-1",
			body:   `{"assigned_to":"user_c"}`,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().Update(gomock.Any(), "e-1", gomock.Any()).Return(nil, authorization.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:   "delete",
			method: http.MethodDelete,
			path:   "/api/v0/events/e-1",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().Delete(gomock.Any(), "e-1").Return(nil)
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
			mux := chi.NewMux()
			NewAPI(mockSvc, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger).RegisterEndpoints(mux)

			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body)))

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
