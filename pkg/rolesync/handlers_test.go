// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package rolesync

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/canonical/team-planner/internal/authorization"
	"github.com/canonical/team-planner/internal/idp"
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
			name:   "change role with provider name",
			method: http.MethodPut,
			path:   "/api/v0/idp/organizations/org_1/members/user_b/role",
			body:   `{"role":"org:admin"}`,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().ChangeRole(gomock.Any(), "org_1", "user_b", types.RoleAdmin).Return(&ChangeRoleResult{Role: types.RoleAdmin, LocalSynced: true}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "change role with local name",
			method: http.MethodPut,
			path:   "/api/v0/idp/organizations/org_1/members/user_b/role",
			body:   `{"role":"member"}`,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().ChangeRole(gomock.Any(), "org_1", "user_b", types.RoleMember).Return(&ChangeRoleResult{Role: types.RoleMember}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown role",
			method:         http.MethodPut,
			path:           "/api/v0/idp/organizations/org_1/members/user_b/role",
			body:           `{"role":"org:guest"}`,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "not admin at the provider",
			method: http.MethodPut,
			path:   "/api/v0/idp/organizations/org_1/members/user_b/role",
			body:   `{"role":"admin"}`,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().ChangeRole(gomock.Any(), "org_1", "user_b", types.RoleAdmin).Return(nil, fmt.Errorf("change: %w", authorization.ErrForbidden))
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:   "provider down",
			method: http.MethodPut,
			path:   "/api/v0/idp/organizations/org_1/members/user_b/role",
			body:   `{"role":"admin"}`,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().ChangeRole(gomock.Any(), "org_1", "user_b", types.RoleAdmin).Return(nil, fmt.Errorf("update: %w", idp.ErrUpstream))
			},
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:   "sync",
			method: http.MethodPost,
			path:   "/api/v0/idp/organizations/org_1/sync",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().SyncForCaller(gomock.Any(), "org_1").Return(&ReconcileResult{OrganizationExternalID: "org_1"}, nil)
			},
			expectedStatus: http.StatusOK,
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
		})
	}
}
