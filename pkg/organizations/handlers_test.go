// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package organizations

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
			name:   "list mine",
			method: http.MethodGet,
			path:   "/api/v0/organizations",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().ListForUser(gomock.Any(), "").Return([]*types.UserOrganization{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "list someone else",
			method: http.MethodGet,
			path:   "/api/v0/organizations?user_id=user_b",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().ListForUser(gomock.Any(), "user_b").Return(nil, fmt.Errorf("list: %w", authorization.ErrForbidden))
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:   "create or get",
			method: http.MethodPost,
			path:   "/api/v0/organizations",
			body:   `{"external_id":"org_1","name":"Acme","slug":"acme"}`,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().CreateOrGet(gomock.Any(), gomock.Cond(func(r *CreateOrganizationRequest) bool {
					return r.ExternalID == "org_1" && r.Slug == "acme"
				})).Return(&types.Organization{ID: "o-1"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "create without slug",
			method:         http.MethodPost,
			path:           "/api/v0/organizations",
			body:           `{"external_id":"org_1","name":"Acme"}`,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "create with bad image url",
			method:         http.MethodPost,
			path:           "/api/v0/organizations",
			body:           `{"external_id":"org_1","name":"Acme","slug":"acme","image_url":"not a url"}`,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "slug conflict",
			method: http.MethodPost,
			path:   "/api/v0/organizations",
			body:   `{"external_id":"org_2","name":"Acme","slug":"acme"}`,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().CreateOrGet(gomock.Any(), gomock.Any()).Return(nil, storage.ErrDuplicateKey)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:   "by external id",
			method: http.MethodGet,
			path:   "/api/v0/organizations/by-external-id/org_1",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().GetByExternalID(gomock.Any(), "org_1").Return(&types.Organization{ID: "o-1"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "by slug missing",
			method: http.MethodGet,
			path:   "/api/v0/organizations/by-slug/nope",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().GetBySlug(gomock.Any(), "nope").Return(nil, storage.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "patch name",
			method: http.MethodPatch,
			path:   "/api/v0/organizations/o-1",
			body:   `{"name":"Acme Corp"}`,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().UpdateFields(gomock.Any(), "o-1", gomock.Cond(func(p types.OrganizationPatch) bool {
					return p.Name != nil && *p.Name == "Acme Corp" && p.Slug == nil
				})).Return(&types.Organization{ID: "o-1"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "members",
			method: http.MethodGet,
			path:   "/api/v0/organizations/o-1/members",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().ListMembers(gomock.Any(), "o-1").Return([]*types.Member{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "add member",
			method: http.MethodPost,
			path:   "/api/v0/organizations/o-1/members",
			body:   `{"user_id":"user_b","role":"member"}`,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().AddMember(gomock.Any(), "o-1", "user_b", types.RoleMember).Return(&types.Membership{ID: "m-2"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "add member with provider role",
			method:         http.MethodPost,
			path:           "/api/v0/organizations/o-1/members",
			body:           `{"user_id":"user_b","role":"org:admin"}`,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "upsert membership",
			method: http.MethodPut,
			path:   "/api/v0/organizations/o-1/members/user_b",
			body:   `{"role":"admin","joined_at":"2025-06-01T00:00:00Z"}`,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().UpsertMembershipRole(gomock.Any(), "o-1", "user_b", types.RoleAdmin, gomock.Not(gomock.Nil())).Return(&types.Membership{ID: "m-2"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "update role forbidden",
			method: http.MethodPatch,
			path:   "/api/v0/memberships/m-2",
			body:   `{"role":"admin"}`,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().UpdateMemberRole(gomock.Any(), "m-2", types.RoleAdmin).Return(nil, fmt.Errorf("manage: %w", authorization.ErrForbidden))
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:   "remove member",
			method: http.MethodDelete,
			path:   "/api/v0/memberships/m-2",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().RemoveMember(gomock.Any(), "m-2").Return(nil)
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
