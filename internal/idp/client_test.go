// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package idp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
	"github.com/canonical/team-planner/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package idp -destination ./mock_interfaces.go -source=./interfaces.go

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := logging.NewNoopLogger()

	return NewClient(
		Config{BaseURL: srv.URL + "/", SecretKey: "sk_test"},
		tracing.NewNoopTracer(),
		monitoring.NewNoopMonitor("test", logger),
		logger,
	)
}

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		input    string
		expected types.Role
		err      error
	}{
		{"org:owner", types.RoleAdmin, nil},
		{"owner", types.RoleAdmin, nil},
		{"org:admin", types.RoleAdmin, nil},
		{"admin", types.RoleAdmin, nil},
		{"ADMIN", types.RoleAdmin, nil},
		{"org:member", types.RoleMember, nil},
		{"member", types.RoleMember, nil},
		{"org:basic_member", types.RoleMember, nil},
		{"org:billing", "", ErrUnknownRole},
		{"", "", ErrUnknownRole},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			role, err := NormalizeRole(tt.input)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected error %v, got %v", tt.err, err)
			}

			if role != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, role)
			}
		})
	}
}

func TestProviderRole(t *testing.T) {
	if ProviderRole(types.RoleAdmin) != "org:admin" || ProviderRole(types.RoleMember) != "org:member" {
		t.Error("unexpected provider role mapping")
	}

	for _, r := range []types.Role{types.RoleAdmin, types.RoleMember} {
		back, err := NormalizeRole(ProviderRole(r))
		if err != nil || back != r {
			t.Errorf("%s did not survive the mapping: %s %v", r, back, err)
		}
	}
}

func TestClient_ListOrganizationMembershipsPaginates(t *testing.T) {
	total := pageSize + 3

	mux := http.NewServeMux()
	mux.HandleFunc("GET /organizations/org_1/memberships", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk_test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		page := membershipList{TotalCount: total}
		for i := offset; i < total && i < offset+pageSize; i++ {
			page.Data = append(page.Data, OrganizationMembership{
				ID:             fmt.Sprintf("mem_%d", i),
				Role:           "org:member",
				PublicUserData: PublicUserData{UserID: fmt.Sprintf("user_%d", i)},
			})
		}

		_ = json.NewEncoder(w).Encode(page)
	})

	c := newTestClient(t, mux)

	memberships, err := c.ListOrganizationMemberships(context.Background(), "org_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(memberships) != total {
		t.Errorf("expected %d memberships, got %d", total, len(memberships))
	}
}

func TestClient_ListUserMemberships(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/user_a/organization_memberships", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"mem_1","role":"org:admin","created_at":1735689600000,"organization":{"id":"org_1","name":"Acme","slug":"acme"}}],"total_count":1}`))
	})

	c := newTestClient(t, mux)

	memberships, err := c.ListUserMemberships(context.Background(), "user_a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(memberships) != 1 || memberships[0].Organization.ID != "org_1" || !IsAdmin(memberships[0].Role) {
		t.Fatalf("unexpected memberships %+v", memberships)
	}

	if memberships[0].Joined().Year() != 2025 {
		t.Errorf("unexpected joined time %v", memberships[0].Joined())
	}
}

func TestClient_UpdateMembershipRole(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /organizations/org_1/memberships/user_b", func(w http.ResponseWriter, r *http.Request) {
		var req updateMembershipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Role != "org:admin" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}

		_, _ = w.Write([]byte(`{"id":"mem_2","role":"org:admin","public_user_data":{"user_id":"user_b"}}`))
	})

	c := newTestClient(t, mux)

	membership, err := c.UpdateMembershipRole(context.Background(), "org_1", "user_b", types.RoleAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if membership.PublicUserData.UserID != "user_b" || membership.Role != "org:admin" {
		t.Errorf("unexpected membership %+v", membership)
	}
}

func TestClient_Errors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /organizations/org_1/memberships/user_b", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"code":"forbidden"}]}`, http.StatusForbidden)
	})

	c := newTestClient(t, mux)

	if _, err := c.UpdateMembershipRole(context.Background(), "org_1", "user_b", types.RoleAdmin); !errors.Is(err, ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}

	if _, err := c.ListOrganizationMemberships(context.Background(), "org_missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
