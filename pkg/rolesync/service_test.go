// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package rolesync

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/canonical/team-planner/internal/authorization"
	"github.com/canonical/team-planner/internal/idp"
	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/storage"
	"github.com/canonical/team-planner/internal/tracing"
	"github.com/canonical/team-planner/internal/types"
	"github.com/canonical/team-planner/pkg/changefeed"
)

//go:generate mockgen -build_flags=--mod=mod -package rolesync -destination ./mock_interfaces.go -source=./interfaces.go

type mocks struct {
	storage  *MockStorageInterface
	idp      *idp.MockClientInterface
	profiles *MockProfileSyncerInterface
	authz    *MockAuthorizerInterface
}

func newMocks(ctrl *gomock.Controller) *mocks {
	m := &mocks{
		storage:  NewMockStorageInterface(ctrl),
		idp:      idp.NewMockClientInterface(ctrl),
		profiles: NewMockProfileSyncerInterface(ctrl),
		authz:    NewMockAuthorizerInterface(ctrl),
	}

	m.storage.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	).AnyTimes()

	return m
}

func (m *mocks) service() *Service {
	logger := logging.NewNoopLogger()
	return NewService(m.storage, m.idp, m.profiles, m.authz, changefeed.NewNoopFeed(), 2, time.Second, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)
}

var acme = &types.Organization{ID: "o-1", ExternalID: "org_1", Name: "Acme", Slug: "acme", CreatedBy: "user_a"}

func membership(orgID, userID, role string) idp.OrganizationMembership {
	return idp.OrganizationMembership{
		ID:             "orgmem_" + userID,
		Role:           role,
		Organization:   idp.OrganizationData{ID: orgID, Name: "Acme", Slug: "acme"},
		PublicUserData: idp.PublicUserData{UserID: userID},
		CreatedAt:      1735689600000,
	}
}

func TestService_ApplyMembership(t *testing.T) {
	joined := time.UnixMilli(1735689600000).UTC()

	tests := []struct {
		name        string
		membership  idp.OrganizationMembership
		setupMocks  func(*mocks)
		expectedErr error
	}{
		{
			name:       "owner becomes admin",
			membership: membership("org_1", "user_b", "org:owner"),
			setupMocks: func(m *mocks) {
				m.storage.EXPECT().GetOrganizationByExternalID(gomock.Any(), "org_1").Return(acme, nil)
				m.storage.EXPECT().UpsertMembership(gomock.Any(), "o-1", "user_b", types.RoleAdmin, joined).Return(&types.Membership{ID: "m-2"}, nil)
			},
		},
		{
			name:       "unknown organization is created from the payload",
			membership: membership("org_2", "user_b", "org:member"),
			setupMocks: func(m *mocks) {
				m.storage.EXPECT().GetOrganizationByExternalID(gomock.Any(), "org_2").Return(nil, storage.ErrNotFound)
				m.storage.EXPECT().CreateOrganization(gomock.Any(), gomock.Cond(func(o *types.Organization) bool {
					return o.ExternalID == "org_2" && o.Slug == "acme" && o.CreatedBy == systemActor
				})).Return(&types.Organization{ID: "o-2", ExternalID: "org_2"}, nil)
				m.storage.EXPECT().UpsertMembership(gomock.Any(), "o-2", "user_b", types.RoleMember, joined).Return(&types.Membership{ID: "m-3"}, nil)
			},
		},
		{
			name:        "unknown role",
			membership:  membership("org_1", "user_b", "org:guest"),
			setupMocks:  func(*mocks) {},
			expectedErr: idp.ErrUnknownRole,
		},
		{
			name:        "missing user",
			membership:  membership("org_1", "", "org:member"),
			setupMocks:  func(*mocks) {},
			expectedErr: types.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := newMocks(ctrl)
			tt.setupMocks(m)

			err := m.service().ApplyMembership(context.Background(), &tt.membership)
			if !errors.Is(err, tt.expectedErr) {
				t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
			}
		})
	}
}

func TestService_RemoveMembership(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*mocks)
	}{
		{
			name: "removes the membership",
			setupMocks: func(m *mocks) {
				m.storage.EXPECT().GetOrganizationByExternalID(gomock.Any(), "org_1").Return(acme, nil)
				m.storage.EXPECT().GetMembership(gomock.Any(), "o-1", "user_b").Return(&types.Membership{ID: "m-2", OrganizationID: "o-1", UserID: "user_b"}, nil)
				m.storage.EXPECT().DeleteMembership(gomock.Any(), "m-2").Return(nil)
			},
		},
		{
			name: "unknown organization",
			setupMocks: func(m *mocks) {
				m.storage.EXPECT().GetOrganizationByExternalID(gomock.Any(), "org_1").Return(nil, storage.ErrNotFound)
			},
		},
		{
			name: "already gone",
			setupMocks: func(m *mocks) {
				m.storage.EXPECT().GetOrganizationByExternalID(gomock.Any(), "org_1").Return(acme, nil)
				m.storage.EXPECT().GetMembership(gomock.Any(), "o-1", "user_b").Return(nil, storage.ErrNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := newMocks(ctrl)
			tt.setupMocks(m)

			if err := m.service().RemoveMembership(context.Background(), "org_1", "user_b"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestService_UpdateOrganization(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newMocks(ctrl)
	m.storage.EXPECT().GetOrganizationByExternalID(gomock.Any(), "org_1").Return(acme, nil)
	m.storage.EXPECT().UpdateOrganization(gomock.Any(), "o-1", gomock.Cond(func(p types.OrganizationPatch) bool {
		return p.Name != nil && *p.Name == "Acme Corp" && p.Slug == nil && p.ImageURL == nil
	})).Return(acme, nil)

	if err := m.service().UpdateOrganization(context.Background(), &idp.OrganizationData{ID: "org_1", Name: "Acme Corp"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestService_CreateOrganizationExisting(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newMocks(ctrl)
	m.storage.EXPECT().GetOrganizationByExternalID(gomock.Any(), "org_1").Return(acme, nil)

	if err := m.service().CreateOrganization(context.Background(), &idp.OrganizationData{ID: "org_1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestService_SyncProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newMocks(ctrl)
	p := &types.UserProfile{ExternalID: "user_a", FirstName: "Ada"}
	m.profiles.EXPECT().Sync(gomock.Any(), p).Return(p, nil)

	if err := m.service().SyncProfile(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestService_ChangeRole(t *testing.T) {
	upstream := errors.New("identity provider unavailable")

	tests := []struct {
		name          string
		setupMocks    func(*mocks)
		expectedErr   error
		expectedLocal bool
	}{
		{
			name: "admin at the provider",
			setupMocks: func(m *mocks) {
				m.idp.EXPECT().ListUserMemberships(gomock.Any(), "user_a").Return([]idp.OrganizationMembership{membership("org_1", "user_a", "org:admin")}, nil)
				updated := membership("org_1", "user_b", "org:admin")
				m.idp.EXPECT().UpdateMembershipRole(gomock.Any(), "org_1", "user_b", types.RoleAdmin).Return(&updated, nil)
				m.storage.EXPECT().GetOrganizationByExternalID(gomock.Any(), "org_1").Return(acme, nil)
				m.storage.EXPECT().UpsertMembership(gomock.Any(), "o-1", "user_b", types.RoleAdmin, gomock.Any()).Return(&types.Membership{ID: "m-2"}, nil)
				// background reconciliation failures are only logged
				m.idp.EXPECT().ListOrganizationMemberships(gomock.Any(), "org_1").Return(nil, upstream)
			},
			expectedLocal: true,
		},
		{
			name: "local mirror failure is not surfaced",
			setupMocks: func(m *mocks) {
				m.idp.EXPECT().ListUserMemberships(gomock.Any(), "user_a").Return([]idp.OrganizationMembership{membership("org_1", "user_a", "org:owner")}, nil)
				updated := membership("org_1", "user_b", "org:admin")
				m.idp.EXPECT().UpdateMembershipRole(gomock.Any(), "org_1", "user_b", types.RoleAdmin).Return(&updated, nil)
				m.storage.EXPECT().GetOrganizationByExternalID(gomock.Any(), "org_1").Return(nil, errors.New("connection reset"))
				m.idp.EXPECT().ListOrganizationMemberships(gomock.Any(), "org_1").Return(nil, upstream)
			},
		},
		{
			name: "member at the provider",
			setupMocks: func(m *mocks) {
				m.idp.EXPECT().ListUserMemberships(gomock.Any(), "user_a").Return([]idp.OrganizationMembership{membership("org_1", "user_a", "org:member")}, nil)
			},
			expectedErr: authorization.ErrForbidden,
		},
		{
			name: "not a member at the provider",
			setupMocks: func(m *mocks) {
				m.idp.EXPECT().ListUserMemberships(gomock.Any(), "user_a").Return([]idp.OrganizationMembership{membership("org_9", "user_a", "org:admin")}, nil)
			},
			expectedErr: authorization.ErrForbidden,
		},
		{
			name: "provider update fails",
			setupMocks: func(m *mocks) {
				m.idp.EXPECT().ListUserMemberships(gomock.Any(), "user_a").Return([]idp.OrganizationMembership{membership("org_1", "user_a", "org:admin")}, nil)
				m.idp.EXPECT().UpdateMembershipRole(gomock.Any(), "org_1", "user_b", types.RoleAdmin).Return(nil, upstream)
			},
			expectedErr: upstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := newMocks(ctrl)
			m.authz.EXPECT().Actor(gomock.Any()).Return("user_a", nil)
			tt.setupMocks(m)

			s := m.service()
			result, err := s.ChangeRole(context.Background(), "org_1", "user_b", types.RoleAdmin)
			s.Wait()

			if !errors.Is(err, tt.expectedErr) {
				t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
			}

			if err != nil {
				return
			}

			if result.LocalSynced != tt.expectedLocal {
				t.Errorf("expected local synced %v, got %v", tt.expectedLocal, result.LocalSynced)
			}

			if result.Role != types.RoleAdmin {
				t.Errorf("expected admin, got %s", result.Role)
			}
		})
	}
}

func TestService_Reconcile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newMocks(ctrl)
	m.idp.EXPECT().ListOrganizationMemberships(gomock.Any(), "org_1").Return(
		[]idp.OrganizationMembership{
			membership("org_1", "user_a", "org:admin"),
			membership("org_1", "user_b", "org:member"),
			membership("org_1", "user_c", "org:auditor"),
		},
		nil,
	)
	m.storage.EXPECT().GetOrganizationByExternalID(gomock.Any(), "org_1").Return(acme, nil)
	m.storage.EXPECT().ListMembershipsByOrganization(gomock.Any(), "o-1").Return(
		[]*types.Membership{
			{ID: "m-a", OrganizationID: "o-1", UserID: "user_a", Role: types.RoleMember},
			{ID: "m-b", OrganizationID: "o-1", UserID: "user_b", Role: types.RoleMember},
			{ID: "m-c", OrganizationID: "o-1", UserID: "user_c", Role: types.RoleAdmin},
			{ID: "m-d", OrganizationID: "o-1", UserID: "user_d", Role: types.RoleMember},
		},
		nil,
	)
	m.storage.EXPECT().UpsertMembership(gomock.Any(), "o-1", "user_a", types.RoleAdmin, gomock.Any()).Return(&types.Membership{ID: "m-a"}, nil)
	m.storage.EXPECT().DeleteMembership(gomock.Any(), "m-d").Return(nil)

	result, err := m.service().Reconcile(context.Background(), "org_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Upserted != 1 || result.Removed != 1 || result.Skipped != 1 {
		t.Errorf("unexpected result %+v", result)
	}

	if result.OrganizationID != "o-1" {
		t.Errorf("expected o-1, got %s", result.OrganizationID)
	}
}

func TestService_ReconcileEmptyUnknownOrganization(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newMocks(ctrl)
	m.idp.EXPECT().ListOrganizationMemberships(gomock.Any(), "org_404").Return([]idp.OrganizationMembership{}, nil)
	m.storage.EXPECT().GetOrganizationByExternalID(gomock.Any(), "org_404").Return(nil, storage.ErrNotFound)

	if _, err := m.service().Reconcile(context.Background(), "org_404"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_ReconcileAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newMocks(ctrl)
	m.storage.EXPECT().ListExternalIDs(gomock.Any()).Return([]string{"org_1", "org_2"}, nil)
	m.idp.EXPECT().ListOrganizationMemberships(gomock.Any(), "org_1").Return(nil, idp.ErrUpstream)
	m.idp.EXPECT().ListOrganizationMemberships(gomock.Any(), "org_2").Return([]idp.OrganizationMembership{}, nil)
	m.storage.EXPECT().GetOrganizationByExternalID(gomock.Any(), "org_2").Return(&types.Organization{ID: "o-2", ExternalID: "org_2"}, nil)
	m.storage.EXPECT().ListMembershipsByOrganization(gomock.Any(), "o-2").Return([]*types.Membership{}, nil)

	err := m.service().ReconcileAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("expected one failure out of two, got %v", err)
	}
}

func TestService_SyncForCaller(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newMocks(ctrl)
	m.authz.EXPECT().Actor(gomock.Any()).Return("user_x", nil)
	m.idp.EXPECT().ListUserMemberships(gomock.Any(), "user_x").Return([]idp.OrganizationMembership{}, nil)

	if _, err := m.service().SyncForCaller(context.Background(), "org_1"); !errors.Is(err, authorization.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
