// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/storage"
	"github.com/canonical/team-planner/internal/tracing"
	"github.com/canonical/team-planner/internal/types"
	"github.com/canonical/team-planner/pkg/authentication"
)

//go:generate mockgen -build_flags=--mod=mod -package authorization -destination ./mock_interfaces.go -source=./interfaces.go StorageInterface

func newTestEvaluator(s StorageInterface) *Evaluator {
	logger := logging.NewNoopLogger()
	return NewEvaluator(s, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)
}

func TestEvaluator_ResolveAccess(t *testing.T) {
	dbErr := errors.New("db error")

	testCases := []struct {
		name           string
		userID         string
		setupMocks     func(*MockStorageInterface)
		expectedAccess *Access
		expectedErr    error
	}{
		{
			name:        "unauthenticated",
			userID:      "",
			setupMocks:  func(*MockStorageInterface) {},
			expectedErr: ErrUnauthorized,
		},
		{
			name:   "membership row",
			userID: "user_b",
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetMembership(gomock.Any(), "o-1", "user_b").Return(&types.Membership{Role: types.RoleMember}, nil)
			},
			expectedAccess: &Access{UserID: "user_b", OrganizationID: "o-1", Role: types.RoleMember, Member: true},
		},
		{
			name:   "creator without membership is an implicit admin",
			userID: "user_a",
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetMembership(gomock.Any(), "o-1", "user_a").Return(nil, storage.ErrNotFound)
				mockStorage.EXPECT().GetOrganizationByID(gomock.Any(), "o-1").Return(&types.Organization{ID: "o-1", CreatedBy: "user_a"}, nil)
			},
			expectedAccess: &Access{UserID: "user_a", OrganizationID: "o-1", Role: types.RoleAdmin, Creator: true},
		},
		{
			name:   "stranger",
			userID: "user_x",
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetMembership(gomock.Any(), "o-1", "user_x").Return(nil, storage.ErrNotFound)
				mockStorage.EXPECT().GetOrganizationByID(gomock.Any(), "o-1").Return(&types.Organization{ID: "o-1", CreatedBy: "user_a"}, nil)
			},
			expectedErr: ErrForbidden,
		},
		{
			name:   "missing organization is forbidden, not not found",
			userID: "user_x",
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetMembership(gomock.Any(), "o-1", "user_x").Return(nil, storage.ErrNotFound)
				mockStorage.EXPECT().GetOrganizationByID(gomock.Any(), "o-1").Return(nil, storage.ErrNotFound)
			},
			expectedErr: ErrForbidden,
		},
		{
			name:   "membership lookup error",
			userID: "user_b",
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetMembership(gomock.Any(), "o-1", "user_b").Return(nil, dbErr)
			},
			expectedErr: dbErr,
		},
		{
			name:   "organization lookup error",
			userID: "user_b",
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetMembership(gomock.Any(), "o-1", "user_b").Return(nil, storage.ErrNotFound)
				mockStorage.EXPECT().GetOrganizationByID(gomock.Any(), "o-1").Return(nil, dbErr)
			},
			expectedErr: dbErr,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStorage := NewMockStorageInterface(ctrl)
			tc.setupMocks(mockStorage)

			access, err := newTestEvaluator(mockStorage).ResolveAccess(context.Background(), tc.userID, "o-1")

			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if *access != *tc.expectedAccess {
				t.Errorf("expected %+v, got %+v", *tc.expectedAccess, *access)
			}
		})
	}
}

func TestEvaluator_Actor(t *testing.T) {
	e := newTestEvaluator(nil)

	if _, err := e.Actor(context.Background()); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	ctx := authentication.WithPrincipal(context.Background(), &authentication.Principal{UserID: "user_a"})
	actor, err := e.Actor(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if actor != "user_a" {
		t.Errorf("expected user_a, got %s", actor)
	}
}
