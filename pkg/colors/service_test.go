// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package colors

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/canonical/team-planner/internal/authorization"
	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
	"github.com/canonical/team-planner/internal/types"
	"github.com/canonical/team-planner/pkg/changefeed"
)

//go:generate mockgen -build_flags=--mod=mod -package colors -destination ./mock_interfaces.go -source=./interfaces.go

func newTestService(s StorageInterface, a AuthorizerInterface) *Service {
	logger := logging.NewNoopLogger()
	return NewService(s, a, changefeed.NewNoopFeed(), tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)
}

func memberOf(mockAuthz *MockAuthorizerInterface, organizationID string) {
	mockAuthz.EXPECT().Actor(gomock.Any()).Return("user_a", nil)
	mockAuthz.EXPECT().ResolveAccess(gomock.Any(), "user_a", organizationID).Return(
		&authorization.Access{UserID: "user_a", OrganizationID: organizationID, Role: types.RoleMember, Member: true},
		nil,
	)
}

func TestService_UpsertThenList(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	mockAuthz := NewMockAuthorizerInterface(ctrl)

	rows := map[string]*types.UserColor{}
	mockStorage.EXPECT().UpsertUserColor(gomock.Any(), "o-1", "user_b", gomock.Any()).DoAndReturn(
		func(_ context.Context, organizationID, userID, color string) (*types.UserColor, error) {
			if c, ok := rows[userID]; ok {
				c.Color = color
				return c, nil
			}

			rows[userID] = &types.UserColor{ID: "c-1", OrganizationID: organizationID, UserID: userID, Color: color}
			return rows[userID], nil
		},
	).Times(2)
	mockStorage.EXPECT().ListUserColors(gomock.Any(), "o-1").DoAndReturn(
		func(context.Context, string) ([]*types.UserColor, error) {
			out := make([]*types.UserColor, 0, len(rows))
			for _, c := range rows {
				out = append(out, c)
			}
			return out, nil
		},
	)

	for i := 0; i < 3; i++ {
		memberOf(mockAuthz, "o-1")
	}

	s := newTestService(mockStorage, mockAuthz)
	ctx := context.Background()

	if _, err := s.Upsert(ctx, "o-1", "user_b", "#3b82f6"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.Upsert(ctx, "o-1", "user_b", "#EF4444"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	colors, err := s.List(ctx, "o-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(colors) != 1 || colors[0].Color != "#ef4444" {
		t.Fatalf("expected one updated row, got %+v", colors)
	}
}

func TestService_UpsertValidation(t *testing.T) {
	tests := []struct {
		name  string
		color string
	}{
		{"empty", ""},
		{"named color", "blue"},
		{"missing hash", "3b82f6"},
		{"too long", "#3b82f6aa1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			_, err := newTestService(NewMockStorageInterface(ctrl), NewMockAuthorizerInterface(ctrl)).Upsert(context.Background(), "o-1", "user_b", tt.color)
			if !errors.Is(err, types.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestService_ListForbidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuthz := NewMockAuthorizerInterface(ctrl)
	mockAuthz.EXPECT().Actor(gomock.Any()).Return("user_x", nil)
	mockAuthz.EXPECT().ResolveAccess(gomock.Any(), "user_x", "o-1").Return(&authorization.Access{UserID: "user_x", OrganizationID: "o-1"}, nil)

	_, err := newTestService(NewMockStorageInterface(ctrl), mockAuthz).List(context.Background(), "o-1")
	if !errors.Is(err, authorization.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestService_Assign(t *testing.T) {
	tests := []struct {
		name     string
		existing []*types.UserColor
		expected string
		upsert   bool
	}{
		{
			name:     "first color",
			existing: []*types.UserColor{},
			expected: Palette[0],
			upsert:   true,
		},
		{
			name: "skips used colors",
			existing: []*types.UserColor{
				{UserID: "user_x", Color: Palette[0]},
				{UserID: "user_y", Color: Palette[1]},
			},
			expected: Palette[2],
			upsert:   true,
		},
		{
			name:     "keeps an existing color",
			existing: []*types.UserColor{{UserID: "user_b", Color: Palette[5]}},
			expected: Palette[5],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStorage := NewMockStorageInterface(ctrl)
			mockAuthz := NewMockAuthorizerInterface(ctrl)
			memberOf(mockAuthz, "o-1")

			mockStorage.EXPECT().ListUserColors(gomock.Any(), "o-1").Return(tt.existing, nil)
			if tt.upsert {
				mockStorage.EXPECT().UpsertUserColor(gomock.Any(), "o-1", "user_b", tt.expected).Return(&types.UserColor{UserID: "user_b", Color: tt.expected}, nil)
			}

			c, err := newTestService(mockStorage, mockAuthz).Assign(context.Background(), "o-1", "user_b")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if c.Color != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, c.Color)
			}
		})
	}
}

func TestPickColorExhausted(t *testing.T) {
	used := make(map[string]struct{}, len(Palette))
	for _, c := range Palette {
		used[c] = struct{}{}
	}

	first := PickColor(used, "user_2abc")
	if first != PickColor(used, "user_2abc") {
		t.Fatal("fallback should be deterministic")
	}

	found := false
	for _, c := range Palette {
		if c == first {
			found = true
		}
	}

	if !found {
		t.Fatalf("fallback %s is not a palette color", first)
	}
}
