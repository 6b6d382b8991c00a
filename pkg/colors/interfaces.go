// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package colors

import (
	"context"

	"github.com/canonical/team-planner/internal/authorization"
	"github.com/canonical/team-planner/internal/types"
)

type StorageInterface interface {
	ListUserColors(ctx context.Context, organizationID string) ([]*types.UserColor, error)
	UpsertUserColor(ctx context.Context, organizationID, userID, color string) (*types.UserColor, error)
}

type AuthorizerInterface interface {
	Actor(ctx context.Context) (string, error)
	ResolveAccess(ctx context.Context, userID, organizationID string) (*authorization.Access, error)
}

type ServiceInterface interface {
	List(ctx context.Context, organizationID string) ([]*types.UserColor, error)
	Upsert(ctx context.Context, organizationID, userID, color string) (*types.UserColor, error)
	Assign(ctx context.Context, organizationID, userID string) (*types.UserColor, error)
}
