// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package profiles

import (
	"context"

	"github.com/canonical/team-planner/internal/types"
)

type StorageInterface interface {
	UpsertProfile(ctx context.Context, p *types.UserProfile) (*types.UserProfile, error)
	GetProfileByExternalID(ctx context.Context, externalID string) (*types.UserProfile, error)
	ListProfilesByExternalIDs(ctx context.Context, externalIDs []string) ([]*types.UserProfile, error)
}

type AuthorizerInterface interface {
	Actor(ctx context.Context) (string, error)
}

type ServiceInterface interface {
	Upsert(ctx context.Context, req *UpsertProfileRequest) (*types.UserProfile, error)
	UpsertFromSession(ctx context.Context) (*types.UserProfile, error)
	GetByExternalID(ctx context.Context, externalID string) (*types.UserProfile, error)
	ListByExternalIDs(ctx context.Context, externalIDs []string) ([]*types.UserProfile, error)
}
