// Copyright 2026 Canonical Ltd
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"

	"github.com/canonical/team-planner/internal/types"
)

type AuthorizerInterface interface {
	// Actor returns the authenticated user behind ctx
	Actor(context.Context) (string, error)
	// ResolveAccess returns the standing of a user inside an organization
	ResolveAccess(ctx context.Context, userID, organizationID string) (*Access, error)
}

// StorageInterface is the subset of the membership mirror the evaluator reads.
type StorageInterface interface {
	GetOrganizationByID(ctx context.Context, id string) (*types.Organization, error)
	GetMembership(ctx context.Context, organizationID, userID string) (*types.Membership, error)
}
