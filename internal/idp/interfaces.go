// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package idp

import (
	"context"

	"github.com/canonical/team-planner/internal/types"
)

// ClientInterface is the slice of the identity provider management API the
// role bridge relies on.
type ClientInterface interface {
	ListUserMemberships(ctx context.Context, userID string) ([]OrganizationMembership, error)
	ListOrganizationMemberships(ctx context.Context, organizationID string) ([]OrganizationMembership, error)
	UpdateMembershipRole(ctx context.Context, organizationID, userID string, role types.Role) (*OrganizationMembership, error)
}
