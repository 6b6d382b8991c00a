// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package organizations

import (
	"context"
	"time"

	"github.com/canonical/team-planner/internal/authorization"
	"github.com/canonical/team-planner/internal/types"
)

// StorageInterface is the subset of the internal/storage interface the
// organizations package needs.
type StorageInterface interface {
	WithTx(ctx context.Context, fn func(context.Context) error) error

	CreateOrganization(ctx context.Context, o *types.Organization) (*types.Organization, error)
	GetOrganizationByID(ctx context.Context, id string) (*types.Organization, error)
	GetOrganizationByExternalID(ctx context.Context, externalID string) (*types.Organization, error)
	GetOrganizationBySlug(ctx context.Context, slug string) (*types.Organization, error)
	ListOrganizationsByExternalID(ctx context.Context, externalID string) ([]*types.Organization, error)
	ListOrganizationsCreatedBy(ctx context.Context, userID string) ([]*types.Organization, error)
	UpdateOrganization(ctx context.Context, id string, patch types.OrganizationPatch) (*types.Organization, error)
	DeleteOrganizations(ctx context.Context, ids []string) (int64, error)

	AddMember(ctx context.Context, organizationID, userID string, role types.Role, joinedAt time.Time) (*types.Membership, error)
	UpsertMembership(ctx context.Context, organizationID, userID string, role types.Role, joinedAt time.Time) (*types.Membership, error)
	GetMembership(ctx context.Context, organizationID, userID string) (*types.Membership, error)
	GetMembershipByID(ctx context.Context, id string) (*types.Membership, error)
	ListMembershipsByOrganization(ctx context.Context, organizationID string) ([]*types.Membership, error)
	ListMembershipsByUser(ctx context.Context, userID string) ([]*types.UserOrganization, error)
	UpdateMembershipRole(ctx context.Context, id string, role types.Role) (*types.Membership, error)
	DeleteMembership(ctx context.Context, id string) error

	ListProfilesByExternalIDs(ctx context.Context, externalIDs []string) ([]*types.UserProfile, error)
}

type AuthorizerInterface interface {
	Actor(ctx context.Context) (string, error)
	ResolveAccess(ctx context.Context, userID, organizationID string) (*authorization.Access, error)
}

type ServiceInterface interface {
	CreateOrGet(ctx context.Context, req *CreateOrganizationRequest) (*types.Organization, error)
	GetByExternalID(ctx context.Context, externalID string) (*types.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*types.Organization, error)
	ListForUser(ctx context.Context, userID string) ([]*types.UserOrganization, error)
	ListMembers(ctx context.Context, organizationID string) ([]*types.Member, error)
	AddMember(ctx context.Context, organizationID, userID string, role types.Role) (*types.Membership, error)
	UpdateMemberRole(ctx context.Context, membershipID string, role types.Role) (*types.Membership, error)
	RemoveMember(ctx context.Context, membershipID string) error
	UpsertMembershipRole(ctx context.Context, organizationID, userID string, role types.Role, joinedAt *time.Time) (*types.Membership, error)
	UpdateFields(ctx context.Context, organizationID string, patch types.OrganizationPatch) (*types.Organization, error)
	CleanupDuplicates(ctx context.Context, externalID string) (int64, string, error)
}
