// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package rolesync

import (
	"context"
	"time"

	"github.com/canonical/team-planner/internal/idp"
	"github.com/canonical/team-planner/internal/types"
)

// StorageInterface is the subset of the internal/storage interface the bridge
// writes through. The bridge acts as the system, no caller access is checked
// on these writes.
type StorageInterface interface {
	WithTx(ctx context.Context, fn func(context.Context) error) error

	CreateOrganization(ctx context.Context, o *types.Organization) (*types.Organization, error)
	GetOrganizationByExternalID(ctx context.Context, externalID string) (*types.Organization, error)
	UpdateOrganization(ctx context.Context, id string, patch types.OrganizationPatch) (*types.Organization, error)
	ListExternalIDs(ctx context.Context) ([]string, error)

	UpsertMembership(ctx context.Context, organizationID, userID string, role types.Role, joinedAt time.Time) (*types.Membership, error)
	GetMembership(ctx context.Context, organizationID, userID string) (*types.Membership, error)
	ListMembershipsByOrganization(ctx context.Context, organizationID string) ([]*types.Membership, error)
	DeleteMembership(ctx context.Context, id string) error
}

type ProfileSyncerInterface interface {
	Sync(ctx context.Context, p *types.UserProfile) (*types.UserProfile, error)
}

type AuthorizerInterface interface {
	Actor(ctx context.Context) (string, error)
}

// ServiceInterface is what the webhook receiver, the HTTP API and the CLI
// drive.
type ServiceInterface interface {
	ApplyMembership(ctx context.Context, m *idp.OrganizationMembership) error
	RemoveMembership(ctx context.Context, organizationExternalID, userID string) error
	CreateOrganization(ctx context.Context, o *idp.OrganizationData) error
	UpdateOrganization(ctx context.Context, o *idp.OrganizationData) error
	SyncProfile(ctx context.Context, p *types.UserProfile) error

	ChangeRole(ctx context.Context, organizationExternalID, userID string, role types.Role) (*ChangeRoleResult, error)
	SyncForCaller(ctx context.Context, organizationExternalID string) (*ReconcileResult, error)
	Reconcile(ctx context.Context, organizationExternalID string) (*ReconcileResult, error)
	ReconcileAll(ctx context.Context) error
}
