// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"time"

	"github.com/canonical/team-planner/internal/types"
)

type StorageInterface interface {
	WithTx(ctx context.Context, fn func(context.Context) error) error

	CreateOrganization(ctx context.Context, o *types.Organization) (*types.Organization, error)
	GetOrganizationByID(ctx context.Context, id string) (*types.Organization, error)
	GetOrganizationByExternalID(ctx context.Context, externalID string) (*types.Organization, error)
	GetOrganizationBySlug(ctx context.Context, slug string) (*types.Organization, error)
	ListOrganizationsByExternalID(ctx context.Context, externalID string) ([]*types.Organization, error)
	ListOrganizationsCreatedBy(ctx context.Context, userID string) ([]*types.Organization, error)
	ListExternalIDs(ctx context.Context) ([]string, error)
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

	CreateTask(ctx context.Context, t *types.Task) (*types.Task, error)
	GetTask(ctx context.Context, id string) (*types.Task, error)
	ListTasksByUser(ctx context.Context, userID string, organizationID *string) ([]*types.Task, error)
	ListTasksByOrganization(ctx context.Context, organizationID string) ([]*types.Task, error)
	UpdateTask(ctx context.Context, id string, patch types.TaskPatch) (*types.Task, error)
	DeleteTask(ctx context.Context, id string) error

	CreateEvent(ctx context.Context, e *types.Event) (*types.Event, error)
	GetEvent(ctx context.Context, id string) (*types.Event, error)
	ListEventsByOrganization(ctx context.Context, organizationID string) ([]*types.Event, error)
	ListEventsByAssignee(ctx context.Context, userID string, organizationID *string) ([]*types.Event, error)
	UpdateEvent(ctx context.Context, id string, patch types.EventPatch) (*types.Event, error)
	DeleteEvent(ctx context.Context, id string) error

	ListUserColors(ctx context.Context, organizationID string) ([]*types.UserColor, error)
	UpsertUserColor(ctx context.Context, organizationID, userID, color string) (*types.UserColor, error)

	UpsertProfile(ctx context.Context, p *types.UserProfile) (*types.UserProfile, error)
	GetProfileByExternalID(ctx context.Context, externalID string) (*types.UserProfile, error)
	ListProfilesByExternalIDs(ctx context.Context, externalIDs []string) ([]*types.UserProfile, error)
}
