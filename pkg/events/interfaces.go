// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package events

import (
	"context"

	"github.com/canonical/team-planner/internal/authorization"
	"github.com/canonical/team-planner/internal/types"
)

// StorageInterface is the subset of the internal/storage interface the events
// package needs.
type StorageInterface interface {
	CreateEvent(ctx context.Context, e *types.Event) (*types.Event, error)
	GetEvent(ctx context.Context, id string) (*types.Event, error)
	ListEventsByOrganization(ctx context.Context, organizationID string) ([]*types.Event, error)
	ListEventsByAssignee(ctx context.Context, userID string, organizationID *string) ([]*types.Event, error)
	UpdateEvent(ctx context.Context, id string, patch types.EventPatch) (*types.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

type AuthorizerInterface interface {
	Actor(ctx context.Context) (string, error)
	ResolveAccess(ctx context.Context, userID, organizationID string) (*authorization.Access, error)
}

type ServiceInterface interface {
	ListForOrganization(ctx context.Context, organizationID string) ([]*types.Event, error)
	ListForUser(ctx context.Context, userID string, organizationID *string) ([]*types.Event, error)
	Create(ctx context.Context, req *CreateEventRequest) (*types.Event, error)
	Update(ctx context.Context, id string, patch types.EventPatch) (*types.Event, error)
	Delete(ctx context.Context, id string) error
	Conflicts(ctx context.Context, organizationID string) ([]types.ConflictPair, error)
}
