// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tasks

import (
	"context"

	"github.com/canonical/team-planner/internal/authorization"
	"github.com/canonical/team-planner/internal/types"
)

// StorageInterface is the subset of the internal/storage interface the tasks
// package needs.
type StorageInterface interface {
	CreateTask(ctx context.Context, t *types.Task) (*types.Task, error)
	GetTask(ctx context.Context, id string) (*types.Task, error)
	ListTasksByUser(ctx context.Context, userID string, organizationID *string) ([]*types.Task, error)
	ListTasksByOrganization(ctx context.Context, organizationID string) ([]*types.Task, error)
	UpdateTask(ctx context.Context, id string, patch types.TaskPatch) (*types.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type AuthorizerInterface interface {
	Actor(ctx context.Context) (string, error)
	ResolveAccess(ctx context.Context, userID, organizationID string) (*authorization.Access, error)
}

type ServiceInterface interface {
	ListPersonal(ctx context.Context, userID string, organizationID *string) ([]*types.Task, error)
	ListForOrganization(ctx context.Context, organizationID string) ([]*types.Task, error)
	Create(ctx context.Context, req *CreateTaskRequest) (*types.Task, error)
	Update(ctx context.Context, id string, patch types.TaskPatch) (*types.Task, error)
	Delete(ctx context.Context, id string) error
}
