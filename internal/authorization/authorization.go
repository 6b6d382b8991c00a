// Copyright 2026 Canonical Ltd
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"
	"errors"
	"fmt"

	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/storage"
	"github.com/canonical/team-planner/internal/tracing"
	"github.com/canonical/team-planner/internal/types"
	"github.com/canonical/team-planner/pkg/authentication"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

var _ AuthorizerInterface = (*Evaluator)(nil)

// Evaluator resolves roles from the local membership mirror.
type Evaluator struct {
	storage StorageInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (e *Evaluator) Actor(ctx context.Context) (string, error) {
	userID, ok := authentication.GetUserID(ctx)
	if !ok {
		return "", ErrUnauthorized
	}

	return userID, nil
}

// ResolveAccess looks for a membership row first. Without one, the creator of
// the organization is an implicit admin. Anyone else, including callers naming
// an organization that does not exist, gets ErrForbidden.
func (e *Evaluator) ResolveAccess(ctx context.Context, userID, organizationID string) (*Access, error) {
	ctx, span := e.tracer.Start(ctx, "authorization.Evaluator.ResolveAccess")
	defer span.End()

	if userID == "" {
		return nil, ErrUnauthorized
	}

	m, err := e.storage.GetMembership(ctx, organizationID, userID)
	switch {
	case err == nil:
		return &Access{
			UserID:         userID,
			OrganizationID: organizationID,
			Role:           m.Role,
			Member:         true,
		}, nil
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("failed to resolve membership: %w", err)
	}

	org, err := e.storage.GetOrganizationByID(ctx, organizationID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to resolve organization: %w", err)
	case org.CreatedBy == userID:
		return &Access{
			UserID:         userID,
			OrganizationID: organizationID,
			Role:           types.RoleAdmin,
			Creator:        true,
		}, nil
	}

	e.logger.Security().AuthzFailureNotMember(userID, organizationID)

	return nil, ErrForbidden
}

func NewEvaluator(storage StorageInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Evaluator {
	e := new(Evaluator)

	e.storage = storage

	e.tracer = tracer
	e.monitor = monitor
	e.logger = logger

	return e
}
