// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/canonical/team-planner/internal/authorization"
	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
	"github.com/canonical/team-planner/internal/types"
	"github.com/canonical/team-planner/pkg/changefeed"
)

type Service struct {
	storage StorageInterface
	authz   AuthorizerInterface
	feed    changefeed.PublisherInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (s *Service) ListForOrganization(ctx context.Context, organizationID string) ([]*types.Event, error) {
	ctx, span := s.tracer.Start(ctx, "events.Service.ListForOrganization")
	defer span.End()

	if _, _, err := s.readAccess(ctx, organizationID); err != nil {
		return nil, err
	}

	events, err := s.storage.ListEventsByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organization events: %w", err)
	}

	return events, nil
}

// ListForUser lists the events assigned to userID, inside one organization
// when organizationID is set and across all of them otherwise. The latter is
// restricted to the user themselves.
func (s *Service) ListForUser(ctx context.Context, userID string, organizationID *string) ([]*types.Event, error) {
	ctx, span := s.tracer.Start(ctx, "events.Service.ListForUser")
	defer span.End()

	actor, err := s.authz.Actor(ctx)
	if err != nil {
		return nil, err
	}

	if userID == "" {
		userID = actor
	}

	if organizationID != nil && *organizationID != "" {
		if _, _, err := s.readAccess(ctx, *organizationID); err != nil {
			return nil, err
		}
	} else {
		organizationID = nil

		if !authorization.CanListForUser(actor, userID) {
			s.logger.Security().AuthzFailure(actor, "events:user:"+userID)
			return nil, fmt.Errorf("list events of %s: %w", userID, authorization.ErrForbidden)
		}
	}

	events, err := s.storage.ListEventsByAssignee(ctx, userID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return events, nil
}

// Create lets admins assign the event to anyone, members only to themselves.
// Start and end times are stored as given.
func (s *Service) Create(ctx context.Context, req *CreateEventRequest) (*types.Event, error) {
	ctx, span := s.tracer.Start(ctx, "events.Service.Create")
	defer span.End()

	actor, err := s.authz.Actor(ctx)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", types.ErrInvalidInput)
	}

	assignedTo := req.AssignedTo
	if assignedTo == "" {
		assignedTo = actor
	}

	access, err := s.authz.ResolveAccess(ctx, actor, req.OrganizationID)
	if err != nil {
		return nil, err
	}

	if !authorization.CanCreateEvent(actor, assignedTo, access) {
		s.logger.Security().AuthzFailure(actor, "events:assign:"+assignedTo)
		return nil, fmt.Errorf("create event assigned to %s: %w", assignedTo, authorization.ErrForbidden)
	}

	status := req.Status
	if status == "" {
		status = types.EventScheduled
	}

	event, err := s.storage.CreateEvent(
		ctx,
		&types.Event{
			Title:          req.Title,
			Description:    req.Description,
			StartTime:      req.StartTime,
			EndTime:        req.EndTime,
			AssignedTo:     assignedTo,
			CreatedBy:      actor,
			OrganizationID: req.OrganizationID,
			Status:         status,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.publish(ctx, changefeed.OpCreated, event)

	return event, nil
}

// Update requires admin, assignee or author standing. A member naming any
// assignee other than themselves is rejected even when otherwise allowed.
func (s *Service) Update(ctx context.Context, id string, patch types.EventPatch) (*types.Event, error) {
	ctx, span := s.tracer.Start(ctx, "events.Service.Update")
	defer span.End()

	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", types.ErrInvalidInput)
	}

	if patch.Conflicting() {
		return nil, fmt.Errorf("%w: a field cannot be set and cleared at once", types.ErrInvalidInput)
	}

	actor, _, access, err := s.authorizeMutation(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.AssignedTo != nil && !authorization.CanAssignEvent(actor, *patch.AssignedTo, access) {
		s.logger.Security().AuthzFailure(actor, "events:assign:"+*patch.AssignedTo)
		return nil, fmt.Errorf("reassign event %s to %s: %w", id, *patch.AssignedTo, authorization.ErrForbidden)
	}

	event, err := s.storage.UpdateEvent(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.publish(ctx, changefeed.OpUpdated, event)

	return event, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "events.Service.Delete")
	defer span.End()

	_, event, _, err := s.authorizeMutation(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.publish(ctx, changefeed.OpDeleted, event)

	return nil
}

// Conflicts is informational, it never blocks a write.
func (s *Service) Conflicts(ctx context.Context, organizationID string) ([]types.ConflictPair, error) {
	ctx, span := s.tracer.Start(ctx, "events.Service.Conflicts")
	defer span.End()

	events, err := s.ListForOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	return DetectConflicts(events), nil
}

func (s *Service) authorizeMutation(ctx context.Context, id string) (string, *types.Event, *authorization.Access, error) {
	actor, err := s.authz.Actor(ctx)
	if err != nil {
		return "", nil, nil, err
	}

	event, err := s.storage.GetEvent(ctx, id)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to get event %s: %w", id, err)
	}

	access, err := s.authz.ResolveAccess(ctx, actor, event.OrganizationID)
	if err != nil {
		return "", nil, nil, err
	}

	if !authorization.CanMutateEvent(actor, event, access) {
		s.logger.Security().AuthzFailure(actor, "event:"+id)
		return "", nil, nil, fmt.Errorf("modify event %s: %w", id, authorization.ErrForbidden)
	}

	return actor, event, access, nil
}

func (s *Service) readAccess(ctx context.Context, organizationID string) (string, *authorization.Access, error) {
	actor, err := s.authz.Actor(ctx)
	if err != nil {
		return "", nil, err
	}

	access, err := s.authz.ResolveAccess(ctx, actor, organizationID)
	if err != nil {
		return "", nil, err
	}

	if !authorization.CanReadOrganization(access) {
		return "", nil, fmt.Errorf("read organization %s: %w", organizationID, authorization.ErrForbidden)
	}

	return actor, access, nil
}

func (s *Service) publish(ctx context.Context, op changefeed.Op, e *types.Event) {
	changefeed.PublishAfterCommit(
		ctx,
		s.feed,
		changefeed.Change{
			Kind:           changefeed.KindEvent,
			Op:             op,
			ID:             e.ID,
			OrganizationID: e.OrganizationID,
			UserID:         e.AssignedTo,
		},
	)
}

func NewService(storage StorageInterface, authz AuthorizerInterface, feed changefeed.PublisherInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Service {
	s := new(Service)

	s.storage = storage
	s.authz = authz
	s.feed = feed

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
