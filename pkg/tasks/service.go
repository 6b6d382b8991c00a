// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tasks

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

// ListPersonal lists the tasks owned by userID. Inside an organization any
// member may look, across organizations only the owner may.
func (s *Service) ListPersonal(ctx context.Context, userID string, organizationID *string) ([]*types.Task, error) {
	ctx, span := s.tracer.Start(ctx, "tasks.Service.ListPersonal")
	defer span.End()

	actor, err := s.authz.Actor(ctx)
	if err != nil {
		return nil, err
	}

	if userID == "" {
		userID = actor
	}

	if organizationID != nil && *organizationID != "" {
		if err := s.checkRead(ctx, actor, *organizationID); err != nil {
			return nil, err
		}
	} else {
		organizationID = nil

		if !authorization.CanListForUser(actor, userID) {
			s.logger.Security().AuthzFailure(actor, "tasks:user:"+userID)
			return nil, fmt.Errorf("list tasks of %s: %w", userID, authorization.ErrForbidden)
		}
	}

	tasks, err := s.storage.ListTasksByUser(ctx, userID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

func (s *Service) ListForOrganization(ctx context.Context, organizationID string) ([]*types.Task, error) {
	ctx, span := s.tracer.Start(ctx, "tasks.Service.ListForOrganization")
	defer span.End()

	actor, err := s.authz.Actor(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.checkRead(ctx, actor, organizationID); err != nil {
		return nil, err
	}

	tasks, err := s.storage.ListTasksByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organization tasks: %w", err)
	}

	return tasks, nil
}

// Create stores a new task. Personal tasks are always created for the caller,
// inside an organization any member may create a task for anyone.
func (s *Service) Create(ctx context.Context, req *CreateTaskRequest) (*types.Task, error) {
	ctx, span := s.tracer.Start(ctx, "tasks.Service.Create")
	defer span.End()

	actor, err := s.authz.Actor(ctx)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", types.ErrInvalidInput)
	}

	owner := req.UserID
	if owner == "" {
		owner = actor
	}

	organizationID := req.OrganizationID
	if organizationID != nil && *organizationID == "" {
		organizationID = nil
	}

	if organizationID == nil {
		if owner != actor {
			s.logger.Security().AuthzFailure(actor, "tasks:user:"+owner)
			return nil, fmt.Errorf("create personal task for %s: %w", owner, authorization.ErrForbidden)
		}
	} else {
		access, err := s.authz.ResolveAccess(ctx, actor, *organizationID)
		if err != nil {
			return nil, err
		}

		if !authorization.CanCreateTask(access) {
			return nil, fmt.Errorf("create task: %w", authorization.ErrForbidden)
		}
	}

	priority := req.Priority
	if priority == "" {
		priority = types.PriorityMedium
	}

	task, err := s.storage.CreateTask(
		ctx,
		&types.Task{
			Title:          req.Title,
			Description:    req.Description,
			Priority:       priority,
			DueDate:        req.DueDate,
			UserID:         owner,
			OrganizationID: organizationID,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.publish(ctx, changefeed.OpCreated, task)

	return task, nil
}

func (s *Service) Update(ctx context.Context, id string, patch types.TaskPatch) (*types.Task, error) {
	ctx, span := s.tracer.Start(ctx, "tasks.Service.Update")
	defer span.End()

	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", types.ErrInvalidInput)
	}

	if patch.Conflicting() {
		return nil, fmt.Errorf("%w: a field cannot be set and cleared at once", types.ErrInvalidInput)
	}

	if _, err := s.authorizeMutation(ctx, id); err != nil {
		return nil, err
	}

	task, err := s.storage.UpdateTask(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.publish(ctx, changefeed.OpUpdated, task)

	return task, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "tasks.Service.Delete")
	defer span.End()

	task, err := s.authorizeMutation(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.publish(ctx, changefeed.OpDeleted, task)

	return nil
}

// authorizeMutation loads the task before checking anything, a missing task is
// reported as not found.
func (s *Service) authorizeMutation(ctx context.Context, id string) (*types.Task, error) {
	actor, err := s.authz.Actor(ctx)
	if err != nil {
		return nil, err
	}

	task, err := s.storage.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get task %s: %w", id, err)
	}

	var access *authorization.Access
	if !task.Personal() {
		access, err = s.authz.ResolveAccess(ctx, actor, *task.OrganizationID)
		if err != nil {
			return nil, err
		}
	}

	if !authorization.CanMutateTask(actor, task, access) {
		s.logger.Security().AuthzFailure(actor, "task:"+id)
		return nil, fmt.Errorf("modify task %s: %w", id, authorization.ErrForbidden)
	}

	return task, nil
}

func (s *Service) checkRead(ctx context.Context, actor, organizationID string) error {
	access, err := s.authz.ResolveAccess(ctx, actor, organizationID)
	if err != nil {
		return err
	}

	if !authorization.CanReadOrganization(access) {
		return fmt.Errorf("read organization %s: %w", organizationID, authorization.ErrForbidden)
	}

	return nil
}

func (s *Service) publish(ctx context.Context, op changefeed.Op, t *types.Task) {
	c := changefeed.Change{
		Kind:   changefeed.KindTask,
		Op:     op,
		ID:     t.ID,
		UserID: t.UserID,
	}

	if !t.Personal() {
		c.OrganizationID = *t.OrganizationID
	}

	changefeed.PublishAfterCommit(ctx, s.feed, c)
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
