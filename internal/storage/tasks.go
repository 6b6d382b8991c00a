// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/team-planner/internal/types"
)

const taskReturning = "RETURNING id, title, description, completed, priority, due_date, user_id, organization_id, created_at, updated_at"

var taskColumns = []string{"id", "title", "description", "completed", "priority", "due_date", "user_id", "organization_id", "created_at", "updated_at"}

func scanTask(row rowScanner) (*types.Task, error) {
	var t types.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.Priority, &t.DueDate, &t.UserID, &t.OrganizationID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}

	return &t, nil
}

func (s *Storage) CreateTask(ctx context.Context, t *types.Task) (*types.Task, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateTask")
	defer span.End()

	id, err := newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate task ID: %w", err)
	}

	created, err := scanTask(
		s.db.Statement(ctx).
			Insert("tasks").
			Columns("id", "title", "description", "completed", "priority", "due_date", "user_id", "organization_id").
			Values(id, t.Title, t.Description, t.Completed, t.Priority, t.DueDate, t.UserID, t.OrganizationID).
			Suffix(taskReturning).
			QueryRowContext(ctx),
	)
	if err != nil {
		return nil, wrapWriteError(err, "insert task")
	}

	return created, nil
}

func (s *Storage) GetTask(ctx context.Context, id string) (*types.Task, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetTask")
	defer span.End()

	t, err := scanTask(
		s.db.Statement(ctx).
			Select(taskColumns...).
			From("tasks").
			Where(sq.Eq{"id": id}).
			QueryRowContext(ctx),
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return t, nil
}

func (s *Storage) listTasks(ctx context.Context, where sq.Eq) ([]*types.Task, error) {
	rows, err := s.db.Statement(ctx).
		Select(taskColumns...).
		From("tasks").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*types.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return tasks, nil
}

// ListTasksByUser returns the tasks owned by userID, restricted to one
// organization when organizationID is set. Newest first.
func (s *Storage) ListTasksByUser(ctx context.Context, userID string, organizationID *string) ([]*types.Task, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListTasksByUser")
	defer span.End()

	where := sq.Eq{"user_id": userID}
	if organizationID != nil {
		where["organization_id"] = *organizationID
	}

	return s.listTasks(ctx, where)
}

func (s *Storage) ListTasksByOrganization(ctx context.Context, organizationID string) ([]*types.Task, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListTasksByOrganization")
	defer span.End()

	return s.listTasks(ctx, sq.Eq{"organization_id": organizationID})
}

// UpdateTask applies the non nil fields of patch, the owner and organization
// are never rewritten.
func (s *Storage) UpdateTask(ctx context.Context, id string, patch types.TaskPatch) (*types.Task, error) {
	ctx, span := s.tracer.Start(ctx, "storage.UpdateTask")
	defer span.End()

	updateMap := map[string]interface{}{"updated_at": sq.Expr("NOW()")}
	if patch.Title != nil {
		updateMap["title"] = *patch.Title
	}
	if patch.Description != nil {
		updateMap["description"] = *patch.Description
	}
	if patch.Completed != nil {
		updateMap["completed"] = *patch.Completed
	}
	if patch.Priority != nil {
		updateMap["priority"] = *patch.Priority
	}
	if patch.DueDate != nil {
		updateMap["due_date"] = *patch.DueDate
	}
	if patch.ClearDescription {
		updateMap["description"] = nil
	}
	if patch.ClearDueDate {
		updateMap["due_date"] = nil
	}

	t, err := scanTask(
		s.db.Statement(ctx).
			Update("tasks").
			SetMap(updateMap).
			Where(sq.Eq{"id": id}).
			Suffix(taskReturning).
			QueryRowContext(ctx),
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return t, nil
}

func (s *Storage) DeleteTask(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "storage.DeleteTask")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Delete("tasks").
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return checkAffected(res, "delete task")
}
