// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/team-planner/internal/types"
)

const eventReturning = "RETURNING id, title, description, start_time, end_time, assigned_to, created_by, organization_id, status, created_at, updated_at"

var eventColumns = []string{"id", "title", "description", "start_time", "end_time", "assigned_to", "created_by", "organization_id", "status", "created_at", "updated_at"}

func scanEvent(row rowScanner) (*types.Event, error) {
	var e types.Event
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime, &e.AssignedTo, &e.CreatedBy, &e.OrganizationID, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}

	return &e, nil
}

func (s *Storage) CreateEvent(ctx context.Context, e *types.Event) (*types.Event, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateEvent")
	defer span.End()

	id, err := newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate event ID: %w", err)
	}

	created, err := scanEvent(
		s.db.Statement(ctx).
			Insert("events").
			Columns("id", "title", "description", "start_time", "end_time", "assigned_to", "created_by", "organization_id", "status").
			Values(id, e.Title, e.Description, e.StartTime, e.EndTime, e.AssignedTo, e.CreatedBy, e.OrganizationID, e.Status).
			Suffix(eventReturning).
			QueryRowContext(ctx),
	)
	if err != nil {
		return nil, wrapWriteError(err, "insert event")
	}

	return created, nil
}

func (s *Storage) GetEvent(ctx context.Context, id string) (*types.Event, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetEvent")
	defer span.End()

	e, err := scanEvent(
		s.db.Statement(ctx).
			Select(eventColumns...).
			From("events").
			Where(sq.Eq{"id": id}).
			QueryRowContext(ctx),
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return e, nil
}

func (s *Storage) listEvents(ctx context.Context, where sq.Eq) ([]*types.Event, error) {
	rows, err := s.db.Statement(ctx).
		Select(eventColumns...).
		From("events").
		Where(where).
		OrderBy("start_time ASC", "id ASC").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]*types.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return events, nil
}

// ListEventsByOrganization returns the organization calendar by ascending start.
func (s *Storage) ListEventsByOrganization(ctx context.Context, organizationID string) ([]*types.Event, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListEventsByOrganization")
	defer span.End()

	return s.listEvents(ctx, sq.Eq{"organization_id": organizationID})
}

func (s *Storage) ListEventsByAssignee(ctx context.Context, userID string, organizationID *string) ([]*types.Event, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListEventsByAssignee")
	defer span.End()

	where := sq.Eq{"assigned_to": userID}
	if organizationID != nil {
		where["organization_id"] = *organizationID
	}

	return s.listEvents(ctx, where)
}

func (s *Storage) UpdateEvent(ctx context.Context, id string, patch types.EventPatch) (*types.Event, error) {
	ctx, span := s.tracer.Start(ctx, "storage.UpdateEvent")
	defer span.End()

	updateMap := map[string]interface{}{"updated_at": sq.Expr("NOW()")}
	if patch.Title != nil {
		updateMap["title"] = *patch.Title
	}
	if patch.Description != nil {
		updateMap["description"] = *patch.Description
	}
	if patch.StartTime != nil {
		updateMap["start_time"] = *patch.StartTime
	}
	if patch.EndTime != nil {
		updateMap["end_time"] = *patch.EndTime
	}
	if patch.AssignedTo != nil {
		updateMap["assigned_to"] = *patch.AssignedTo
	}
	if patch.Status != nil {
		updateMap["status"] = *patch.Status
	}
	if patch.ClearDescription {
		updateMap["description"] = nil
	}

	e, err := scanEvent(
		s.db.Statement(ctx).
			Update("events").
			SetMap(updateMap).
			Where(sq.Eq{"id": id}).
			Suffix(eventReturning).
			QueryRowContext(ctx),
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return e, nil
}

func (s *Storage) DeleteEvent(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "storage.DeleteEvent")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Delete("events").
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	return checkAffected(res, "delete event")
}
