// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/team-planner/internal/types"
)

func (s *Storage) ListUserColors(ctx context.Context, organizationID string) ([]*types.UserColor, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListUserColors")
	defer span.End()

	rows, err := s.db.Statement(ctx).
		Select("id", "organization_id", "user_id", "color", "created_at", "updated_at").
		From("user_colors").
		Where(sq.Eq{"organization_id": organizationID}).
		OrderBy("created_at ASC").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list user colors: %w", err)
	}
	defer rows.Close()

	colors := make([]*types.UserColor, 0)
	for rows.Next() {
		var c types.UserColor
		if err := rows.Scan(&c.ID, &c.OrganizationID, &c.UserID, &c.Color, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user color: %w", err)
		}
		colors = append(colors, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return colors, nil
}

// UpsertUserColor keeps a single row per (organizationID, userID).
func (s *Storage) UpsertUserColor(ctx context.Context, organizationID, userID, color string) (*types.UserColor, error) {
	ctx, span := s.tracer.Start(ctx, "storage.UpsertUserColor")
	defer span.End()

	id, err := newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate color ID: %w", err)
	}

	var c types.UserColor
	err = s.db.Statement(ctx).
		Insert("user_colors").
		Columns("id", "organization_id", "user_id", "color").
		Values(id, organizationID, userID, color).
		Suffix("ON CONFLICT (organization_id, user_id) DO UPDATE SET color = EXCLUDED.color, updated_at = NOW() RETURNING id, organization_id, user_id, color, created_at, updated_at").
		QueryRowContext(ctx).
		Scan(&c.ID, &c.OrganizationID, &c.UserID, &c.Color, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, wrapWriteError(err, "upsert user color")
	}

	return &c, nil
}
