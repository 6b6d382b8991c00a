// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/team-planner/internal/types"
)

var profileColumns = []string{"id", "external_id", "first_name", "last_name", "email", "created_at", "updated_at"}

func scanProfile(row rowScanner) (*types.UserProfile, error) {
	var p types.UserProfile
	if err := row.Scan(&p.ID, &p.ExternalID, &p.FirstName, &p.LastName, &p.Email, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	return &p, nil
}

func (s *Storage) UpsertProfile(ctx context.Context, p *types.UserProfile) (*types.UserProfile, error) {
	ctx, span := s.tracer.Start(ctx, "storage.UpsertProfile")
	defer span.End()

	id, err := newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate profile ID: %w", err)
	}

	profile, err := scanProfile(
		s.db.Statement(ctx).
			Insert("user_profiles").
			Columns("id", "external_id", "first_name", "last_name", "email").
			Values(id, p.ExternalID, p.FirstName, p.LastName, p.Email).
			Suffix("ON CONFLICT (external_id) DO UPDATE SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name, email = EXCLUDED.email, updated_at = NOW() RETURNING id, external_id, first_name, last_name, email, created_at, updated_at").
			QueryRowContext(ctx),
	)
	if err != nil {
		return nil, wrapWriteError(err, "upsert profile")
	}

	return profile, nil
}

func (s *Storage) GetProfileByExternalID(ctx context.Context, externalID string) (*types.UserProfile, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetProfileByExternalID")
	defer span.End()

	p, err := scanProfile(
		s.db.Statement(ctx).
			Select(profileColumns...).
			From("user_profiles").
			Where(sq.Eq{"external_id": externalID}).
			QueryRowContext(ctx),
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return p, nil
}

// ListProfilesByExternalIDs skips ids with no mirrored profile.
func (s *Storage) ListProfilesByExternalIDs(ctx context.Context, externalIDs []string) ([]*types.UserProfile, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListProfilesByExternalIDs")
	defer span.End()

	profiles := make([]*types.UserProfile, 0, len(externalIDs))
	if len(externalIDs) == 0 {
		return profiles, nil
	}

	rows, err := s.db.Statement(ctx).
		Select(profileColumns...).
		From("user_profiles").
		Where(sq.Eq{"external_id": externalIDs}).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return profiles, nil
}
