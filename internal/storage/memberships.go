// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/team-planner/internal/types"
)

var membershipColumns = []string{"id", "organization_id", "user_id", "role", "joined_at"}

func scanMembership(row rowScanner) (*types.Membership, error) {
	var m types.Membership
	if err := row.Scan(&m.ID, &m.OrganizationID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
		return nil, err
	}

	return &m, nil
}

// AddMember inserts a membership, ErrDuplicateKey when the user already
// belongs to the organization.
func (s *Storage) AddMember(ctx context.Context, organizationID, userID string, role types.Role, joinedAt time.Time) (*types.Membership, error) {
	ctx, span := s.tracer.Start(ctx, "storage.AddMember")
	defer span.End()

	id, err := newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate membership ID: %w", err)
	}

	m, err := scanMembership(
		s.db.Statement(ctx).
			Insert("memberships").
			Columns("id", "organization_id", "user_id", "role", "joined_at").
			Values(id, organizationID, userID, role, joinedAt).
			Suffix("RETURNING id, organization_id, user_id, role, joined_at").
			QueryRowContext(ctx),
	)
	if err != nil {
		return nil, wrapWriteError(err, "add member")
	}

	return m, nil
}

// UpsertMembership sets the role of (organizationID, userID), inserting with
// joinedAt when no row exists. An existing joined_at is kept.
func (s *Storage) UpsertMembership(ctx context.Context, organizationID, userID string, role types.Role, joinedAt time.Time) (*types.Membership, error) {
	ctx, span := s.tracer.Start(ctx, "storage.UpsertMembership")
	defer span.End()

	id, err := newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate membership ID: %w", err)
	}

	m, err := scanMembership(
		s.db.Statement(ctx).
			Insert("memberships").
			Columns("id", "organization_id", "user_id", "role", "joined_at").
			Values(id, organizationID, userID, role, joinedAt).
			Suffix("ON CONFLICT (organization_id, user_id) DO UPDATE SET role = EXCLUDED.role RETURNING id, organization_id, user_id, role, joined_at").
			QueryRowContext(ctx),
	)
	if err != nil {
		return nil, wrapWriteError(err, "upsert member")
	}

	return m, nil
}

func (s *Storage) getMembership(ctx context.Context, where sq.Eq) (*types.Membership, error) {
	m, err := scanMembership(
		s.db.Statement(ctx).
			Select(membershipColumns...).
			From("memberships").
			Where(where).
			QueryRowContext(ctx),
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return m, nil
}

func (s *Storage) GetMembership(ctx context.Context, organizationID, userID string) (*types.Membership, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetMembership")
	defer span.End()

	return s.getMembership(ctx, sq.Eq{"organization_id": organizationID, "user_id": userID})
}

func (s *Storage) GetMembershipByID(ctx context.Context, id string) (*types.Membership, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetMembershipByID")
	defer span.End()

	return s.getMembership(ctx, sq.Eq{"id": id})
}

func (s *Storage) ListMembershipsByOrganization(ctx context.Context, organizationID string) ([]*types.Membership, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListMembershipsByOrganization")
	defer span.End()

	rows, err := s.db.Statement(ctx).
		Select(membershipColumns...).
		From("memberships").
		Where(sq.Eq{"organization_id": organizationID}).
		OrderBy("joined_at ASC").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := make([]*types.Membership, 0)
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return members, nil
}

// ListMembershipsByUser returns the organizations userID holds a membership
// in, annotated with that membership's role and join date.
func (s *Storage) ListMembershipsByUser(ctx context.Context, userID string) ([]*types.UserOrganization, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListMembershipsByUser")
	defer span.End()

	rows, err := s.db.Statement(ctx).
		Select(
			"o.id", "o.external_id", "o.name", "o.slug", "o.image_url", "o.created_by", "o.created_at", "o.updated_at",
			"m.role", "m.joined_at",
		).
		From("memberships m").
		Join("organizations o ON o.id = m.organization_id").
		Where(sq.Eq{"m.user_id": userID}).
		OrderBy("m.joined_at ASC").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list user organizations: %w", err)
	}
	defer rows.Close()

	organizations := make([]*types.UserOrganization, 0)
	for rows.Next() {
		var uo types.UserOrganization
		if err := rows.Scan(
			&uo.ID, &uo.ExternalID, &uo.Name, &uo.Slug, &uo.ImageURL, &uo.CreatedBy, &uo.CreatedAt, &uo.UpdatedAt,
			&uo.Role, &uo.JoinedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user organization: %w", err)
		}
		organizations = append(organizations, &uo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return organizations, nil
}

func (s *Storage) UpdateMembershipRole(ctx context.Context, id string, role types.Role) (*types.Membership, error) {
	ctx, span := s.tracer.Start(ctx, "storage.UpdateMembershipRole")
	defer span.End()

	m, err := scanMembership(
		s.db.Statement(ctx).
			Update("memberships").
			Set("role", role).
			Where(sq.Eq{"id": id}).
			Suffix("RETURNING id, organization_id, user_id, role, joined_at").
			QueryRowContext(ctx),
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	return m, nil
}

func (s *Storage) DeleteMembership(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "storage.DeleteMembership")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Delete("memberships").
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}

	return checkAffected(res, "delete member")
}
