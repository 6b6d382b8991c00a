// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/team-planner/internal/types"
)

var organizationColumns = []string{"id", "external_id", "name", "slug", "image_url", "created_by", "created_at", "updated_at"}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrganization(row rowScanner) (*types.Organization, error) {
	var o types.Organization
	if err := row.Scan(&o.ID, &o.ExternalID, &o.Name, &o.Slug, &o.ImageURL, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}

	return &o, nil
}

func (s *Storage) CreateOrganization(ctx context.Context, o *types.Organization) (*types.Organization, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateOrganization")
	defer span.End()

	id, err := newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate organization ID: %w", err)
	}

	created, err := scanOrganization(
		s.db.Statement(ctx).
			Insert("organizations").
			Columns("id", "external_id", "name", "slug", "image_url", "created_by").
			Values(id, o.ExternalID, o.Name, o.Slug, o.ImageURL, o.CreatedBy).
			Suffix("RETURNING id, external_id, name, slug, image_url, created_by, created_at, updated_at").
			QueryRowContext(ctx),
	)
	if err != nil {
		return nil, wrapWriteError(err, "insert organization")
	}

	return created, nil
}

func (s *Storage) getOrganization(ctx context.Context, where sq.Eq) (*types.Organization, error) {
	o, err := scanOrganization(
		s.db.Statement(ctx).
			Select(organizationColumns...).
			From("organizations").
			Where(where).
			OrderBy("created_at ASC", "id ASC").
			Limit(1).
			QueryRowContext(ctx),
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return o, nil
}

func (s *Storage) GetOrganizationByID(ctx context.Context, id string) (*types.Organization, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetOrganizationByID")
	defer span.End()

	return s.getOrganization(ctx, sq.Eq{"id": id})
}

// GetOrganizationByExternalID returns the oldest organization mirroring
// externalID, duplicates left behind by a race resolve to the same row.
func (s *Storage) GetOrganizationByExternalID(ctx context.Context, externalID string) (*types.Organization, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetOrganizationByExternalID")
	defer span.End()

	return s.getOrganization(ctx, sq.Eq{"external_id": externalID})
}

func (s *Storage) GetOrganizationBySlug(ctx context.Context, slug string) (*types.Organization, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetOrganizationBySlug")
	defer span.End()

	return s.getOrganization(ctx, sq.Eq{"slug": slug})
}

func (s *Storage) listOrganizations(ctx context.Context, query sq.SelectBuilder) ([]*types.Organization, error) {
	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	organizations := make([]*types.Organization, 0)
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		organizations = append(organizations, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return organizations, nil
}

// ListOrganizationsByExternalID returns every row sharing externalID, oldest first.
func (s *Storage) ListOrganizationsByExternalID(ctx context.Context, externalID string) ([]*types.Organization, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListOrganizationsByExternalID")
	defer span.End()

	return s.listOrganizations(
		ctx,
		s.db.Statement(ctx).
			Select(organizationColumns...).
			From("organizations").
			Where(sq.Eq{"external_id": externalID}).
			OrderBy("created_at ASC", "id ASC"),
	)
}

func (s *Storage) ListOrganizationsCreatedBy(ctx context.Context, userID string) ([]*types.Organization, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListOrganizationsCreatedBy")
	defer span.End()

	return s.listOrganizations(
		ctx,
		s.db.Statement(ctx).
			Select(organizationColumns...).
			From("organizations").
			Where(sq.Eq{"created_by": userID}).
			OrderBy("created_at ASC"),
	)
}

// ListExternalIDs returns the distinct identity provider ids mirrored locally.
func (s *Storage) ListExternalIDs(ctx context.Context) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListExternalIDs")
	defer span.End()

	rows, err := s.db.Statement(ctx).
		Select("DISTINCT external_id").
		From("organizations").
		OrderBy("external_id").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list external ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan external id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return ids, nil
}

// UpdateOrganization applies the non nil fields of patch.
func (s *Storage) UpdateOrganization(ctx context.Context, id string, patch types.OrganizationPatch) (*types.Organization, error) {
	ctx, span := s.tracer.Start(ctx, "storage.UpdateOrganization")
	defer span.End()

	updateMap := make(map[string]interface{})
	if patch.Name != nil {
		updateMap["name"] = *patch.Name
	}
	if patch.Slug != nil {
		updateMap["slug"] = *patch.Slug
	}
	if patch.ImageURL != nil {
		updateMap["image_url"] = *patch.ImageURL
	}

	if len(updateMap) == 0 {
		return s.GetOrganizationByID(ctx, id)
	}

	updateMap["updated_at"] = sq.Expr("NOW()")

	o, err := scanOrganization(
		s.db.Statement(ctx).
			Update("organizations").
			SetMap(updateMap).
			Where(sq.Eq{"id": id}).
			Suffix("RETURNING id, external_id, name, slug, image_url, created_by, created_at, updated_at").
			QueryRowContext(ctx),
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, wrapWriteError(err, "update organization")
	}

	return o, nil
}

// DeleteOrganizations removes the organizations and their memberships.
// Tasks, events and colors keep their organization id.
func (s *Storage) DeleteOrganizations(ctx context.Context, ids []string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "storage.DeleteOrganizations")
	defer span.End()

	if len(ids) == 0 {
		return 0, nil
	}

	var deleted int64
	err := s.db.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.db.Statement(ctx).
			Delete("memberships").
			Where(sq.Eq{"organization_id": ids}).
			ExecContext(ctx); err != nil {
			return fmt.Errorf("failed to delete memberships: %w", err)
		}

		res, err := s.db.Statement(ctx).
			Delete("organizations").
			Where(sq.Eq{"id": ids}).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete organizations: %w", err)
		}

		deleted, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check rows affected: %w", err)
		}

		return nil
	})

	return deleted, err
}
