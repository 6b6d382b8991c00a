// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package organizations

import (
	"time"

	"github.com/canonical/team-planner/internal/types"
)

type CreateOrganizationRequest struct {
	ExternalID string  `json:"external_id" validate:"required"`
	Name       string  `json:"name" validate:"required,max=200"`
	Slug       string  `json:"slug" validate:"required,max=200"`
	ImageURL   *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type AddMemberRequest struct {
	UserID string     `json:"user_id" validate:"required"`
	Role   types.Role `json:"role" validate:"required,oneof=admin member"`
}

type UpdateRoleRequest struct {
	Role types.Role `json:"role" validate:"required,oneof=admin member"`
}

type UpsertMembershipRequest struct {
	Role     types.Role `json:"role" validate:"required,oneof=admin member"`
	JoinedAt *time.Time `json:"joined_at,omitempty"`
}

type CleanupResult struct {
	Deleted int64  `json:"deleted"`
	KeptID  string `json:"kept_id"`
}
