// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package rolesync

import (
	"github.com/canonical/team-planner/internal/types"
)

// ChangeRoleRequest accepts local or provider role names.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type ChangeRoleResult struct {
	OrganizationExternalID string     `json:"organization_external_id"`
	UserID                 string     `json:"user_id"`
	Role                   types.Role `json:"role"`
	// LocalSynced is false when the provider accepted the change but the
	// local mirror could not be updated yet.
	LocalSynced bool `json:"local_synced"`
}

type ReconcileResult struct {
	OrganizationExternalID string `json:"organization_external_id"`
	OrganizationID         string `json:"organization_id"`
	Upserted               int    `json:"upserted"`
	Removed                int    `json:"removed"`
	Skipped                int    `json:"skipped"`
}
