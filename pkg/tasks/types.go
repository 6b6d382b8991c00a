// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tasks

import (
	"time"

	"github.com/canonical/team-planner/internal/types"
)

// CreateTaskRequest leaves UserID empty to create the task for the caller.
type CreateTaskRequest struct {
	Title          string         `json:"title" validate:"required,max=500"`
	Description    *string        `json:"description,omitempty"`
	Priority       types.Priority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	DueDate        *time.Time     `json:"due_date,omitempty"`
	UserID         string         `json:"user_id,omitempty"`
	OrganizationID *string        `json:"organization_id,omitempty"`
}
