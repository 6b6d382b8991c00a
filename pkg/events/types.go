// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package events

import (
	"github.com/canonical/team-planner/internal/types"
)

// CreateEventRequest carries epoch millisecond times, stored as given. An
// empty AssignedTo assigns the event to the caller.
type CreateEventRequest struct {
	Title          string            `json:"title" validate:"required,max=500"`
	Description    *string           `json:"description,omitempty"`
	StartTime      int64             `json:"start_time"`
	EndTime        int64             `json:"end_time"`
	AssignedTo     string            `json:"assigned_to,omitempty"`
	OrganizationID string            `json:"organization_id" validate:"required"`
	Status         types.EventStatus `json:"status,omitempty" validate:"omitempty,oneof=scheduled in_progress completed cancelled"`
}
