// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"github.com/canonical/team-planner/internal/types"
)

// Access is the standing of one user inside one organization. A nil *Access
// means the user has none.
type Access struct {
	UserID         string
	OrganizationID string
	Role           types.Role

	// Member is set when a membership row exists.
	Member bool
	// Creator is set when the role comes from having created the organization.
	Creator bool
}

func (a *Access) IsAdmin() bool {
	return a != nil && a.Role == types.RoleAdmin
}

// CanReadOrganization covers every organization scoped list: tasks, events,
// members and colors.
func CanReadOrganization(a *Access) bool {
	return a != nil && (a.Member || a.Creator)
}

// CanCreateTask has no assignee restriction, unlike CanCreateEvent.
func CanCreateTask(a *Access) bool {
	return CanReadOrganization(a)
}

// CanMutateTask decides update and delete. Personal tasks belong to their
// owner alone, a is ignored for them.
func CanMutateTask(actor string, t *types.Task, a *Access) bool {
	if t.Personal() {
		return actor == t.UserID
	}

	if !CanReadOrganization(a) {
		return false
	}

	return a.IsAdmin() || actor == t.UserID
}

func CanCreateEvent(actor, assignedTo string, a *Access) bool {
	return CanReadOrganization(a) && CanAssignEvent(actor, assignedTo, a)
}

func CanMutateEvent(actor string, e *types.Event, a *Access) bool {
	if !CanReadOrganization(a) {
		return false
	}

	return a.IsAdmin() || actor == e.AssignedTo || actor == e.CreatedBy
}

// CanAssignEvent holds for admins and for members assigning to themselves.
func CanAssignEvent(actor, assignedTo string, a *Access) bool {
	return a.IsAdmin() || actor == assignedTo
}

// CanListForUser guards cross organization listings, there is no admin override.
func CanListForUser(actor, userID string) bool {
	return actor != "" && actor == userID
}

func CanManageMembers(a *Access) bool {
	return CanReadOrganization(a) && a.IsAdmin()
}
