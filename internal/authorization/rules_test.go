// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"testing"

	"github.com/canonical/team-planner/internal/types"
)

var (
	admin   = &Access{UserID: "admin", OrganizationID: "o-1", Role: types.RoleAdmin, Member: true}
	creator = &Access{UserID: "creator", OrganizationID: "o-1", Role: types.RoleAdmin, Creator: true}
	member  = &Access{UserID: "member", OrganizationID: "o-1", Role: types.RoleMember, Member: true}
)

func strPtr(s string) *string {
	return &s
}

func TestCanMutateTask(t *testing.T) {
	personal := &types.Task{ID: "t-1", UserID: "member"}
	orgTask := &types.Task{ID: "t-2", UserID: "member", OrganizationID: strPtr("o-1")}
	othersTask := &types.Task{ID: "t-3", UserID: "someone", OrganizationID: strPtr("o-1")}

	tests := []struct {
		name     string
		actor    string
		task     *types.Task
		access   *Access
		expected bool
	}{
		{"personal task owner", "member", personal, nil, true},
		{"personal task, admin elsewhere has no say", "admin", personal, admin, false},
		{"organization task owner", "member", orgTask, member, true},
		{"organization task admin", "admin", othersTask, admin, true},
		{"organization task creator fallback", "creator", othersTask, creator, true},
		{"organization task other member", "member", othersTask, member, false},
		{"owner who left the organization", "member", orgTask, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanMutateTask(tt.actor, tt.task, tt.access); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestCanMutateEvent(t *testing.T) {
	event := &types.Event{ID: "e-1", OrganizationID: "o-1", AssignedTo: "assignee", CreatedBy: "author"}

	tests := []struct {
		name     string
		actor    string
		access   *Access
		expected bool
	}{
		{"admin", "admin", admin, true},
		{"assignee", "assignee", &Access{Role: types.RoleMember, Member: true}, true},
		{"creator of the event", "author", &Access{Role: types.RoleMember, Member: true}, true},
		{"unrelated member", "member", member, false},
		{"assignee without access", "assignee", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanMutateEvent(tt.actor, event, tt.access); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestCanCreateEvent(t *testing.T) {
	tests := []struct {
		name       string
		actor      string
		assignedTo string
		access     *Access
		expected   bool
	}{
		{"member for self", "member", "member", member, true},
		{"member for someone else", "member", "other", member, false},
		{"admin for someone else", "admin", "other", admin, true},
		{"creator fallback for someone else", "creator", "other", creator, true},
		{"no access", "member", "member", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanCreateEvent(tt.actor, tt.assignedTo, tt.access); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestOrganizationRules(t *testing.T) {
	if !CanReadOrganization(member) || !CanReadOrganization(creator) {
		t.Error("members and creators read organization data")
	}

	if CanReadOrganization(nil) || CanCreateTask(nil) {
		t.Error("no access means no read and no create")
	}

	if !CanCreateTask(member) {
		t.Error("any member creates tasks")
	}

	if CanManageMembers(member) || !CanManageMembers(admin) || !CanManageMembers(creator) {
		t.Error("only admins manage members")
	}

	if !CanListForUser("member", "member") || CanListForUser("admin", "member") || CanListForUser("", "") {
		t.Error("cross organization listings are self only")
	}
}
