// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package changefeed

import (
	"time"
)

type Kind string

const (
	KindTask         Kind = "task"
	KindEvent        Kind = "event"
	KindOrganization Kind = "organization"
	KindMembership   Kind = "membership"
	KindColor        Kind = "color"
	KindProfile      Kind = "profile"
)

type Op string

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
)

// Change describes one committed mutation.
type Change struct {
	Kind           Kind      `json:"kind"`
	Op             Op        `json:"op"`
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id,omitempty"`
	UserID         string    `json:"user_id,omitempty"`
	At             time.Time `json:"at"`
}

// Channel returns the pub/sub channel a change is delivered on: the
// organization channel when the record is organization scoped, the user
// channel otherwise.
func (c Change) Channel() string {
	if c.OrganizationID != "" {
		return OrganizationChannel(c.OrganizationID)
	}

	return UserChannel(c.UserID)
}

func OrganizationChannel(organizationID string) string {
	return "changes:org:" + organizationID
}

func UserChannel(userID string) string {
	return "changes:user:" + userID
}
