// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type EventStatus string

const (
	EventScheduled  EventStatus = "scheduled"
	EventInProgress EventStatus = "in_progress"
	EventCompleted  EventStatus = "completed"
	EventCancelled  EventStatus = "cancelled"
)

type Organization struct {
	ID         string    `db:"id" json:"id"`
	ExternalID string    `db:"external_id" json:"external_id"`
	Name       string    `db:"name" json:"name"`
	Slug       string    `db:"slug" json:"slug"`
	ImageURL   *string   `db:"image_url" json:"image_url,omitempty"`
	CreatedBy  string    `db:"created_by" json:"created_by"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

type Membership struct {
	ID             string    `db:"id" json:"id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	UserID         string    `db:"user_id" json:"user_id"`
	Role           Role      `db:"role" json:"role"`
	JoinedAt       time.Time `db:"joined_at" json:"joined_at"`
}

type Task struct {
	ID             string     `db:"id" json:"id"`
	Title          string     `db:"title" json:"title"`
	Description    *string    `db:"description" json:"description,omitempty"`
	Completed      bool       `db:"completed" json:"completed"`
	Priority       Priority   `db:"priority" json:"priority"`
	DueDate        *time.Time `db:"due_date" json:"due_date,omitempty"`
	UserID         string     `db:"user_id" json:"user_id"`
	OrganizationID *string    `db:"organization_id" json:"organization_id,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Personal reports whether the task lives outside every organization.
func (t *Task) Personal() bool {
	return t.OrganizationID == nil || *t.OrganizationID == ""
}

// TaskPatch carries the fields an update may change, nil means untouched.
// The Clear flags null an optional field and cannot be combined with a value
// for it.
type TaskPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	Priority    *Priority  `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date,omitempty"`

	ClearDescription bool `json:"clear_description,omitempty" validate:"excluded_with=Description"`
	ClearDueDate     bool `json:"clear_due_date,omitempty" validate:"excluded_with=DueDate"`
}

// Conflicting reports a patch that both sets and clears the same field.
func (p *TaskPatch) Conflicting() bool {
	return (p.ClearDescription && p.Description != nil) || (p.ClearDueDate && p.DueDate != nil)
}

type Event struct {
	ID             string      `db:"id" json:"id"`
	Title          string      `db:"title" json:"title"`
	Description    *string     `db:"description" json:"description,omitempty"`
	StartTime      int64       `db:"start_time" json:"start_time"`
	EndTime        int64       `db:"end_time" json:"end_time"`
	AssignedTo     string      `db:"assigned_to" json:"assigned_to"`
	CreatedBy      string      `db:"created_by" json:"created_by"`
	OrganizationID string      `db:"organization_id" json:"organization_id"`
	Status         EventStatus `db:"status" json:"status"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}

type EventPatch struct {
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	StartTime   *int64       `json:"start_time,omitempty"`
	EndTime     *int64       `json:"end_time,omitempty"`
	AssignedTo  *string      `json:"assigned_to,omitempty"`
	Status      *EventStatus `json:"status,omitempty" validate:"omitempty,oneof=scheduled in_progress completed cancelled"`

	ClearDescription bool `json:"clear_description,omitempty" validate:"excluded_with=Description"`
}

func (p *EventPatch) Conflicting() bool {
	return p.ClearDescription && p.Description != nil
}

type ConflictPair struct {
	First  *Event `json:"first"`
	Second *Event `json:"second"`
}

type UserColor struct {
	ID             string    `db:"id" json:"id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	UserID         string    `db:"user_id" json:"user_id"`
	Color          string    `db:"color" json:"color"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type UserProfile struct {
	ID         string    `db:"id" json:"id"`
	ExternalID string    `db:"external_id" json:"external_id"`
	FirstName  string    `db:"first_name" json:"first_name"`
	LastName   string    `db:"last_name" json:"last_name"`
	Email      string    `db:"email" json:"email"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// UserOrganization is an organization as seen by one user.
type UserOrganization struct {
	Organization
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type ProfileSource string

const (
	ProfileSourceMirror      ProfileSource = "profile"
	ProfileSourceSession     ProfileSource = "session"
	ProfileSourcePlaceholder ProfileSource = "placeholder"
)

// Member is a membership enriched with display identity.
type Member struct {
	MembershipID  string        `json:"membership_id"`
	UserID        string        `json:"user_id"`
	Role          Role          `json:"role"`
	JoinedAt      time.Time     `json:"joined_at"`
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	Email         string        `json:"email,omitempty"`
	ProfileSource ProfileSource `json:"profile_source"`
}

// OrganizationPatch lists the organization fields that follow the identity
// provider, nil means untouched.
type OrganizationPatch struct {
	Name     *string `json:"name,omitempty"`
	Slug     *string `json:"slug,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
}
