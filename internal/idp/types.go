// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package idp

import (
	"time"
)

type OrganizationData struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	ImageURL  *string `json:"image_url,omitempty"`
	CreatedBy string  `json:"created_by,omitempty"`
	CreatedAt int64   `json:"created_at,omitempty"`
	UpdatedAt int64   `json:"updated_at,omitempty"`
}

type PublicUserData struct {
	UserID     string `json:"user_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Identifier string `json:"identifier"`
}

// OrganizationMembership is the provider's view of one membership. Role is
// kept raw, callers go through NormalizeRole.
type OrganizationMembership struct {
	ID             string           `json:"id"`
	Role           string           `json:"role"`
	Organization   OrganizationData `json:"organization"`
	PublicUserData PublicUserData   `json:"public_user_data"`
	CreatedAt      int64            `json:"created_at"`
	UpdatedAt      int64            `json:"updated_at"`
}

// Joined converts the epoch millisecond creation time.
func (m *OrganizationMembership) Joined() time.Time {
	if m.CreatedAt == 0 {
		return time.Time{}
	}

	return time.UnixMilli(m.CreatedAt).UTC()
}

type membershipList struct {
	Data       []OrganizationMembership `json:"data"`
	TotalCount int                      `json:"total_count"`
}

type updateMembershipRequest struct {
	Role string `json:"role"`
}

type Config struct {
	BaseURL      string
	SecretKey    string
	ClientID     string
	ClientSecret string
	TokenURL     string
	Timeout      time.Duration
}
