// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package profiles

type UpsertProfileRequest struct {
	ExternalID string `json:"external_id" validate:"required"`
	FirstName  string `json:"first_name" validate:"max=200"`
	LastName   string `json:"last_name" validate:"max=200"`
	Email      string `json:"email" validate:"omitempty,email"`
}
