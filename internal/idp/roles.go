// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package idp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/canonical/team-planner/internal/types"
)

var ErrUnknownRole = errors.New("unknown role")

// NormalizeRole maps the identity provider role strings onto local roles.
// Owners are admins. Prefixed forms never leave this package.
func NormalizeRole(role string) (types.Role, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(role)), "org:") {
	case "owner", "admin":
		return types.RoleAdmin, nil
	case "member", "basic_member":
		return types.RoleMember, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
}

// ProviderRole is the inverse of NormalizeRole.
func ProviderRole(role types.Role) string {
	if role == types.RoleAdmin {
		return "org:admin"
	}

	return "org:member"
}

// IsAdmin reports whether a provider role string grants admin rights.
func IsAdmin(role string) bool {
	r, err := NormalizeRole(role)
	return err == nil && r == types.RoleAdmin
}
