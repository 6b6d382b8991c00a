// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"
	"net/http"

	"github.com/canonical/team-planner/internal/idp"
	"github.com/canonical/team-planner/internal/types"
)

// BridgeInterface is the part of the role synchronization bridge driven by
// identity provider events.
type BridgeInterface interface {
	ApplyMembership(ctx context.Context, m *idp.OrganizationMembership) error
	RemoveMembership(ctx context.Context, organizationExternalID, userID string) error
	CreateOrganization(ctx context.Context, o *idp.OrganizationData) error
	UpdateOrganization(ctx context.Context, o *idp.OrganizationData) error
	SyncProfile(ctx context.Context, p *types.UserProfile) error
}

type VerifierInterface interface {
	Verify(h http.Header, body []byte) error
}

type ServiceInterface interface {
	Handle(ctx context.Context, evt *Event) error
}
