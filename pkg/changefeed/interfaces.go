// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package changefeed

import (
	"context"

	"github.com/canonical/team-planner/internal/authorization"
)

// PublisherInterface is what data access services notify after a write.
// Publishing never fails the caller.
type PublisherInterface interface {
	Publish(ctx context.Context, c Change)
}

// SubscriberInterface streams raw change payloads of one channel until ctx
// is cancelled.
type SubscriberInterface interface {
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

type FeedInterface interface {
	PublisherInterface
	SubscriberInterface
}

// AuthorizerInterface is the subset of the permission evaluator needed to
// open an organization stream.
type AuthorizerInterface interface {
	Actor(ctx context.Context) (string, error)
	ResolveAccess(ctx context.Context, userID, organizationID string) (*authorization.Access, error)
}
