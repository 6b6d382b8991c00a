// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package changefeed

import (
	"context"
	"time"

	"github.com/canonical/team-planner/internal/db"
)

// PublishAfterCommit hands c to p once the transaction carried by ctx commits,
// so subscribers never see a change that was rolled back.
func PublishAfterCommit(ctx context.Context, p PublisherInterface, c Change) {
	if c.At.IsZero() {
		c.At = time.Now().UTC()
	}

	detached := context.WithoutCancel(ctx)

	db.AfterCommit(ctx, func() {
		p.Publish(detached, c)
	})
}
