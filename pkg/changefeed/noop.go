// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package changefeed

import (
	"context"
)

// NoopFeed is used when no Redis address is configured: changes are dropped
// and subscriptions stay silent until cancelled.
type NoopFeed struct{}

func (NoopFeed) Publish(context.Context, Change) {}

func (NoopFeed) Subscribe(ctx context.Context, _ string) (<-chan []byte, error) {
	out := make(chan []byte)

	go func() {
		<-ctx.Done()
		close(out)
	}()

	return out, nil
}

func NewNoopFeed() *NoopFeed {
	return new(NoopFeed)
}
