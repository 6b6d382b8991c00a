// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package changefeed

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/mock/gomock"

	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
)

func newTestRedisFeed(t *testing.T) (*RedisFeed, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := logging.NewNoopLogger()

	return NewRedisFeed(client, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger), mr
}

func TestChangeChannel(t *testing.T) {
	tests := []struct {
		name     string
		change   Change
		expected string
	}{
		{"organization scoped", Change{Kind: KindTask, OrganizationID: "o-1", UserID: "user_a"}, "changes:org:o-1"},
		{"personal", Change{Kind: KindTask, UserID: "user_a"}, "changes:user:user_a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.change.Channel(); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestRedisFeedPublishSubscribe(t *testing.T) {
	feed, _ := newTestRedisFeed(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := feed.Subscribe(ctx, OrganizationChannel("o-1"))
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	feed.Publish(ctx, Change{Kind: KindEvent, Op: OpCreated, ID: "e-1", OrganizationID: "o-1"})
	// other organizations are not delivered
	feed.Publish(ctx, Change{Kind: KindEvent, Op: OpCreated, ID: "e-2", OrganizationID: "o-2"})

	select {
	case payload := <-messages:
		var c Change
		if err := json.Unmarshal(payload, &c); err != nil {
			t.Fatalf("failed to decode change: %v", err)
		}

		if c.ID != "e-1" || c.Kind != KindEvent || c.Op != OpCreated {
			t.Errorf("unexpected change %+v", c)
		}

		if c.At.IsZero() {
			t.Error("expected the publish time to be set")
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for change")
	}

	cancel()

	// the channel is closed once the subscriber goes away
	for range messages {
	}
}

func TestRedisFeedPublishUnavailable(t *testing.T) {
	feed, mr := newTestRedisFeed(t)
	mr.Close()

	// best effort, must not panic or block
	feed.Publish(context.Background(), Change{Kind: KindTask, ID: "t-1", UserID: "user_a"})

	if err := feed.Ping(context.Background()); err == nil {
		t.Error("expected ping to fail")
	}
}

func TestNoopFeed(t *testing.T) {
	feed := NewNoopFeed()
	feed.Publish(context.Background(), Change{})

	ctx, cancel := context.WithCancel(context.Background())
	messages, err := feed.Subscribe(ctx, UserChannel("user_a"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cancel()

	if _, ok := <-messages; ok {
		t.Error("expected the channel to be closed")
	}
}

func TestPublishAfterCommitWithoutTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	publisher := NewMockPublisherInterface(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Cond(func(c Change) bool {
		return c.ID == "t-1" && !c.At.IsZero()
	}))

	PublishAfterCommit(context.Background(), publisher, Change{Kind: KindTask, ID: "t-1", UserID: "user_a"})
}
