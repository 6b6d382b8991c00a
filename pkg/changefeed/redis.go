// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
)

const subscriptionBuffer = 32

// RedisFeed fans changes out over Redis pub/sub so every replica can serve
// every subscriber.
type RedisFeed struct {
	client redis.UniversalClient

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (f *RedisFeed) Publish(ctx context.Context, c Change) {
	ctx, span := f.tracer.Start(ctx, "changefeed.RedisFeed.Publish")
	defer span.End()

	if c.At.IsZero() {
		c.At = time.Now().UTC()
	}

	payload, err := json.Marshal(c)
	if err != nil {
		f.logger.Errorf("failed to encode change %s/%s: %v", c.Kind, c.ID, err)
		return
	}

	if err := f.client.Publish(ctx, c.Channel(), payload).Err(); err != nil {
		f.logger.Warnf("failed to publish change %s/%s on %s: %v", c.Kind, c.ID, c.Channel(), err)
	}
}

func (f *RedisFeed) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	ps := f.client.Subscribe(ctx, channel)

	// wait for the subscription confirmation so no message published after
	// Subscribe returns is lost
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	out := make(chan []byte, subscriptionBuffer)

	go func() {
		defer close(out)
		defer ps.Close()

		messages := ps.Channel()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}

				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Ping reports the Redis availability on the dependency gauge.
func (f *RedisFeed) Ping(ctx context.Context) error {
	err := f.client.Ping(ctx).Err()

	available := 1.0
	if err != nil {
		available = 0
	}

	if merr := f.monitor.SetDependencyAvailability(map[string]string{"component": "redis"}, available); merr != nil {
		f.logger.Debugf("failed to set redis availability: %v", merr)
	}

	return err
}

func (f *RedisFeed) Close() error {
	return f.client.Close()
}

func NewRedisFeed(client redis.UniversalClient, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *RedisFeed {
	f := new(RedisFeed)

	f.client = client

	f.tracer = tracer
	f.monitor = monitor
	f.logger = logger

	return f
}
