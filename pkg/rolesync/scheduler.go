// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package rolesync

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
)

type reconcilerInterface interface {
	ReconcileAll(ctx context.Context) error
}

// Scheduler runs ReconcileAll on a cron schedule, skipping a tick while the
// previous run is still going.
type Scheduler struct {
	cron    *cron.Cron
	service reconcilerInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for a running one until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warnf("reconciliation still running at shutdown")
	}
}

func (s *Scheduler) run() {
	ctx, span := s.tracer.Start(context.Background(), "rolesync.Scheduler.run")
	defer span.End()

	start := time.Now()

	if err := s.service.ReconcileAll(ctx); err != nil {
		s.logger.Errorf("scheduled reconciliation failed: %v", err)
		return
	}

	s.logger.Infof("scheduled reconciliation finished in %s", time.Since(start))
}

type cronLogger struct {
	logger logging.LoggerInterface
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}

func NewScheduler(schedule string, service reconcilerInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (*Scheduler, error) {
	s := new(Scheduler)

	s.service = service

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	l := cronLogger{logger: logger}
	s.cron = cron.New(
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)

	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", schedule, err)
	}

	return s, nil
}
