// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package profiles

import (
	"context"
	"fmt"
	"strings"

	"github.com/canonical/team-planner/internal/authorization"
	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
	"github.com/canonical/team-planner/internal/types"
	"github.com/canonical/team-planner/pkg/authentication"
	"github.com/canonical/team-planner/pkg/changefeed"
)

const maxBatch = 500

type Service struct {
	storage StorageInterface
	authz   AuthorizerInterface
	feed    changefeed.PublisherInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Upsert writes the caller's own profile.
func (s *Service) Upsert(ctx context.Context, req *UpsertProfileRequest) (*types.UserProfile, error) {
	ctx, span := s.tracer.Start(ctx, "profiles.Service.Upsert")
	defer span.End()

	actor, err := s.authz.Actor(ctx)
	if err != nil {
		return nil, err
	}

	if req.ExternalID == "" {
		req.ExternalID = actor
	}

	if req.ExternalID != actor {
		s.logger.Security().AuthzFailure(actor, "profile:"+req.ExternalID)
		return nil, fmt.Errorf("upsert profile of %s: %w", req.ExternalID, authorization.ErrForbidden)
	}

	return s.Sync(
		ctx,
		&types.UserProfile{
			ExternalID: req.ExternalID,
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Email:      req.Email,
		},
	)
}

// UpsertFromSession mirrors the verified claims of the caller.
func (s *Service) UpsertFromSession(ctx context.Context) (*types.UserProfile, error) {
	ctx, span := s.tracer.Start(ctx, "profiles.Service.UpsertFromSession")
	defer span.End()

	p, ok := authentication.PrincipalFromContext(ctx)
	if !ok {
		return nil, authorization.ErrUnauthorized
	}

	return s.Sync(
		ctx,
		&types.UserProfile{
			ExternalID: p.UserID,
			FirstName:  p.FirstName,
			LastName:   p.LastName,
			Email:      p.Email,
		},
	)
}

func (s *Service) Sync(ctx context.Context, p *types.UserProfile) (*types.UserProfile, error) {
	ctx, span := s.tracer.Start(ctx, "profiles.Service.Sync")
	defer span.End()

	if strings.TrimSpace(p.ExternalID) == "" {
		return nil, fmt.Errorf("%w: external id is required", types.ErrInvalidInput)
	}

	profile, err := s.storage.UpsertProfile(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	changefeed.PublishAfterCommit(
		ctx,
		s.feed,
		changefeed.Change{
			Kind:   changefeed.KindProfile,
			Op:     changefeed.OpUpdated,
			ID:     profile.ID,
			UserID: profile.ExternalID,
		},
	)

	return profile, nil
}

func (s *Service) GetByExternalID(ctx context.Context, externalID string) (*types.UserProfile, error) {
	ctx, span := s.tracer.Start(ctx, "profiles.Service.GetByExternalID")
	defer span.End()

	if _, err := s.authz.Actor(ctx); err != nil {
		return nil, err
	}

	p, err := s.storage.GetProfileByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", externalID, err)
	}

	return p, nil
}

// ListByExternalIDs skips ids without a profile.
func (s *Service) ListByExternalIDs(ctx context.Context, externalIDs []string) ([]*types.UserProfile, error) {
	ctx, span := s.tracer.Start(ctx, "profiles.Service.ListByExternalIDs")
	defer span.End()

	if _, err := s.authz.Actor(ctx); err != nil {
		return nil, err
	}

	if len(externalIDs) > maxBatch {
		return nil, fmt.Errorf("%w: at most %d ids per request", types.ErrInvalidInput, maxBatch)
	}

	if len(externalIDs) == 0 {
		return []*types.UserProfile{}, nil
	}

	profiles, err := s.storage.ListProfilesByExternalIDs(ctx, externalIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	return profiles, nil
}

func NewService(storage StorageInterface, authz AuthorizerInterface, feed changefeed.PublisherInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Service {
	s := new(Service)

	s.storage = storage
	s.authz = authz
	s.feed = feed

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
