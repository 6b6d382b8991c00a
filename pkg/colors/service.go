// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package colors

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/canonical/team-planner/internal/authorization"
	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
	"github.com/canonical/team-planner/internal/types"
	"github.com/canonical/team-planner/pkg/changefeed"
)

type Service struct {
	storage  StorageInterface
	authz    AuthorizerInterface
	feed     changefeed.PublisherInterface
	validate *validator.Validate

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (s *Service) List(ctx context.Context, organizationID string) ([]*types.UserColor, error) {
	ctx, span := s.tracer.Start(ctx, "colors.Service.List")
	defer span.End()

	if err := s.checkRead(ctx, organizationID); err != nil {
		return nil, err
	}

	colors, err := s.storage.ListUserColors(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user colors: %w", err)
	}

	return colors, nil
}

// Upsert sets the color of userID in the organization, replacing any previous one.
func (s *Service) Upsert(ctx context.Context, organizationID, userID, color string) (*types.UserColor, error) {
	ctx, span := s.tracer.Start(ctx, "colors.Service.Upsert")
	defer span.End()

	if err := s.validate.Var(color, "required,hexcolor"); err != nil {
		return nil, fmt.Errorf("%w: color %q is not a hex color", types.ErrInvalidInput, color)
	}

	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", types.ErrInvalidInput)
	}

	if err := s.checkRead(ctx, organizationID); err != nil {
		return nil, err
	}

	return s.upsert(ctx, organizationID, userID, strings.ToLower(color))
}

// Assign gives userID a color if they have none yet. The first palette color
// nobody in the organization uses wins, once the palette is exhausted the
// choice falls back to a hash of the user id. Collisions between concurrent
// assignments are tolerated.
func (s *Service) Assign(ctx context.Context, organizationID, userID string) (*types.UserColor, error) {
	ctx, span := s.tracer.Start(ctx, "colors.Service.Assign")
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", types.ErrInvalidInput)
	}

	if err := s.checkRead(ctx, organizationID); err != nil {
		return nil, err
	}

	existing, err := s.storage.ListUserColors(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user colors: %w", err)
	}

	used := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		if c.UserID == userID {
			return c, nil
		}

		used[strings.ToLower(c.Color)] = struct{}{}
	}

	return s.upsert(ctx, organizationID, userID, PickColor(used, userID))
}

func (s *Service) upsert(ctx context.Context, organizationID, userID, color string) (*types.UserColor, error) {
	c, err := s.storage.UpsertUserColor(ctx, organizationID, userID, color)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user color: %w", err)
	}

	changefeed.PublishAfterCommit(
		ctx,
		s.feed,
		changefeed.Change{
			Kind:           changefeed.KindColor,
			Op:             changefeed.OpUpdated,
			ID:             c.ID,
			OrganizationID: organizationID,
			UserID:         userID,
		},
	)

	return c, nil
}

func (s *Service) checkRead(ctx context.Context, organizationID string) error {
	actor, err := s.authz.Actor(ctx)
	if err != nil {
		return err
	}

	access, err := s.authz.ResolveAccess(ctx, actor, organizationID)
	if err != nil {
		return err
	}

	if !authorization.CanReadOrganization(access) {
		s.logger.Security().AuthzFailure(actor, "organization:"+organizationID+":colors")
		return fmt.Errorf("read organization %s: %w", organizationID, authorization.ErrForbidden)
	}

	return nil
}

// PickColor returns the first palette entry missing from used, or a stable
// entry derived from userID when every color is taken.
func PickColor(used map[string]struct{}, userID string) string {
	for _, c := range Palette {
		if _, ok := used[c]; !ok {
			return c
		}
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))

	return Palette[h.Sum32()%uint32(len(Palette))]
}

func NewService(storage StorageInterface, authz AuthorizerInterface, feed changefeed.PublisherInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Service {
	s := new(Service)

	s.storage = storage
	s.authz = authz
	s.feed = feed
	s.validate = validator.New(validator.WithRequiredStructEnabled())

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
