// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/canonical/team-planner/internal/idp"
	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
	"github.com/canonical/team-planner/internal/types"
)

type Service struct {
	bridge BridgeInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Handle applies one identity provider event. Event types the bridge does
// not follow are acknowledged without effect.
func (s *Service) Handle(ctx context.Context, evt *Event) error {
	ctx, span := s.tracer.Start(ctx, "webhooks.Service.Handle")
	defer span.End()

	s.logger.Debugf("handling %s event", evt.Type)

	switch evt.Type {
	case EventMembershipCreated, EventMembershipUpdated:
		m := new(idp.OrganizationMembership)
		if err := decode(evt, m); err != nil {
			return err
		}

		return s.bridge.ApplyMembership(ctx, m)
	case EventMembershipDeleted:
		m := new(idp.OrganizationMembership)
		if err := decode(evt, m); err != nil {
			return err
		}

		return s.bridge.RemoveMembership(ctx, m.Organization.ID, m.PublicUserData.UserID)
	case EventOrganizationCreated:
		o := new(idp.OrganizationData)
		if err := decode(evt, o); err != nil {
			return err
		}

		return s.bridge.CreateOrganization(ctx, o)
	case EventOrganizationUpdated:
		o := new(idp.OrganizationData)
		if err := decode(evt, o); err != nil {
			return err
		}

		return s.bridge.UpdateOrganization(ctx, o)
	case EventOrganizationDeleted:
		s.logger.Infof("organization deletion at the identity provider is not mirrored")
		return nil
	case EventUserCreated, EventUserUpdated:
		u := new(UserData)
		if err := decode(evt, u); err != nil {
			return err
		}

		return s.bridge.SyncProfile(
			ctx,
			&types.UserProfile{
				ExternalID: u.ID,
				FirstName:  u.FirstName,
				LastName:   u.LastName,
				Email:      u.PrimaryEmail(),
			},
		)
	default:
		s.logger.Debugf("ignoring %s event", evt.Type)
		return nil
	}
}

func decode(evt *Event, v any) error {
	if err := json.Unmarshal(evt.Data, v); err != nil {
		return fmt.Errorf("%w: %s payload: %v", types.ErrInvalidInput, evt.Type, err)
	}

	return nil
}

func NewService(bridge BridgeInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Service {
	s := new(Service)

	s.bridge = bridge

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
