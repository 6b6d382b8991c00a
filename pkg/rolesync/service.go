// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package rolesync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/canonical/team-planner/internal/authorization"
	"github.com/canonical/team-planner/internal/db"
	"github.com/canonical/team-planner/internal/idp"
	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/storage"
	"github.com/canonical/team-planner/internal/tracing"
	"github.com/canonical/team-planner/internal/types"
	"github.com/canonical/team-planner/pkg/changefeed"
)

// systemActor is recorded when the identity provider drives a change.
const systemActor = "system:idp"

type Service struct {
	storage  StorageInterface
	idp      idp.ClientInterface
	profiles ProfileSyncerInterface
	authz    AuthorizerInterface
	feed     changefeed.PublisherInterface

	reconcileTimeout time.Duration
	concurrency      int
	background       sync.WaitGroup

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// ApplyMembership mirrors a created or updated provider membership, creating
// the local organization from the embedded payload when it is missing.
func (s *Service) ApplyMembership(ctx context.Context, m *idp.OrganizationMembership) error {
	ctx, span := s.tracer.Start(ctx, "rolesync.Service.ApplyMembership")
	defer span.End()

	role, err := idp.NormalizeRole(m.Role)
	if err != nil {
		return err
	}

	userID := m.PublicUserData.UserID
	if userID == "" || m.Organization.ID == "" {
		return fmt.Errorf("%w: membership without user or organization", types.ErrInvalidInput)
	}

	return s.storage.WithTx(ctx, func(ctx context.Context) error {
		org, err := s.ensureOrganization(ctx, &m.Organization)
		if err != nil {
			return err
		}

		return s.upsertRole(ctx, org.ID, userID, role, m.Joined())
	})
}

// RemoveMembership is a no-op when either side is already gone.
func (s *Service) RemoveMembership(ctx context.Context, organizationExternalID, userID string) error {
	ctx, span := s.tracer.Start(ctx, "rolesync.Service.RemoveMembership")
	defer span.End()

	return s.storage.WithTx(ctx, func(ctx context.Context) error {
		org, err := s.storage.GetOrganizationByExternalID(ctx, organizationExternalID)
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Debugf("membership removal for unknown organization %s ignored", organizationExternalID)
			return nil
		}

		if err != nil {
			return fmt.Errorf("failed to look up organization: %w", err)
		}

		m, err := s.storage.GetMembership(ctx, org.ID, userID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("failed to look up membership: %w", err)
		}

		return s.removeMembership(ctx, m)
	})
}

func (s *Service) CreateOrganization(ctx context.Context, o *idp.OrganizationData) error {
	ctx, span := s.tracer.Start(ctx, "rolesync.Service.CreateOrganization")
	defer span.End()

	if o.ID == "" {
		return fmt.Errorf("%w: organization without id", types.ErrInvalidInput)
	}

	return s.storage.WithTx(ctx, func(ctx context.Context) error {
		_, err := s.ensureOrganization(ctx, o)
		return err
	})
}

// UpdateOrganization copies name, slug and image onto the local organization,
// creating it when the provider knows it and the mirror does not.
func (s *Service) UpdateOrganization(ctx context.Context, o *idp.OrganizationData) error {
	ctx, span := s.tracer.Start(ctx, "rolesync.Service.UpdateOrganization")
	defer span.End()

	if o.ID == "" {
		return fmt.Errorf("%w: organization without id", types.ErrInvalidInput)
	}

	return s.storage.WithTx(ctx, func(ctx context.Context) error {
		org, err := s.storage.GetOrganizationByExternalID(ctx, o.ID)
		if errors.Is(err, storage.ErrNotFound) {
			_, err = s.ensureOrganization(ctx, o)
			return err
		}

		if err != nil {
			return fmt.Errorf("failed to look up organization: %w", err)
		}

		var patch types.OrganizationPatch
		if o.Name != "" {
			patch.Name = &o.Name
		}

		if o.Slug != "" {
			patch.Slug = &o.Slug
		}

		if o.ImageURL != nil {
			patch.ImageURL = o.ImageURL
		}

		if _, err := s.storage.UpdateOrganization(ctx, org.ID, patch); err != nil {
			return fmt.Errorf("failed to update organization: %w", err)
		}

		s.publish(ctx, changefeed.KindOrganization, changefeed.OpUpdated, org.ID, org.ID, "")

		return nil
	})
}

func (s *Service) SyncProfile(ctx context.Context, p *types.UserProfile) error {
	ctx, span := s.tracer.Start(ctx, "rolesync.Service.SyncProfile")
	defer span.End()

	if _, err := s.profiles.Sync(ctx, p); err != nil {
		return err
	}

	return nil
}

// ChangeRole updates a role at the provider first. The caller must be admin
// there, checked against the provider's own records. The local mirror is
// then updated best effort and a full reconciliation of the organization is
// started in the background.
func (s *Service) ChangeRole(ctx context.Context, organizationExternalID, userID string, role types.Role) (*ChangeRoleResult, error) {
	ctx, span := s.tracer.Start(ctx, "rolesync.Service.ChangeRole")
	defer span.End()

	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", types.ErrInvalidInput, role)
	}

	actor, err := s.authz.Actor(ctx)
	if err != nil {
		return nil, err
	}

	caller, err := s.providerMembership(ctx, actor, organizationExternalID)
	if err != nil {
		return nil, err
	}

	if caller == nil || !idp.IsAdmin(caller.Role) {
		s.logger.Security().AuthzFailure(actor, "idp:organization:"+organizationExternalID+":roles")
		return nil, fmt.Errorf("change role in %s: %w", organizationExternalID, authorization.ErrForbidden)
	}

	updated, err := s.idp.UpdateMembershipRole(ctx, organizationExternalID, userID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to update role at the identity provider: %w", err)
	}

	s.logger.Security().RoleChanged(actor, userID, organizationExternalID, string(role))

	result := &ChangeRoleResult{
		OrganizationExternalID: organizationExternalID,
		UserID:                 userID,
		Role:                   role,
	}

	orgData := updated.Organization
	if orgData.ID == "" {
		orgData = caller.Organization
	}

	if orgData.ID == "" {
		orgData.ID = organizationExternalID
	}

	// mirror writes stay out of the request transaction
	local := db.WithoutTx(ctx)

	err = s.storage.WithTx(local, func(ctx context.Context) error {
		org, err := s.ensureOrganization(ctx, &orgData)
		if err != nil {
			return err
		}

		return s.upsertRole(ctx, org.ID, userID, role, updated.Joined())
	})
	if err != nil {
		s.logger.Warnf("role of %s in %s changed at the identity provider but not locally: %v", userID, organizationExternalID, err)
	} else {
		result.LocalSynced = true
	}

	s.background.Add(1)
	go func() {
		defer s.background.Done()
		s.reconcileBestEffort(context.WithoutCancel(local), organizationExternalID)
	}()

	return result, nil
}

// SyncForCaller reconciles an organization on behalf of one of its members.
func (s *Service) SyncForCaller(ctx context.Context, organizationExternalID string) (*ReconcileResult, error) {
	ctx, span := s.tracer.Start(ctx, "rolesync.Service.SyncForCaller")
	defer span.End()

	actor, err := s.authz.Actor(ctx)
	if err != nil {
		return nil, err
	}

	caller, err := s.providerMembership(ctx, actor, organizationExternalID)
	if err != nil {
		return nil, err
	}

	if caller == nil {
		s.logger.Security().AuthzFailureNotMember(actor, organizationExternalID)
		return nil, fmt.Errorf("sync %s: %w", organizationExternalID, authorization.ErrForbidden)
	}

	return s.Reconcile(ctx, organizationExternalID)
}

// Reconcile makes the local memberships of an organization match the
// provider: roles are upserted and memberships the provider no longer has
// are removed. Members with a role the bridge does not understand are left
// untouched.
func (s *Service) Reconcile(ctx context.Context, organizationExternalID string) (*ReconcileResult, error) {
	ctx, span := s.tracer.Start(ctx, "rolesync.Service.Reconcile")
	defer span.End()

	remote, err := s.idp.ListOrganizationMemberships(ctx, organizationExternalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list provider memberships: %w", err)
	}

	result := &ReconcileResult{OrganizationExternalID: organizationExternalID}

	err = s.storage.WithTx(ctx, func(ctx context.Context) error {
		org, err := s.reconcileTarget(ctx, organizationExternalID, remote)
		if err != nil {
			return err
		}

		result.OrganizationID = org.ID

		local, err := s.storage.ListMembershipsByOrganization(ctx, org.ID)
		if err != nil {
			return fmt.Errorf("failed to list local memberships: %w", err)
		}

		byUser := make(map[string]*types.Membership, len(local))
		for _, m := range local {
			byUser[m.UserID] = m
		}

		keep := make(map[string]struct{}, len(remote))

		for i := range remote {
			userID := remote[i].PublicUserData.UserID
			if userID == "" {
				result.Skipped++
				continue
			}

			keep[userID] = struct{}{}

			role, err := idp.NormalizeRole(remote[i].Role)
			if err != nil {
				s.logger.Warnf("skipping %s in %s: %v", userID, organizationExternalID, err)
				result.Skipped++
				continue
			}

			if m, ok := byUser[userID]; ok && m.Role == role {
				continue
			}

			if err := s.upsertRole(ctx, org.ID, userID, role, remote[i].Joined()); err != nil {
				return err
			}

			result.Upserted++
		}

		for _, m := range local {
			if _, ok := keep[m.UserID]; ok {
				continue
			}

			if err := s.removeMembership(ctx, m); err != nil {
				return err
			}

			result.Removed++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Upserted > 0 || result.Removed > 0 {
		s.logger.Infof(
			"reconciled %s: %d upserted, %d removed, %d skipped",
			organizationExternalID, result.Upserted, result.Removed, result.Skipped,
		)
	}

	return result, nil
}

// ReconcileAll reconciles every mirrored organization. One failing
// organization does not stop the others.
func (s *Service) ReconcileAll(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "rolesync.Service.ReconcileAll")
	defer span.End()

	ids, err := s.storage.ListExternalIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list organizations: %w", err)
	}

	var (
		g      errgroup.Group
		failed atomic.Int64
	)

	g.SetLimit(s.concurrency)

	for _, id := range ids {
		g.Go(func() error {
			rctx, cancel := context.WithTimeout(ctx, s.reconcileTimeout)
			defer cancel()

			if _, err := s.Reconcile(rctx, id); err != nil {
				failed.Add(1)
				s.logger.Errorf("failed to reconcile %s: %v", id, err)
			}

			return nil
		})
	}

	_ = g.Wait()

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d organizations failed to reconcile", n, len(ids))
	}

	return nil
}

// Wait blocks until background reconciliations started by ChangeRole finish.
func (s *Service) Wait() {
	s.background.Wait()
}

func (s *Service) reconcileBestEffort(ctx context.Context, organizationExternalID string) {
	ctx, cancel := context.WithTimeout(ctx, s.reconcileTimeout)
	defer cancel()

	if _, err := s.Reconcile(ctx, organizationExternalID); err != nil {
		s.logger.Warnf("background reconciliation of %s failed: %v", organizationExternalID, err)
	}
}

// reconcileTarget finds the local organization, creating it from the
// provider payload when members exist remotely but not locally.
func (s *Service) reconcileTarget(ctx context.Context, organizationExternalID string, remote []idp.OrganizationMembership) (*types.Organization, error) {
	for i := range remote {
		if remote[i].PublicUserData.UserID == "" {
			continue
		}

		data := remote[i].Organization
		if data.ID == "" {
			data.ID = organizationExternalID
		}

		return s.ensureOrganization(ctx, &data)
	}

	org, err := s.storage.GetOrganizationByExternalID(ctx, organizationExternalID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up organization %s: %w", organizationExternalID, err)
	}

	return org, nil
}

func (s *Service) providerMembership(ctx context.Context, userID, organizationExternalID string) (*idp.OrganizationMembership, error) {
	memberships, err := s.idp.ListUserMemberships(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list provider memberships of %s: %w", userID, err)
	}

	for i := range memberships {
		if memberships[i].Organization.ID == organizationExternalID {
			return &memberships[i], nil
		}
	}

	return nil, nil
}

// ensureOrganization returns the local organization for o.ID, creating it if
// needed. Without a creator in the payload the organization is recorded as
// created by the system actor, which never matches a user.
func (s *Service) ensureOrganization(ctx context.Context, o *idp.OrganizationData) (*types.Organization, error) {
	org, err := s.storage.GetOrganizationByExternalID(ctx, o.ID)
	switch {
	case err == nil:
		return org, nil
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("failed to look up organization: %w", err)
	}

	createdBy := firstNonEmpty(o.CreatedBy, systemActor)

	org, err = s.storage.CreateOrganization(
		ctx,
		&types.Organization{
			ExternalID: o.ID,
			Name:       firstNonEmpty(o.Name, o.Slug, o.ID),
			Slug:       firstNonEmpty(o.Slug, strings.ToLower(o.ID)),
			ImageURL:   o.ImageURL,
			CreatedBy:  createdBy,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create organization %s: %w", o.ID, err)
	}

	s.logger.Infof("organization %s mirrored from the identity provider as %s", o.ID, org.ID)
	s.publish(ctx, changefeed.KindOrganization, changefeed.OpCreated, org.ID, org.ID, createdBy)

	return org, nil
}

func (s *Service) upsertRole(ctx context.Context, organizationID, userID string, role types.Role, joinedAt time.Time) error {
	if joinedAt.IsZero() {
		joinedAt = time.Now().UTC()
	}

	m, err := s.storage.UpsertMembership(ctx, organizationID, userID, role, joinedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert membership of %s: %w", userID, err)
	}

	s.logger.Security().RoleChanged(systemActor, userID, organizationID, string(role))
	s.publish(ctx, changefeed.KindMembership, changefeed.OpUpdated, m.ID, organizationID, userID)

	return nil
}

func (s *Service) removeMembership(ctx context.Context, m *types.Membership) error {
	if err := s.storage.DeleteMembership(ctx, m.ID); err != nil {
		return fmt.Errorf("failed to remove membership of %s: %w", m.UserID, err)
	}

	s.logger.Security().RoleChanged(systemActor, m.UserID, m.OrganizationID, "none")
	s.publish(ctx, changefeed.KindMembership, changefeed.OpDeleted, m.ID, m.OrganizationID, m.UserID)

	return nil
}

func (s *Service) publish(ctx context.Context, kind changefeed.Kind, op changefeed.Op, id, organizationID, userID string) {
	changefeed.PublishAfterCommit(
		ctx,
		s.feed,
		changefeed.Change{
			Kind:           kind,
			Op:             op,
			ID:             id,
			OrganizationID: organizationID,
			UserID:         userID,
		},
	)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}

	return ""
}

func NewService(
	storage StorageInterface,
	client idp.ClientInterface,
	profiles ProfileSyncerInterface,
	authz AuthorizerInterface,
	feed changefeed.PublisherInterface,
	concurrency int,
	reconcileTimeout time.Duration,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	s := new(Service)

	s.storage = storage
	s.idp = client
	s.profiles = profiles
	s.authz = authz
	s.feed = feed

	s.concurrency = concurrency
	if s.concurrency < 1 {
		s.concurrency = 1
	}

	s.reconcileTimeout = reconcileTimeout
	if s.reconcileTimeout <= 0 {
		s.reconcileTimeout = 30 * time.Second
	}

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
