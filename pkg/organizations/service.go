// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package organizations

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/canonical/team-planner/internal/authorization"
	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/storage"
	"github.com/canonical/team-planner/internal/tracing"
	"github.com/canonical/team-planner/internal/types"
	"github.com/canonical/team-planner/pkg/authentication"
	"github.com/canonical/team-planner/pkg/changefeed"
)

const placeholderFirstName = "User"

type Service struct {
	storage StorageInterface
	authz   AuthorizerInterface
	feed    changefeed.PublisherInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// CreateOrGet is idempotent on the external id. A caller joining an existing
// organization gets a membership, admin only if they created it.
func (s *Service) CreateOrGet(ctx context.Context, req *CreateOrganizationRequest) (*types.Organization, error) {
	ctx, span := s.tracer.Start(ctx, "organizations.Service.CreateOrGet")
	defer span.End()

	actor, err := s.authz.Actor(ctx)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.ExternalID) == "" {
		return nil, fmt.Errorf("%w: external id is required", types.ErrInvalidInput)
	}

	var org *types.Organization

	err = s.storage.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.storage.GetOrganizationByExternalID(ctx, req.ExternalID)
		switch {
		case err == nil:
			org = existing
			return s.ensureMembership(ctx, existing, actor)
		case !errors.Is(err, storage.ErrNotFound):
			return fmt.Errorf("failed to look up organization: %w", err)
		}

		org, err = s.storage.CreateOrganization(
			ctx,
			&types.Organization{
				ExternalID: req.ExternalID,
				Name:       req.Name,
				Slug:       req.Slug,
				ImageURL:   req.ImageURL,
				CreatedBy:  actor,
			},
		)
		if err != nil {
			return fmt.Errorf("failed to create organization: %w", err)
		}

		m, err := s.storage.AddMember(ctx, org.ID, actor, types.RoleAdmin, org.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to add creator: %w", err)
		}

		s.publish(ctx, changefeed.KindOrganization, changefeed.OpCreated, org.ID, org.ID, actor)
		s.publish(ctx, changefeed.KindMembership, changefeed.OpCreated, m.ID, org.ID, actor)

		s.logger.Infof("organization %s created for %s by %s", org.ID, req.ExternalID, actor)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return org, nil
}

func (s *Service) ensureMembership(ctx context.Context, org *types.Organization, userID string) error {
	_, err := s.storage.GetMembership(ctx, org.ID, userID)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("failed to look up membership: %w", err)
	}

	role := types.RoleMember
	if org.CreatedBy == userID {
		role = types.RoleAdmin
	}

	m, err := s.storage.AddMember(ctx, org.ID, userID, role, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to join organization: %w", err)
	}

	s.publish(ctx, changefeed.KindMembership, changefeed.OpCreated, m.ID, org.ID, userID)

	return nil
}

func (s *Service) GetByExternalID(ctx context.Context, externalID string) (*types.Organization, error) {
	ctx, span := s.tracer.Start(ctx, "organizations.Service.GetByExternalID")
	defer span.End()

	org, err := s.storage.GetOrganizationByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization %s: %w", externalID, err)
	}

	if _, err := s.readAccess(ctx, org.ID); err != nil {
		return nil, err
	}

	return org, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*types.Organization, error) {
	ctx, span := s.tracer.Start(ctx, "organizations.Service.GetBySlug")
	defer span.End()

	org, err := s.storage.GetOrganizationBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization %s: %w", slug, err)
	}

	if _, err := s.readAccess(ctx, org.ID); err != nil {
		return nil, err
	}

	return org, nil
}

// ListForUser merges the organizations userID is a member of with those they
// created without holding a membership, the membership wins when both exist.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]*types.UserOrganization, error) {
	ctx, span := s.tracer.Start(ctx, "organizations.Service.ListForUser")
	defer span.End()

	actor, err := s.authz.Actor(ctx)
	if err != nil {
		return nil, err
	}

	if userID == "" {
		userID = actor
	}

	if !authorization.CanListForUser(actor, userID) {
		s.logger.Security().AuthzFailure(actor, "organizations:user:"+userID)
		return nil, fmt.Errorf("list organizations of %s: %w", userID, authorization.ErrForbidden)
	}

	memberOf, err := s.storage.ListMembershipsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	created, err := s.storage.ListOrganizationsCreatedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list created organizations: %w", err)
	}

	seen := make(map[string]struct{}, len(memberOf))
	orgs := make([]*types.UserOrganization, 0, len(memberOf)+len(created))

	for _, o := range memberOf {
		if _, ok := seen[o.ID]; ok {
			continue
		}

		seen[o.ID] = struct{}{}
		orgs = append(orgs, o)
	}

	for _, o := range created {
		if _, ok := seen[o.ID]; ok {
			continue
		}

		seen[o.ID] = struct{}{}
		orgs = append(
			orgs,
			&types.UserOrganization{
				Organization: *o,
				Role:         types.RoleAdmin,
				JoinedAt:     o.CreatedAt,
			},
		)
	}

	slices.SortStableFunc(orgs, func(a, b *types.UserOrganization) int {
		return a.JoinedAt.Compare(b.JoinedAt)
	})

	return orgs, nil
}

// ListMembers resolves display names from the profile mirror, then from the
// caller's own session claims for their own row, then falls back to a
// placeholder built from the end of the user id.
func (s *Service) ListMembers(ctx context.Context, organizationID string) ([]*types.Member, error) {
	ctx, span := s.tracer.Start(ctx, "organizations.Service.ListMembers")
	defer span.End()

	if _, err := s.readAccess(ctx, organizationID); err != nil {
		return nil, err
	}

	memberships, err := s.storage.ListMembershipsByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	userIDs := make([]string, 0, len(memberships))
	for _, m := range memberships {
		userIDs = append(userIDs, m.UserID)
	}

	profiles, err := s.storage.ListProfilesByExternalIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	byUser := make(map[string]*types.UserProfile, len(profiles))
	for _, p := range profiles {
		byUser[p.ExternalID] = p
	}

	caller, _ := authentication.PrincipalFromContext(ctx)

	members := make([]*types.Member, 0, len(memberships))
	for _, m := range memberships {
		members = append(members, resolveMember(m, byUser[m.UserID], caller))
	}

	return members, nil
}

func resolveMember(m *types.Membership, profile *types.UserProfile, caller *authentication.Principal) *types.Member {
	member := &types.Member{
		MembershipID: m.ID,
		UserID:       m.UserID,
		Role:         m.Role,
		JoinedAt:     m.JoinedAt,
	}

	switch {
	case profile != nil:
		member.FirstName = profile.FirstName
		member.LastName = profile.LastName
		member.Email = profile.Email
		member.ProfileSource = types.ProfileSourceMirror
	case caller != nil && caller.UserID == m.UserID:
		member.FirstName = caller.FirstName
		member.LastName = caller.LastName
		member.Email = caller.Email
		member.ProfileSource = types.ProfileSourceSession
	default:
		member.FirstName = placeholderFirstName
		member.LastName = lastChars(m.UserID, 4)
		member.ProfileSource = types.ProfileSourcePlaceholder
	}

	return member
}

func lastChars(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[len(r)-n:])
}

func (s *Service) AddMember(ctx context.Context, organizationID, userID string, role types.Role) (*types.Membership, error) {
	ctx, span := s.tracer.Start(ctx, "organizations.Service.AddMember")
	defer span.End()

	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", types.ErrInvalidInput, role)
	}

	actor, err := s.manageAccess(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	var m *types.Membership

	err = s.storage.WithTx(ctx, func(ctx context.Context) error {
		_, err := s.storage.GetMembership(ctx, organizationID, userID)
		switch {
		case err == nil:
			return fmt.Errorf("user %s is already a member: %w", userID, storage.ErrDuplicateKey)
		case !errors.Is(err, storage.ErrNotFound):
			return fmt.Errorf("failed to look up membership: %w", err)
		}

		m, err = s.storage.AddMember(ctx, organizationID, userID, role, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to add member: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Security().RoleChanged(actor, userID, organizationID, string(role))
	s.publish(ctx, changefeed.KindMembership, changefeed.OpCreated, m.ID, organizationID, userID)

	return m, nil
}

func (s *Service) UpdateMemberRole(ctx context.Context, membershipID string, role types.Role) (*types.Membership, error) {
	ctx, span := s.tracer.Start(ctx, "organizations.Service.UpdateMemberRole")
	defer span.End()

	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", types.ErrInvalidInput, role)
	}

	existing, err := s.storage.GetMembershipByID(ctx, membershipID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership %s: %w", membershipID, err)
	}

	actor, err := s.manageAccess(ctx, existing.OrganizationID)
	if err != nil {
		return nil, err
	}

	m, err := s.storage.UpdateMembershipRole(ctx, membershipID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to update membership: %w", err)
	}

	s.logger.Security().RoleChanged(actor, m.UserID, m.OrganizationID, string(role))
	s.publish(ctx, changefeed.KindMembership, changefeed.OpUpdated, m.ID, m.OrganizationID, m.UserID)

	return m, nil
}

func (s *Service) RemoveMember(ctx context.Context, membershipID string) error {
	ctx, span := s.tracer.Start(ctx, "organizations.Service.RemoveMember")
	defer span.End()

	existing, err := s.storage.GetMembershipByID(ctx, membershipID)
	if err != nil {
		return fmt.Errorf("failed to get membership %s: %w", membershipID, err)
	}

	actor, err := s.manageAccess(ctx, existing.OrganizationID)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteMembership(ctx, membershipID); err != nil {
		return fmt.Errorf("failed to remove membership: %w", err)
	}

	s.logger.Security().RoleChanged(actor, existing.UserID, existing.OrganizationID, "none")
	s.publish(ctx, changefeed.KindMembership, changefeed.OpDeleted, existing.ID, existing.OrganizationID, existing.UserID)

	return nil
}

// UpsertMembershipRole updates the role in place or inserts the membership,
// joinedAt defaults to now and is ignored for existing rows.
func (s *Service) UpsertMembershipRole(ctx context.Context, organizationID, userID string, role types.Role, joinedAt *time.Time) (*types.Membership, error) {
	ctx, span := s.tracer.Start(ctx, "organizations.Service.UpsertMembershipRole")
	defer span.End()

	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", types.ErrInvalidInput, role)
	}

	actor, err := s.manageAccess(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	joined := time.Now().UTC()
	if joinedAt != nil && !joinedAt.IsZero() {
		joined = *joinedAt
	}

	m, err := s.storage.UpsertMembership(ctx, organizationID, userID, role, joined)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert membership: %w", err)
	}

	s.logger.Security().RoleChanged(actor, userID, organizationID, string(role))
	s.publish(ctx, changefeed.KindMembership, changefeed.OpUpdated, m.ID, organizationID, userID)

	return m, nil
}

func (s *Service) UpdateFields(ctx context.Context, organizationID string, patch types.OrganizationPatch) (*types.Organization, error) {
	ctx, span := s.tracer.Start(ctx, "organizations.Service.UpdateFields")
	defer span.End()

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", types.ErrInvalidInput)
	}

	if patch.Slug != nil && strings.TrimSpace(*patch.Slug) == "" {
		return nil, fmt.Errorf("%w: slug cannot be empty", types.ErrInvalidInput)
	}

	actor, err := s.manageAccess(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	org, err := s.storage.UpdateOrganization(ctx, organizationID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	s.publish(ctx, changefeed.KindOrganization, changefeed.OpUpdated, org.ID, org.ID, actor)

	return org, nil
}

// CleanupDuplicates keeps the oldest organization sharing externalID and
// deletes the others together with their memberships. Tasks, events and
// colors of the deleted organizations are left in place.
func (s *Service) CleanupDuplicates(ctx context.Context, externalID string) (int64, string, error) {
	ctx, span := s.tracer.Start(ctx, "organizations.Service.CleanupDuplicates")
	defer span.End()

	var (
		deleted int64
		keptID  string
	)

	err := s.storage.WithTx(ctx, func(ctx context.Context) error {
		orgs, err := s.storage.ListOrganizationsByExternalID(ctx, externalID)
		if err != nil {
			return fmt.Errorf("failed to list organizations: %w", err)
		}

		if len(orgs) == 0 {
			return fmt.Errorf("no organization for %s: %w", externalID, storage.ErrNotFound)
		}

		// oldest first
		keptID = orgs[0].ID

		ids := make([]string, 0, len(orgs)-1)
		for _, o := range orgs[1:] {
			ids = append(ids, o.ID)
		}

		deleted, err = s.storage.DeleteOrganizations(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to delete duplicates: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, "", err
	}

	if deleted > 0 {
		s.logger.Warnf("removed %d duplicate organizations for %s, kept %s", deleted, externalID, keptID)
	}

	return deleted, keptID, nil
}

func (s *Service) readAccess(ctx context.Context, organizationID string) (*authorization.Access, error) {
	actor, err := s.authz.Actor(ctx)
	if err != nil {
		return nil, err
	}

	access, err := s.authz.ResolveAccess(ctx, actor, organizationID)
	if err != nil {
		return nil, err
	}

	if !authorization.CanReadOrganization(access) {
		return nil, fmt.Errorf("read organization %s: %w", organizationID, authorization.ErrForbidden)
	}

	return access, nil
}

func (s *Service) manageAccess(ctx context.Context, organizationID string) (string, error) {
	actor, err := s.authz.Actor(ctx)
	if err != nil {
		return "", err
	}

	access, err := s.authz.ResolveAccess(ctx, actor, organizationID)
	if err != nil {
		return "", err
	}

	if !authorization.CanManageMembers(access) {
		s.logger.Security().AuthzFailure(actor, "organization:"+organizationID+":members")
		return "", fmt.Errorf("manage organization %s: %w", organizationID, authorization.ErrForbidden)
	}

	return actor, nil
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
