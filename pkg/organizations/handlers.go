// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package organizations

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	httptypes "github.com/canonical/team-planner/internal/http/types"
	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
	"github.com/canonical/team-planner/internal/types"
)

type API struct {
	service  ServiceInterface
	validate *validator.Validate

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Get("/api/v0/organizations", a.listForUser)
	mux.Post("/api/v0/organizations", a.createOrGet)
	mux.Get("/api/v0/organizations/by-external-id/{externalID}", a.getByExternalID)
	mux.Get("/api/v0/organizations/by-slug/{slug}", a.getBySlug)
	mux.Patch("/api/v0/organizations/{id}", a.updateFields)
	mux.Get("/api/v0/organizations/{id}/members", a.listMembers)
	mux.Post("/api/v0/organizations/{id}/members", a.addMember)
	mux.Put("/api/v0/organizations/{id}/members/{userID}", a.upsertMembership)
	mux.Patch("/api/v0/memberships/{id}", a.updateMemberRole)
	mux.Delete("/api/v0/memberships/{id}", a.removeMember)
}

func (a *API) listForUser(w http.ResponseWriter, r *http.Request) {
	orgs, err := a.service.ListForUser(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		a.fail(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, orgs)
}

func (a *API) createOrGet(w http.ResponseWriter, r *http.Request) {
	req := new(CreateOrganizationRequest)
	if !a.decode(w, r, req) {
		return
	}

	org, err := a.service.CreateOrGet(r.Context(), req)
	if err != nil {
		a.fail(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, org)
}

func (a *API) getByExternalID(w http.ResponseWriter, r *http.Request) {
	org, err := a.service.GetByExternalID(r.Context(), chi.URLParam(r, "externalID"))
	if err != nil {
		a.fail(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, org)
}

func (a *API) getBySlug(w http.ResponseWriter, r *http.Request) {
	org, err := a.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		a.fail(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, org)
}

func (a *API) updateFields(w http.ResponseWriter, r *http.Request) {
	var patch types.OrganizationPatch
	if !a.decode(w, r, &patch) {
		return
	}

	org, err := a.service.UpdateFields(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		a.fail(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, org)
}

func (a *API) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := a.service.ListMembers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, members)
}

func (a *API) addMember(w http.ResponseWriter, r *http.Request) {
	req := new(AddMemberRequest)
	if !a.decode(w, r, req) {
		return
	}

	m, err := a.service.AddMember(r.Context(), chi.URLParam(r, "id"), req.UserID, req.Role)
	if err != nil {
		a.fail(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusCreated, m)
}

func (a *API) upsertMembership(w http.ResponseWriter, r *http.Request) {
	req := new(UpsertMembershipRequest)
	if !a.decode(w, r, req) {
		return
	}

	m, err := a.service.UpsertMembershipRole(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userID"), req.Role, req.JoinedAt)
	if err != nil {
		a.fail(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, m)
}

func (a *API) updateMemberRole(w http.ResponseWriter, r *http.Request) {
	req := new(UpdateRoleRequest)
	if !a.decode(w, r, req) {
		return
	}

	m, err := a.service.UpdateMemberRole(r.Context(), chi.URLParam(r, "id"), req.Role)
	if err != nil {
		a.fail(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, m)
}

func (a *API) removeMember(w http.ResponseWriter, r *http.Request) {
	if err := a.service.RemoveMember(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decode reads and validates the body, answering the request itself on failure.
func (a *API) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httptypes.DecodeJSON(r, v); err != nil {
		httptypes.WriteError(w, err)
		return false
	}

	if err := a.validate.Struct(v); err != nil {
		httptypes.WriteError(w, err)
		return false
	}

	return true
}

func (a *API) fail(w http.ResponseWriter, err error) {
	if httptypes.StatusFromError(err) >= http.StatusInternalServerError {
		a.logger.Errorf("organizations request failed: %v", err)
	}

	httptypes.WriteError(w, err)
}

func NewAPI(service ServiceInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	a := new(API)

	a.service = service
	a.validate = validator.New(validator.WithRequiredStructEnabled())

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
