// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package rolesync

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	httptypes "github.com/canonical/team-planner/internal/http/types"
	"github.com/canonical/team-planner/internal/idp"
	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
)

type API struct {
	service  ServiceInterface
	validate *validator.Validate

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Put("/api/v0/idp/organizations/{externalID}/members/{userID}/role", a.changeRole)
	mux.Post("/api/v0/idp/organizations/{externalID}/sync", a.sync)
}

func (a *API) changeRole(w http.ResponseWriter, r *http.Request) {
	req := new(ChangeRoleRequest)
	if err := httptypes.DecodeJSON(r, req); err != nil {
		httptypes.WriteError(w, err)
		return
	}

	if err := a.validate.Struct(req); err != nil {
		httptypes.WriteError(w, err)
		return
	}

	role, err := idp.NormalizeRole(req.Role)
	if err != nil {
		httptypes.WriteError(w, err)
		return
	}

	result, err := a.service.ChangeRole(r.Context(), chi.URLParam(r, "externalID"), chi.URLParam(r, "userID"), role)
	if err != nil {
		a.fail(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, result)
}

func (a *API) sync(w http.ResponseWriter, r *http.Request) {
	result, err := a.service.SyncForCaller(r.Context(), chi.URLParam(r, "externalID"))
	if err != nil {
		a.fail(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, result)
}

func (a *API) fail(w http.ResponseWriter, err error) {
	if httptypes.StatusFromError(err) >= http.StatusInternalServerError {
		a.logger.Errorf("role sync request failed: %v", err)
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
