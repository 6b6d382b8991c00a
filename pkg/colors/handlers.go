// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package colors

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	httptypes "github.com/canonical/team-planner/internal/http/types"
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
	mux.Get("/api/v0/organizations/{id}/colors", a.list)
	mux.Put("/api/v0/organizations/{id}/colors/{userID}", a.upsert)
	mux.Post("/api/v0/organizations/{id}/colors/{userID}/assign", a.assign)
}

func (a *API) list(w http.ResponseWriter, r *http.Request) {
	colors, err := a.service.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, colors)
}

func (a *API) upsert(w http.ResponseWriter, r *http.Request) {
	req := new(UpsertColorRequest)
	if err := httptypes.DecodeJSON(r, req); err != nil {
		httptypes.WriteError(w, err)
		return
	}

	if err := a.validate.Struct(req); err != nil {
		httptypes.WriteError(w, err)
		return
	}

	c, err := a.service.Upsert(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userID"), req.Color)
	if err != nil {
		a.fail(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, c)
}

func (a *API) assign(w http.ResponseWriter, r *http.Request) {
	c, err := a.service.Assign(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userID"))
	if err != nil {
		a.fail(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, c)
}

func (a *API) fail(w http.ResponseWriter, err error) {
	if httptypes.StatusFromError(err) >= http.StatusInternalServerError {
		a.logger.Errorf("colors request failed: %v", err)
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
