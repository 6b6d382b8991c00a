// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tasks

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
	mux.Get("/api/v0/tasks", a.listPersonal)
	mux.Post("/api/v0/tasks", a.create)
	mux.Patch("/api/v0/tasks/{id}", a.update)
	mux.Delete("/api/v0/tasks/{id}", a.delete)
	mux.Get("/api/v0/organizations/{id}/tasks", a.listForOrganization)
}

func (a *API) listPersonal(w http.ResponseWriter, r *http.Request) {
	var organizationID *string
	if o := r.URL.Query().Get("organization_id"); o != "" {
		organizationID = &o
	}

	tasks, err := a.service.ListPersonal(r.Context(), r.URL.Query().Get("user_id"), organizationID)
	if err != nil {
		a.fail(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, tasks)
}

func (a *API) listForOrganization(w http.ResponseWriter, r *http.Request) {
	tasks, err := a.service.ListForOrganization(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, tasks)
}

func (a *API) create(w http.ResponseWriter, r *http.Request) {
	req := new(CreateTaskRequest)
	if err := httptypes.DecodeJSON(r, req); err != nil {
		httptypes.WriteError(w, err)
		return
	}

	if err := a.validate.Struct(req); err != nil {
		httptypes.WriteError(w, err)
		return
	}

	task, err := a.service.Create(r.Context(), req)
	if err != nil {
		a.fail(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusCreated, task)
}

func (a *API) update(w http.ResponseWriter, r *http.Request) {
	var patch types.TaskPatch
	if err := httptypes.DecodeJSON(r, &patch); err != nil {
		httptypes.WriteError(w, err)
		return
	}

	if err := a.validate.Struct(&patch); err != nil {
		httptypes.WriteError(w, err)
		return
	}

	task, err := a.service.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		a.fail(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, task)
}

func (a *API) delete(w http.ResponseWriter, r *http.Request) {
	if err := a.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) fail(w http.ResponseWriter, err error) {
	if httptypes.StatusFromError(err) >= http.StatusInternalServerError {
		a.logger.Errorf("tasks request failed: %v", err)
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
