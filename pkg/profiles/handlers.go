// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package profiles

import (
	"net/http"
	"strings"

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
	mux.Put("/api/v0/profiles/me", a.upsertMe)
	mux.Get("/api/v0/profiles", a.list)
	mux.Put("/api/v0/profiles/{externalID}", a.upsert)
	mux.Get("/api/v0/profiles/{externalID}", a.get)
}

func (a *API) upsertMe(w http.ResponseWriter, r *http.Request) {
	p, err := a.service.UpsertFromSession(r.Context())
	if err != nil {
		a.fail(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, p)
}

func (a *API) upsert(w http.ResponseWriter, r *http.Request) {
	req := new(UpsertProfileRequest)
	if err := httptypes.DecodeJSON(r, req); err != nil {
		httptypes.WriteError(w, err)
		return
	}

	req.ExternalID = chi.URLParam(r, "externalID")

	if err := a.validate.Struct(req); err != nil {
		httptypes.WriteError(w, err)
		return
	}

	p, err := a.service.Upsert(r.Context(), req)
	if err != nil {
		a.fail(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, p)
}

func (a *API) get(w http.ResponseWriter, r *http.Request) {
	p, err := a.service.GetByExternalID(r.Context(), chi.URLParam(r, "externalID"))
	if err != nil {
		a.fail(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, p)
}

// list takes a comma separated ids query parameter.
func (a *API) list(w http.ResponseWriter, r *http.Request) {
	ids := make([]string, 0)
	for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	profiles, err := a.service.ListByExternalIDs(r.Context(), ids)
	if err != nil {
		a.fail(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, profiles)
}

func (a *API) fail(w http.ResponseWriter, err error) {
	if httptypes.StatusFromError(err) >= http.StatusInternalServerError {
		a.logger.Errorf("profiles request failed: %v", err)
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
