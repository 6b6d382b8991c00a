// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/team-planner/internal/authorization"
	httptypes "github.com/canonical/team-planner/internal/http/types"
	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
	"github.com/canonical/team-planner/internal/types"
)

const maxPayload = 1 << 20

type API struct {
	service  ServiceInterface
	verifier VerifierInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Post("/webhooks/identity", a.identity)
}

func (a *API) identity(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayload))
	if err != nil {
		httptypes.WriteError(w, fmt.Errorf("%w: %v", types.ErrInvalidInput, err))
		return
	}

	if err := a.verifier.Verify(r.Header, body); err != nil {
		a.logger.Security().WebhookRejected(err.Error())
		httptypes.WriteError(w, fmt.Errorf("%w: %v", authorization.ErrUnauthorized, err))
		return
	}

	evt := new(Event)
	if err := json.Unmarshal(body, evt); err != nil {
		httptypes.WriteError(w, fmt.Errorf("%w: %v", types.ErrInvalidInput, err))
		return
	}

	if err := a.service.Handle(r.Context(), evt); err != nil {
		if httptypes.StatusFromError(err) >= http.StatusInternalServerError {
			a.logger.Errorf("failed to handle %s event: %v", evt.Type, err)
		}

		httptypes.WriteError(w, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, httptypes.Response{Message: "ok", Status: http.StatusOK})
}

func NewAPI(service ServiceInterface, verifier VerifierInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	a := new(API)

	a.service = service
	a.verifier = verifier

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
