// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	middleware "github.com/go-chi/chi/v5/middleware"

	"github.com/canonical/team-planner/internal/db"
	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
)

// APIInterface is implemented by every package exposing HTTP endpoints.
type APIInterface interface {
	RegisterEndpoints(mux chi.Router)
}

type RouterConfig struct {
	AllowedOrigins []string

	// Public endpoints skip authentication: probes, metrics and signed webhooks.
	Public []APIInterface
	// Protected endpoints require a session token.
	Protected []APIInterface

	Authenticate func(http.Handler) http.Handler
}

func NewRouter(
	cfg RouterConfig,
	dbClient db.DBClientInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) http.Handler {
	router := chi.NewMux()

	middlewares := make(chi.Middlewares, 0)
	middlewares = append(
		middlewares,
		middleware.RequestID,
		middleware.Recoverer,
		monitoring.NewMiddleware(monitor, logger).ResponseTime(),
		middlewareCORS(cfg.AllowedOrigins),
		db.TransactionMiddleware(dbClient, logger),
	)

	router.Use(middlewares...)

	for _, api := range cfg.Public {
		api.RegisterEndpoints(router)
	}

	router.Group(func(r chi.Router) {
		if cfg.Authenticate != nil {
			r.Use(cfg.Authenticate)
		}

		for _, api := range cfg.Protected {
			api.RegisterEndpoints(r)
		}
	})

	return tracing.NewMiddleware(monitor, logger).OpenTelemetry(router)
}
