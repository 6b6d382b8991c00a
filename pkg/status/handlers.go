// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package status

import (
	"context"
	"net/http"
	"runtime/debug"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	httptypes "github.com/canonical/team-planner/internal/http/types"
	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
	"github.com/canonical/team-planner/internal/version"
)

const pingTimeout = 2 * time.Second

type Status struct {
	Status    string     `json:"status"`
	Version   string     `json:"version"`
	BuildInfo *BuildInfo `json:"build_info,omitempty"`
}

type BuildInfo struct {
	GoVersion string `json:"go_version"`
	Revision  string `json:"revision,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
}

type Readiness struct {
	Ready        bool              `json:"ready"`
	Dependencies map[string]string `json:"dependencies"`
}

type API struct {
	dependencies map[string]PingerInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Get("/api/v0/status", a.alive)
	mux.Get("/api/v0/ready", a.ready)
}

func (a *API) alive(w http.ResponseWriter, r *http.Request) {
	httptypes.WriteJSON(
		w,
		http.StatusOK,
		Status{
			Status:    "ok",
			Version:   version.Version,
			BuildInfo: buildInfo(),
		},
	)
}

func (a *API) ready(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "status.API.ready")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	names := make([]string, 0, len(a.dependencies))
	for name := range a.dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	readiness := Readiness{Ready: true, Dependencies: make(map[string]string, len(names))}

	for _, name := range names {
		available := 1.0

		if err := a.dependencies[name].Ping(ctx); err != nil {
			a.logger.Warnf("dependency %s is not ready: %v", name, err)
			readiness.Ready = false
			readiness.Dependencies[name] = "unavailable"
			available = 0
		} else {
			readiness.Dependencies[name] = "ok"
		}

		_ = a.monitor.SetDependencyAvailability(map[string]string{"component": name}, available)
	}

	code := http.StatusOK
	if !readiness.Ready {
		code = http.StatusServiceUnavailable
	}

	httptypes.WriteJSON(w, code, readiness)
}

func buildInfo() *BuildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}

	b := &BuildInfo{GoVersion: info.GoVersion}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			b.Revision = s.Value
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}

	return b
}

func NewAPI(dependencies map[string]PingerInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	a := new(API)

	a.dependencies = dependencies

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
