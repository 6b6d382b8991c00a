// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package changefeed

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/canonical/team-planner/internal/authorization"
	httptypes "github.com/canonical/team-planner/internal/http/types"
	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type API struct {
	feed     SubscriberInterface
	authz    AuthorizerInterface
	upgrader websocket.Upgrader

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Get("/api/v0/organizations/{id}/changes", a.organizationChanges)
	mux.Get("/api/v0/me/changes", a.userChanges)
}

func (a *API) organizationChanges(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "changefeed.API.organizationChanges")
	defer span.End()

	organizationID := chi.URLParam(r, "id")

	actor, err := a.authz.Actor(ctx)
	if err != nil {
		httptypes.WriteError(w, err)
		return
	}

	access, err := a.authz.ResolveAccess(ctx, actor, organizationID)
	if err != nil {
		httptypes.WriteError(w, err)
		return
	}

	if !authorization.CanReadOrganization(access) {
		httptypes.WriteError(w, authorization.ErrForbidden)
		return
	}

	a.stream(w, r, OrganizationChannel(organizationID))
}

func (a *API) userChanges(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "changefeed.API.userChanges")
	defer span.End()

	actor, err := a.authz.Actor(ctx)
	if err != nil {
		httptypes.WriteError(w, err)
		return
	}

	a.stream(w, r, UserChannel(actor))
}

// stream subscribes before upgrading so a broken feed still answers with a
// plain HTTP error, then relays payloads until either side goes away.
func (a *API) stream(w http.ResponseWriter, r *http.Request, channel string) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	messages, err := a.feed.Subscribe(ctx, channel)
	if err != nil {
		a.logger.Errorf("failed to subscribe to %s: %v", channel, err)
		httptypes.WriteError(w, err)
		return
	}

	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already answered the client
		a.logger.Debugf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// clients only ever send control frames, reading drives the pong handler
	// and notices a closed socket
	go func() {
		defer cancel()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait),
			)
			return
		case payload, ok := <-messages:
			if !ok {
				return
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				a.logger.Debugf("failed to write change to %s: %v", channel, err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// NewAPI builds the change stream endpoints. Requests are authenticated by
// the router, so any origin is accepted on upgrade.
func NewAPI(feed SubscriberInterface, authz AuthorizerInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	a := new(API)

	a.feed = feed
	a.authz = authz
	a.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(*http.Request) bool { return true },
	}

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
