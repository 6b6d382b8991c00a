// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package changefeed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/mock/gomock"

	"github.com/canonical/team-planner/internal/authorization"
	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
	"github.com/canonical/team-planner/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package changefeed -destination ./mock_interfaces.go -source=./interfaces.go

func newTestServer(t *testing.T, feed SubscriberInterface, authz AuthorizerInterface) *httptest.Server {
	t.Helper()

	logger := logging.NewNoopLogger()
	api := NewAPI(feed, authz, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

	mux := chi.NewMux()
	api.RegisterEndpoints(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func TestAPI_OrganizationChangesForbidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuthz := NewMockAuthorizerInterface(ctrl)
	mockAuthz.EXPECT().Actor(gomock.Any()).Return("user_x", nil)
	mockAuthz.EXPECT().ResolveAccess(gomock.Any(), "user_x", "o-1").Return(nil, authorization.ErrForbidden)

	srv := newTestServer(t, NewNoopFeed(), mockAuthz)

	resp, err := http.Get(srv.URL + "/api/v0/organizations/o-1/changes")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %d", resp.StatusCode)
	}
}

func TestAPI_UserChangesUnauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuthz := NewMockAuthorizerInterface(ctrl)
	mockAuthz.EXPECT().Actor(gomock.Any()).Return("", authorization.ErrUnauthorized)

	srv := newTestServer(t, NewNoopFeed(), mockAuthz)

	resp, err := http.Get(srv.URL + "/api/v0/me/changes")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAPI_OrganizationChangesStream(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	feed, _ := newTestRedisFeed(t)

	mockAuthz := NewMockAuthorizerInterface(ctrl)
	mockAuthz.EXPECT().Actor(gomock.Any()).Return("user_b", nil)
	mockAuthz.EXPECT().ResolveAccess(gomock.Any(), "user_b", "o-1").Return(
		&authorization.Access{UserID: "user_b", OrganizationID: "o-1", Role: types.RoleMember, Member: true}, nil,
	)

	srv := newTestServer(t, feed, mockAuthz)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v0/organizations/o-1/changes"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// the subscription is confirmed before the upgrade completes
	feed.Publish(context.Background(), Change{Kind: KindTask, Op: OpUpdated, ID: "t-1", OrganizationID: "o-1"})

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var c Change
	if err := json.Unmarshal(payload, &c); err != nil {
		t.Fatalf("failed to decode change: %v", err)
	}

	if c.ID != "t-1" || c.Op != OpUpdated {
		t.Errorf("unexpected change %+v", c)
	}
}
