// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
	"github.com/canonical/team-planner/internal/types"
)

const (
	pageSize       = 100
	defaultTimeout = 10 * time.Second
)

var (
	ErrUpstream = errors.New("identity provider request failed")
	ErrNotFound = errors.New("identity provider resource not found")
)

type Client struct {
	baseURL string
	client  *http.Client

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (c *Client) ListUserMemberships(ctx context.Context, userID string) ([]OrganizationMembership, error) {
	ctx, span := c.tracer.Start(ctx, "idp.Client.ListUserMemberships")
	defer span.End()

	return c.listMemberships(ctx, "/users/"+url.PathEscape(userID)+"/organization_memberships")
}

func (c *Client) ListOrganizationMemberships(ctx context.Context, organizationID string) ([]OrganizationMembership, error) {
	ctx, span := c.tracer.Start(ctx, "idp.Client.ListOrganizationMemberships")
	defer span.End()

	return c.listMemberships(ctx, "/organizations/"+url.PathEscape(organizationID)+"/memberships")
}

func (c *Client) UpdateMembershipRole(ctx context.Context, organizationID, userID string, role types.Role) (*OrganizationMembership, error) {
	ctx, span := c.tracer.Start(ctx, "idp.Client.UpdateMembershipRole")
	defer span.End()

	body, err := json.Marshal(updateMembershipRequest{Role: ProviderRole(role)})
	if err != nil {
		return nil, err
	}

	path := "/organizations/" + url.PathEscape(organizationID) + "/memberships/" + url.PathEscape(userID)

	membership := new(OrganizationMembership)
	if err := c.do(ctx, http.MethodPatch, path, nil, body, membership); err != nil {
		return nil, err
	}

	return membership, nil
}

func (c *Client) listMemberships(ctx context.Context, path string) ([]OrganizationMembership, error) {
	memberships := make([]OrganizationMembership, 0)

	for offset := 0; ; offset += pageSize {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(pageSize))
		query.Set("offset", strconv.Itoa(offset))

		page := new(membershipList)
		if err := c.do(ctx, http.MethodGet, path, query, nil, page); err != nil {
			return nil, err
		}

		memberships = append(memberships, page.Data...)

		if len(page.Data) < pageSize || (page.TotalCount > 0 && len(memberships) >= page.TotalCount) {
			return memberships, nil
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	c.observe(method, path, resp, time.Since(start))

	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUpstream, method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	case resp.StatusCode >= 300:
		// keep the provider message for the logs, bounded
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Errorf("identity provider %s %s returned %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))

		return fmt.Errorf("%w: %s %s returned %d", ErrUpstream, method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode %s %s: %v", ErrUpstream, method, path, err)
	}

	return nil
}

func (c *Client) observe(method, path string, resp *http.Response, elapsed time.Duration) {
	status := "error"
	if resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}

	tags := map[string]string{"route": "idp:" + method, "status": status}
	if err := c.monitor.SetResponseTimeMetric(tags, elapsed.Seconds()); err != nil {
		c.logger.Debugf("failed to record identity provider latency for %s: %v", path, err)
	}

	available := 1.0
	if resp == nil || resp.StatusCode >= 500 {
		available = 0
	}

	if err := c.monitor.SetDependencyAvailability(map[string]string{"component": "idp"}, available); err != nil {
		c.logger.Debugf("failed to record identity provider availability: %v", err)
	}
}

// NewClient authenticates with the client credentials grant when a client id
// is configured, with the static secret key otherwise.
func NewClient(cfg Config, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Client {
	c := new(Client)

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	base := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   timeout,
	}

	// oauth2 picks the base client up from the context
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	switch {
	case cfg.ClientID != "":
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		c.client = cc.Client(ctx)
	case cfg.SecretKey != "":
		c.client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.SecretKey}))
	default:
		logger.Warn("identity provider credentials not configured, requests are sent unauthenticated")
		c.client = base
	}

	c.client.Timeout = timeout
	c.baseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	c.tracer = tracer
	c.monitor = monitor
	c.logger = logger

	return c
}
