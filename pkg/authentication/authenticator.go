// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"fmt"

	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
)

// NewJWTAuthenticator initializes a session token verifier. A signing secret
// selects HS256 verification, otherwise keys come from the JWKS URL or from
// OIDC discovery on the issuer.
func NewJWTAuthenticator(
	ctx context.Context,
	issuer string,
	jwksURL string,
	signingSecret string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) (TokenVerifierInterface, error) {
	if signingSecret != "" {
		logger.Info("JWT authentication is enabled with a shared signing secret")
		return NewHMACVerifier(signingSecret, issuer, tracer, monitor, logger), nil
	}

	if issuer == "" {
		return nil, fmt.Errorf("issuer is required for JWT authentication")
	}

	if jwksURL != "" {
		logger.Infof("Using manual JWKS URL: %s", jwksURL)
		idTokenVerifier, err := NewProviderWithJWKS(ctx, issuer, jwksURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create JWKS verifier: %v", err)
		}
		logger.Info("JWT authentication is enabled with manual JWKS URL")
		return NewJWTVerifierDirect(idTokenVerifier, tracer, monitor, logger), nil
	}

	logger.Infof("Using OIDC discovery for issuer: %s", issuer)
	provider, err := NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %v", err)
	}
	logger.Info("JWT authentication is enabled with OIDC discovery")

	return NewJWTVerifier(provider, tracer, monitor, logger), nil
}
