// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
)

// HMACVerifier accepts HS256 session tokens signed with a shared secret, used
// when the identity provider is configured with a symmetric signing key.
type HMACVerifier struct {
	secret []byte
	issuer string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

type hmacClaims struct {
	GivenName  string `json:"given_name"`
	FirstName  string `json:"first_name"`
	FamilyName string `json:"family_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`

	jwt.RegisteredClaims
}

func (v *HMACVerifier) VerifyToken(ctx context.Context, rawToken string) (*Principal, error) {
	_, span := v.tracer.Start(ctx, "authentication.HMACVerifier.VerifyToken")
	defer span.End()

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := new(hmacClaims)
	if _, err := jwt.ParseWithClaims(rawToken, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...); err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	session := sessionClaims{
		Subject:    claims.Subject,
		GivenName:  claims.GivenName,
		FirstName:  claims.FirstName,
		FamilyName: claims.FamilyName,
		LastName:   claims.LastName,
		Email:      claims.Email,
	}

	return session.principal()
}

func NewHMACVerifier(
	secret string,
	issuer string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *HMACVerifier {
	return &HMACVerifier{
		secret:  []byte(secret),
		issuer:  issuer,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}
