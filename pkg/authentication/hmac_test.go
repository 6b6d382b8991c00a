// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	return token
}

func TestHMACVerifier(t *testing.T) {
	logger := logging.NewNoopLogger()
	verifier := NewHMACVerifier(testSecret, "https://clerk.example.com", tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

	valid := jwt.MapClaims{
		"sub":        "user_2abc",
		"iss":        "https://clerk.example.com",
		"exp":        time.Now().Add(time.Hour).Unix(),
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.com",
	}

	tests := []struct {
		name      string
		token     string
		expectErr bool
		expected  Principal
	}{
		{
			name:     "valid token with short claim names",
			token:    sign(t, jwt.SigningMethodHS256, []byte(testSecret), valid),
			expected: Principal{UserID: "user_2abc", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		},
		{
			name: "standard claim names win",
			token: sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
				"sub":         "user_2abc",
				"iss":         "https://clerk.example.com",
				"exp":         time.Now().Add(time.Hour).Unix(),
				"given_name":  "Grace",
				"first_name":  "Ada",
				"family_name": "Hopper",
			}),
			expected: Principal{UserID: "user_2abc", FirstName: "Grace", LastName: "Hopper"},
		},
		{
			name:      "wrong secret",
			token:     sign(t, jwt.SigningMethodHS256, []byte("another-secret"), valid),
			expectErr: true,
		},
		{
			name: "expired",
			token: sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
				"sub": "user_2abc",
				"iss": "https://clerk.example.com",
				"exp": time.Now().Add(-time.Minute).Unix(),
			}),
			expectErr: true,
		},
		{
			name: "missing expiry",
			token: sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
				"sub": "user_2abc",
				"iss": "https://clerk.example.com",
			}),
			expectErr: true,
		},
		{
			name: "other issuer",
			token: sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
				"sub": "user_2abc",
				"iss": "https://evil.example.com",
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
			expectErr: true,
		},
		{
			name: "missing subject",
			token: sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
				"iss": "https://clerk.example.com",
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
			expectErr: true,
		},
		{
			name:      "unsigned algorithm",
			token:     sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid),
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := verifier.VerifyToken(context.Background(), tt.token)

			if tt.expectErr {
				if err == nil {
					t.Fatalf("expected error, got principal %+v", p)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if *p != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, *p)
			}
		})
	}
}

func TestNoopVerifier(t *testing.T) {
	p, err := NewNoopVerifier().VerifyToken(context.Background(), "user_dev")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.UserID != "user_dev" {
		t.Errorf("expected user_dev, got %s", p.UserID)
	}

	if _, err := NewNoopVerifier().VerifyToken(context.Background(), ""); err == nil {
		t.Error("expected an error for an empty token")
	}
}

func TestPrincipalFromContext(t *testing.T) {
	if _, ok := PrincipalFromContext(context.Background()); ok {
		t.Error("expected no principal on an empty context")
	}

	if _, ok := PrincipalFromContext(WithPrincipal(context.Background(), &Principal{})); ok {
		t.Error("expected a principal without user id to be ignored")
	}

	ctx := WithPrincipal(context.Background(), &Principal{UserID: "user_a"})
	if id, ok := GetUserID(ctx); !ok || id != "user_a" {
		t.Errorf("expected user_a, got %q", id)
	}
}
