// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package config

import (
	"time"
)

// EnvSpec is the basic environment configuration setup needed for the app to start
type EnvSpec struct {
	OtelGRPCEndpoint string `envconfig:"otel_grpc_endpoint"`
	OtelHTTPEndpoint string `envconfig:"otel_http_endpoint"`
	TracingEnabled   bool   `envconfig:"tracing_enabled" default:"true"`

	LogLevel string `envconfig:"log_level" default:"error"`
	Debug    bool   `envconfig:"debug" default:"false"`

	Port int `envconfig:"port" default:"8080"`

	DSN string `envconfig:"DSN" required:"true"`

	DBMaxConns        int32         `envconfig:"db_max_conns" default:"25"`
	DBMinConns        int32         `envconfig:"db_min_conns" default:"2"`
	DBMaxConnLifetime time.Duration `envconfig:"db_max_conn_lifetime" default:"1h"`
	DBMaxConnIdleTime time.Duration `envconfig:"db_max_conn_idle_time" default:"30m"`

	AuthenticationEnabled bool   `envconfig:"authentication_enabled" default:"true"`
	OIDCIssuer            string `envconfig:"oidc_issuer"`
	OIDCJWKSURL           string `envconfig:"oidc_jwks_url"`
	JWTSigningSecret      string `envconfig:"jwt_signing_secret"`

	IdPAPIURL       string `envconfig:"idp_api_url" default:"https://api.clerk.com/v1"`
	IdPSecretKey    string `envconfig:"idp_secret_key"`
	IdPClientID     string `envconfig:"idp_client_id"`
	IdPClientSecret string `envconfig:"idp_client_secret"`
	IdPTokenURL     string `envconfig:"idp_token_url"`

	WebhookSigningSecret string `envconfig:"webhook_signing_secret"`

	RedisAddr     string `envconfig:"redis_addr"`
	RedisPassword string `envconfig:"redis_password"`
	RedisDB       int    `envconfig:"redis_db" default:"0"`

	ReconcileSchedule    string        `envconfig:"reconcile_schedule" default:"@every 15m"`
	ReconcileConcurrency int           `envconfig:"reconcile_concurrency" default:"4"`
	ReconcileTimeout     time.Duration `envconfig:"reconcile_timeout" default:"30s"`

	CORSAllowedOrigins []string `envconfig:"cors_allowed_origins" default:"*"`
}

const redacted = "[redacted]"

// Redacted returns a copy safe to log, with credentials masked.
func (s EnvSpec) Redacted() EnvSpec {
	for _, v := range []*string{
		&s.DSN,
		&s.JWTSigningSecret,
		&s.IdPSecretKey,
		&s.IdPClientSecret,
		&s.WebhookSigningSecret,
		&s.RedisPassword,
	} {
		if *v != "" {
			*v = redacted
		}
	}

	return s
}
