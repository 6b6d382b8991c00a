// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"go.uber.org/zap"
)

const (
	securityLevel = "security"

	eventAuthzFailure    = "authz_fail"
	eventAuthnFailure    = "authn_fail"
	eventRoleChanged     = "user_role_changed"
	eventWebhookRejected = "webhook_rejected"
	eventSysStartup      = "sys_startup"
	eventSysShutdown     = "sys_shutdown"
)

var _ SecurityLoggerInterface = (*SecurityLogger)(nil)

type SecurityLogger struct {
	l *zap.Logger
}

func (s *SecurityLogger) log(event, description string, fields ...zap.Field) {
	fields = append(
		[]zap.Field{
			zap.String("type", securityLevel),
			zap.String("event", event),
			zap.String("description", description),
		},
		fields...,
	)
	s.l.Info(description, fields...)
}

func (s *SecurityLogger) AuthzFailure(subject, resource string) {
	s.log(
		eventAuthzFailure+":"+subject+","+resource,
		"authorization failure",
		zap.String("subject", subject),
		zap.String("resource", resource),
	)
}

func (s *SecurityLogger) AuthzFailureNotMember(subject, organizationID string) {
	s.log(
		eventAuthzFailure+":"+subject+",organization:"+organizationID,
		"user is not a member of the organization",
		zap.String("subject", subject),
		zap.String("organization_id", organizationID),
	)
}

func (s *SecurityLogger) AuthnFailure(reason string) {
	s.log(eventAuthnFailure, "authentication failure", zap.String("reason", reason))
}

func (s *SecurityLogger) RoleChanged(actor, subject, organizationID, role string) {
	s.log(
		eventRoleChanged+":"+subject+","+role,
		"membership role changed",
		zap.String("actor", actor),
		zap.String("subject", subject),
		zap.String("organization_id", organizationID),
		zap.String("role", role),
	)
}

func (s *SecurityLogger) WebhookRejected(reason string) {
	s.log(eventWebhookRejected, "webhook rejected", zap.String("reason", reason))
}

func (s *SecurityLogger) SystemStartup() {
	s.log(eventSysStartup, "service started")
}

func (s *SecurityLogger) SystemShutdown() {
	s.log(eventSysShutdown, "service shutting down")
}

func newSecurityLogger(l *zap.Logger) *SecurityLogger {
	return &SecurityLogger{l: l}
}
