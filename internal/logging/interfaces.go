// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

type LoggerInterface interface {
	Errorf(string, ...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Debugf(string, ...interface{})
	Fatalf(string, ...interface{})
	Error(...interface{})
	Info(...interface{})
	Warn(...interface{})
	Debug(...interface{})
	Fatal(...interface{})
	Errorw(string, ...interface{})
	Infow(string, ...interface{})
	Warnw(string, ...interface{})
	Debugw(string, ...interface{})
	Security() SecurityLoggerInterface
	Sync() error
}

// SecurityLoggerInterface records security relevant events in a fixed schema
// so they can be shipped to a SIEM independently of the application log level.
type SecurityLoggerInterface interface {
	AuthzFailure(subject, resource string)
	AuthzFailureNotMember(subject, organizationID string)
	AuthnFailure(reason string)
	RoleChanged(actor, subject, organizationID, role string)
	WebhookRejected(reason string)
	SystemStartup()
	SystemShutdown()
}
