// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDebugLogger(t *testing.T) {
	l := NewLogger("DEBUG")
	if !l.Desugar().Core().Enabled(zap.DebugLevel) {
		t.Error("expected debug level to be enabled")
	}
}

func TestInvalidLevel(t *testing.T) {
	l := NewLogger("invalid")
	if l.Desugar().Core().Enabled(zap.WarnLevel) {
		t.Error("expected invalid level to fall back to error")
	}
	if !l.Desugar().Core().Enabled(zap.ErrorLevel) {
		t.Error("expected error level to be enabled")
	}
}

func TestSecurityLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := newSecurityLogger(zap.New(core))

	s.RoleChanged("user-1", "user-2", "org-1", "admin")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["type"] != "security" {
		t.Errorf("expected type security, got %v", fields["type"])
	}
	if fields["role"] != "admin" {
		t.Errorf("expected role admin, got %v", fields["role"])
	}
	if fields["organization_id"] != "org-1" {
		t.Errorf("expected organization_id org-1, got %v", fields["organization_id"])
	}
}

func TestNoopLogger(t *testing.T) {
	l := NewNoopLogger()
	l.Infof("nothing %s", "happens")
	l.Security().AuthzFailure("user", "resource")
}
