// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ LoggerInterface = (*Logger)(nil)

type Logger struct {
	*zap.SugaredLogger

	security *SecurityLogger
}

func (l *Logger) Security() SecurityLoggerInterface {
	return l.security
}

// NewLogger creates a new default logger
// it will need to be closed with
// ```
// defer logger.Desugar().Sync()
// ```
// to make sure all has been piped out before terminating
func NewLogger(l string) *Logger {
	var lvl string

	val := strings.ToLower(l)

	switch val {
	case "debug", "error", "warn", "info":
		lvl = val
	default:
		lvl = "error"
	}

	c := zap.NewProductionConfig()

	if lvl == "debug" {
		c = zap.NewDevelopmentConfig()
		c.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	c.Level = zap.NewAtomicLevelAt(levelFromString(lvl))
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	c.EncoderConfig.TimeKey = "@timestamp"

	lgr, err := c.Build()
	if err != nil {
		panic(err)
	}

	// security events are emitted regardless of the configured level
	c.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	slgr, err := c.Build()
	if err != nil {
		panic(err)
	}

	return &Logger{
		SugaredLogger: lgr.Sugar(),
		security:      newSecurityLogger(slgr),
	}
}

func levelFromString(lvl string) zapcore.Level {
	switch lvl {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	default:
		return zap.ErrorLevel
	}
}
