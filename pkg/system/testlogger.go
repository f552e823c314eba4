// SPDX-FileCopyrightText: 2024 Deutsche Telekom AG
// SPDX-License-Identifier: Apache-2.0

package system

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// NewTestLogger returns the debug process logger for tests, or a no-op
// logger when it cannot be built.
func NewTestLogger() *zap.SugaredLogger {
	logger, err := NewLogger(true)
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

// NewObservedLogger returns a logger that keeps entries at or above level in
// memory so tests can assert on what a dispatch logged.
func NewObservedLogger(level zapcore.Level) (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core).Sugar(), logs
}
