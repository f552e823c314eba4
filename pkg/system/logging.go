// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package system

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger: JSON production output by default,
// human readable development output when debug is set. Timestamps are UTC
// RFC3339 under the "ts" key.
func NewLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	// Disable automatic stacktraces for non-fatal levels to avoid noisy traces in WARN/INFO logs
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format(time.RFC3339))
	}
	cfg.EncoderConfig.TimeKey = "ts"
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return logger, nil
}

// RequestFields returns key/value pairs describing a dispatch request,
// suitable for SugaredLogger.With. Tenant is omitted when blank.
func RequestFields(tenant, locale string, recipients int) []interface{} {
	fields := []interface{}{"recipients", recipients}
	if tenant != "" {
		fields = append(fields, "tenant", tenant)
	}
	if locale != "" {
		fields = append(fields, "locale", locale)
	}
	return fields
}
