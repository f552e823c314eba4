// SPDX-FileCopyrightText: 2024 Deutsche Telekom AG
// SPDX-License-Identifier: Apache-2.0

package mail

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/telekom/mail-dispatcher/pkg/config"
	"github.com/telekom/mail-dispatcher/pkg/i18n"
	"github.com/telekom/mail-dispatcher/pkg/sslbundle"
	"github.com/telekom/mail-dispatcher/pkg/tenant"
)

// Components are a Dispatcher and the registries it was built from.
type Components struct {
	Dispatcher *Dispatcher
	Tenants    *tenant.Manager
	Messages   *i18n.Catalog
	Bundles    *sslbundle.Manager
}

// NewFromConfig wires a Dispatcher from a loaded configuration. The tenant
// file is only read when tenants.file is set.
func NewFromConfig(cfg config.Config, logger *zap.SugaredLogger) (*Components, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	tenants, err := tenant.NewManager()
	if err != nil {
		return nil, err
	}
	tenants.WithLogger(logger)
	if cfg.Tenants.File != "" {
		if err := tenants.Reload(cfg.Tenants.File); err != nil {
			return nil, fmt.Errorf("loading tenants: %w", err)
		}
	}

	messages, err := i18n.New(cfg.Messages.DefaultLanguage, cfg.Messages.Bundles)
	if err != nil {
		return nil, fmt.Errorf("loading message bundles: %w", err)
	}

	bundles := sslbundle.NewManager(cfg.SSL.Bundles)

	d := NewDispatcher(cfg.Mail, tenants, messages).
		WithLogger(logger).
		WithSSLBundles(bundles)

	return &Components{Dispatcher: d, Tenants: tenants, Messages: messages, Bundles: bundles}, nil
}
