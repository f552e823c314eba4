// SPDX-FileCopyrightText: 2024 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package sslbundle

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/telekom/mail-dispatcher/pkg/config"
)

// ErrBundleNotFound is returned for names that are not configured.
var ErrBundleNotFound = errors.New("ssl bundle not found")

// Registry resolves named trust material into a TLS client configuration.
type Registry interface {
	Bundle(name string) (*tls.Config, error)
}

// Manager builds TLS configurations from PEM files referenced in config.
// Built configurations are cached per name; callers receive clones.
type Manager struct {
	bundles map[string]config.SSLBundle

	mu    sync.RWMutex
	cache map[string]*tls.Config
}

func NewManager(bundles map[string]config.SSLBundle) *Manager {
	copied := make(map[string]config.SSLBundle, len(bundles))
	for k, v := range bundles {
		copied[k] = v
	}
	return &Manager{bundles: copied, cache: make(map[string]*tls.Config)}
}

// Bundle implements Registry.
func (m *Manager) Bundle(name string) (*tls.Config, error) {
	m.mu.RLock()
	cached, ok := m.cache[name]
	m.mu.RUnlock()
	if ok {
		return cached.Clone(), nil
	}

	b, ok := m.bundles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBundleNotFound, name)
	}
	cfg, err := Build(b)
	if err != nil {
		return nil, fmt.Errorf("ssl bundle %q: %w", name, err)
	}

	m.mu.Lock()
	m.cache[name] = cfg
	m.mu.Unlock()
	return cfg.Clone(), nil
}

// Build turns a bundle definition into a TLS client configuration.
func Build(b config.SSLBundle) (*tls.Config, error) {
	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		ServerName:         b.ServerName,
		InsecureSkipVerify: b.InsecureSkipVerify, //nolint:gosec // opt-in per bundle
	}

	if b.CAFile != "" {
		pem, err := os.ReadFile(b.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file %s: %w", b.CAFile, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in CA file %s", b.CAFile)
		}
		cfg.RootCAs = pool
	}

	switch {
	case b.CertFile != "" && b.KeyFile != "":
		cert, err := tls.LoadX509KeyPair(b.CertFile, b.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	case b.CertFile != "" || b.KeyFile != "":
		return nil, errors.New("certFile and keyFile must be set together")
	}

	return cfg, nil
}
