// SPDX-FileCopyrightText: 2024 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package tenant

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"sigs.k8s.io/yaml"
)

// EmailCommunicationPolicy overrides the outbound mail server for a tenant.
type EmailCommunicationPolicy struct {
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	From     string `json:"from,omitempty"`
}

// CommunicationPolicy bundles the outbound-message overrides of a tenant.
type CommunicationPolicy struct {
	Email *EmailCommunicationPolicy `json:"emailCommunicationPolicy,omitempty"`
}

// Definition is a single tenant.
type Definition struct {
	ID                  string               `json:"id"`
	Description         string               `json:"description,omitempty"`
	CommunicationPolicy *CommunicationPolicy `json:"communicationPolicy,omitempty"`
}

// EmailPolicy returns the tenant's email policy, or nil.
func (d *Definition) EmailPolicy() *EmailCommunicationPolicy {
	if d == nil || d.CommunicationPolicy == nil {
		return nil
	}
	return d.CommunicationPolicy.Email
}

// Registry looks tenants up by identifier.
type Registry interface {
	FindTenant(ctx context.Context, id string) (*Definition, bool)
}

// FindEmailPolicy resolves the email communication policy of tenant id.
// A nil registry, blank id, unknown tenant or tenant without policy all
// yield nil.
func FindEmailPolicy(ctx context.Context, r Registry, id string) *EmailCommunicationPolicy {
	if r == nil || strings.TrimSpace(id) == "" {
		return nil
	}
	def, ok := r.FindTenant(ctx, id)
	if !ok {
		return nil
	}
	return def.EmailPolicy()
}

// Manager is an in-memory Registry that can be reloaded from a file.
type Manager struct {
	logger  *zap.SugaredLogger
	mu      sync.RWMutex
	tenants map[string]*Definition
}

// NewManager creates a Manager holding defs.
func NewManager(defs ...Definition) (*Manager, error) {
	m := &Manager{logger: zap.NewNop().Sugar()}
	if err := m.Replace(defs); err != nil {
		return nil, err
	}
	return m, nil
}

// WithLogger sets the logger for this manager
func (m *Manager) WithLogger(logger *zap.SugaredLogger) *Manager {
	m.logger = logger.Named("tenants")
	return m
}

// FindTenant implements Registry.
func (m *Manager) FindTenant(_ context.Context, id string) (*Definition, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	def, ok := m.tenants[id]
	return def, ok
}

// List returns the tenants ordered by ID.
func (m *Manager) List() []Definition {
	m.mu.RLock()
	out := make([]Definition, 0, len(m.tenants))
	for _, d := range m.tenants {
		out = append(out, *d)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Replace swaps the registry contents. Duplicate or blank IDs are rejected
// and leave the current contents untouched.
func (m *Manager) Replace(defs []Definition) error {
	next := make(map[string]*Definition, len(defs))
	for i := range defs {
		d := defs[i]
		id := strings.TrimSpace(d.ID)
		if id == "" {
			return fmt.Errorf("tenant at index %d has no id", i)
		}
		if _, dup := next[id]; dup {
			return fmt.Errorf("duplicate tenant id %q", id)
		}
		d.ID = id
		next[id] = &d
	}

	m.mu.Lock()
	m.tenants = next
	m.mu.Unlock()
	return nil
}

// Reload replaces the registry contents with the definitions in path.
func (m *Manager) Reload(path string) error {
	defs, err := LoadFile(path)
	if err != nil {
		m.logger.Errorw("Failed to reload tenant definitions", "path", path, "error", err)
		return err
	}
	if err := m.Replace(defs); err != nil {
		m.logger.Errorw("Rejected tenant definitions", "path", path, "error", err)
		return err
	}
	m.logger.Infow("Loaded tenant definitions", "path", path, "count", len(defs))
	return nil
}

// LoadFile reads a JSON or YAML array of tenant definitions.
func LoadFile(path string) ([]Definition, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tenant definitions %s: %w", path, err)
	}
	var defs []Definition
	if err := yaml.Unmarshal(content, &defs); err != nil {
		return nil, fmt.Errorf("failed to parse tenant definitions %s: %w", path, err)
	}
	return defs, nil
}
