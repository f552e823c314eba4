// SPDX-FileCopyrightText: 2024 Deutsche Telekom AG
// SPDX-License-Identifier: Apache-2.0

package mail

import (
	"fmt"
	"strings"

	"github.com/telekom/mail-dispatcher/pkg/config"
	"github.com/telekom/mail-dispatcher/pkg/sslbundle"
	"github.com/telekom/mail-dispatcher/pkg/tenant"
)

// ConnectionConfig is the mail server connection resolved for one request.
type ConnectionConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	Protocol        string
	DefaultEncoding string
	SSLEnabled      bool
	SSLBundle       string
	// TenantOverride is set when Host/Port/Username/Password came from a
	// tenant policy.
	TenantOverride bool
	// Properties are transport properties keyed "mail.<protocol>.<name>".
	// Values are strings except the socket factory entry, which holds a
	// *tls.Config.
	Properties map[string]any
}

// Usable reports whether the connection names a host.
func (c ConnectionConfig) Usable() bool {
	return strings.TrimSpace(c.Host) != ""
}

// PropertyKey returns "mail.<protocol>.<name>".
func PropertyKey(protocol, name string) string {
	return "mail." + protocol + "." + name
}

// ResolveConnection merges a tenant policy over the global defaults. A
// present policy replaces host, port, username and password as a unit; a
// non-positive policy port leaves the transport's protocol default in place
// rather than the global port. Protocol and encoding always come from the
// defaults.
func ResolveConnection(defaults config.Mail, policy *tenant.EmailCommunicationPolicy) ConnectionConfig {
	cfg := ConnectionConfig{
		Protocol:        strings.ToLower(strings.TrimSpace(defaults.Protocol)),
		DefaultEncoding: defaults.DefaultEncoding,
		SSLEnabled:      defaults.SSL.Enabled,
		SSLBundle:       defaults.SSL.Bundle,
	}
	if cfg.Protocol == "" {
		cfg.Protocol = config.DefaultProtocol
	}
	if cfg.DefaultEncoding == "" {
		cfg.DefaultEncoding = config.DefaultEncoding
	}

	if policy != nil {
		cfg.TenantOverride = true
		cfg.Host = policy.Host
		if policy.Port > 0 {
			cfg.Port = policy.Port
		}
		cfg.Username = policy.Username
		cfg.Password = policy.Password
		return cfg
	}

	cfg.Host = defaults.Host
	cfg.Port = defaults.PortOrZero()
	cfg.Username = defaults.Username
	cfg.Password = defaults.Password
	return cfg
}

// transportProperties builds the property set for cfg: the raw global
// properties, then the SSL switches derived from the defaults.
func transportProperties(defaults config.Mail, cfg ConnectionConfig, bundles sslbundle.Registry) (map[string]any, error) {
	props := make(map[string]any, len(defaults.Properties)+2)
	for k, v := range defaults.Properties {
		props[k] = v
	}

	if cfg.SSLEnabled {
		props[PropertyKey(cfg.Protocol, "ssl.enable")] = "true"
	}
	if name := strings.TrimSpace(cfg.SSLBundle); name != "" {
		if bundles == nil {
			return nil, fmt.Errorf("ssl bundle %q configured but no bundle registry available", name)
		}
		tlsConfig, err := bundles.Bundle(name)
		if err != nil {
			return nil, err
		}
		props[PropertyKey(cfg.Protocol, "ssl.socketFactory")] = tlsConfig
	}
	return props, nil
}
