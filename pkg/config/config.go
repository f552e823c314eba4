// SPDX-FileCopyrightText: 2024 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

const (
	// DefaultConfigPath is used when neither an explicit path nor the
	// MAIL_DISPATCHER_CONFIG_PATH environment variable is set.
	DefaultConfigPath = "./config.yaml"
	// ConfigPathEnv overrides the default config file location.
	ConfigPathEnv = "MAIL_DISPATCHER_CONFIG_PATH"

	DefaultProtocol        = "smtp"
	DefaultEncoding        = "UTF-8"
	DefaultMessageLanguage = "en"
)

// SSL holds the global transport security switches for outbound mail.
type SSL struct {
	// Enabled turns on implicit TLS for the configured protocol.
	Enabled bool `yaml:"enabled"`
	// Bundle names an entry of SSLBundles.Bundles whose trust material is
	// used for the mail connection.
	Bundle string `yaml:"bundle"`
}

// Mail is the global (non-tenant) outbound mail server configuration.
type Mail struct {
	Host string `yaml:"host"`
	// Port is optional; nil keeps the transport client's default.
	Port            *int   `yaml:"port"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	Protocol        string `yaml:"protocol"`
	DefaultEncoding string `yaml:"defaultEncoding"`
	// From is the last-resort sender address used when neither the tenant
	// policy nor the message properties name one.
	From string `yaml:"from"`
	SSL  SSL    `yaml:"ssl"`
	// Properties are raw transport properties (e.g. "mail.smtp.localhost")
	// copied onto every transport client.
	Properties map[string]string `yaml:"properties"`
}

// PortOrZero returns the configured port, or 0 when unset.
func (m Mail) PortOrZero() int {
	if m.Port == nil {
		return 0
	}
	return *m.Port
}

// SSLBundle describes PEM trust material referenced by name.
type SSLBundle struct {
	CAFile             string `yaml:"caFile"`
	CertFile           string `yaml:"certFile"`
	KeyFile            string `yaml:"keyFile"`
	ServerName         string `yaml:"serverName"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify"`
}

type SSLBundles struct {
	Bundles map[string]SSLBundle `yaml:"bundles"`
}

// Tenants points at the file holding tenant definitions (JSON or YAML).
type Tenants struct {
	File string `yaml:"file"`
}

// Messages configures the localized message bundles used for subjects.
type Messages struct {
	DefaultLanguage string                       `yaml:"defaultLanguage"`
	Bundles         map[string]map[string]string `yaml:"bundles"`
}

type OIDC struct {
	CIBA CibaProperties `yaml:"ciba"`
}

type Config struct {
	Mail     Mail       `yaml:"mail"`
	SSL      SSLBundles `yaml:"ssl"`
	Tenants  Tenants    `yaml:"tenants"`
	Messages Messages   `yaml:"messages"`
	OIDC     OIDC       `yaml:"oidc"`
}

// Load loads the dispatcher configuration from a file path.
// If configPath is empty, MAIL_DISPATCHER_CONFIG_PATH is consulted, then
// "./config.yaml". Defaults are applied to the returned value.
func Load(configPath ...string) (Config, error) {
	var path string

	switch {
	case len(configPath) > 0 && configPath[0] != "":
		path = configPath[0]
	case os.Getenv(ConfigPathEnv) != "":
		path = os.Getenv(ConfigPathEnv)
	default:
		path = DefaultConfigPath
	}

	var config Config

	content, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("trying to open mail dispatcher config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(content, &config); err != nil {
		return config, fmt.Errorf("error unmarshaling YAML %s: %w", path, err)
	}
	config.Defaults()
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Defaults fills unset values with their documented defaults.
func (c *Config) Defaults() {
	if strings.TrimSpace(c.Mail.Protocol) == "" {
		c.Mail.Protocol = DefaultProtocol
	}
	if strings.TrimSpace(c.Mail.DefaultEncoding) == "" {
		c.Mail.DefaultEncoding = DefaultEncoding
	}
	if c.Messages.DefaultLanguage == "" {
		c.Messages.DefaultLanguage = DefaultMessageLanguage
	}
	c.OIDC.CIBA.Defaults()
}

// Validate reports configuration values the dispatcher cannot work with.
func (c Config) Validate() error {
	if p := c.Mail.PortOrZero(); p < 0 || p > 65535 {
		return fmt.Errorf("mail.port %d out of range", p)
	}
	switch strings.ToLower(c.Mail.Protocol) {
	case "smtp", "smtps":
	default:
		return fmt.Errorf("mail.protocol %q is not supported", c.Mail.Protocol)
	}
	if b := c.Mail.SSL.Bundle; b != "" {
		if _, ok := c.SSL.Bundles[b]; !ok {
			return fmt.Errorf("mail.ssl.bundle %q is not defined under ssl.bundles", b)
		}
	}
	if _, err := c.OIDC.CIBA.MaxTimeToLive(); err != nil {
		return fmt.Errorf("oidc.ciba.maxTimeToLiveInSeconds: %w", err)
	}
	return nil
}
