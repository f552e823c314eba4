// Package config loads the mail dispatcher configuration from YAML: the global
// outbound mail server, named SSL bundles, the tenant definitions file, the
// localized message bundles and the OIDC CIBA settings.
package config
