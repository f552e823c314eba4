// Package cmd implements the mailctl command tree: sending single messages
// through the tenant-aware dispatcher, inspecting tenants and showing or
// exercising the CIBA verification settings.
package cmd
