// Package metrics defines Prometheus metrics for the mail dispatcher,
// covering delivery outcomes and tenant overrides.
package metrics
