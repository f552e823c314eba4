// Package mail provides tenant-aware email dispatch for the mail dispatcher,
// including connection resolution against per-tenant SMTP policies, a
// gomail-backed transport with a connectivity probe, message assembly and
// ordered message customizers.
package mail
