// SPDX-FileCopyrightText: 2024 Deutsche Telekom AG
// SPDX-License-Identifier: Apache-2.0

package mail

import (
	"github.com/telekom/mail-dispatcher/pkg/config"
)

// EmailMessageRequest is a single message to dispatch.
type EmailMessageRequest struct {
	// To holds the recipient addresses.
	To   []string `json:"to"`
	Body string   `json:"body"`
	// Tenant selects a tenant communication policy; blank means none.
	Tenant string `json:"tenant,omitempty"`
	// Locale is passed to the message resolver for the subject lookup.
	Locale     string                 `json:"locale,omitempty"`
	Properties config.EmailProperties `json:"properties"`
}

// Outcome is the furthest point a dispatch reached.
type Outcome int

const (
	// OutcomeUnreachable means no usable mail server: the host was blank or
	// the connectivity probe failed.
	OutcomeUnreachable Outcome = iota
	// OutcomeReady means the probe succeeded and the message is being
	// assembled; a dispatch that fails after this point returns an error.
	OutcomeReady
	// OutcomeSent means the transport accepted the message.
	OutcomeSent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnreachable:
		return "Unreachable"
	case OutcomeReady:
		return "Ready"
	case OutcomeSent:
		return "Sent"
	default:
		return "Unknown"
	}
}

// MarshalText renders the outcome by name in JSON and YAML output.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// EmailCommunicationResult reports what happened to a request. To and Body
// echo the request on every path.
type EmailCommunicationResult struct {
	Success bool     `json:"success"`
	To      []string `json:"to"`
	Body    string   `json:"body"`
	Outcome Outcome  `json:"outcome"`
}
