// SPDX-FileCopyrightText: 2024 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package config

// EmailProperties are the per-message settings attached to an outbound
// email: who it is from, who gets copies, and how the body is rendered.
type EmailProperties struct {
	From    string `yaml:"from" json:"from,omitempty"`
	Subject string `yaml:"subject" json:"subject,omitempty"`
	// Text is a body template (printf style) for flows that compose the body
	// themselves, e.g. CIBA verification.
	Text    string   `yaml:"text" json:"text,omitempty"`
	ReplyTo string   `yaml:"replyTo" json:"replyTo,omitempty"`
	CC      []string `yaml:"cc" json:"cc,omitempty"`
	BCC     []string `yaml:"bcc" json:"bcc,omitempty"`
	HTML    bool     `yaml:"html" json:"html"`
	// Priority maps to the X-Priority header (1 highest .. 5 lowest).
	Priority          int  `yaml:"priority" json:"priority"`
	ValidateAddresses bool `yaml:"validateAddresses" json:"validateAddresses"`
	// AttributeName is the principal attribute carrying the recipient address.
	AttributeName string `yaml:"attributeName" json:"attributeName,omitempty"`
}

// SmsProperties mirrors EmailProperties for text message delivery.
type SmsProperties struct {
	From          string `yaml:"from" json:"from,omitempty"`
	Text          string `yaml:"text" json:"text,omitempty"`
	AttributeName string `yaml:"attributeName" json:"attributeName,omitempty"`
}
