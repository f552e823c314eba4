// SPDX-FileCopyrightText: 2024 Deutsche Telekom AG
// SPDX-License-Identifier: Apache-2.0

package mail

import (
	"crypto/tls"
	"strconv"
	"strings"

	"gopkg.in/gomail.v2"
)

const (
	defaultSMTPPort  = 25
	defaultSMTPSPort = 465
)

// Message is a composed email before it is handed to the transport.
// To, CC and BCC are never nil on messages built by the Dispatcher.
type Message struct {
	From     string
	To       []string
	CC       []string
	BCC      []string
	ReplyTo  string
	Subject  string
	Body     string
	HTML     bool
	Priority int
	Charset  string
	// ValidateAddresses makes the dispatcher reject malformed addresses
	// before handing the message to the transport.
	ValidateAddresses bool
	// Headers are additional headers, typically set by customizers. They are
	// applied last and replace same-named headers, Subject included.
	Headers map[string][]string
}

// Gomail converts m into a gomail message.
func (m *Message) Gomail() *gomail.Message {
	var settings []gomail.MessageSetting
	if m.Charset != "" {
		settings = append(settings, gomail.SetCharset(m.Charset))
	}
	msg := gomail.NewMessage(settings...)

	if m.From != "" {
		msg.SetHeader("From", m.From)
	}
	if len(m.To) > 0 {
		msg.SetHeader("To", m.To...)
	}
	if len(m.CC) > 0 {
		msg.SetHeader("Cc", m.CC...)
	}
	if len(m.BCC) > 0 {
		msg.SetHeader("Bcc", m.BCC...)
	}
	if strings.TrimSpace(m.ReplyTo) != "" {
		msg.SetHeader("Reply-To", m.ReplyTo)
	}
	if m.Priority > 0 {
		msg.SetHeader("X-Priority", strconv.Itoa(m.Priority))
	}
	msg.SetHeader("Subject", m.Subject)
	for k, v := range m.Headers {
		msg.SetHeader(k, v...)
	}

	contentType := "text/plain"
	if m.HTML {
		contentType = "text/html"
	}
	msg.SetBody(contentType, m.Body)
	return msg
}

// Transport opens connections to a mail server.
type Transport interface {
	// Probe opens and closes a connection to verify the server is reachable.
	Probe() error
	Send(msg *Message) error
}

// TransportFactory creates the transport for a resolved connection.
type TransportFactory func(cfg ConnectionConfig) (Transport, error)

// Client is the per-request transport client: the resolved connection, the
// transport built from it, and (once connected) the message to send.
type Client struct {
	Config    ConnectionConfig
	Transport Transport
	Message   *Message
	Outcome   Outcome
}

// GomailTransport sends mail through a gomail.Dialer.
type GomailTransport struct {
	Dialer *gomail.Dialer
}

// NewGomailTransport is the default TransportFactory.
func NewGomailTransport(cfg ConnectionConfig) (Transport, error) {
	port := cfg.Port
	if port <= 0 {
		port = defaultSMTPPort
		if cfg.Protocol == "smtps" {
			port = defaultSMTPSPort
		}
	}
	d := gomail.NewDialer(cfg.Host, port, cfg.Username, cfg.Password)
	applyProperties(d, cfg)
	return &GomailTransport{Dialer: d}, nil
}

// applyProperties maps the supported transport properties onto the dialer.
func applyProperties(d *gomail.Dialer, cfg ConnectionConfig) {
	p := cfg.Protocol
	if p == "smtps" {
		d.SSL = true
	}
	if v, ok := cfg.Properties[PropertyKey(p, "ssl.enable")].(string); ok && strings.EqualFold(v, "true") {
		d.SSL = true
	}
	if tc, ok := cfg.Properties[PropertyKey(p, "ssl.socketFactory")].(*tls.Config); ok && tc != nil {
		d.TLSConfig = tc.Clone()
	}
	if v, ok := cfg.Properties[PropertyKey(p, "ssl.trust")].(string); ok && strings.TrimSpace(v) == "*" {
		if d.TLSConfig == nil {
			d.TLSConfig = &tls.Config{}
		}
		d.TLSConfig.InsecureSkipVerify = true //nolint:gosec // explicit mail.<protocol>.ssl.trust=*
	}
	if d.TLSConfig != nil && d.TLSConfig.ServerName == "" {
		d.TLSConfig.ServerName = cfg.Host
	}
	if v, ok := cfg.Properties[PropertyKey(p, "localhost")].(string); ok && v != "" {
		d.LocalName = v
	}
}

func (t *GomailTransport) Probe() error {
	sc, err := t.Dialer.Dial()
	if err != nil {
		return err
	}
	return sc.Close()
}

func (t *GomailTransport) Send(msg *Message) error {
	return t.Dialer.DialAndSend(msg.Gomail())
}
