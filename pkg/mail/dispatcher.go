// SPDX-FileCopyrightText: 2024 Deutsche Telekom AG
// SPDX-License-Identifier: Apache-2.0

package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/telekom/mail-dispatcher/pkg/config"
	"github.com/telekom/mail-dispatcher/pkg/metrics"
	"github.com/telekom/mail-dispatcher/pkg/sslbundle"
	"github.com/telekom/mail-dispatcher/pkg/system"
	"github.com/telekom/mail-dispatcher/pkg/tenant"
)

// MessageResolver looks up localized texts such as the mail subject.
// Unknown keys resolve to fallback.
type MessageResolver interface {
	Message(locale, key, fallback string) (string, error)
}

// Customizer adjusts the client or its message right before sending.
type Customizer interface {
	Customize(client *Client, req EmailMessageRequest)
}

// CustomizerFunc adapts a function to Customizer.
type CustomizerFunc func(client *Client, req EmailMessageRequest)

func (f CustomizerFunc) Customize(client *Client, req EmailMessageRequest) {
	f(client, req)
}

// Dispatcher sends single messages through a per-request transport client,
// choosing the mail server from the request's tenant policy or the global
// defaults. It holds no per-request state and is safe for concurrent use
// once configured.
type Dispatcher struct {
	defaults     config.Mail
	tenants      tenant.Registry
	messages     MessageResolver
	bundles      sslbundle.Registry
	customizers  []Customizer
	newTransport TransportFactory
	logger       *zap.SugaredLogger
}

// NewDispatcher creates a Dispatcher. tenants and messages may be nil.
func NewDispatcher(defaults config.Mail, tenants tenant.Registry, messages MessageResolver) *Dispatcher {
	return &Dispatcher{
		defaults:     defaults,
		tenants:      tenants,
		messages:     messages,
		newTransport: NewGomailTransport,
		logger:       zap.NewNop().Sugar(),
	}
}

// WithLogger sets the logger for this dispatcher
func (d *Dispatcher) WithLogger(logger *zap.SugaredLogger) *Dispatcher {
	d.logger = logger.Named("mail-dispatcher")
	return d
}

// WithSSLBundles sets the registry used to resolve mail.ssl.bundle.
func (d *Dispatcher) WithSSLBundles(bundles sslbundle.Registry) *Dispatcher {
	d.bundles = bundles
	return d
}

// WithCustomizers appends customizers; they run in the order registered.
func (d *Dispatcher) WithCustomizers(customizers ...Customizer) *Dispatcher {
	d.customizers = append(d.customizers, customizers...)
	return d
}

// WithTransportFactory replaces the gomail transport.
func (d *Dispatcher) WithTransportFactory(f TransportFactory) *Dispatcher {
	d.newTransport = f
	return d
}

// Send resolves the mail server for req, probes it and, when reachable,
// builds and sends the message. An unusable or unreachable server yields
// Success=false without an error; failures after a successful probe are
// returned as *TransportError.
func (d *Dispatcher) Send(ctx context.Context, req EmailMessageRequest) (EmailCommunicationResult, error) {
	log := d.logger.With("dispatchID", uuid.NewString()).With(system.RequestFields(req.Tenant, req.Locale, len(req.To))...)
	result := EmailCommunicationResult{To: req.To, Body: req.Body, Outcome: OutcomeUnreachable}

	policy := tenant.FindEmailPolicy(ctx, d.tenants, req.Tenant)
	client, err := d.createClient(policy)
	if err != nil {
		log.Errorw("Failed to create mail transport client", "error", err)
		return result, &TransportError{Op: OpResolve, Err: err}
	}
	if client == nil {
		log.Warnw("No mail host configured, skipping dispatch")
		metrics.MailUnreachable.WithLabelValues(unconfiguredHostLabel).Inc()
		return result, nil
	}
	if client.Config.TenantOverride {
		metrics.MailTenantOverride.WithLabelValues(tenantLabel(req.Tenant)).Inc()
	}
	log = log.With("host", client.Config.Host, "port", client.Config.Port)

	if !d.probe(client, log) {
		metrics.MailUnreachable.WithLabelValues(client.Config.Host).Inc()
		return result, nil
	}
	client.Outcome = OutcomeReady
	result.Outcome = OutcomeReady

	msg, err := d.buildMessage(req, policy, client.Config)
	if err != nil {
		log.Errorw("Failed to build mail message", "error", err)
		return result, err
	}
	client.Message = msg

	for _, c := range d.customizers {
		c.Customize(client, req)
	}

	log.Debugw("Sending mail", "subject", msg.Subject, "cc", len(msg.CC), "bcc", len(msg.BCC))
	if err := client.Transport.Send(client.Message); err != nil {
		log.Errorw("Failed to send mail", "error", err)
		metrics.MailSendFailure.WithLabelValues(client.Config.Host).Inc()
		return result, &TransportError{Op: OpSend, Err: err}
	}
	metrics.MailSendSuccess.WithLabelValues(client.Config.Host).Inc()
	log.Infow("Mail sent")

	client.Outcome = OutcomeSent
	result.Outcome = OutcomeSent
	result.Success = true
	return result, nil
}

// createClient returns nil without error when the resolved host is blank.
func (d *Dispatcher) createClient(policy *tenant.EmailCommunicationPolicy) (*Client, error) {
	cfg := ResolveConnection(d.defaults, policy)
	props, err := transportProperties(d.defaults, cfg, d.bundles)
	if err != nil {
		return nil, err
	}
	cfg.Properties = props

	if !cfg.Usable() {
		return nil, nil
	}
	transport, err := d.newTransport(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport for %s: %w", cfg.Host, err)
	}
	return &Client{Config: cfg, Transport: transport, Outcome: OutcomeUnreachable}, nil
}

// probe reports whether the server accepted a connection. Errors and
// panics from the transport are logged and reported as unreachable.
func (d *Dispatcher) probe(client *Client, log *zap.SugaredLogger) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Warnw("Mail server connectivity probe panicked", "panic", r)
			ok = false
		}
	}()
	if err := client.Transport.Probe(); err != nil {
		log.Warnw("Mail server is not reachable", "error", err)
		return false
	}
	return true
}

func (d *Dispatcher) buildMessage(req EmailMessageRequest, policy *tenant.EmailCommunicationPolicy, cfg ConnectionConfig) (*Message, error) {
	props := req.Properties

	subject := props.Subject
	if d.messages != nil {
		resolved, err := d.messages.Message(req.Locale, props.Subject, props.Subject)
		if err != nil {
			return nil, &TransportError{Op: OpSubject, Err: err}
		}
		subject = resolved
	}

	msg := &Message{
		From:              d.fromAddress(props, policy),
		To:                nonNil(req.To),
		CC:                nonNil(props.CC),
		BCC:               nonNil(props.BCC),
		Subject:           subject,
		Body:              req.Body,
		HTML:              props.HTML,
		Priority:          props.Priority,
		Charset:           cfg.DefaultEncoding,
		ValidateAddresses: props.ValidateAddresses,
	}
	if strings.TrimSpace(props.ReplyTo) != "" {
		msg.ReplyTo = props.ReplyTo
	}

	if msg.ValidateAddresses {
		if err := validateAddresses(msg); err != nil {
			return nil, &TransportError{Op: OpAddress, Err: err}
		}
	}
	return msg, nil
}

// fromAddress applies the tenant's sender when it names one, independently
// of whether the tenant also overrode the connection.
func (d *Dispatcher) fromAddress(props config.EmailProperties, policy *tenant.EmailCommunicationPolicy) string {
	if policy != nil && strings.TrimSpace(policy.From) != "" {
		return policy.From
	}
	if strings.TrimSpace(props.From) != "" {
		return props.From
	}
	return d.defaults.From
}

func nonNil(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// unconfiguredHostLabel is the host label for dispatches without a host.
const unconfiguredHostLabel = "-"

func tenantLabel(id string) string {
	if strings.TrimSpace(id) == "" {
		return "-"
	}
	return id
}
