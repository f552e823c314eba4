package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Mail metrics
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mail_dispatcher_send_success_total",
		Help: "Total number of successful mail sends",
	}, []string{"host"})
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mail_dispatcher_send_failure_total",
		Help: "Total number of mail sends that returned an error after the server was reachable",
	}, []string{"host"})
	MailUnreachable = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mail_dispatcher_unreachable_total",
		Help: "Total number of dispatches skipped because the mail server was unusable or unreachable",
	}, []string{"host"})

	// Tenant resolution. The tenant label is "-" when the request names none.
	MailTenantOverride = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mail_dispatcher_tenant_override_total",
		Help: "Total number of dispatches whose connection settings came from a tenant policy",
	}, []string{"tenant"})
)

func init() {
	prometheus.MustRegister(MailSendSuccess)
	prometheus.MustRegister(MailSendFailure)
	prometheus.MustRegister(MailUnreachable)
	prometheus.MustRegister(MailTenantOverride)
}

// MetricsHandler returns an http.Handler exposing Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
