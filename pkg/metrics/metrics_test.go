package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMailMetricsExistAndIncrement(t *testing.T) {
	// Use a test label to avoid colliding with other tests
	lbl := "metrics-test-host"

	MailSendSuccess.WithLabelValues(lbl).Inc()
	if v := testutil.ToFloat64(MailSendSuccess.WithLabelValues(lbl)); v < 1 {
		t.Fatalf("expected MailSendSuccess >= 1, got %v", v)
	}

	MailSendFailure.WithLabelValues(lbl).Add(2)
	if v := testutil.ToFloat64(MailSendFailure.WithLabelValues(lbl)); v < 2 {
		t.Fatalf("expected MailSendFailure >= 2, got %v", v)
	}

	MailUnreachable.WithLabelValues(lbl).Inc()
	if v := testutil.ToFloat64(MailUnreachable.WithLabelValues(lbl)); v < 1 {
		t.Fatalf("expected MailUnreachable >= 1, got %v", v)
	}

	MailTenantOverride.WithLabelValues("metrics-test-tenant").Inc()
	if v := testutil.ToFloat64(MailTenantOverride.WithLabelValues("metrics-test-tenant")); v < 1 {
		t.Fatalf("expected MailTenantOverride >= 1, got %v", v)
	}
}

func TestMetricsHandlerExposesMailCounters(t *testing.T) {
	MailSendSuccess.WithLabelValues("handler-test-host").Inc()

	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "mail_dispatcher_send_success_total") {
		t.Fatalf("metrics output does not contain mail_dispatcher_send_success_total")
	}
}
