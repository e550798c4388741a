package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncAccountValidation("ok")
	m.IncAccountValidation("ok")
	m.IncRegistration("parallex", "success")
	m.CacheHit("account")
	m.CacheMiss("account")
	m.CacheMiss("account")

	if got := testutil.ToFloat64(m.AccountValidations.WithLabelValues("ok")); got != 2 {
		t.Fatalf("account validations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Registrations.WithLabelValues("parallex", "success")); got != 1 {
		t.Fatalf("registrations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CacheLookups.WithLabelValues("account", "miss")); got != 2 {
		t.Fatalf("cache misses = %v, want 2", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.IncAccountValidation("ok")
	m.IncRegistration("parallex", "success")
	m.CacheHit("directory")
	m.IncEventPublishFailed()
}
