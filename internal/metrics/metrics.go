package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks account validation, registration and cache behaviour.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	AccountValidations  *prometheus.CounterVec
	ResolveDuration     prometheus.Histogram
	Registrations       *prometheus.CounterVec
	RegistrationLatency prometheus.Histogram
	CacheLookups        *prometheus.CounterVec
	EventPublishFailed  prometheus.Counter
}

// New registers all onboarding metrics with reg. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AccountValidations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_account_validations_total",
			Help: "Account validations by outcome (ok, invalid, error)",
		}, []string{"outcome"}),
		ResolveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "onboarding_account_resolve_duration_seconds",
			Help:    "Duration of account name resolution, cache misses only",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		Registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_registrations_total",
			Help: "Registrations by provider and outcome",
		}, []string{"provider", "outcome"}),
		RegistrationLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "onboarding_registration_duration_seconds",
			Help:    "Duration of the registration pipeline",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_cache_lookups_total",
			Help: "Cache lookups by cache name and result (hit, miss)",
		}, []string{"cache", "result"}),
		EventPublishFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "onboarding_event_publish_failures_total",
			Help: "Registration events that could not be published",
		}),
	}
}

func (m *Metrics) IncAccountValidation(outcome string) {
	if m == nil {
		return
	}
	m.AccountValidations.WithLabelValues(outcome).Inc()
}

// ObserveResolve records a resolver call. Call with time.Now() taken before the call.
func (m *Metrics) ObserveResolve(start time.Time) {
	if m == nil {
		return
	}
	m.ResolveDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncRegistration(provider, outcome string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) ObserveRegistration(start time.Time) {
	if m == nil {
		return
	}
	m.RegistrationLatency.Observe(time.Since(start).Seconds())
}

func (m *Metrics) CacheHit(cache string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(cache, "hit").Inc()
}

func (m *Metrics) CacheMiss(cache string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(cache, "miss").Inc()
}

func (m *Metrics) IncEventPublishFailed() {
	if m == nil {
		return
	}
	m.EventPublishFailed.Inc()
}
