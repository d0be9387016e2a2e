// Package metrics holds the Prometheus instruments of the weather service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service's Prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	submissionsTotal *prometheus.CounterVec
	historyTotal     *prometheus.CounterVec
	failuresTotal    *prometheus.CounterVec
	providerDuration prometheus.Histogram
	storeUp          prometheus.Gauge
}

// New creates and registers the service metrics.
func New() (*Metrics, error) {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_submissions_total",
			Help: "Submit requests by result",
		},
		[]string{"result"}, // result: ok, error
	)
	m.historyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_history_queries_total",
			Help: "History queries by result",
		},
		[]string{"result"},
	)
	m.failuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_failures_total",
			Help: "Failures by kind",
		},
		[]string{"kind"}, // kind: validation, provider_failure, provider_timeout, store_failure
	)
	m.providerDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "weather_provider_request_duration_seconds",
		Help:    "Time taken by provider calls",
		Buckets: prometheus.DefBuckets,
	})
	m.storeUp = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "weather_store_up",
		Help: "1 if the last store probe succeeded",
	})

	for _, c := range []prometheus.Collector{
		m.submissionsTotal,
		m.historyTotal,
		m.failuresTotal,
		m.providerDuration,
		m.storeUp,
		prometheus.NewGoCollector(),
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveSubmit(ok bool) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(result(ok)).Inc()
}

func (m *Metrics) ObserveHistory(ok bool) {
	if m == nil {
		return
	}
	m.historyTotal.WithLabelValues(result(ok)).Inc()
}

func (m *Metrics) RecordFailure(kind string) {
	if m == nil {
		return
	}
	m.failuresTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveProvider(d time.Duration) {
	if m == nil {
		return
	}
	m.providerDuration.Observe(d.Seconds())
}

func (m *Metrics) SetStoreUp(up bool) {
	if m == nil {
		return
	}
	if up {
		m.storeUp.Set(1)
		return
	}
	m.storeUp.Set(0)
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
