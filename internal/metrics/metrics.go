// Package metrics exposes the portal's Prometheus counters. A nil *Metrics
// is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters and the registry they are registered on.
type Metrics struct {
	registry      *prometheus.Registry
	mutations     *prometheus.CounterVec
	loads         *prometheus.CounterVec
	storeFailures *prometheus.CounterVec
}

// New creates a Metrics with its own registry, including Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apiportal",
			Name:      "registry_mutations_total",
			Help:      "User catalog additions and removals by outcome.",
		}, []string{"op", "result"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apiportal",
			Name:      "api_loads_total",
			Help:      "APIs handed to the viewer, by origin.",
		}, []string{"origin"}),
		storeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apiportal",
			Name:      "store_failures_total",
			Help:      "Recovered persistent store failures.",
		}, []string{"op"}),
	}
	reg.MustRegister(
		m.mutations,
		m.loads,
		m.storeFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RegistryMutation counts an add or remove with its result.
func (m *Metrics) RegistryMutation(op, result string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op, result).Inc()
}

// APILoad counts a viewer load.
func (m *Metrics) APILoad(origin string) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(origin).Inc()
}

// StoreFailure counts a store read or write that degraded.
func (m *Metrics) StoreFailure(op string) {
	if m == nil {
		return
	}
	m.storeFailures.WithLabelValues(op).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
