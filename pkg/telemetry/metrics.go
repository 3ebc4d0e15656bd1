package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes hub counters in the Prometheus format.
type Metrics struct {
	registry   *prometheus.Registry
	scans      prometheus.Counter
	fallbacks  *prometheus.CounterVec
	candidates *prometheus.CounterVec
	onboarding *prometheus.CounterVec
	devices    prometheus.Gauge
}

// NewMetrics creates the collectors on a dedicated registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		scans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "myhub",
			Name:      "discovery_scans_total",
			Help:      "Discovery scans run.",
		}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "myhub",
			Name:      "discovery_fallbacks_total",
			Help:      "Scan sources replaced by mock output after failing.",
		}, []string{"transport"}),
		candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "myhub",
			Name:      "discovery_candidates_total",
			Help:      "Unregistered candidates returned by discovery.",
		}, []string{"transport"}),
		onboarding: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "myhub",
			Name:      "onboarding_events_total",
			Help:      "Registry add and remove outcomes.",
		}, []string{"status"}),
		devices: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "myhub",
			Name:      "registered_devices",
			Help:      "Devices currently in the registry.",
		}),
	}
	reg.MustRegister(m.scans, m.fallbacks, m.candidates, m.onboarding, m.devices)
	return m
}

// Handler serves the metrics registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
