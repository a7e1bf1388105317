// Package metrics counts the requests handled by the preview server
// and serves them in the prometheus format.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes a request can have
const (
	OutcomeRedirect = "redirect"
	OutcomeServed   = "served"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics holds the counters for the preview server.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Requests    *prometheus.CounterVec
	ServedBytes prometheus.Counter
}

// NewMetrics creates a new metrics instance with all the outcome
// labels initialised to zero.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Requests handled by outcome.",
		}, []string{"outcome"}),
		ServedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "served_bytes_total",
			Help:      "Size of the files served.",
		}),
	}
	for _, outcome := range []string{OutcomeRedirect, OutcomeServed, OutcomeNotFound, OutcomeError} {
		m.Requests.WithLabelValues(outcome)
	}
	return m
}

// Collectors returns all prometheus metrics as collectors for registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	if m == nil {
		return nil
	}
	return []prometheus.Collector{
		m.Requests,
		m.ServedBytes,
	}
}

// Register the collectors with the registerer
func (m *Metrics) Register(r prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Request records a request with the given outcome
func (m *Metrics) Request(outcome string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(outcome).Inc()
}

// Served records a file of size bytes being served
func (m *Metrics) Served(size int64) {
	if m == nil {
		return
	}
	m.Request(OutcomeServed)
	if size > 0 {
		m.ServedBytes.Add(float64(size))
	}
}
