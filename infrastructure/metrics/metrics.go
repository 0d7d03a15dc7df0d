// Package metrics exposes Prometheus collectors for price lookups, plan
// steps and browser sessions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "robotdriver"

// Metrics implements the lookup and plan recorders.
type Metrics struct {
	lookups        *prometheus.CounterVec
	lookupDuration *prometheus.HistogramVec
	steps          *prometheus.CounterVec
	sessionsActive prometheus.Gauge
}

// MustNew registers the collectors with reg, or the default registerer when
// reg is nil. Registration errors panic like the promauto helpers do.
func MustNew(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "price",
				Name:      "lookups_total",
				Help:      "Price lookups by outcome.",
			},
			[]string{"outcome"},
		),
		lookupDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "price",
				Name:      "lookup_duration_seconds",
				Help:      "Wall time of a price lookup including browser start.",
				Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 80},
			},
			[]string{"outcome"},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "plan",
				Name:      "steps_total",
				Help:      "Executed plan steps by action and status.",
			},
			[]string{"action", "status"},
		),
		sessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "browser",
				Name:      "sessions_active",
				Help:      "Browser sessions currently open.",
			},
		),
	}
	reg.MustRegister(m.lookups, m.lookupDuration, m.steps, m.sessionsActive)
	return m
}

// ObserveLookup records one finished price lookup.
func (m *Metrics) ObserveLookup(outcome string, elapsed time.Duration) {
	m.lookups.WithLabelValues(outcome).Inc()
	m.lookupDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveStep records one executed plan step.
func (m *Metrics) ObserveStep(action string, ok bool) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.steps.WithLabelValues(action, status).Inc()
}

// SessionOpened and SessionClosed track the open browser sessions.
func (m *Metrics) SessionOpened() { m.sessionsActive.Inc() }

func (m *Metrics) SessionClosed() { m.sessionsActive.Dec() }
