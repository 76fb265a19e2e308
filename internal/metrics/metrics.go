// Package metrics exports dispatcher activity to Prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"evbus/internal/event"
)

const namespace = "evbus"

// Collector implements event.Sink and event.Observer.
type Collector struct {
	dispatches *prometheus.CounterVec
	invoked    prometheus.Counter
	duration   prometheus.Histogram
	conditions *prometheus.CounterVec
	listeners  prometheus.Gauge
}

var (
	_ event.Sink     = (*Collector)(nil)
	_ event.Observer = (*Collector)(nil)
)

// NewCollector creates the dispatcher metrics and registers them on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dispatch",
				Name:      "total",
				Help:      "Total number of dispatch calls that found their event id",
			},
			[]string{"event"},
		),
		invoked: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dispatch",
				Name:      "listeners_invoked_total",
				Help:      "Total number of listener invocations",
			},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "dispatch",
				Name:      "duration_seconds",
				Help:      "Duration of dispatch calls in seconds",
				Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
			},
		),
		conditions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conditions_total",
				Help:      "Conditions reported by the dispatcher, by reason",
			},
			[]string{"reason"},
		),
		listeners: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "registered_listeners",
				Help:      "Number of registered listeners across all events",
			},
		),
	}
	reg.MustRegister(c.dispatches, c.invoked, c.duration, c.conditions, c.listeners)
	return c
}

// Report counts a dispatcher condition.
func (c *Collector) Report(r event.Report) {
	c.conditions.WithLabelValues(r.Reason.String()).Inc()
}

// Dispatched records one dispatch call.
func (c *Collector) Dispatched(id event.ID, invoked int, elapsed time.Duration) {
	c.dispatches.WithLabelValues(strconv.Itoa(int(id))).Inc()
	c.invoked.Add(float64(invoked))
	c.duration.Observe(elapsed.Seconds())
}

// SetListeners publishes the current registration count.
func (c *Collector) SetListeners(n int) {
	c.listeners.Set(float64(n))
}
