package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorkerMetrics tracks unsubscribe task dispatches on a registry of its
// own, served from the worker's metrics port.
type WorkerMetrics struct {
	registry *prometheus.Registry

	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	dispatchInFlight prometheus.Gauge
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	m := &WorkerMetrics{registry: prometheus.NewRegistry()}

	m.dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dv",
			Subsystem: "worker",
			Name:      "dispatch_total",
			Help:      "Total unsubscribe task dispatches by outcome.",
		},
		[]string{"service", "outcome"},
	)
	m.dispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dv",
			Subsystem: "worker",
			Name:      "dispatch_duration_seconds",
			Help:      "Task dispatch duration in seconds by outcome.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "outcome"},
	)
	m.dispatchInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   "dv",
			Subsystem:   "worker",
			Name:        "dispatch_in_flight",
			Help:        "Number of in-flight task dispatches.",
			ConstLabels: prometheus.Labels{"service": service},
		},
	)

	m.registry.MustRegister(m.dispatchTotal, m.dispatchDuration, m.dispatchInFlight)
	return m
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartTask() {
	m.dispatchInFlight.Inc()
}

func (m *WorkerMetrics) FinishTask(service string, duration time.Duration, err error) {
	m.dispatchInFlight.Dec()

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.dispatchTotal.WithLabelValues(service, outcome).Inc()
	m.dispatchDuration.WithLabelValues(service, outcome).Observe(duration.Seconds())
}
