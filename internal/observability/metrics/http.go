package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	uploadsTotal          *prometheus.CounterVec
	webhooksTotal         *prometheus.CounterVec
	tasksCreatedTotal     *prometheus.CounterVec
	tasksRateLimitedTotal *prometheus.CounterVec
	actionsRunTotal       *prometheus.CounterVec
	searchResults         *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dv",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dv",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "dv",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dv",
			Subsystem: "documents",
			Name:      "uploads_total",
			Help:      "Total document uploads by outcome.",
		},
		[]string{"service", "status"},
	)
	webhooksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dv",
			Subsystem: "webhooks",
			Name:      "ocr_total",
			Help:      "Total OCR webhook events by classification.",
		},
		[]string{"service", "classification"},
	)
	tasksCreatedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dv",
			Subsystem: "tasks",
			Name:      "created_total",
			Help:      "Total unsubscribe tasks created.",
		},
		[]string{"service", "channel"},
	)
	tasksRateLimitedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dv",
			Subsystem: "tasks",
			Name:      "rate_limited_total",
			Help:      "Total task creations refused by the daily cap.",
		},
		[]string{"service", "channel"},
	)
	actionsRunTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dv",
			Subsystem: "actions",
			Name:      "run_total",
			Help:      "Total generation actions executed by name.",
		},
		[]string{"service", "action"},
	)
	searchResults := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dv",
			Subsystem: "search",
			Name:      "results",
			Help:      "Distribution of result counts per search request.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		uploadsTotal,
		webhooksTotal,
		tasksCreatedTotal,
		tasksRateLimitedTotal,
		actionsRunTotal,
		searchResults,
	)

	return &HTTPServerMetrics{
		registry:              registry,
		requestTotal:          requestTotal,
		requestDuration:       requestDuration,
		requestInFlight:       requestInFlight,
		uploadsTotal:          uploadsTotal,
		webhooksTotal:         webhooksTotal,
		tasksCreatedTotal:     tasksCreatedTotal,
		tasksRateLimitedTotal: tasksRateLimitedTotal,
		actionsRunTotal:       actionsRunTotal,
		searchResults:         searchResults,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/docs/"):
		return "/v1/docs/{document_id}"
	case strings.HasPrefix(path, "/v1/folders/"):
		return "/v1/folders/{identifier}/documents"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordUpload(service string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.uploadsTotal.WithLabelValues(service, status).Inc()
}

func (m *HTTPServerMetrics) RecordWebhook(service, classification string) {
	if classification == "" {
		classification = "unknown"
	}
	m.webhooksTotal.WithLabelValues(service, classification).Inc()
}

func (m *HTTPServerMetrics) RecordTaskCreated(service, channel string) {
	m.tasksCreatedTotal.WithLabelValues(service, channel).Inc()
}

func (m *HTTPServerMetrics) RecordTaskRateLimited(service, channel string) {
	m.tasksRateLimitedTotal.WithLabelValues(service, channel).Inc()
}

func (m *HTTPServerMetrics) RecordActionRun(service, action string) {
	if action == "" {
		action = "unknown"
	}
	m.actionsRunTotal.WithLabelValues(service, action).Inc()
}

func (m *HTTPServerMetrics) RecordSearchResults(service string, count int) {
	m.searchResults.WithLabelValues(service).Observe(float64(count))
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
