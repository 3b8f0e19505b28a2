// Package httpadapter exposes the document vault over HTTP.
package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kirillkom/docuvault/internal/core/ports"
	"github.com/kirillkom/docuvault/internal/observability/metrics"
)

type Router struct {
	docs     ports.DocumentService
	actions  ports.ActionRunner
	webhooks ports.WebhookProcessor
	stats    ports.StatsProvider
	metrics  *metrics.HTTPServerMetrics

	apiKey          string
	rateLimitRPS    float64
	rateLimitBurst  int
	maxInFlight     int
	inFlightTimeout time.Duration
}

type RouterOptions struct {
	APIKey          string
	RateLimitRPS    float64
	RateLimitBurst  int
	MaxInFlight     int
	InFlightTimeout time.Duration
	Metrics         *metrics.HTTPServerMetrics
}

func NewRouter(
	docs ports.DocumentService,
	actions ports.ActionRunner,
	webhooks ports.WebhookProcessor,
	stats ports.StatsProvider,
	options RouterOptions,
) *Router {
	inFlightTimeout := options.InFlightTimeout
	if inFlightTimeout <= 0 {
		inFlightTimeout = 100 * time.Millisecond
	}
	return &Router{
		docs:            docs,
		actions:         actions,
		webhooks:        webhooks,
		stats:           stats,
		metrics:         options.Metrics,
		apiKey:          options.APIKey,
		rateLimitRPS:    options.RateLimitRPS,
		rateLimitBurst:  options.RateLimitBurst,
		maxInFlight:     options.MaxInFlight,
		inFlightTimeout: inFlightTimeout,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/openapi.json", rt.openAPISpec)
	mux.HandleFunc("/v1/docs", rt.uploadDocument)
	mux.HandleFunc("/v1/docs/", rt.getDocumentByID)
	mux.HandleFunc("/v1/folders", rt.listFolders)
	mux.HandleFunc("/v1/folders/", rt.listFolderDocuments)
	mux.HandleFunc("/v1/search", rt.searchDocuments)
	mux.HandleFunc("/v1/actions/run", rt.runActions)
	mux.HandleFunc("/v1/webhooks/ocr", rt.processOCRWebhook)
	mux.HandleFunc("/v1/stats", rt.getStats)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = rt.authMiddleware(handler)
	if rt.maxInFlight > 0 {
		handler = backpressureMiddleware(handler, rt.maxInFlight, rt.inFlightTimeout)
	}
	if rt.rateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst)
	}
	if rt.metrics != nil {
		handler = rt.metrics.Middleware("api", handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
