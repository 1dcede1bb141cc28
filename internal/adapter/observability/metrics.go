package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI requests by provider and operation",
		},
		[]string{"provider", "operation"},
	)
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "AI request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"provider", "operation"},
	)

	// ChatOutcomesTotal counts answered questions by pipeline outcome
	// (boundary, canned, out_of_scope, no_context, empty_input, generated).
	ChatOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_outcomes_total",
			Help: "Total number of chat turns by pipeline outcome",
		},
		[]string{"outcome"},
	)
	ChatStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_pipeline_stage_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.05, 0.25, 1, 2, 5, 10},
		},
		[]string{"stage"},
	)
	RetrievedChunks = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_retrieved_chunks",
			Help:    "Number of chunks handed to the generator per turn",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)
)

// InitMetrics registers all collectors once per process.
func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(AIRequestsTotal)
	prometheus.MustRegister(AIRequestDuration)
	prometheus.MustRegister(ChatOutcomesTotal)
	prometheus.MustRegister(ChatStageDuration)
	prometheus.MustRegister(RetrievedChunks)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		method := r.Method
		status := ww.Status()
		HTTPRequestsTotal.WithLabelValues(route, method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, method).Observe(dur)
	})
}

// ObserveStage records the duration of one pipeline stage.
func ObserveStage(stage string, start time.Time) {
	ChatStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// CountOutcome increments the outcome counter for one completed turn.
func CountOutcome(outcome string) {
	ChatOutcomesTotal.WithLabelValues(outcome).Inc()
}
