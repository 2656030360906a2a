package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the attendance
// engine: HTTP traffic plus submission outcomes and side-effect failures.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	submissionTotal *prometheus.CounterVec
	sideEffectFails *prometheus.CounterVec
}

// NewMetricsService registers the collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	submissionTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_submissions_total",
		Help: "Attendance submission attempts by outcome",
	}, []string{"outcome"})

	sideEffectFails := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_side_effect_failures_total",
		Help: "Failed best-effort side effects by kind",
	}, []string{"kind"})

	registry.MustRegister(requestDuration, requestTotal, submissionTotal, sideEffectFails)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		submissionTotal: submissionTotal,
		sideEffectFails: sideEffectFails,
	}
}

// Handler exposes the scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, fmt.Sprintf("%d", status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveSubmission records a submission attempt outcome: accepted, rejected
// or failed.
func (s *MetricsService) ObserveSubmission(outcome string) {
	s.submissionTotal.WithLabelValues(outcome).Inc()
}

// ObserveSideEffectFailure records a failed notification or export.
func (s *MetricsService) ObserveSideEffectFailure(kind string) {
	s.sideEffectFails.WithLabelValues(kind).Inc()
}
