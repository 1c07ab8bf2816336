package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OperationMetrics records the outcome of service operations.
type OperationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

// Registry owns the prometheus collectors of the process.
type Registry struct {
	reg      *prometheus.Registry
	attempts *prometheus.CounterVec
	success  *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRegistry creates a dedicated registry with Go and process collectors.
func NewRegistry(namespace string) *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	labels := []string{"service", "operation"}
	r := &Registry{
		reg: reg,
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_attempts_total",
			Help:      "Number of service operations started.",
		}, labels),
		success: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_success_total",
			Help:      "Number of service operations that completed without an infrastructure error.",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failures_total",
			Help:      "Number of service operations that failed or panicked.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, labels),
	}
	reg.MustRegister(r.attempts, r.success, r.failures, r.duration)
	return r
}

// Prometheus exposes the underlying registry for extra collectors.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.reg
}

// Handler serves the registry in the prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

func (r *Registry) RecordOperationAttempt(_ context.Context, operation, service string) {
	r.attempts.WithLabelValues(service, operation).Inc()
}

func (r *Registry) RecordOperationSuccess(_ context.Context, operation, service string) {
	r.success.WithLabelValues(service, operation).Inc()
}

func (r *Registry) RecordOperationFailure(_ context.Context, operation, service string) {
	r.failures.WithLabelValues(service, operation).Inc()
}

func (r *Registry) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	r.duration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

type noopMetrics struct{}

// NewNoopMetrics returns metrics that discard everything.
func NewNoopMetrics() OperationMetrics {
	return noopMetrics{}
}

func (noopMetrics) RecordOperationAttempt(context.Context, string, string)                 {}
func (noopMetrics) RecordOperationSuccess(context.Context, string, string)                 {}
func (noopMetrics) RecordOperationFailure(context.Context, string, string)                 {}
func (noopMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}

var (
	_ OperationMetrics = (*Registry)(nil)
	_ OperationMetrics = noopMetrics{}
)
