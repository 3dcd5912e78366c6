package utils

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector tracks request counts and operation latencies.
type MetricsCollector struct {
	registry *prometheus.Registry

	requestsTotal     *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

func NewMetricsCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()

	mc := &MetricsCollector{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relawanhub_requests_total",
			Help: "Total number of HTTP requests handled, by route.",
		}, []string{"route"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relawanhub_errors_total",
			Help: "Total number of failed operations, by error code.",
		}, []string{"code"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "relawanhub_operation_duration_seconds",
			Help:    "Latency of named operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	registry.MustRegister(mc.requestsTotal, mc.errorsTotal, mc.operationDuration)
	return mc
}

// Registry exposes the underlying registry for the /metrics endpoint.
func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}

func (mc *MetricsCollector) IncrementRequests(route string) {
	mc.requestsTotal.WithLabelValues(route).Inc()
}

func (mc *MetricsCollector) IncrementErrors(code string) {
	mc.errorsTotal.WithLabelValues(code).Inc()
}

func (mc *MetricsCollector) AddOperationLatency(operationName string, duration time.Duration) {
	mc.operationDuration.WithLabelValues(operationName).Observe(duration.Seconds())
}
