package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	TransitionsApplied *prometheus.CounterVec
	CertificatesIssued *prometheus.CounterVec
	AllocationRetries  prometheus.Counter
	ReconcilerRepairs  prometheus.Counter
	TransitionTime     prometheus.Histogram
	ErrorsCount        *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		TransitionsApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_applied_total",
			Help:      "The total number of applied status transitions",
		}, []string{"status"}),
		CertificatesIssued: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "certificates_issued_total",
			Help:      "The total number of issued certificates",
		}, []string{"type"}),
		AllocationRetries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocation_retries_total",
			Help:      "The total number of certificate number allocations that hit a transient conflict",
		}),
		ReconcilerRepairs: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciler_repairs_total",
			Help:      "The total number of certificate links repaired by the reconciler",
		}),
		TransitionTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transition_time_seconds",
			Help:      "Time taken to apply a status transition",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
