// Package feedback implements the outcome sinks the pipeline reports to.
package feedback

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bryanwahyu/satyacheck/internal/domain/analysis"
)

const (
	MetricsNamespace = "satyacheck"
	MetricsSubsystem = "pipeline"
)

// Metrics turns outcomes into Prometheus series.
type Metrics struct {
	OutcomesTotal   *prometheus.CounterVec
	VerdictsTotal   *prometheus.CounterVec
	DurationSeconds *prometheus.HistogramVec
}

var _ analysis.OutcomeSink = (*Metrics)(nil)

// NewMetrics registers the pipeline metrics on reg, or the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		OutcomesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: MetricsSubsystem,
				Name:      "outcomes_total",
				Help:      "Pipeline operations by result",
			},
			[]string{"operation", "status", "error_kind"},
		),
		VerdictsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: MetricsSubsystem,
				Name:      "verdicts_total",
				Help:      "Verdicts produced by successful operations",
			},
			[]string{"operation", "verdict"},
		),
		DurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: MetricsNamespace,
				Subsystem: MetricsSubsystem,
				Name:      "operation_duration_seconds",
				Help:      "Duration of pipeline operations in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~100s
			},
			[]string{"operation"},
		),
	}
}

func (m *Metrics) Record(_ context.Context, o analysis.Outcome) {
	status := "success"
	if !o.Success {
		status = "failure"
	}
	m.OutcomesTotal.WithLabelValues(o.Operation, status, o.ErrorKind).Inc()
	if o.Success && o.Verdict != "" {
		m.VerdictsTotal.WithLabelValues(o.Operation, string(o.Verdict)).Inc()
	}
	if o.Duration > 0 {
		m.DurationSeconds.WithLabelValues(o.Operation).Observe(o.Duration.Seconds())
	}
}
