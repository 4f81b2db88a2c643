package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"utest/pkg/unittest"
)

const (
	MetricsNamespace = "utest"
)

// Metrics records case outcomes of test runs in its own registry.
type Metrics struct {
	registry *prometheus.Registry

	casesTotal   *prometheus.CounterVec
	caseDuration *prometheus.HistogramVec
	droppedLogs  *prometheus.CounterVec
	runsTotal    *prometheus.CounterVec
	runDuration  *prometheus.GaugeVec
}

// New creates Metrics backed by a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		casesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "cases_total",
			Help:      "Count of executed test cases",
		}, []string{
			"suite",
			"result",
		}),
		caseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      "case_duration_seconds",
			Help:      "Duration of test cases",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{
			"suite",
		}),
		droppedLogs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "dropped_log_entries_total",
			Help:      "Captured log entries dropped because a case buffer was full",
		}, []string{
			"suite",
		}),
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "runs_total",
			Help:      "Count of suite runs",
		}, []string{
			"suite",
			"status",
		}),
		runDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last run of a suite",
		}, []string{
			"suite",
		}),
	}
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func resultLabel(tc *unittest.Case) string {
	switch {
	case tc.Passed():
		return "pass"
	case tc.Result() == unittest.ResultInvalidReturn:
		return "invalid"
	default:
		return "fail"
	}
}

// ObserveCase returns a completion callback recording each case of suite.
func (m *Metrics) ObserveCase(suite string) unittest.CompletionFunc {
	return func(_ unittest.Runner, tc *unittest.Case) {
		m.casesTotal.WithLabelValues(suite, resultLabel(tc)).Inc()
		m.caseDuration.WithLabelValues(suite).Observe(tc.Duration().Seconds())
		if buf := tc.Capture(); buf != nil && buf.Dropped() > 0 {
			m.droppedLogs.WithLabelValues(suite).Add(float64(buf.Dropped()))
		}
	}
}

// RecordRun records the outcome of a whole run.
func (m *Metrics) RecordRun(suite string, st unittest.Stats) {
	status := "pass"
	switch {
	case st.Executed < st.Total:
		status = "interrupted"
	case st.Failed > 0:
		status = "fail"
	}
	m.runsTotal.WithLabelValues(suite, status).Inc()
	m.runDuration.WithLabelValues(suite).Set(st.Duration.Seconds())
}

// WriteFile writes all metrics to path in the text exposition format, for
// the node exporter textfile collector.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
