package batch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricNamespace = "pinbump_batch"

const statusLabel = "status"

type metricCollector struct {
	outcomes    *prometheus.CounterVec
	runDuration prometheus.Histogram
}

var metrics = newMetricCollector()

func newMetricCollector() *metricCollector {
	return &metricCollector{
		outcomes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      "outcomes_total",
				Help:      "count of processed repositories per outcome status",
			},
			[]string{statusLabel},
		),
		runDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricNamespace,
				Name:      "run_duration_seconds",
				Help:      "duration of batch runs",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
	}
}

func (m *metricCollector) OutcomeInc(s Status) {
	m.outcomes.WithLabelValues(s.String()).Inc()
}

func (m *metricCollector) RunFinished(s *Stats) {
	m.runDuration.Observe(s.EndTime.Sub(s.StartTime).Seconds())
}
