package coverage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricNamespace = "pinbump_coverage"

const (
	pathLabel     = "path"
	resultLabel   = "result"
	decisionLabel = "decision"
)

const (
	resultLabelFailedVal = "failed"
)

type metricCollector struct {
	pathResults *prometheus.CounterVec
	decisions   *prometheus.CounterVec
}

var metrics = newMetricCollector()

func newMetricCollector() *metricCollector {
	return &metricCollector{
		pathResults: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      "path_checks_total",
				Help:      "count of installation checks per check path and result",
			},
			[]string{pathLabel, resultLabel},
		),
		decisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      "decisions_total",
				Help:      "count of installation check decisions",
			},
			[]string{decisionLabel},
		),
	}
}

func (m *metricCollector) PathAnswered(path string, d Decision) {
	m.pathResults.WithLabelValues(path, d.String()).Inc()
}

func (m *metricCollector) PathFailed(path string) {
	m.pathResults.WithLabelValues(path, resultLabelFailedVal).Inc()
}

func (m *metricCollector) DecisionInc(d Decision) {
	m.decisions.WithLabelValues(d.String()).Inc()
}
