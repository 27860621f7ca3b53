package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval pipeline Prometheus metrics.
var (
	RelatedQuestions = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "related_questions",
			Help:      "Number of related questions returned per request",
			Buckets:   []float64{0, 1, 2, 3, 5},
		},
	)

	ContextClassificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "context_classifications_total",
			Help:      "Top-hit classifications by support context",
		},
		[]string{"context"},
	)

	KnowledgeRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "knowledge_records",
			Help:      "Number of records written by the last knowledge load",
		},
	)
)
