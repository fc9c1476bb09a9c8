// README: Prometheus instrumentation for the conversational core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus collectors.
type Metrics struct {
	MessagesProcessed  prometheus.Counter
	IterationsDetected *prometheus.CounterVec
	AIParseFallbacks   prometheus.Counter
	PdfExtractionTier  *prometheus.CounterVec
	SearchDuration     prometheus.Histogram
	ErrorsCount        *prometheus.CounterVec
}

// New registers and returns the collectors under the given namespace.
func New(namespace string) *Metrics {
	return &Metrics{
		MessagesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_processed_total",
			Help:      "The total number of chat messages processed",
		}),
		IterationsDetected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "iterations_detected_total",
			Help:      "Classified iteration outcomes by type",
		}, []string{"type"}),
		AIParseFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_parse_fallbacks_total",
			Help:      "Times the deterministic parser replaced a failed AI parse",
		}),
		PdfExtractionTier: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pdf_extraction_tier_total",
			Help:      "PDF analysis outcomes by extraction tier",
		}, []string{"tier"}),
		SearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "supplier_search_duration_seconds",
			Help:      "Time spent in the supplier search fan-out",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
