// Package observability holds the Prometheus metrics of the correction service.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "textfix"

// Metrics groups the service collectors. Create one per registry.
type Metrics struct {
	// RequestsTotal counts HTTP requests by route and status code
	RequestsTotal *prometheus.CounterVec

	// RequestDuration tracks HTTP latency by route
	RequestDuration *prometheus.HistogramVec

	// WordsCorrected counts tokens rewritten by the spelling pass
	WordsCorrected prometheus.Counter

	// GrammarErrors counts failed grammar engine calls
	GrammarErrors prometheus.Counter

	// GrammarDuration tracks grammar engine latency
	GrammarDuration prometheus.Histogram

	// DictionaryTerms is the number of terms in the spelling index
	DictionaryTerms prometheus.Gauge

	// LexiconWords is the number of words in the lexicon
	LexiconWords prometheus.Gauge
}

// NewMetrics registers the service metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route and status code",
		}, []string{"route", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		}, []string{"route"}),

		WordsCorrected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "spelling",
			Name:      "words_corrected_total",
			Help:      "Total words rewritten by the spelling pass",
		}),

		GrammarErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "grammar",
			Name:      "errors_total",
			Help:      "Total failed grammar engine calls",
		}),

		GrammarDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "grammar",
			Name:      "duration_seconds",
			Help:      "Grammar engine call duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		}),

		DictionaryTerms: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "spelling",
			Name:      "dictionary_terms",
			Help:      "Number of terms in the spelling index",
		}),

		LexiconWords: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "spelling",
			Name:      "lexicon_words",
			Help:      "Number of words in the lexicon",
		}),
	}
}
