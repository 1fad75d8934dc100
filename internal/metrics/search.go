package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchd",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"language", "ranker"},
	)

	SearchDegradedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchd",
			Name:      "search_degraded_total",
			Help:      "Search requests served in a degraded mode",
		},
		[]string{"reason"}, // "lexical_only"
	)

	SearchCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "searchd",
			Name:      "search_candidates",
			Help:      "Candidates retrieved per search request",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 200},
		},
	)

	SuggestSourceFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchd",
			Name:      "suggest_source_failures_total",
			Help:      "Autosuggest source lookups that failed and were skipped",
		},
		[]string{"source"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDegradedTotal)
	prometheus.MustRegister(SearchCandidates)
	prometheus.MustRegister(SuggestSourceFailuresTotal)
	searchMetricsRegistered = true
}
