package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	RowsLoaded        prometheus.Counter
	CodesResolved     prometheus.Counter
	CodesMissing      prometheus.Counter
	RoutesSearched    prometheus.Counter
	OffersFound       prometheus.Counter
	NotificationsSent prometheus.Counter
	PassDuration      prometheus.Histogram
	ErrorsCount       *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics registered on reg.
// Pass prometheus.DefaultRegisterer to expose them through promhttp.Handler().
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RowsLoaded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_loaded_total",
			Help:      "The total number of destination rows loaded from the row store",
		}),
		CodesResolved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "codes_resolved_total",
			Help:      "The total number of missing IATA codes filled in",
		}),
		CodesMissing: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "codes_missing_total",
			Help:      "The total number of cities the location lookup could not resolve",
		}),
		RoutesSearched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routes_searched_total",
			Help:      "The total number of routes sent to the flight offer search",
		}),
		OffersFound: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_found_total",
			Help:      "The total number of searches that returned an offer",
		}),
		NotificationsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "The total number of deal alerts sent to WhatsApp",
		}),
		PassDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Time taken by one check pass",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
