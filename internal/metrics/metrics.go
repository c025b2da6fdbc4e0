package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Lookups           *prometheus.CounterVec
	RemoteErrors      prometheus.Counter
	RemoteSeconds     prometheus.Histogram
	FallbackErrors    prometheus.Counter
	LocationFallbacks *prometheus.CounterVec
	Sessions          *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Lookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "vetscout_lookups_total",
			Help: "Total number of nearby vet lookups, by the source that produced the result.",
		}, []string{"source"}),
		RemoteErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "vetscout_remote_search_errors_total",
			Help: "Total number of failed or empty remote vet searches.",
		}),
		RemoteSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "vetscout_remote_search_duration_seconds",
			Help:    "Duration of requests to the remote vet search API.",
			Buckets: prometheus.DefBuckets,
		}),
		FallbackErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "vetscout_fallback_errors_total",
			Help: "Total number of lookups where the fallback dataset could not be loaded.",
		}),
		LocationFallbacks: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "vetscout_location_fallbacks_total",
			Help: "Total number of times the default location replaced the platform position.",
		}, []string{"reason"}),
		Sessions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "vetscout_session_events_total",
			Help: "Total number of login and logout events.",
		}, []string{"event"}),
	}
}
