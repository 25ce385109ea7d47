package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cometstats_cache_hits_total",
		Help: "Analytics responses served from the cache",
	}, []string{"kind"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cometstats_cache_misses_total",
		Help: "Analytics responses recomputed from the store",
	}, []string{"kind"})

	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cometstats_datasource_query_seconds",
		Help:    "Aggregation query latency against the store",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
