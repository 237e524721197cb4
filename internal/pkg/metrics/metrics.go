package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "landsearch_http_requests_total",
		Help: "Total HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})
	HTTPRequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "landsearch_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	}, []string{"method", "route"})
	ParcelsProcessedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "landsearch_parcels_processed_total",
		Help: "Parcels run through the geometry builder by outcome",
	}, []string{"outcome"})
	PointsDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "landsearch_points_dropped_total",
		Help: "Survey or boundary points dropped during coordinate conversion",
	})
	SearchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "landsearch_searches_total",
		Help: "Coordinate searches by mode",
	}, []string{"mode"})
	SearchDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "landsearch_search_duration_ms",
		Help:    "Coordinate search duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	}, []string{"mode"})
	SearchCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "landsearch_search_cache_hits_total",
		Help: "Search responses served from the redis cache",
	})
	SearchCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "landsearch_search_cache_misses_total",
		Help: "Search cache misses",
	})
	StreamEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "landsearch_stream_events_total",
		Help: "Extraction stream events by status",
	}, []string{"status"})
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDurationMs)
	prometheus.MustRegister(ParcelsProcessedTotal)
	prometheus.MustRegister(PointsDroppedTotal)
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchDurationMs)
	prometheus.MustRegister(SearchCacheHitsTotal)
	prometheus.MustRegister(SearchCacheMissesTotal)
	prometheus.MustRegister(StreamEventsTotal)
}

// Handler exposes the registered metrics for Prometheus scraping;
// mounted on /metrics by the HTTP server.
func Handler() http.Handler { return promhttp.Handler() }
