package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "blog_section"

var (
	// FetchTotal counts blog API reads by result: ok, error.
	FetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_total",
		Help:      "Blog API fetches by result.",
	}, []string{"result"})

	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Blog API fetch latency.",
		Buckets:   prometheus.DefBuckets,
	})

	ViewsMounted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "views_mounted_total",
		Help:      "Section views mounted.",
	})

	// LateResponses counts fetch results discarded because the view was
	// already unmounted.
	LateResponses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "late_responses_total",
		Help:      "Fetch results dropped after unmount.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
