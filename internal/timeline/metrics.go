package timeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timeline_feed_requests_total",
			Help: "Total number of feed requests",
		},
		[]string{"feed", "viewer"},
	)

	feedQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "timeline_feed_query_duration_seconds",
			Help:    "Time spent assembling a feed page",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"feed"},
	)

	feedPageSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "timeline_feed_page_size",
			Help:    "Distribution of returned feed page sizes",
			Buckets: prometheus.LinearBuckets(0, 5, 11),
		},
	)
)
