package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts requests by method and outcome ("ok" or a reason code).
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graph_api_requests_total",
		Help: "Total API requests by method and outcome",
	}, []string{"method", "outcome"})

	// requestDuration tracks time spent serving a request, database included.
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "graph_api_request_duration_seconds",
		Help:    "API request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
	}, []string{"method"})
)
