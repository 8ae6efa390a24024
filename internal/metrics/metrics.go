package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_login_attempts_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_draft_submissions_total",
		Help: "Draft submissions by mode and result.",
	}, []string{"mode", "result"})

	Records = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roster_records",
		Help: "Number of records currently held.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"method", "route", "code"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roster_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)
