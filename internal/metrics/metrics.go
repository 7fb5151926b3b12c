package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Selection results.
const (
	ResultOK        = "ok"
	ResultEmpty     = "empty"
	ResultNotHangul = "not_hangul"
)

// Web server metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "josa_http_requests_total",
		Help: "HTTP requests by josa endpoint, method and status code",
	}, []string{"endpoint", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "josa_http_request_duration_seconds",
		Help:    "HTTP request duration by josa endpoint in seconds",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	}, []string{"endpoint", "method"})

	RateLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "josa_rate_limit_hits_total",
		Help: "Total rate limit rejections",
	})
)

// Selector metrics.
var (
	SelectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "josa_selections_total",
		Help: "Josa selections by category and result",
	}, []string{"category", "result"})

	BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "josa_batch_size",
		Help:    "Number of nouns per batch request",
		Buckets: []float64{1, 5, 10, 50, 100, 500, 1000},
	})
)
