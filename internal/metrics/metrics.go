package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "Duration of HTTP requests in ms",
			Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600, 3200},
		},
		[]string{"method", "path"},
	)

	CartActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_actions_total",
			Help: "Cart actions dispatched, by action",
		},
		[]string{"action"},
	)

	CheckoutSubmits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_submits_total",
			Help: "Final checkout submissions, by payment method and result",
		},
		[]string{"method", "result"},
	)

	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Login and register attempts, by operation and result",
		},
		[]string{"op", "result"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Sessions currently held in memory",
		},
	)
)
