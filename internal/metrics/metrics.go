package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route, method and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status"})

	ReservationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_reservations_total",
		Help: "Successful reservations.",
	})

	CancellationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_cancellations_total",
		Help: "Successful cancellations.",
	})

	CapacityRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_capacity_rejections_total",
		Help: "Reservations rejected for insufficient seats.",
	})

	PNRCollisionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_pnr_collisions_total",
		Help: "PNR generation attempts that collided with an existing booking.",
	})
)

// Middleware records request latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestDuration.WithLabelValues(
			route,
			c.Request.Method,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry for the /metrics route.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
