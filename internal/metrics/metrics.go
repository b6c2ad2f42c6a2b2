package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	requestDuration *prometheus.HistogramVec
	bookingsCreated prometheus.Counter
	bookingConflicts prometheus.Counter
}

// New registers the collectors on a fresh registry and returns them together
// with the /metrics handler.
func New() (*Metrics, gin.HandlerFunc) {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method, path and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		bookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Number of bookings created.",
		}),
		bookingConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "booking_conflicts_total",
			Help: "Number of booking requests rejected because a room was unavailable.",
		}),
	}

	return m, gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}

// Middleware observes per-request latency.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.requestDuration.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// BookingCreated increments the created-bookings counter.
func (m *Metrics) BookingCreated(n int) {
	m.bookingsCreated.Add(float64(n))
}

// BookingConflict increments the conflict counter.
func (m *Metrics) BookingConflict() {
	m.bookingConflicts.Inc()
}
