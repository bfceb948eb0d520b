package metrics

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	normalizationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendation_normalizations_total",
		Help: "Total AI responses normalized, by producing stage",
	}, []string{"source"})

	checkinsSubmittedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkins_submitted_total",
		Help: "Total weekly check-ins stored, by status",
	}, []string{"status"})

	normalizationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommendation_normalization_duration_ms",
		Help:    "Normalization duration in milliseconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50},
	})

	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests, by route and status class",
	}, []string{"route", "status"})
)

func init() {
	registry.MustRegister(
		normalizationsTotal,
		checkinsSubmittedTotal,
		normalizationDuration,
		httpRequestsTotal,
		collectors.NewGoCollector(),
	)
}

// IncNormalization counts one normalization outcome for the given source.
func IncNormalization(source string) {
	normalizationsTotal.WithLabelValues(source).Inc()
}

// IncCheckinSubmitted counts one stored check-in for the given status.
func IncCheckinSubmitted(status string) {
	checkinsSubmittedTotal.WithLabelValues(status).Inc()
}

// ObserveNormalizationDuration records how long a normalization took.
func ObserveNormalizationDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	normalizationDuration.Observe(float64(d) / float64(time.Millisecond))
}

// RegisterDBStats exports connection pool stats for db under dbName.
// Registering the same name twice is an error.
func RegisterDBStats(db *sql.DB, dbName string) error {
	return registry.Register(collectors.NewDBStatsCollector(db, dbName))
}

// Middleware counts requests by matched route and status class.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(route, statusClass(c.Writer.Status())).Inc()
	}
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
