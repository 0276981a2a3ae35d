package middleware

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMiddleware records request counts, durations and upload sizes per route pattern.
type PrometheusMiddleware struct {
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	uploadSize      *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

func NewPrometheusMiddleware(reg prometheus.Registerer) (*PrometheusMiddleware, error) {
	m := &PrometheusMiddleware{
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests processed.",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency in seconds.",
				// PDF extraction and model calls run well past the default buckets.
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"method", "path"},
		),
		uploadSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_upload_size_bytes",
				Help:    "Size of multipart request bodies.",
				Buckets: prometheus.ExponentialBuckets(16<<10, 4, 6),
			},
			[]string{"path"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Requests currently being served.",
		}),
	}

	for _, c := range []prometheus.Collector{m.requestCount, m.requestDuration, m.uploadSize, m.inFlight} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *PrometheusMiddleware) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skipMetrics(c.Path()) {
			return c.Next()
		}

		m.inFlight.Inc()
		defer m.inFlight.Dec()

		start := time.Now()
		err := c.Next()

		// Route pattern (/api/resumes/:id), raw path when no route matched.
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		m.requestCount.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
			m.uploadSize.WithLabelValues(path).Observe(float64(len(c.Request().Body())))
		}

		return err
	}
}

func skipMetrics(path string) bool {
	return path == "/metrics" || strings.HasPrefix(path, "/swagger")
}
