package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "demo"

// Collector records HTTP request metrics into an injected registry
type Collector struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	exceptions      *prometheus.CounterVec
	inFlight        prometheus.Gauge
	info            *prometheus.GaugeVec
}

// NewRegistry creates a registry with the Go runtime and process collectors
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// NewCollector creates a new Prometheus metrics collector registered on reg.
// It panics if the metrics are already registered on reg.
func NewCollector(reg prometheus.Registerer, version string) *Collector {
	factory := promauto.With(reg)

	c := &Collector{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path", "status"},
		),
		exceptions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_request_exceptions_total",
				Help:      "Total number of HTTP requests that raised an exception",
			},
			[]string{"method", "status"},
		),
		inFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being served",
			},
		),
		info: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "app_info",
				Help:      "Application information",
			},
			[]string{"version"},
		),
	}

	c.info.WithLabelValues(version).Set(1)

	return c
}

// ObserveRequest records a completed HTTP request
func (c *Collector) ObserveRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	c.requests.WithLabelValues(method, path, code).Inc()
	c.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

// IncException records a request whose handler panicked
func (c *Collector) IncException(method string, status int) {
	c.exceptions.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// IncInFlight marks the start of a request
func (c *Collector) IncInFlight() {
	c.inFlight.Inc()
}

// DecInFlight marks the end of a request
func (c *Collector) DecInFlight() {
	c.inFlight.Dec()
}
