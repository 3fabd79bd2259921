package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels used by ClientMetrics.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// ClientMetrics tracks merchant API calls issued by the order client.
type ClientMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

// NewClientMetrics registers the client collectors with reg.
// A nil reg falls back to the default registerer.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout",
		Subsystem: "merchant_api",
		Name:      "requests_total",
		Help:      "Total number of merchant API requests.",
	}, []string{"operation", "outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "checkout",
		Subsystem: "merchant_api",
		Name:      "request_duration_ms",
		Help:      "Merchant API request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"operation"})

	reg.MustRegister(requests, latency)
	return &ClientMetrics{Requests: requests, LatencyMS: latency}
}

// Observe records one call. Safe on a nil receiver.
func (m *ClientMetrics) Observe(operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.Requests.WithLabelValues(operation, outcome).Inc()
	m.LatencyMS.WithLabelValues(operation).Observe(float64(time.Since(started).Milliseconds()))
}

// WriteTextfile writes everything g gathers to path in the text exposition
// format read by the node exporter textfile collector. Parent directories are
// created as needed.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create metrics dir: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
