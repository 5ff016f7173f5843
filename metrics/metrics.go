package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the verse store and the
// remote text client. A nil *Metrics is valid and records nothing.
//
// Metrics:
//   - biblememo_fetch_requests_total{outcome} - remote verse requests by outcome
//   - biblememo_fetch_request_duration_seconds - remote verse request latency
//   - biblememo_store_operations_total{op,result} - verse store mutations
//   - biblememo_verses - verses currently in the store
type Metrics struct {
	FetchRequestsTotal   *prometheus.CounterVec
	FetchRequestDuration prometheus.Histogram
	StoreOperationsTotal *prometheus.CounterVec
	Verses               prometheus.Gauge
}

// Fetch outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeHTTPError = "http_error"
	OutcomeTransport = "transport_error"
	OutcomeDecode    = "decode_error"
)

// New registers the collectors with reg. Pass prometheus.NewRegistry() in
// tests to avoid duplicate registration against the default registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		FetchRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "biblememo_fetch_requests_total",
				Help: "Total number of remote verse text requests",
			},
			[]string{"outcome"},
		),
		FetchRequestDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "biblememo_fetch_request_duration_seconds",
				Help:    "Duration of remote verse text requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		StoreOperationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "biblememo_store_operations_total",
				Help: "Total number of verse store operations",
			},
			[]string{"op", "result"},
		),
		Verses: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "biblememo_verses",
				Help: "Number of verses in the store",
			},
		),
	}
}

// ObserveFetch records one remote request.
func (m *Metrics) ObserveFetch(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchRequestsTotal.WithLabelValues(outcome).Inc()
	m.FetchRequestDuration.Observe(d.Seconds())
}

// StoreOp records one store operation. err == nil counts as "ok".
func (m *Metrics) StoreOp(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.StoreOperationsTotal.WithLabelValues(op, result).Inc()
}

// SetVerses records the current collection size.
func (m *Metrics) SetVerses(n int) {
	if m == nil {
		return
	}
	m.Verses.Set(float64(n))
}
