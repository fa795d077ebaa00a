package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	upstreamTotal  *prometheus.CounterVec
	fallbacksTotal *prometheus.CounterVec
	publishedTotal *prometheus.CounterVec
	lastPrice      *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
}

// New creates a Prometheus metrics recorder registered on the default registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder registered on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		upstreamTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "martrade_upstream_requests_total",
				Help: "Upstream market data requests by endpoint and outcome",
			},
			[]string{"endpoint", "result"},
		),
		fallbacksTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "martrade_quote_fallbacks_total",
				Help: "Quotes served from the fallback snapshot",
			},
			[]string{"code"},
		),
		publishedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "martrade_quotes_published_total",
				Help: "Quote events published to the message bus",
			},
			[]string{"code", "result"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "martrade_last_price",
				Help: "Last served price for an instrument",
			},
			[]string{"code"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "martrade_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordUpstream counts one upstream call.
func (r *Recorder) RecordUpstream(endpoint string, ok bool) {
	r.upstreamTotal.WithLabelValues(endpoint, result(ok)).Inc()
}

// RecordPublish counts one quote event publish attempt.
func (r *Recorder) RecordPublish(code string, ok bool) {
	r.publishedTotal.WithLabelValues(code, result(ok)).Inc()
}

// RecordFallback counts a quote served from the fallback snapshot.
func (r *Recorder) RecordFallback(code string) {
	r.fallbacksTotal.WithLabelValues(code).Inc()
}

// RecordLastPrice records the last price for a code.
func (r *Recorder) RecordLastPrice(code string, price float64) {
	r.lastPrice.WithLabelValues(code).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "fail"
}

// Nop discards all measurements.
type Nop struct{}

func (Nop) RecordUpstream(string, bool)     {}
func (Nop) RecordPublish(string, bool)      {}
func (Nop) RecordFallback(string)           {}
func (Nop) RecordLastPrice(string, float64) {}
func (Nop) RecordLatency(string, float64)   {}
