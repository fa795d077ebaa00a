package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	APILatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "martrade",
			Subsystem: "api",
			Name:      "latency_seconds",
			Help:      "Latency of market data endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	APIErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "martrade",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Errors by market data endpoint",
		},
		[]string{"endpoint"},
	)

	APIDegraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "martrade",
			Subsystem: "api",
			Name:      "degraded_total",
			Help:      "Responses served without live upstream data",
		},
		[]string{"endpoint"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(APILatency, APIErrors, APIDegraded)
	})
}
