package repository

import (
	"context"

	"MarTrade/internal/domain/models"
)

// ChartParams are the upstream chart endpoint parameters other than symbol/exchange.
type ChartParams struct {
	Interval   string
	Type       string
	Theme      string
	Studies    []string
	OutputSize int
}

// Upstream is the raw market data API. Every call returns ok=false instead of an error
// when no usable body was received.
type Upstream interface {
	Quote(ctx context.Context, symbol, exchange string) ([]byte, bool)
	TimeSeries(ctx context.Context, symbol, exchange string, interval Interval, size int) ([]byte, bool)
	Chart(ctx context.Context, symbol, exchange string, p ChartParams) ([]byte, bool)
}

// QuotePublisher fans quote snapshots out to downstream consumers.
type QuotePublisher interface {
	Publish(ctx context.Context, q models.Quote) error
	Close() error
}

// Metrics records data-access outcomes.
type Metrics interface {
	RecordUpstream(endpoint string, ok bool)
	RecordPublish(code string, ok bool)
	RecordFallback(code string)
	RecordLastPrice(code string, price float64)
	RecordLatency(op string, seconds float64)
}
