package twelvedata

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	drepo "MarTrade/internal/domain/repository"
	"MarTrade/internal/service/ratelimit"
	xhttp "MarTrade/pkg/http"
	applogger "MarTrade/pkg/logger"
	"MarTrade/pkg/metrics"
)

const (
	DefaultBaseURL  = "https://api.twelvedata.com"
	DefaultInterval = time.Second

	EndpointQuote      = "/quote"
	EndpointTimeSeries = "/time_series"
	EndpointChart      = "/chart"

	// MaxChartOutputSize is the largest outputsize the chart endpoint accepts.
	MaxChartOutputSize = 350
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

//go:generate mockgen -source=client.go -destination=mock_doer_test.go -package=twelvedata_test Doer

// Doer sends an outbound GET request.
type Doer interface {
	SendRequest(ctx context.Context, opts *xhttp.RequestOptions) (*http.Response, error)
}

// Client is a rate-limited TwelveData REST client. Failures of any kind come
// back as ok=false; they are logged and counted here.
type Client struct {
	baseURL  string
	apiKey   string
	doer     Doer
	throttle *ratelimit.Throttle
	log      *applogger.Logger
	metrics  drepo.Metrics
}

// Option configures Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithDoer replaces the HTTP transport.
func WithDoer(d Doer) Option {
	return func(c *Client) { c.doer = d }
}

// WithThrottle replaces the request throttle.
func WithThrottle(t *ratelimit.Throttle) Option {
	return func(c *Client) { c.throttle = t }
}

// WithLogger sets the logger.
func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m drepo.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a client that spaces requests DefaultInterval apart unless a
// throttle is supplied.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.doer == nil {
		c.doer = xhttp.NewClient(xhttp.WithTimeout(10 * time.Second))
	}
	if c.throttle == nil {
		c.throttle = ratelimit.NewThrottle(DefaultInterval)
	}
	if c.log == nil {
		c.log = applogger.Nop()
	}
	if c.metrics == nil {
		c.metrics = metrics.Nop{}
	}
	return c
}

// Fetch issues a throttled GET to endpoint and returns the body of a 200 response.
func (c *Client) Fetch(ctx context.Context, endpoint string, params map[string]string) ([]byte, bool) {
	q := make(map[string]string, len(params)+1)
	for k, v := range params {
		q[k] = v
	}
	q["apikey"] = c.apiKey

	var (
		body []byte
		ok   bool
	)
	start := time.Now()
	if err := c.throttle.Do(ctx, func(ctx context.Context) {
		body, ok = c.get(ctx, endpoint, q)
	}); err != nil {
		c.log.Debug("twelvedata request abandoned",
			applogger.String("endpoint", endpoint),
			applogger.Error(err),
		)
		c.metrics.RecordUpstream(endpoint, false)
		return nil, false
	}
	c.metrics.RecordUpstream(endpoint, ok)
	c.metrics.RecordLatency("upstream"+endpoint, time.Since(start).Seconds())
	return body, ok
}

func (c *Client) get(ctx context.Context, endpoint string, q map[string]string) ([]byte, bool) {
	resp, err := c.doer.SendRequest(ctx, &xhttp.RequestOptions{
		URL:         c.baseURL + endpoint,
		QueryParams: q,
	})
	if err != nil {
		c.log.Warn("twelvedata request failed",
			applogger.String("endpoint", endpoint),
			applogger.Error(err),
		)
		return nil, false
	}
	body, err := xhttp.ReadBody(resp)
	if err != nil {
		c.log.Warn("twelvedata read failed",
			applogger.String("endpoint", endpoint),
			applogger.Error(err),
		)
		return nil, false
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Warn("twelvedata non-200 response",
			applogger.String("endpoint", endpoint),
			applogger.Int("status", resp.StatusCode),
		)
		return nil, false
	}
	return body, true
}

// Quote fetches the raw quote payload.
func (c *Client) Quote(ctx context.Context, symbol, exchange string) ([]byte, bool) {
	return c.Fetch(ctx, EndpointQuote, instrument(symbol, exchange))
}

// TimeSeries fetches the raw OHLCV payload.
func (c *Client) TimeSeries(ctx context.Context, symbol, exchange string, interval drepo.Interval, size int) ([]byte, bool) {
	p := instrument(symbol, exchange)
	p["interval"] = string(interval)
	p["outputsize"] = strconv.Itoa(size)
	p["format"] = "JSON"
	return c.Fetch(ctx, EndpointTimeSeries, p)
}

// Chart fetches a rendered PNG chart. Bodies without a PNG signature are rejected.
func (c *Client) Chart(ctx context.Context, symbol, exchange string, cp drepo.ChartParams) ([]byte, bool) {
	p := instrument(symbol, exchange)
	p["interval"] = cp.Interval
	p["type"] = cp.Type
	p["theme"] = cp.Theme
	p["outputsize"] = strconv.Itoa(ClampChartSize(cp.OutputSize))
	if len(cp.Studies) > 0 {
		p["studies"] = strings.Join(cp.Studies, ",")
	}

	body, ok := c.Fetch(ctx, EndpointChart, p)
	if !ok {
		return nil, false
	}
	if !bytes.HasPrefix(body, pngSignature) {
		c.log.Warn("twelvedata chart is not a png",
			applogger.String("symbol", symbol),
			applogger.Int("bytes", len(body)),
		)
		return nil, false
	}
	return body, true
}

// ClampChartSize bounds n to [1, MaxChartOutputSize].
func ClampChartSize(n int) int {
	switch {
	case n <= 0:
		return 1
	case n > MaxChartOutputSize:
		return MaxChartOutputSize
	}
	return n
}

func instrument(symbol, exchange string) map[string]string {
	p := map[string]string{"symbol": symbol}
	if exchange != "" {
		p["exchange"] = exchange
	}
	return p
}

var _ drepo.Upstream = (*Client)(nil)
