package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"MarTrade/internal/domain/models"
	domrepo "MarTrade/internal/domain/repository"
	"MarTrade/internal/services/fallback"
	"MarTrade/internal/services/indicators"
	"MarTrade/internal/services/normalize"
	"MarTrade/internal/services/signals"
	"MarTrade/pkg/cache"
	applogger "MarTrade/pkg/logger"
	"MarTrade/pkg/metrics"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrNoQuote is returned for codes with neither a live quote nor a fallback snapshot.
	ErrNoQuote = errors.New("no quote available")
	// ErrNoChart is returned when the upstream did not produce a chart image.
	ErrNoChart = errors.New("no chart available")
)

// Resolver maps canonical codes to upstream identities.
type Resolver interface {
	Resolve(code string) (symbol, exchange string)
	IsSupported(code string) bool
	Supported() []string
	Name(code string) string
}

// FallbackSource serves last known quotes when the upstream cannot.
type FallbackSource interface {
	Quote(code string, now time.Time) (models.Quote, bool)
}

// MarketData is the entry point for quotes, series, indicators and signals.
// Quotes degrade to the fallback snapshot and series degrade to empty; the
// upstream is never allowed to fail a call for a supported code.
type MarketData struct {
	upstream  domrepo.Upstream
	symbols   Resolver
	fallback  FallbackSource
	charts    cache.Service
	chartTTL  time.Duration
	group     singleflight.Group
	publisher domrepo.QuotePublisher
	metrics   domrepo.Metrics
	log       *applogger.Logger
	now       func() time.Time
	summary   []string

	publishTimeout time.Duration
	chartTimeout   time.Duration
}

// Option configures MarketData.
type Option func(*MarketData)

// WithChartCache caches chart images for ttl.
func WithChartCache(c cache.Service, ttl time.Duration) Option {
	return func(m *MarketData) {
		m.charts = c
		m.chartTTL = ttl
	}
}

// WithFallback replaces the built-in fallback snapshots. It must cover every
// code the resolver supports.
func WithFallback(f FallbackSource) Option {
	return func(m *MarketData) { m.fallback = f }
}

// WithPublisher emits every served quote to p.
func WithPublisher(p domrepo.QuotePublisher) Option {
	return func(m *MarketData) { m.publisher = p }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r domrepo.Metrics) Option {
	return func(m *MarketData) { m.metrics = r }
}

// WithLogger sets the logger.
func WithLogger(l *applogger.Logger) Option {
	return func(m *MarketData) { m.log = l }
}

// WithSummaryCodes restricts GetMarketSummary to codes, in order. Empty
// means every supported code.
func WithSummaryCodes(codes []string) Option {
	return func(m *MarketData) {
		m.summary = nil
		for _, c := range codes {
			if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
				m.summary = append(m.summary, c)
			}
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(m *MarketData) { m.now = now }
}

func NewMarketData(upstream domrepo.Upstream, symbols Resolver, opts ...Option) *MarketData {
	m := &MarketData{
		upstream:       upstream,
		symbols:        symbols,
		fallback:       fallback.Default(),
		chartTTL:       5 * time.Minute,
		metrics:        metrics.Nop{},
		log:            applogger.Nop(),
		now:            time.Now,
		publishTimeout: 2 * time.Second,
		chartTimeout:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetQuote returns a live quote for code, or the fallback snapshot when the
// live quote is absent or carries no last price. It fails only when neither
// is available.
func (m *MarketData) GetQuote(ctx context.Context, code string) (models.Quote, error) {
	start := m.now()
	defer func() { m.metrics.RecordLatency("get_quote", m.now().Sub(start).Seconds()) }()

	symbol, exchange := m.symbols.Resolve(code)
	live, ok := m.liveQuote(ctx, code, symbol, exchange)

	q := live
	if !ok || !live.HasPrice() {
		fb, fbOK := m.fallback.Quote(code, m.now())
		switch {
		case fbOK:
			m.log.Info("serving fallback quote",
				applogger.String("code", code),
				applogger.Bool("live_payload", ok),
				applogger.Float64("last", fb.Last.Decimal.InexactFloat64()),
			)
			m.metrics.RecordFallback(code)
			q = fb
		case !ok:
			return models.Quote{}, fmt.Errorf("%w: %s", ErrNoQuote, code)
		}
	}

	if m.symbols.IsSupported(code) {
		q.Name = m.symbols.Name(code)
	}
	if q.Last.Valid {
		m.metrics.RecordLastPrice(code, q.Last.Decimal.InexactFloat64())
	}
	m.publish(ctx, q)
	return q, nil
}

func (m *MarketData) liveQuote(ctx context.Context, code, symbol, exchange string) (models.Quote, bool) {
	raw, ok := m.upstream.Quote(ctx, symbol, exchange)
	if !ok {
		return models.Quote{}, false
	}
	q, ok := normalize.Quote(code, raw, m.now())
	if !ok {
		m.log.Warn("quote payload unusable", applogger.String("code", code))
		return models.Quote{}, false
	}
	if q.Exchange == "" {
		q.Exchange = exchange
	}
	return q, true
}

func (m *MarketData) publish(ctx context.Context, q models.Quote) {
	if m.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.publishTimeout)
	defer cancel()
	err := m.publisher.Publish(ctx, q)
	m.metrics.RecordPublish(q.Code, err == nil)
	if err != nil {
		m.log.Warn("quote publish failed", applogger.String("code", q.Code), applogger.Error(err))
	}
}

// GetMarketSummary returns a quote for every summary code, by default every
// supported code in resolver order.
func (m *MarketData) GetMarketSummary(ctx context.Context) []models.Quote {
	codes := m.summary
	if len(codes) == 0 {
		codes = m.symbols.Supported()
	}
	out := make([]models.Quote, 0, len(codes))
	for _, code := range codes {
		q, err := m.GetQuote(ctx, code)
		if err != nil {
			m.log.Warn("summary quote skipped", applogger.String("code", code), applogger.Error(err))
			continue
		}
		out = append(out, q)
	}
	return out
}

// GetSeries returns ascending bars for code. An empty result means no data;
// there is no fallback series.
func (m *MarketData) GetSeries(ctx context.Context, code string, interval domrepo.Interval, size int) []models.Bar {
	start := m.now()
	defer func() { m.metrics.RecordLatency("get_series", m.now().Sub(start).Seconds()) }()

	if !domrepo.IsValidInterval(interval) {
		interval = domrepo.DefaultInterval()
	}
	if size <= 0 {
		size = 90
	}
	symbol, exchange := m.symbols.Resolve(code)
	raw, ok := m.upstream.TimeSeries(ctx, symbol, exchange, interval, size)
	if !ok {
		return []models.Bar{}
	}
	bars := normalize.Series(raw)
	if len(bars) == 0 {
		m.log.Info("series empty", applogger.String("code", code), applogger.String("interval", string(interval)))
	}
	return bars
}

// GetIndicators annotates bars with SMA and EMA for each window.
func (m *MarketData) GetIndicators(bars []models.Bar, windows []int) []models.IndicatorBar {
	return indicators.WithMovingAverages(bars, windows)
}

// GetIndicatorSet annotates bars with SMA for smaWindows and EMA for emaWindows.
func (m *MarketData) GetIndicatorSet(bars []models.Bar, smaWindows, emaWindows []int) []models.IndicatorBar {
	return indicators.Compute(bars, smaWindows, emaWindows)
}

// RankSignals returns the n strongest of in.
func (m *MarketData) RankSignals(in []models.Signal, n int) []models.Signal {
	return signals.TopN(in, n)
}

// Signals ranks the current candidate set and derives display fields.
func (m *MarketData) Signals(n int) []models.SignalView {
	ranked := m.RankSignals(signals.Candidates(m.now()), n)
	out := make([]models.SignalView, len(ranked))
	for i, s := range ranked {
		out[i] = s.View()
	}
	return out
}

// Performance returns the historical signal record per instrument.
func (m *MarketData) Performance() []models.Performance {
	return signals.PerformanceHistory()
}

// Correlation returns the sample futures by freight-route matrix.
func (m *MarketData) Correlation() models.CorrelationMatrix {
	return fallback.SampleCorrelation()
}

// GetChart returns a PNG chart for code. Identical concurrent requests share
// one upstream call and results are cached per parameter set. The shared call
// is detached from any single caller's cancellation; each caller stops
// waiting when its own ctx is done.
func (m *MarketData) GetChart(ctx context.Context, code string, p domrepo.ChartParams) ([]byte, error) {
	key := chartKey(code, p)
	ch := m.group.DoChan(key, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.chartTimeout)
		defer cancel()

		load := func(ctx context.Context) ([]byte, error) {
			symbol, exchange := m.symbols.Resolve(code)
			png, ok := m.upstream.Chart(ctx, symbol, exchange, p)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrNoChart, code)
			}
			return png, nil
		}
		if m.charts == nil {
			return load(ctx)
		}
		png, _, err := cache.GetOrLoad(ctx, m.charts, key, m.chartTTL, load)
		return png, err
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func chartKey(code string, p domrepo.ChartParams) string {
	params := fmt.Sprintf("%s|%s|%s|%s|%d", p.Interval, p.Type, p.Theme, strings.Join(p.Studies, ","), p.OutputSize)
	return cache.GenerateKeyWithParams("chart", code, cache.HashKey(params))
}

// CanonicalCode trims code and maps it onto a supported futures code
// case-insensitively. Other codes pass through with their case intact.
func (m *MarketData) CanonicalCode(code string) string {
	code = strings.TrimSpace(code)
	if up := strings.ToUpper(code); m.symbols.IsSupported(up) {
		return up
	}
	return code
}

// StatusReport tells whether the upstream is currently serving live quotes.
type StatusReport struct {
	Live      bool      `json:"live"`
	Code      string    `json:"code"`
	CheckedAt time.Time `json:"checked_at"`
}

// Status asks the upstream for a quote of the first supported code.
func (m *MarketData) Status(ctx context.Context) StatusReport {
	code := "CL"
	if codes := m.symbols.Supported(); len(codes) > 0 {
		code = codes[0]
	}
	symbol, exchange := m.symbols.Resolve(code)
	q, ok := m.liveQuote(ctx, code, symbol, exchange)
	return StatusReport{Live: ok && q.HasPrice(), Code: code, CheckedAt: m.now().UTC()}
}
