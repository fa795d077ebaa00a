package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"MarTrade/internal/domain/models"
	domrepo "MarTrade/internal/domain/repository"
	"MarTrade/internal/service/symbols"
	"MarTrade/internal/services/fallback"
	"MarTrade/pkg/cache"
	"MarTrade/pkg/config"
)

type fakeUpstream struct {
	mu       sync.Mutex
	quotes   map[string][]byte // by symbol; missing means failure
	series   []byte
	chart    []byte
	chartHit int32
	gate     chan struct{}
	calls    []string
}

func (f *fakeUpstream) Quote(_ context.Context, symbol, exchange string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, symbol+"@"+exchange)
	b, ok := f.quotes[symbol]
	return b, ok
}

func (f *fakeUpstream) TimeSeries(context.Context, string, string, domrepo.Interval, int) ([]byte, bool) {
	return f.series, f.series != nil
}

func (f *fakeUpstream) Chart(ctx context.Context, _ string, _ string, _ domrepo.ChartParams) ([]byte, bool) {
	atomic.AddInt32(&f.chartHit, 1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, false
		}
	}
	return f.chart, f.chart != nil
}

type fakePublisher struct {
	mu     sync.Mutex
	quotes []models.Quote
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, q models.Quote) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.quotes = append(p.quotes, q)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

var fixedNow = time.Date(2025, 3, 4, 15, 0, 0, 0, time.UTC)

func newMarketData(up *fakeUpstream, opts ...Option) *MarketData {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewMarketData(up, symbols.Default(), opts...)
}

func TestGetQuote_Live(t *testing.T) {
	up := &fakeUpstream{quotes: map[string][]byte{
		"CL": []byte(`{"symbol":"CL","close":"80.00","previous_close":"79.00","volume":"1000"}`),
	}}
	md := newMarketData(up)

	q, err := md.GetQuote(context.Background(), "CL")
	require.NoError(t, err)
	require.Equal(t, models.SourceLive, q.Source)
	require.True(t, q.Last.Decimal.Equal(decimal.RequireFromString("80")))
	require.Equal(t, "NYMEX", q.Exchange)
	require.Equal(t, "Crude Oil (CL)", q.Name)
	require.Equal(t, []string{"CL@NYMEX"}, up.calls)
}

func TestGetQuote_FallbackOnFailure(t *testing.T) {
	md := newMarketData(&fakeUpstream{})

	for _, code := range []string{"CL", "NG", "HO", "RB"} {
		q, err := md.GetQuote(context.Background(), code)
		require.NoError(t, err, code)
		require.Equal(t, models.SourceFallback, q.Source)
		require.True(t, q.HasPrice())
		require.Equal(t, fixedNow, q.FetchedAt)
	}
}

func TestGetQuote_FallbackOnAbsentOrPriceless(t *testing.T) {
	up := &fakeUpstream{quotes: map[string][]byte{
		"CL": []byte(`{"status":"error","message":"api key invalid"}`),
		"NG": []byte(`{"symbol":"NG","close":"N/A"}`),
	}}
	md := newMarketData(up)

	q, err := md.GetQuote(context.Background(), "CL")
	require.NoError(t, err)
	require.Equal(t, models.SourceFallback, q.Source)
	require.Equal(t, "85.68", q.Last.Decimal.String())

	q, err = md.GetQuote(context.Background(), "NG")
	require.NoError(t, err)
	require.Equal(t, models.SourceFallback, q.Source)
	require.Equal(t, "2.84", q.Last.Decimal.String())
}

func TestGetQuote_UnsupportedCode(t *testing.T) {
	up := &fakeUpstream{quotes: map[string][]byte{
		"AAPL": []byte(`{"symbol":"AAPL","close":"190.1","previous_close":"0"}`),
	}}
	md := newMarketData(up)

	q, err := md.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, models.SourceLive, q.Source)
	require.True(t, q.PercentChange.IsZero())
	require.Equal(t, "AAPL@", up.calls[0])

	_, err = md.GetQuote(context.Background(), "MSFT")
	require.ErrorIs(t, err, ErrNoQuote)
}

func TestGetQuote_PublishesServedQuotes(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	md := newMarketData(&fakeUpstream{}, WithPublisher(pub))

	_, err := md.GetQuote(context.Background(), "RB")
	require.NoError(t, err, "publish failures never fail the quote")
	require.Len(t, pub.quotes, 1)
	require.Equal(t, "RB", pub.quotes[0].Code)
}

func TestGetMarketSummary(t *testing.T) {
	md := newMarketData(&fakeUpstream{})
	qs := md.GetMarketSummary(context.Background())
	require.Len(t, qs, 4)
	require.Equal(t, "Crude Oil (CL)", qs[0].Name)
	require.Equal(t, "Gasoline (RB)", qs[3].Name)
}

func TestGetMarketSummary_ConfiguredCodes(t *testing.T) {
	md := newMarketData(&fakeUpstream{}, WithSummaryCodes([]string{" ng", "", "cl"}))
	qs := md.GetMarketSummary(context.Background())
	require.Len(t, qs, 2)
	require.Equal(t, "NG", qs[0].Code)
	require.Equal(t, "CL", qs[1].Code)
}

func TestGetSeries(t *testing.T) {
	up := &fakeUpstream{series: []byte(`{"values":[
		{"datetime":"2025-01-02","open":"2","high":"2","low":"2","close":"2","volume":"5"},
		{"datetime":"2025-01-01","open":"1","high":"1","low":"1","close":"1","volume":"5"}
	]}`)}
	md := newMarketData(up)

	bars := md.GetSeries(context.Background(), "CL", "bogus", 0)
	require.Len(t, bars, 2)
	require.True(t, bars[0].Time.Before(bars[1].Time))

	ind := md.GetIndicators(bars, []int{2})
	v, ok := ind[1].SMAValue(2)
	require.True(t, ok)
	require.Equal(t, 1.5, v)
}

func TestGetSeries_NoFallback(t *testing.T) {
	md := newMarketData(&fakeUpstream{})
	bars := md.GetSeries(context.Background(), "CL", domrepo.Interval1d, 90)
	require.NotNil(t, bars)
	require.Empty(t, bars)
}

func TestSignals(t *testing.T) {
	md := newMarketData(&fakeUpstream{})

	views := md.Signals(2)
	require.Len(t, views, 2)
	require.Equal(t, "CL", views[0].Instrument)
	require.Equal(t, "NG", views[1].Instrument)
	require.Equal(t, "Very Strong", views[0].ConfidenceLabel)
	require.Greater(t, views[0].RiskReward, 0.0)

	require.Empty(t, md.RankSignals(nil, 3))
	require.Len(t, md.Performance(), 4)
	require.Len(t, md.Correlation().Rows, 4)
}

func TestGetChart_CachedAndCoalesced(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nbody")
	up := &fakeUpstream{chart: png, gate: make(chan struct{})}
	mc := cache.NewMemoryCache()
	defer mc.Close()
	md := newMarketData(up, WithChartCache(mc, time.Minute))

	p := domrepo.ChartParams{Interval: "1day", Type: "candle", Theme: "dark", OutputSize: 90}

	var wg sync.WaitGroup
	results := make([][]byte, 5)
	errs := make([]error, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = md.GetChart(context.Background(), "CL", p)
		}(i)
	}
	// let the callers pile up on the in-flight request
	time.Sleep(50 * time.Millisecond)
	close(up.gate)
	wg.Wait()

	for i, r := range results {
		require.NoError(t, errs[i])
		require.Equal(t, png, r)
	}
	// late arrivals are answered from the cache filled inside the flight
	require.Equal(t, int32(1), atomic.LoadInt32(&up.chartHit))

	b, err := md.GetChart(context.Background(), "CL", p)
	require.NoError(t, err)
	require.Equal(t, png, b)
	require.Equal(t, int32(1), atomic.LoadInt32(&up.chartHit), "served from cache")
}

func TestGetChart_LeaderCancelDoesNotFailFollowers(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nbody")
	up := &fakeUpstream{chart: png, gate: make(chan struct{})}
	md := newMarketData(up)
	p := domrepo.ChartParams{Interval: "1day"}

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := md.GetChart(leaderCtx, "CL", p)
		leaderErr <- err
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&up.chartHit) == 1 }, time.Second, time.Millisecond)

	type result struct {
		png []byte
		err error
	}
	follower := make(chan result, 1)
	go func() {
		b, err := md.GetChart(context.Background(), "CL", p)
		follower <- result{b, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelLeader()
	require.ErrorIs(t, <-leaderErr, context.Canceled)

	close(up.gate)
	res := <-follower
	require.NoError(t, res.err)
	require.Equal(t, png, res.png)
	require.Equal(t, int32(1), atomic.LoadInt32(&up.chartHit))
}

func TestGetQuote_ConfiguredFuturesFallBack(t *testing.T) {
	futures := map[string]config.FuturesMapping{
		"BZ": {Exchange: "ICE", Name: "Brent (BZ)", Fallback: &config.FallbackQuote{Last: "82.40", PercentChange: "-0.35", Volume: 310000}},
	}
	res, err := symbols.New(futures)
	require.NoError(t, err)
	fb, err := fallback.NewProvider(futures)
	require.NoError(t, err)

	md := NewMarketData(&fakeUpstream{}, res, WithFallback(fb), WithClock(func() time.Time { return fixedNow }))

	q, err := md.GetQuote(context.Background(), "BZ")
	require.NoError(t, err)
	require.Equal(t, models.SourceFallback, q.Source)
	require.Equal(t, "Brent (BZ)", q.Name)

	qs := md.GetMarketSummary(context.Background())
	require.Len(t, qs, len(res.Supported()))
	require.Equal(t, "BZ", qs[len(qs)-1].Code)
}

func TestCanonicalCode(t *testing.T) {
	md := newMarketData(&fakeUpstream{})
	require.Equal(t, "CL", md.CanonicalCode(" cl "))
	require.Equal(t, "aapl", md.CanonicalCode("aapl"))
	require.Equal(t, "EUR/USD", md.CanonicalCode("EUR/USD"))
}

func TestGetChart_Unavailable(t *testing.T) {
	md := newMarketData(&fakeUpstream{})
	_, err := md.GetChart(context.Background(), "CL", domrepo.ChartParams{})
	require.ErrorIs(t, err, ErrNoChart)
}

func TestStatus(t *testing.T) {
	md := newMarketData(&fakeUpstream{})
	require.False(t, md.Status(context.Background()).Live)

	md = newMarketData(&fakeUpstream{quotes: map[string][]byte{"CL": []byte(`{"symbol":"CL","close":"80"}`)}})
	st := md.Status(context.Background())
	require.True(t, st.Live)
	require.Equal(t, "CL", st.Code)
}
