package normalize

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"MarTrade/internal/domain/models"
)

var now = time.Date(2025, 3, 4, 15, 0, 0, 0, time.UTC)

func TestQuote_FullPayload(t *testing.T) {
	raw := []byte(`{
		"symbol": "CL", "name": "Crude Oil WTI", "exchange": "NYMEX", "currency": "usd",
		"open": "84.10", "high": "86.00", "low": "83.90", "close": "85.68",
		"previous_close": "84.62", "volume": "950000",
		"fifty_two_week": {"low": "64.38", "high": "95.03"}
	}`)

	q, ok := Quote("CL", raw, now)
	require.True(t, ok)
	require.Equal(t, "CL", q.Code)
	require.Equal(t, "NYMEX", q.Exchange)
	require.Equal(t, "USD", q.Currency)
	require.True(t, q.Last.Valid)
	require.True(t, q.Last.Decimal.Equal(decimal.RequireFromString("85.68")))
	require.True(t, q.Change.Equal(decimal.RequireFromString("1.06")))
	require.Equal(t, "1.2527", q.PercentChange.StringFixed(4))
	require.NotNil(t, q.Volume)
	require.EqualValues(t, 950000, *q.Volume)
	require.True(t, q.YearHigh.Decimal.Equal(decimal.RequireFromString("95.03")))
	require.Equal(t, models.SourceLive, q.Source)
	require.Equal(t, now, q.FetchedAt)
}

func TestQuote_NumericLiterals(t *testing.T) {
	q, ok := Quote("NG", []byte(`{"symbol":"NG","close":2.84,"previous_close":2.86,"volume":480000.0}`), now)
	require.True(t, ok)
	require.True(t, q.Last.Decimal.Equal(decimal.RequireFromString("2.84")))
	require.EqualValues(t, 480000, *q.Volume)
	require.True(t, q.PercentChange.IsNegative())
}

func TestQuote_ZeroOrMissingPreviousCloseGivesZeroPercent(t *testing.T) {
	for _, raw := range []string{
		`{"symbol":"CL","close":"85.68","previous_close":"0"}`,
		`{"symbol":"CL","close":"85.68","previous_close":"-1"}`,
		`{"symbol":"CL","close":"85.68"}`,
		`{"symbol":"CL","close":"85.68","previous_close":"N/A"}`,
	} {
		q, ok := Quote("CL", []byte(raw), now)
		require.True(t, ok, raw)
		require.True(t, q.PercentChange.IsZero(), raw)
	}
}

func TestQuote_PartialFieldsSurvive(t *testing.T) {
	q, ok := Quote("HO", []byte(`{"symbol":"HO","close":"abc","previous_close":"2.60","volume":"N/A"}`), now)
	require.True(t, ok)
	require.False(t, q.Last.Valid)
	require.False(t, q.HasPrice())
	require.True(t, q.PreviousClose.Valid)
	require.Nil(t, q.Volume)
	require.True(t, q.PercentChange.IsZero())
}

func TestQuote_MalformedNestedFieldIsMissing(t *testing.T) {
	for _, week := range []string{`"n/a"`, `[64.38, 95.03]`, `12`, `null`} {
		raw := `{"symbol":"CL","close":"85.1","previous_close":"84","volume":"1e30","fifty_two_week":` + week + `}`
		q, ok := Quote("CL", []byte(raw), now)
		require.True(t, ok, week)
		require.True(t, q.Last.Decimal.Equal(decimal.RequireFromString("85.1")), week)
		require.True(t, q.PreviousClose.Valid, week)
		require.False(t, q.YearLow.Valid, week)
		require.False(t, q.YearHigh.Valid, week)
		require.Nil(t, q.Volume, week)
	}
}

func TestQuote_Absent(t *testing.T) {
	for _, raw := range []string{
		`{"close":"85.68"}`,
		`{"symbol":""}`,
		`{"symbol":null}`,
		`{"code":400,"message":"invalid api key","status":"error"}`,
		`[1,2,3]`,
		`null`,
		`not json`,
		``,
	} {
		_, ok := Quote("CL", []byte(raw), now)
		require.False(t, ok, raw)
	}
}
