package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteSource tells where a Quote came from.
type QuoteSource string

const (
	SourceLive     QuoteSource = "live"
	SourceFallback QuoteSource = "fallback"
)

// Quote is a point-in-time price snapshot for one instrument. Never mutated after construction.
type Quote struct {
	Code          string              `json:"code"`
	Name          string              `json:"name"`
	Symbol        string              `json:"symbol"`
	Exchange      string              `json:"exchange"`
	Currency      string              `json:"currency,omitempty"`
	Last          decimal.NullDecimal `json:"last"`
	PreviousClose decimal.NullDecimal `json:"previous_close"`
	Open          decimal.NullDecimal `json:"open"`
	High          decimal.NullDecimal `json:"high"`
	Low           decimal.NullDecimal `json:"low"`
	YearLow       decimal.NullDecimal `json:"fifty_two_week_low"`
	YearHigh      decimal.NullDecimal `json:"fifty_two_week_high"`
	Change        decimal.Decimal     `json:"change"`
	PercentChange decimal.Decimal     `json:"percent_change"`
	Volume        *int64              `json:"volume"` // nil when unknown
	Source        QuoteSource         `json:"source"`
	FetchedAt     time.Time           `json:"fetched_at"`
}

// HasPrice reports whether the quote carries a last price.
func (q Quote) HasPrice() bool { return q.Last.Valid }

// PercentChange returns (last-prev)/prev*100, or zero when prev is missing or not strictly positive.
func PercentChange(last, prev decimal.NullDecimal) decimal.Decimal {
	if !last.Valid || !prev.Valid || !prev.Decimal.IsPositive() {
		return decimal.Zero
	}
	return last.Decimal.Sub(prev.Decimal).Div(prev.Decimal).Mul(decimal.NewFromInt(100))
}

// AbsoluteChange returns last-prev, or zero when either side is missing.
func AbsoluteChange(last, prev decimal.NullDecimal) decimal.Decimal {
	if !last.Valid || !prev.Valid {
		return decimal.Zero
	}
	return last.Decimal.Sub(prev.Decimal)
}
