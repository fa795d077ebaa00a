package models

import "time"

// Bar represents one OHLCV observation for a fixed interval.
type Bar struct {
	Time     time.Time `json:"time"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adj_close"`
	Volume   int64     `json:"volume"`
}

// IndicatorBar is a Bar plus moving averages keyed by window length.
// A window missing from SMA means the window was not yet full at this bar.
type IndicatorBar struct {
	Bar
	SMA map[int]float64 `json:"sma,omitempty"`
	EMA map[int]float64 `json:"ema,omitempty"`
}

// SMAValue returns the simple moving average for window w, if defined.
func (b IndicatorBar) SMAValue(w int) (float64, bool) {
	v, ok := b.SMA[w]
	return v, ok
}

// EMAValue returns the exponential moving average for window w, if defined.
func (b IndicatorBar) EMAValue(w int) (float64, bool) {
	v, ok := b.EMA[w]
	return v, ok
}
