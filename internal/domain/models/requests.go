package models

// Requests for market data HTTP endpoints. Defined in domain for consistency and reuse.

type QuoteRequest struct {
	Code string `query:"code" json:"code" validate:"required,code"`
}

type SeriesRequest struct {
	Code     string `query:"code" json:"code" validate:"required,code"`
	Interval string `query:"interval" json:"interval" default:"1day" validate:"oneof=1min 5min 15min 30min 45min 1h 2h 4h 1day 1week 1month"`
	Size     int    `query:"size" json:"size" default:"90" validate:"gte=1,lte=5000"`
	Windows  string `query:"windows" json:"windows" default:"20,50"`
	EMA      string `query:"ema" json:"ema"`
}

type SignalsRequest struct {
	N int `query:"n" json:"n" default:"3" validate:"gte=1,lte=50"`
}

type ChartRequest struct {
	Code       string `query:"code" json:"code" validate:"required,code"`
	Interval   string `query:"interval" json:"interval" default:"1day" validate:"oneof=1min 5min 15min 30min 45min 1h 2h 4h 1day 1week 1month"`
	Type       string `query:"type" json:"type" default:"candle" validate:"oneof=candle line bar"`
	Theme      string `query:"theme" json:"theme" default:"dark" validate:"oneof=dark light"`
	Studies    string `query:"studies" json:"studies"`
	OutputSize int    `query:"outputsize" json:"outputsize" default:"90" validate:"gte=1,lte=5000"`
}
