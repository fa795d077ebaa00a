package normalize

import (
	"encoding/json"
	"strings"
	"time"

	"MarTrade/internal/domain/models"
)

// RawQuote is the upstream quote payload with every field optional.
type RawQuote struct {
	Symbol        Field `json:"symbol"`
	Name          Field `json:"name"`
	Exchange      Field `json:"exchange"`
	Currency      Field `json:"currency"`
	Close         Field `json:"close"`
	PreviousClose Field `json:"previous_close"`
	Open          Field `json:"open"`
	High          Field `json:"high"`
	Low           Field `json:"low"`
	Volume        Field `json:"volume"`
	FiftyTwoWeek  Range `json:"fifty_two_week"`
}

// Range is the 52-week low/high object. Any other shape leaves both missing.
type Range struct {
	Low  Field `json:"low"`
	High Field `json:"high"`
}

func (r *Range) UnmarshalJSON(b []byte) error {
	var v struct {
		Low  Field `json:"low"`
		High Field `json:"high"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		*r = Range{}
		return nil
	}
	*r = Range(v)
	return nil
}

// Quote builds a Quote from a raw quote payload. It returns false when the
// payload is not an object or carries no instrument identifier. Fields that
// fail coercion are left missing.
func Quote(code string, raw []byte, now time.Time) (models.Quote, bool) {
	var rq RawQuote
	if err := json.Unmarshal(raw, &rq); err != nil {
		return models.Quote{}, false
	}
	return rq.Quote(code, now)
}

// Quote converts the record; see the package-level Quote.
func (rq RawQuote) Quote(code string, now time.Time) (models.Quote, bool) {
	symbol, ok := rq.Symbol.String()
	if !ok {
		return models.Quote{}, false
	}

	q := models.Quote{
		Code:          code,
		Symbol:        symbol,
		Last:          rq.Close.NullDecimal(),
		PreviousClose: rq.PreviousClose.NullDecimal(),
		Open:          rq.Open.NullDecimal(),
		High:          rq.High.NullDecimal(),
		Low:           rq.Low.NullDecimal(),
		YearLow:       rq.FiftyTwoWeek.Low.NullDecimal(),
		YearHigh:      rq.FiftyTwoWeek.High.NullDecimal(),
		Source:        models.SourceLive,
		FetchedAt:     now.UTC(),
	}
	q.Name, _ = rq.Name.String()
	q.Exchange, _ = rq.Exchange.String()
	if c, ok := rq.Currency.String(); ok {
		q.Currency = strings.ToUpper(c)
	}
	if v, ok := rq.Volume.Int(); ok {
		q.Volume = &v
	}
	q.Change = models.AbsoluteChange(q.Last, q.PreviousClose)
	q.PercentChange = models.PercentChange(q.Last, q.PreviousClose)
	return q, true
}
