package normalize

import (
	"encoding/json"
	"sort"

	"MarTrade/internal/domain/models"
)

// RawBar is one upstream time-series element.
type RawBar struct {
	Datetime Field `json:"datetime"`
	Open     Field `json:"open"`
	High     Field `json:"high"`
	Low      Field `json:"low"`
	Close    Field `json:"close"`
	Volume   Field `json:"volume"`
}

type rawSeries struct {
	Values []json.RawMessage `json:"values"`
}

// Series decodes a time-series payload into bars. A payload without a values
// array, or one that does not decode, yields an empty sequence. Elements that
// are not objects are dropped.
func Series(raw []byte) []models.Bar {
	var rs rawSeries
	if err := json.Unmarshal(raw, &rs); err != nil {
		return []models.Bar{}
	}
	values := make([]RawBar, 0, len(rs.Values))
	for _, el := range rs.Values {
		var rb RawBar
		if err := json.Unmarshal(el, &rb); err != nil {
			continue
		}
		values = append(values, rb)
	}
	return Bars(values)
}

// Bars parses each element on its own, drops elements missing a timestamp or
// any of open/high/low/close, then orders ascending by time keeping the first
// element seen for each timestamp.
func Bars(values []RawBar) []models.Bar {
	out := make([]models.Bar, 0, len(values))
	for _, v := range values {
		if b, ok := v.Bar(); ok {
			out = append(out, b)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	deduped := out[:0]
	for i, b := range out {
		if i > 0 && b.Time.Equal(deduped[len(deduped)-1].Time) {
			continue
		}
		deduped = append(deduped, b)
	}
	return deduped
}

// Bar converts one element. Missing volume is zero.
func (rb RawBar) Bar() (models.Bar, bool) {
	ts, ok := rb.Datetime.Time()
	if !ok {
		return models.Bar{}, false
	}
	var b models.Bar
	b.Time = ts
	for _, f := range []struct {
		src Field
		dst *float64
	}{
		{rb.Open, &b.Open},
		{rb.High, &b.High},
		{rb.Low, &b.Low},
		{rb.Close, &b.Close},
	} {
		v, ok := f.src.Float()
		if !ok {
			return models.Bar{}, false
		}
		*f.dst = v
	}
	b.AdjClose = b.Close
	b.Volume, _ = rb.Volume.Int()
	return b, true
}
