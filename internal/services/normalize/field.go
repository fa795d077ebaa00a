package normalize

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"time"

	xutil "MarTrade/pkg/util"

	"github.com/shopspring/decimal"
)

// Field is one optional upstream value kept in raw form until coerced.
// Upstream sends numbers both as JSON numbers and as strings.
type Field struct {
	raw json.RawMessage
}

func (f *Field) UnmarshalJSON(b []byte) error {
	f.raw = append(f.raw[:0], b...)
	return nil
}

// Present reports whether the field was sent with a non-null value.
func (f Field) Present() bool {
	return len(f.raw) > 0 && !bytes.Equal(f.raw, []byte("null"))
}

// String returns the textual value. Numbers are returned as their literal.
func (f Field) String() (string, bool) {
	if !f.Present() {
		return "", false
	}
	var s string
	if err := json.Unmarshal(f.raw, &s); err == nil {
		s = strings.TrimSpace(s)
		return s, s != ""
	}
	var n json.Number
	if err := json.Unmarshal(f.raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

// Decimal coerces the value to a decimal.
func (f Field) Decimal() (decimal.Decimal, bool) {
	s, ok := f.String()
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// NullDecimal is Decimal folded into a decimal.NullDecimal.
func (f Field) NullDecimal() decimal.NullDecimal {
	d, ok := f.Decimal()
	return decimal.NullDecimal{Decimal: d, Valid: ok}
}

// Float coerces the value to a float64.
func (f Field) Float() (float64, bool) {
	d, ok := f.Decimal()
	if !ok {
		return 0, false
	}
	return d.InexactFloat64(), true
}

var (
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
	minInt64 = decimal.NewFromInt(math.MinInt64)
)

// Int coerces the value to an integer, truncating any fractional part.
// Values outside the int64 range are missing.
func (f Field) Int() (int64, bool) {
	d, ok := f.Decimal()
	if !ok {
		return 0, false
	}
	d = d.Truncate(0)
	if d.GreaterThan(maxInt64) || d.LessThan(minInt64) {
		return 0, false
	}
	return d.IntPart(), true
}

// Time coerces the value to a UTC timestamp.
func (f Field) Time() (time.Time, bool) {
	s, ok := f.String()
	if !ok {
		return time.Time{}, false
	}
	return xutil.ParseTime(s)
}
