package repository

// Interval represents upstream bar resolution.
type Interval string

const (
	Interval1m  Interval = "1min"
	Interval5m  Interval = "5min"
	Interval15m Interval = "15min"
	Interval30m Interval = "30min"
	Interval45m Interval = "45min"
	Interval1h  Interval = "1h"
	Interval2h  Interval = "2h"
	Interval4h  Interval = "4h"
	Interval1d  Interval = "1day"
	Interval1w  Interval = "1week"
	Interval1mo Interval = "1month"
)

// IsValidInterval returns true if iv is a supported interval.
func IsValidInterval(iv Interval) bool {
	switch iv {
	case Interval1m, Interval5m, Interval15m, Interval30m, Interval45m,
		Interval1h, Interval2h, Interval4h, Interval1d, Interval1w, Interval1mo:
		return true
	default:
		return false
	}
}

// DefaultInterval returns the default interval.
func DefaultInterval() Interval { return Interval1d }

// NormalizeInterval converts raw string to a valid interval (or default).
func NormalizeInterval(s string) Interval {
	if s == "" {
		return DefaultInterval()
	}
	iv := Interval(s)
	if IsValidInterval(iv) {
		return iv
	}
	return DefaultInterval()
}
