package fallback

import (
	"fmt"
	"strings"
	"time"

	"MarTrade/internal/domain/models"
	"MarTrade/pkg/config"

	"github.com/shopspring/decimal"
)

// Snapshot is the last known state of one instrument.
type Snapshot struct {
	Name          string
	Exchange      string
	Last          decimal.Decimal
	PercentChange decimal.Decimal
	Volume        int64
}

func snap(name, last, percent string, volume int64) Snapshot {
	return Snapshot{
		Name:          name,
		Exchange:      "NYMEX",
		Last:          decimal.RequireFromString(last),
		PercentChange: decimal.RequireFromString(percent),
		Volume:        volume,
	}
}

// Last known values served when the upstream cannot produce a quote.
var builtin = map[string]Snapshot{
	"CL": snap("Crude Oil (CL)", "85.68", "1.25", 950000),
	"NG": snap("Natural Gas (NG)", "2.84", "-0.72", 480000),
	"HO": snap("Heating Oil (HO)", "2.62", "0.95", 165000),
	"RB": snap("Gasoline (RB)", "2.57", "1.18", 185000),
}

var (
	hundred  = decimal.NewFromInt(100)
	defaults = &Provider{snapshots: builtin}
)

// Provider serves static snapshots. It is immutable after construction.
type Provider struct {
	snapshots map[string]Snapshot
}

// NewProvider returns the built-in snapshots extended by the fallback
// entries of extra. A futures code outside the built-in set must carry a
// fallback, so every resolvable futures code has a snapshot.
func NewProvider(extra map[string]config.FuturesMapping) (*Provider, error) {
	snapshots := make(map[string]Snapshot, len(builtin)+len(extra))
	for code, s := range builtin {
		snapshots[code] = s
	}
	for code, m := range extra {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		if m.Fallback == nil {
			if _, ok := builtin[code]; ok {
				continue
			}
			return nil, fmt.Errorf("futures code %s has no fallback quote", code)
		}
		s, err := fromConfig(code, m)
		if err != nil {
			return nil, err
		}
		snapshots[code] = s
	}
	return &Provider{snapshots: snapshots}, nil
}

func fromConfig(code string, m config.FuturesMapping) (Snapshot, error) {
	last, err := decimal.NewFromString(m.Fallback.Last)
	if err != nil || !last.IsPositive() {
		return Snapshot{}, fmt.Errorf("futures code %s: fallback last %q is not a positive price", code, m.Fallback.Last)
	}
	pct := decimal.Zero
	if m.Fallback.PercentChange != "" {
		if pct, err = decimal.NewFromString(m.Fallback.PercentChange); err != nil {
			return Snapshot{}, fmt.Errorf("futures code %s: fallback percent_change: %w", code, err)
		}
		if !pct.GreaterThan(hundred.Neg()) {
			return Snapshot{}, fmt.Errorf("futures code %s: fallback percent_change must be above -100", code)
		}
	}
	name := m.Name
	if name == "" {
		name = code
	}
	return Snapshot{Name: name, Exchange: m.Exchange, Last: last, PercentChange: pct, Volume: m.Fallback.Volume}, nil
}

// Default returns the provider over the built-in snapshots.
func Default() *Provider { return defaults }

// Codes lists the built-in codes with a snapshot.
func Codes() []string { return []string{"CL", "NG", "HO", "RB"} }

// Has reports whether code has a snapshot.
func (p *Provider) Has(code string) bool {
	_, ok := p.snapshots[code]
	return ok
}

// Quote returns the snapshot for code, stamped with now. The percent change
// is the snapshot's own; previous close is implied from it.
func (p *Provider) Quote(code string, now time.Time) (models.Quote, bool) {
	s, ok := p.snapshots[code]
	if !ok {
		return models.Quote{}, false
	}
	prev := s.Last.Div(decimal.NewFromInt(1).Add(s.PercentChange.Div(hundred))).Round(4)
	vol := s.Volume

	return models.Quote{
		Code:          code,
		Name:          s.Name,
		Symbol:        code,
		Exchange:      s.Exchange,
		Currency:      "USD",
		Last:          decimal.NewNullDecimal(s.Last),
		PreviousClose: decimal.NewNullDecimal(prev),
		Change:        s.Last.Sub(prev),
		PercentChange: s.PercentChange,
		Volume:        &vol,
		Source:        models.SourceFallback,
		FetchedAt:     now.UTC(),
	}, true
}

// DefaultQuote is Default().Quote.
func DefaultQuote(code string, now time.Time) (models.Quote, bool) {
	return defaults.Quote(code, now)
}
