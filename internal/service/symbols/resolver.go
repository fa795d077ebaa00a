package symbols

import (
	"fmt"
	"sort"
	"strings"

	"MarTrade/pkg/config"
)

// Mapping is the upstream identity of a canonical futures code.
type Mapping struct {
	Symbol   string
	Exchange string
	Name     string
}

// DefaultMappings is the built-in futures table.
func DefaultMappings() map[string]Mapping {
	return map[string]Mapping{
		"CL": {Symbol: "CL", Exchange: "NYMEX", Name: "Crude Oil (CL)"},
		"NG": {Symbol: "NG", Exchange: "NYMEX", Name: "Natural Gas (NG)"},
		"HO": {Symbol: "HO", Exchange: "NYMEX", Name: "Heating Oil (HO)"},
		"RB": {Symbol: "RB", Exchange: "NYMEX", Name: "Gasoline (RB)"},
	}
}

// Resolver maps canonical instrument codes to upstream symbol and exchange.
// The table is immutable after construction.
type Resolver struct {
	table map[string]Mapping
	order []string
}

// New builds a resolver from the default table extended by extra.
// Every entry must carry an exchange.
func New(extra map[string]config.FuturesMapping) (*Resolver, error) {
	table := DefaultMappings()
	for code, m := range extra {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		if m.Symbol == "" {
			m.Symbol = code
		}
		if m.Name == "" {
			m.Name = code
		}
		table[code] = Mapping{Symbol: m.Symbol, Exchange: m.Exchange, Name: m.Name}
	}
	for code, m := range table {
		if m.Exchange == "" {
			return nil, fmt.Errorf("futures mapping %s has no exchange", code)
		}
	}
	return &Resolver{table: table, order: sortedCodes(table)}, nil
}

// Default returns a resolver over DefaultMappings.
func Default() *Resolver {
	r, _ := New(nil)
	return r
}

// Resolve returns the upstream symbol and exchange for code. Codes outside the
// futures table pass through unchanged with an empty exchange.
func (r *Resolver) Resolve(code string) (string, string) {
	if m, ok := r.table[code]; ok {
		return m.Symbol, m.Exchange
	}
	return code, ""
}

// IsSupported reports whether code is in the futures table.
func (r *Resolver) IsSupported(code string) bool {
	_, ok := r.table[code]
	return ok
}

// Supported lists the canonical codes in a stable order: the built-in codes
// first, then extras alphabetically.
func (r *Resolver) Supported() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Name returns the display name for code, or code itself.
func (r *Resolver) Name(code string) string {
	if m, ok := r.table[code]; ok {
		return m.Name
	}
	return code
}

var builtinOrder = []string{"CL", "NG", "HO", "RB"}

func sortedCodes(table map[string]Mapping) []string {
	out := make([]string, 0, len(table))
	seen := make(map[string]bool, len(builtinOrder))
	for _, c := range builtinOrder {
		if _, ok := table[c]; ok {
			out = append(out, c)
			seen[c] = true
		}
	}
	var rest []string
	for c := range table {
		if !seen[c] {
			rest = append(rest, c)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
