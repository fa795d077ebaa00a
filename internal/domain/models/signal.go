package models

import "time"

// Direction of a trade recommendation.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// Signal is a candidate directional trade recommendation.
type Signal struct {
	Instrument  string    `json:"instrument"`
	Name        string    `json:"name"`
	Direction   Direction `json:"direction"`
	Entry       float64   `json:"entry_price"`
	Stop        float64   `json:"stop_loss"`
	Target      float64   `json:"take_profit"`
	Confidence  float64   `json:"confidence"`      // [0,1]
	Strength    float64   `json:"signal_strength"` // [0,1]
	Model       string    `json:"model"`
	Port        string    `json:"port,omitempty"`
	Analysis    string    `json:"analysis,omitempty"`
	GeneratedAt time.Time `json:"timestamp"`
}

// RiskReward is reward over risk: (target-entry)/(entry-stop) for BUY,
// mirrored for SELL. Zero when the risk leg is not positive.
func (s Signal) RiskReward() float64 {
	var reward, risk float64
	switch s.Direction {
	case Buy:
		reward, risk = s.Target-s.Entry, s.Entry-s.Stop
	case Sell:
		reward, risk = s.Entry-s.Target, s.Stop-s.Entry
	default:
		return 0
	}
	if risk <= 0 {
		return 0
	}
	return reward / risk
}

// ConfidenceLabel buckets confidence for display.
func (s Signal) ConfidenceLabel() string {
	switch {
	case s.Confidence >= 0.8:
		return "Very Strong"
	case s.Confidence >= 0.6:
		return "Strong"
	case s.Confidence >= 0.4:
		return "Moderate"
	default:
		return "Low"
	}
}

// SignalView is the transport shape of a Signal with derived fields filled in.
type SignalView struct {
	Signal
	RiskReward      float64 `json:"r_r_ratio"`
	ConfidenceLabel string  `json:"confidence_label"`
}

// View derives the display fields.
func (s Signal) View() SignalView {
	return SignalView{Signal: s, RiskReward: s.RiskReward(), ConfidenceLabel: s.ConfidenceLabel()}
}

// Performance is the historical hit record of signals for one instrument.
type Performance struct {
	Instrument   string  `json:"instrument"`
	WinRate      float64 `json:"win_rate"`
	AvgReturn    float64 `json:"avg_return"`
	ProfitFactor float64 `json:"profit_factor"`
}

// CorrelationMatrix is a labelled matrix of coefficients; Values[i][j] pairs Rows[i] with Columns[j].
type CorrelationMatrix struct {
	Rows    []string    `json:"rows"`
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}
