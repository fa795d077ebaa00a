package signals

import (
	"time"

	"MarTrade/internal/domain/models"
)

// Candidates returns the current signal set, timestamped relative to now.
// These are fixtures; no live signal generation exists.
func Candidates(now time.Time) []models.Signal {
	return []models.Signal{
		{
			Instrument:  "CL",
			Name:        "Crude Oil Futures",
			Direction:   models.Buy,
			Entry:       85.40,
			Stop:        82.80,
			Target:      91.50,
			Confidence:  0.82,
			Strength:    0.85,
			Model:       "Port Congestion Lead",
			Port:        "Singapore",
			Analysis:    "Port congestion leads price by 5 days",
			GeneratedAt: now.Add(-2 * time.Hour),
		},
		{
			Instrument:  "NG",
			Name:        "Natural Gas Futures",
			Direction:   models.Sell,
			Entry:       2.95,
			Stop:        3.15,
			Target:      2.55,
			Confidence:  0.68,
			Strength:    0.72,
			Model:       "Port Congestion Lead",
			Port:        "Rotterdam",
			Analysis:    "Port congestion leads price by 3 days",
			GeneratedAt: now.Add(-3 * time.Hour),
		},
		{
			Instrument:  "HO",
			Name:        "Heating Oil Futures",
			Direction:   models.Sell,
			Entry:       2.60,
			Stop:        2.75,
			Target:      2.30,
			Confidence:  0.62,
			Strength:    0.65,
			Model:       "Seasonal Pattern",
			Port:        "Houston",
			Analysis:    "No significant lead-lag relationship detected",
			GeneratedAt: now.Add(-5 * time.Hour),
		},
	}
}

// PerformanceHistory returns the per-instrument hit record of past signals.
func PerformanceHistory() []models.Performance {
	return []models.Performance{
		{Instrument: "CL", WinRate: 0.68, AvgReturn: 1.8, ProfitFactor: 2.2},
		{Instrument: "NG", WinRate: 0.54, AvgReturn: 1.2, ProfitFactor: 1.4},
		{Instrument: "HO", WinRate: 0.62, AvgReturn: 1.5, ProfitFactor: 1.8},
		{Instrument: "RB", WinRate: 0.57, AvgReturn: 1.3, ProfitFactor: 1.5},
	}
}
