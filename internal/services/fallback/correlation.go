package fallback

import "MarTrade/internal/domain/models"

// SampleCorrelation is the illustrative futures by freight-route matrix shown
// on the dashboard. It is fixture data, not computed.
func SampleCorrelation() models.CorrelationMatrix {
	return models.CorrelationMatrix{
		Rows:    []string{"Crude Oil (CL)", "Natural Gas (NG)", "Heating Oil (HO)", "Gasoline (RB)"},
		Columns: []string{"BDI", "C3", "C5", "P1A", "P2A"},
		Values: [][]float64{
			{0.72, 0.65, 0.78, 0.52, 0.48},
			{0.58, 0.48, 0.52, 0.68, 0.72},
			{0.63, 0.59, 0.61, 0.42, 0.38},
			{0.45, 0.32, 0.38, 0.62, 0.58},
		},
	}
}
