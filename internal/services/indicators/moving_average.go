package indicators

import "MarTrade/internal/domain/models"

// WithMovingAverages annotates bars with SMA and EMA of close for every
// positive window. See Compute.
func WithMovingAverages(bars []models.Bar, windows []int) []models.IndicatorBar {
	return Compute(bars, windows, windows)
}

// Compute annotates bars with SMA for smaWindows and EMA for emaWindows.
// SMA_w is set from index w-1 onward only. EMA_w is seeded with the first
// close and set at every index. Non-positive and repeated windows are
// ignored. The input slice is not modified.
func Compute(bars []models.Bar, smaWindows, emaWindows []int) []models.IndicatorBar {
	out := make([]models.IndicatorBar, len(bars))
	for i, b := range bars {
		out[i] = models.IndicatorBar{Bar: b}
	}

	for _, w := range uniquePositive(smaWindows) {
		for i, v := range SMA(bars, w) {
			if out[i].SMA == nil {
				out[i].SMA = make(map[int]float64)
			}
			out[i].SMA[w] = v
		}
	}
	for _, w := range uniquePositive(emaWindows) {
		for i, v := range EMA(bars, w) {
			if out[i].EMA == nil {
				out[i].EMA = make(map[int]float64)
			}
			out[i].EMA[w] = v
		}
	}
	return out
}

// SMA returns the simple moving average of close keyed by bar index.
// Indices before the window fills are absent.
func SMA(bars []models.Bar, w int) map[int]float64 {
	out := make(map[int]float64)
	if w <= 0 || len(bars) < w {
		return out
	}
	var sum float64
	for i, b := range bars {
		sum += b.Close
		if i >= w {
			sum -= bars[i-w].Close
		}
		if i >= w-1 {
			out[i] = sum / float64(w)
		}
	}
	return out
}

// EMA returns the exponential moving average of close with α = 2/(w+1).
func EMA(bars []models.Bar, w int) []float64 {
	out := make([]float64, len(bars))
	if w <= 0 || len(bars) == 0 {
		return out
	}
	alpha := 2 / float64(w+1)
	prev := bars[0].Close
	out[0] = prev
	for i := 1; i < len(bars); i++ {
		prev = alpha*bars[i].Close + (1-alpha)*prev
		out[i] = prev
	}
	return out
}

func uniquePositive(windows []int) []int {
	seen := make(map[int]bool, len(windows))
	out := make([]int, 0, len(windows))
	for _, w := range windows {
		if w > 0 && !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}
