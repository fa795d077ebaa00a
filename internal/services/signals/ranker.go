package signals

import (
	"sort"

	"MarTrade/internal/domain/models"
)

// TopN returns the n strongest signals ordered by strength then confidence,
// both descending. Ties keep input order. n <= 0 yields an empty result and
// the input slice is never reordered.
func TopN(in []models.Signal, n int) []models.Signal {
	if n <= 0 || len(in) == 0 {
		return []models.Signal{}
	}
	out := make([]models.Signal, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Strength != out[j].Strength {
			return out[i].Strength > out[j].Strength
		}
		return out[i].Confidence > out[j].Confidence
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}
