package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"MarTrade/internal/domain/models"
)

func barsFrom(closes ...float64) []models.Bar {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Bar, len(closes))
	for i, c := range closes {
		out[i] = models.Bar{Time: t0.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, AdjClose: c}
	}
	return out
}

func TestSMA_DefinedOnlyWhenWindowFull(t *testing.T) {
	out := WithMovingAverages(barsFrom(1, 2, 3, 4, 5), []int{3})
	require.Len(t, out, 5)

	for i := 0; i < 2; i++ {
		_, ok := out[i].SMAValue(3)
		require.False(t, ok, "index %d", i)
	}
	for i, want := range map[int]float64{2: 2, 3: 3, 4: 4} {
		got, ok := out[i].SMAValue(3)
		require.True(t, ok)
		require.InDelta(t, want, got, 1e-12)
	}
}

func TestEMA_SeededWithFirstClose(t *testing.T) {
	out := WithMovingAverages(barsFrom(10, 12, 11), []int{2})

	want := []float64{10, 11.333333333333334, 11.11111111111111}
	for i, w := range want {
		got, ok := out[i].EMAValue(2)
		require.True(t, ok)
		require.InDelta(t, w, got, 1e-3)
	}
}

func TestWithMovingAverages_WindowLongerThanSeries(t *testing.T) {
	out := WithMovingAverages(barsFrom(1, 2), []int{5})
	for _, b := range out {
		_, ok := b.SMAValue(5)
		require.False(t, ok)
		_, ok = b.EMAValue(5)
		require.True(t, ok)
	}
}

func TestWithMovingAverages_IgnoresNonPositiveAndDuplicateWindows(t *testing.T) {
	out := WithMovingAverages(barsFrom(1, 2, 3), []int{0, -2, 2, 2})
	require.Len(t, out[2].SMA, 1)
	require.Len(t, out[2].EMA, 1)
}

func TestWithMovingAverages_DoesNotMutateInput(t *testing.T) {
	in := barsFrom(5, 4, 3, 2, 1)
	snapshot := append([]models.Bar(nil), in...)

	out := WithMovingAverages(in, []int{2, 3})
	require.Equal(t, snapshot, in)
	for i := range in {
		require.Equal(t, in[i], out[i].Bar)
	}
}

func TestWithMovingAverages_Empty(t *testing.T) {
	require.Empty(t, WithMovingAverages(nil, []int{20}))
}

func TestCompute_SeparateWindowSets(t *testing.T) {
	out := Compute(barsFrom(1, 2, 3, 4), []int{2}, []int{3, -1})
	_, ok := out[3].SMAValue(2)
	require.True(t, ok)
	_, ok = out[3].SMAValue(3)
	require.False(t, ok)
	_, ok = out[3].EMAValue(2)
	require.False(t, ok)
	_, ok = out[0].EMAValue(3)
	require.True(t, ok)
	require.Len(t, out[3].EMA, 1)

	none := Compute(barsFrom(1, 2), nil, nil)
	require.Nil(t, none[1].SMA)
	require.Nil(t, none[1].EMA)
}
