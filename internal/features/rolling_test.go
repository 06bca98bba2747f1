package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollingApplyExpandingStart(t *testing.T) {
	series := []float64{2, 4, 6, 8, 10}
	got := rollingApply(series, 3, mean)

	require.Len(t, got, 5)
	assert.InDelta(t, 2.0, got[0], 1e-9)
	assert.InDelta(t, 3.0, got[1], 1e-9)
	assert.InDelta(t, 4.0, got[2], 1e-9)
	assert.InDelta(t, 8.0, got[4], 1e-9)
}

func TestRollingBounds(t *testing.T) {
	series := []float64{5, 1, 9, 3, 7, 2, 8}
	means := rollingApply(series, 7, mean)
	mins := rollingApply(series, 7, minOf)
	maxs := rollingApply(series, 7, maxOf)

	for i := range series {
		assert.LessOrEqual(t, mins[i], means[i])
		assert.GreaterOrEqual(t, maxs[i], means[i])
	}
}

func TestSampleStd(t *testing.T) {
	assert.True(t, math.IsNaN(sampleStd([]float64{4})))
	assert.InDelta(t, math.Sqrt(2), sampleStd([]float64{1, 3}), 1e-9)
}

func TestPopulationStd(t *testing.T) {
	assert.InDelta(t, 0, populationStd([]float64{4}), 1e-9)
	assert.InDelta(t, 1, populationStd([]float64{1, 3}), 1e-9)
}

func TestQuantileInterpolates(t *testing.T) {
	series := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.75, quantile(series, 0.25), 1e-9)
	assert.InDelta(t, 2.5, quantile(series, 0.5), 1e-9)
	assert.InDelta(t, 3.25, quantile(series, 0.75), 1e-9)
}

func TestEwmMean(t *testing.T) {
	// span 3 gives alpha 0.5, so each step averages the new value with the
	// running estimate.
	got := ewmMean([]float64{2, 4, 8}, 3)
	require.Len(t, got, 3)
	assert.InDelta(t, 2.0, got[0], 1e-9)
	assert.InDelta(t, 3.0, got[1], 1e-9)
	assert.InDelta(t, 5.5, got[2], 1e-9)
}

func TestLagged(t *testing.T) {
	got := lagged([]float64{1, 2, 3, 4}, 2)
	require.Len(t, got, 4)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.Equal(t, 1.0, got[2])
	assert.Equal(t, 2.0, got[3])
}

func TestTail(t *testing.T) {
	assert.Equal(t, []float64{3, 4}, tail([]float64{1, 2, 3, 4}, 2))
	assert.Equal(t, []float64{1, 2}, tail([]float64{1, 2}, 5))
}
