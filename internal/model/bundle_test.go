package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type constantRegressor struct {
	name  string
	value float64
}

func (r constantRegressor) Name() string              { return r.name }
func (r constantRegressor) Predict([]float64) float64 { return r.value }

func newWeightedBundle(lgb, xgb, cat float64) *Bundle {
	return &Bundle{
		LGB:     constantRegressor{"lgb", lgb},
		XGB:     constantRegressor{"xgb", xgb},
		Cat:     constantRegressor{"cat", cat},
		Type:    EnsembleWeighted,
		Weights: defaultWeights,
	}
}

func TestPredictEqualWeights(t *testing.T) {
	bundle := newWeightedBundle(10, 20, 30)
	assert.InDelta(t, 20.0, bundle.Predict(nil), 1e-9)
}

func TestPredictClipsNegativeBaseModels(t *testing.T) {
	bundle := newWeightedBundle(-30, 0, 30)
	// the negative base prediction is clipped before averaging
	assert.InDelta(t, 10.0, bundle.Predict(nil), 1e-9)
}

func TestPredictClipsNegativeCombined(t *testing.T) {
	bundle := newWeightedBundle(3, 3, 3)
	bundle.Type = EnsembleStacking
	bundle.Meta = NewLinearRegressor("meta", -10, []float64{1, 0, 0})
	assert.Equal(t, 0.0, bundle.Predict(nil))
}

func TestPredictStackingFallsBackWithoutMeta(t *testing.T) {
	bundle := newWeightedBundle(10, 20, 30)
	bundle.Type = EnsembleStacking
	assert.InDelta(t, 20.0, bundle.Predict(nil), 1e-9)
}

func TestStumpEnsemblePredict(t *testing.T) {
	reg := &StumpEnsemble{
		name:      "cat",
		baseScore: 10,
		stumps: []stump{
			{Feature: 0, Threshold: 5, Left: -2, Right: 2},
			{Feature: 1, Threshold: 0, Left: 0, Right: 1},
		},
	}
	assert.InDelta(t, 9.0, reg.Predict([]float64{1, -1}), 1e-9)
	assert.InDelta(t, 13.0, reg.Predict([]float64{9, 3}), 1e-9)
}
