// internal/model/bundle.go
package model

import "math"

// Ensemble type markers carried in the exported config.
const (
	EnsembleStacking = "Stacking"
	EnsembleWeighted = "Weighted"
)

// Bundle is a loaded set of base regressors plus their ensemble
// configuration. A Bundle is immutable after loading; concurrent readers
// share it freely and reloads swap in a fresh one.
type Bundle struct {
	LGB  Regressor
	XGB  Regressor
	Cat  Regressor
	Meta Regressor

	Type        string
	Weights     [3]float64
	FeatureCols []string
}

// defaultWeights is the equal split used when no ensemble config is present.
var defaultWeights = [3]float64{1.0 / 3, 1.0 / 3, 1.0 / 3}

// Predict scores one feature vector through all base models and combines
// them. Base predictions and the combined result are clipped at zero.
func (b *Bundle) Predict(features []float64) float64 {
	lgb := math.Max(b.LGB.Predict(features), 0)
	xgb := math.Max(b.XGB.Predict(features), 0)
	cat := math.Max(b.Cat.Predict(features), 0)

	var combined float64
	if b.Type == EnsembleStacking && b.Meta != nil {
		combined = b.Meta.Predict([]float64{lgb, xgb, cat})
	} else {
		combined = b.Weights[0]*lgb + b.Weights[1]*xgb + b.Weights[2]*cat
	}
	return math.Max(combined, 0)
}

// Columns returns the feature column order the bundle was trained with, or
// nil when the export did not include one.
func (b *Bundle) Columns() []string {
	return b.FeatureCols
}
