// internal/model/regressor.go
package model

import "encoding/json"

// Regressor is a single trained model able to score one feature vector.
type Regressor interface {
	Predict(features []float64) float64
	Name() string
}

// artifact is the on-disk JSON dump of one exported regressor.
type artifact struct {
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
	BaseScore    float64   `json:"base_score"`
	Stumps       []stump   `json:"stumps"`
}

type stump struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      float64 `json:"left"`
	Right     float64 `json:"right"`
}

// LinearRegressor scores a feature vector with a fitted linear model.
type LinearRegressor struct {
	name         string
	intercept    float64
	coefficients []float64
}

// NewLinearRegressor builds a linear regressor from explicit parameters.
// Used by the ensemble meta-model and in tests.
func NewLinearRegressor(name string, intercept float64, coefficients []float64) *LinearRegressor {
	return &LinearRegressor{name: name, intercept: intercept, coefficients: coefficients}
}

func (r *LinearRegressor) Name() string { return r.name }

func (r *LinearRegressor) Predict(features []float64) float64 {
	sum := r.intercept
	n := len(r.coefficients)
	if len(features) < n {
		n = len(features)
	}
	for i := 0; i < n; i++ {
		sum += r.coefficients[i] * features[i]
	}
	return sum
}

// StumpEnsemble scores a feature vector as a base score plus the sum of
// depth-one decision trees, the exported form of the boosted models.
type StumpEnsemble struct {
	name      string
	baseScore float64
	stumps    []stump
}

func (r *StumpEnsemble) Name() string { return r.name }

func (r *StumpEnsemble) Predict(features []float64) float64 {
	sum := r.baseScore
	for _, s := range r.stumps {
		v := 0.0
		if s.Feature >= 0 && s.Feature < len(features) {
			v = features[s.Feature]
		}
		if v < s.Threshold {
			sum += s.Left
		} else {
			sum += s.Right
		}
	}
	return sum
}

// parseRegressor decodes one artifact JSON dump into a Regressor.
func parseRegressor(name string, data []byte) (Regressor, error) {
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	if a.Name == "" {
		a.Name = name
	}
	switch a.Type {
	case "stumps":
		return &StumpEnsemble{name: a.Name, baseScore: a.BaseScore, stumps: a.Stumps}, nil
	default:
		return &LinearRegressor{name: a.Name, intercept: a.Intercept, coefficients: a.Coefficients}, nil
	}
}
