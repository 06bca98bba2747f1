// internal/model/loader.go
package model

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/kiranakart/forecast/internal/storage"
	"github.com/kiranakart/forecast/pkg/logger"
)

// Artifact file names within the model prefix.
const (
	lgbArtifact     = "lgb_model.json"
	xgbArtifact     = "xgb_model.json"
	catArtifact     = "catboost_model.json"
	configArtifact  = "ensemble_config.json"
	columnsArtifact = "feature_cols.json"
)

// ensembleConfig is the exported ensemble configuration dump.
type ensembleConfig struct {
	EnsembleType string    `json:"ensemble_type"`
	Weights      []float64 `json:"weights"`
	MetaModel    *artifact `json:"meta_model"`
}

// Load reads a model bundle from the given store under prefix. The three
// base regressors are required; the ensemble config and feature column list
// degrade to defaults with a warning when absent or unreadable.
func Load(ctx context.Context, store storage.ObjectStorage, prefix string) (*Bundle, error) {
	bundle := &Bundle{
		Type:    EnsembleWeighted,
		Weights: defaultWeights,
	}

	required := []struct {
		file string
		dest *Regressor
	}{
		{lgbArtifact, &bundle.LGB},
		{xgbArtifact, &bundle.XGB},
		{catArtifact, &bundle.Cat},
	}
	for _, r := range required {
		key := path.Join(prefix, r.file)
		data, err := store.ReadObject(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("model artifact %s not found: %w", key, err)
		}
		reg, err := parseRegressor(r.file, data)
		if err != nil {
			return nil, fmt.Errorf("failed parsing model artifact %s: %w", key, err)
		}
		*r.dest = reg
	}

	if data, err := store.ReadObject(ctx, path.Join(prefix, configArtifact)); err == nil {
		var cfg ensembleConfig
		if jsonErr := json.Unmarshal(data, &cfg); jsonErr != nil {
			logger.Log.Warn().Err(jsonErr).Msg("unreadable ensemble config, using default weights")
		} else {
			applyEnsembleConfig(bundle, cfg)
		}
	} else {
		logger.Log.Warn().Str("prefix", prefix).Msg("no ensemble config found, using default weights")
	}

	if data, err := store.ReadObject(ctx, path.Join(prefix, columnsArtifact)); err == nil {
		var cols []string
		if jsonErr := json.Unmarshal(data, &cols); jsonErr != nil {
			logger.Log.Warn().Err(jsonErr).Msg("unreadable feature column list, falling back to generated columns")
		} else {
			bundle.FeatureCols = cols
		}
	} else {
		logger.Log.Warn().Str("prefix", prefix).Msg("no feature column list found, falling back to generated columns")
	}

	logger.Log.Info().
		Str("type", bundle.Type).
		Int("feature_cols", len(bundle.FeatureCols)).
		Msg("model bundle loaded")
	return bundle, nil
}

func applyEnsembleConfig(bundle *Bundle, cfg ensembleConfig) {
	if cfg.EnsembleType != "" {
		bundle.Type = cfg.EnsembleType
	}
	if len(cfg.Weights) == 3 {
		copy(bundle.Weights[:], cfg.Weights)
	} else if len(cfg.Weights) != 0 {
		logger.Log.Warn().Int("count", len(cfg.Weights)).Msg("unexpected ensemble weight count, using default weights")
	}
	if cfg.MetaModel != nil {
		switch cfg.MetaModel.Type {
		case "stumps":
			bundle.Meta = &StumpEnsemble{name: cfg.MetaModel.Name, baseScore: cfg.MetaModel.BaseScore, stumps: cfg.MetaModel.Stumps}
		default:
			bundle.Meta = &LinearRegressor{name: cfg.MetaModel.Name, intercept: cfg.MetaModel.Intercept, coefficients: cfg.MetaModel.Coefficients}
		}
	}
}
