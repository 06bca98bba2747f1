// internal/service/forecast_service.go
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/kiranakart/forecast/internal/cache"
	"github.com/kiranakart/forecast/internal/domain"
	"github.com/kiranakart/forecast/internal/forecast"
	"github.com/kiranakart/forecast/internal/model"
	"github.com/kiranakart/forecast/internal/reorder"
	"github.com/kiranakart/forecast/internal/repository"
	"github.com/kiranakart/forecast/internal/storage"
	"github.com/kiranakart/forecast/pkg/logger"
)

// ForecastResult is one completed forecast run.
type ForecastResult struct {
	Rows    []domain.ForecastRow   `json:"forecast"`
	Summary domain.ForecastSummary `json:"summary"`
}

// ReorderResult is one completed reorder planning run.
type ReorderResult struct {
	Recommendations []domain.ReorderRecommendation `json:"recommendations"`
	Summary         domain.ReorderSummary          `json:"summary"`
}

// ForecastService orchestrates the pipeline and owns the loaded model
// bundle. The bundle sits behind an RWMutex so requests read it concurrently
// while reloads swap it atomically.
type ForecastService struct {
	repo        repository.SalesRepository
	modelStore  storage.ObjectStorage
	modelPrefix string
	cache       cache.ForecastCache
	engine      *forecast.Engine

	mu     sync.RWMutex
	bundle *model.Bundle
}

func NewForecastService(repo repository.SalesRepository, modelStore storage.ObjectStorage, modelPrefix string, fc cache.ForecastCache, engine *forecast.Engine) *ForecastService {
	return &ForecastService{
		repo:        repo,
		modelStore:  modelStore,
		modelPrefix: modelPrefix,
		cache:       fc,
		engine:      engine,
	}
}

// Reload loads a fresh model bundle from the artifact store and swaps it in.
// In-flight requests keep the bundle they already hold. The forecast cache is
// invalidated since cached runs were produced by the old bundle.
func (s *ForecastService) Reload(ctx context.Context) error {
	bundle, err := model.Load(ctx, s.modelStore, s.modelPrefix)
	if err != nil {
		return fmt.Errorf("reload models: %w", err)
	}

	s.mu.Lock()
	s.bundle = bundle
	s.mu.Unlock()

	if err := s.cache.InvalidateAll(ctx); err != nil {
		logger.Log.Warn().Err(err).Msg("failed invalidating forecast cache after reload")
	}
	return nil
}

func (s *ForecastService) currentBundle() *model.Bundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle
}

// ModelsLoaded reports whether a bundle is available.
func (s *ForecastService) ModelsLoaded() bool {
	return s.currentBundle() != nil
}

// GenerateForecast runs (or reuses a cached) forecast for numDays days past
// the end of the sales history.
func (s *ForecastService) GenerateForecast(ctx context.Context, numDays int) (*ForecastResult, error) {
	if numDays < 1 || numDays > forecast.MaxHorizonDays {
		return nil, fmt.Errorf("num_days must be between 1 and %d, got %d", forecast.MaxHorizonDays, numDays)
	}

	history, err := s.repo.GetSalesHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sales history: %w", err)
	}
	if len(history) == 0 {
		return nil, forecast.ErrNoHistory
	}

	lastDate := lastSaleDate(history)
	if cached, hit, err := s.cache.Get(ctx, lastDate, numDays); err != nil {
		logger.Log.Warn().Err(err).Msg("forecast cache read failed")
	} else if hit {
		logger.Log.Debug().Str("last_data_date", lastDate).Int("days", numDays).Msg("forecast cache hit")
		return &ForecastResult{Rows: cached.Rows, Summary: cached.Summary}, nil
	}

	rows, err := s.engine.Generate(history, numDays, s.currentBundle())
	if err != nil {
		return nil, err
	}

	result := &ForecastResult{Rows: rows, Summary: forecast.Summarize(rows)}
	if err := s.cache.Set(ctx, lastDate, numDays, &cache.CachedForecast{Rows: result.Rows, Summary: result.Summary}); err != nil {
		logger.Log.Warn().Err(err).Msg("forecast cache write failed")
	}
	return result, nil
}

// RecommendReorders forecasts demand and plans reorders against the given
// stock levels. A nil stock map falls back to the repository's stock data.
func (s *ForecastService) RecommendReorders(ctx context.Context, numDays int, stock domain.StockLevels, safetyStock, leadTimeDays int) (*ReorderResult, error) {
	if stock == nil {
		levels, err := s.repo.GetCurrentStock(ctx)
		if err != nil {
			return nil, fmt.Errorf("load current stock: %w", err)
		}
		stock = levels
	}
	for name, qty := range stock {
		if qty < 0 {
			return nil, fmt.Errorf("negative stock level %d for %q", qty, name)
		}
	}
	if safetyStock < 0 {
		safetyStock = reorder.DefaultSafetyStock
	}
	if leadTimeDays < 1 {
		leadTimeDays = reorder.DefaultLeadTimeDays
	}

	fc, err := s.GenerateForecast(ctx, numDays)
	if err != nil {
		return nil, err
	}

	recs := reorder.Plan(fc.Rows, stock, safetyStock, leadTimeDays)
	return &ReorderResult{
		Recommendations: recs,
		Summary:         reorder.Summarize(recs),
	}, nil
}

// Status reports readiness: models loaded and sales data available.
func (s *ForecastService) Status(ctx context.Context) domain.ForecastStatus {
	status := domain.ForecastStatus{ModelsLoaded: s.ModelsLoaded()}

	history, err := s.repo.GetSalesHistory(ctx)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("status check could not load sales history")
	} else if len(history) > 0 {
		status.DataAvailable = true
		status.LastDataDate = lastSaleDate(history)
	}

	if status.ModelsLoaded && status.DataAvailable {
		status.Status = "ready"
	} else {
		status.Status = "not_ready"
	}
	return status
}

func lastSaleDate(history []domain.SaleRecord) string {
	last := history[0].SaleDate
	for _, rec := range history[1:] {
		if rec.SaleDate.After(last) {
			last = rec.SaleDate
		}
	}
	return last.Format("2006-01-02")
}
