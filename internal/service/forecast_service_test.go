package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranakart/forecast/internal/cache"
	"github.com/kiranakart/forecast/internal/calendar"
	"github.com/kiranakart/forecast/internal/domain"
	"github.com/kiranakart/forecast/internal/forecast"
	"github.com/kiranakart/forecast/internal/storage"
)

type fakeRepo struct {
	history []domain.SaleRecord
	stock   domain.StockLevels
}

func (r *fakeRepo) GetSalesHistory(ctx context.Context) ([]domain.SaleRecord, error) {
	return r.history, nil
}

func (r *fakeRepo) GetCurrentStock(ctx context.Context) (domain.StockLevels, error) {
	return r.stock, nil
}

func constantHistory(days int) []domain.SaleRecord {
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	records := make([]domain.SaleRecord, days)
	for i := range records {
		records[i] = domain.SaleRecord{
			SaleDate:       start.AddDate(0, 0, i),
			ProductName:    "Amul Milk 1L",
			Category:       "Dairy",
			SeasonAffinity: "all",
			QuantitySold:   12,
			Price:          60,
			CostPrice:      50,
			FinalPrice:     60,
		}
	}
	return records
}

func modelDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	artifacts := map[string]string{
		"lgb_model.json":      `{"type":"linear","intercept":0,"coefficients":[1]}`,
		"xgb_model.json":      `{"type":"linear","intercept":0,"coefficients":[1]}`,
		"catboost_model.json": `{"type":"linear","intercept":0,"coefficients":[1]}`,
		"feature_cols.json":   `["rolling_mean_7"]`,
	}
	for name, content := range artifacts {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func newTestService(t *testing.T, repo *fakeRepo) *ForecastService {
	t.Helper()
	store, err := storage.NewLocalStore(modelDir(t))
	require.NoError(t, err)
	engine := forecast.NewEngine(calendar.NewOracle(42))
	svc := NewForecastService(repo, store, "", cache.NewNoopForecastCache(), engine)
	require.NoError(t, svc.Reload(context.Background()))
	return svc
}

func TestGenerateForecast(t *testing.T) {
	repo := &fakeRepo{history: constantHistory(14)}
	svc := newTestService(t, repo)

	result, err := svc.GenerateForecast(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, result.Rows, 7)

	assert.Equal(t, 1, result.Summary.TotalProducts)
	assert.Equal(t, 7*12, result.Summary.TotalQuantity)
	assert.Equal(t, "2025-03-15", result.Summary.DateRange.Start)
	assert.Equal(t, "2025-03-21", result.Summary.DateRange.End)
}

func TestGenerateForecastValidatesHorizon(t *testing.T) {
	svc := newTestService(t, &fakeRepo{history: constantHistory(5)})

	_, err := svc.GenerateForecast(context.Background(), 0)
	assert.Error(t, err)
	_, err = svc.GenerateForecast(context.Background(), 31)
	assert.Error(t, err)
}

func TestGenerateForecastNoHistory(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	_, err := svc.GenerateForecast(context.Background(), 7)
	assert.ErrorIs(t, err, forecast.ErrNoHistory)
}

func TestGenerateForecastWithoutModels(t *testing.T) {
	repo := &fakeRepo{history: constantHistory(5)}
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	svc := NewForecastService(repo, store, "", cache.NewNoopForecastCache(), forecast.NewEngine(calendar.NewOracle(42)))

	assert.False(t, svc.ModelsLoaded())
	_, genErr := svc.GenerateForecast(context.Background(), 7)
	assert.Error(t, genErr)
}

func TestReloadFailsWithMissingArtifacts(t *testing.T) {
	repo := &fakeRepo{history: constantHistory(5)}
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	svc := NewForecastService(repo, store, "", cache.NewNoopForecastCache(), forecast.NewEngine(calendar.NewOracle(42)))

	assert.Error(t, svc.Reload(context.Background()))
	assert.False(t, svc.ModelsLoaded())
}

func TestRecommendReorders(t *testing.T) {
	repo := &fakeRepo{history: constantHistory(14)}
	svc := newTestService(t, repo)

	stock := domain.StockLevels{"Amul Milk 1L": 5}
	result, err := svc.RecommendReorders(context.Background(), 7, stock, 5, 1)
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)

	rec := result.Recommendations[0]
	assert.Equal(t, "Amul Milk 1L", rec.ProductName)
	assert.Equal(t, 1, rec.ShelfLifeDays)
	assert.Equal(t, domain.UrgencyRed, rec.UrgencyStatus)
	// daily delivery target: tomorrow's 12 plus safety 5, minus 5 on hand
	assert.Equal(t, 12, rec.RecommendedOrderQty)
	assert.Equal(t, 1, result.Summary.CriticalCount)
}

func TestRecommendReordersUsesRepositoryStock(t *testing.T) {
	repo := &fakeRepo{history: constantHistory(14), stock: domain.StockLevels{"Amul Milk 1L": 100}}
	svc := newTestService(t, repo)

	result, err := svc.RecommendReorders(context.Background(), 7, nil, 5, 1)
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, 100, result.Recommendations[0].CurrentStock)
	assert.Equal(t, "Stock sufficient", result.Recommendations[0].ReorderReason)
}

func TestRecommendReordersRejectsNegativeStock(t *testing.T) {
	svc := newTestService(t, &fakeRepo{history: constantHistory(5)})

	_, err := svc.RecommendReorders(context.Background(), 7, domain.StockLevels{"Amul Milk 1L": -1}, 5, 1)
	assert.Error(t, err)
}

func TestStatus(t *testing.T) {
	svc := newTestService(t, &fakeRepo{history: constantHistory(3)})
	status := svc.Status(context.Background())

	assert.Equal(t, "ready", status.Status)
	assert.True(t, status.ModelsLoaded)
	assert.True(t, status.DataAvailable)
	assert.Equal(t, "2025-03-03", status.LastDataDate)
}

func TestStatusNotReady(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})
	status := svc.Status(context.Background())

	assert.Equal(t, "not_ready", status.Status)
	assert.True(t, status.ModelsLoaded)
	assert.False(t, status.DataAvailable)
}
