package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranakart/forecast/internal/cache"
	"github.com/kiranakart/forecast/internal/calendar"
	"github.com/kiranakart/forecast/internal/domain"
	"github.com/kiranakart/forecast/internal/forecast"
	"github.com/kiranakart/forecast/internal/service"
	"github.com/kiranakart/forecast/internal/storage"
)

type stubRepo struct {
	history []domain.SaleRecord
}

func (r *stubRepo) GetSalesHistory(ctx context.Context) ([]domain.SaleRecord, error) {
	return r.history, nil
}

func (r *stubRepo) GetCurrentStock(ctx context.Context) (domain.StockLevels, error) {
	return domain.StockLevels{}, nil
}

func testRouter(t *testing.T, history []domain.SaleRecord) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
	store, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	svc := service.NewForecastService(
		&stubRepo{history: history},
		store,
		"",
		cache.NewNoopForecastCache(),
		forecast.NewEngine(calendar.NewOracle(42)),
	)
	require.NoError(t, svc.Reload(context.Background()))
	return NewRouter(svc, nil)
}

func steadyHistory() []domain.SaleRecord {
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	records := make([]domain.SaleRecord, 10)
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

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(t, steadyHistory())
	w := doJSON(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerateEndpoint(t *testing.T) {
	router := testRouter(t, steadyHistory())
	w := doJSON(router, http.MethodPost, "/api/v1/forecast/generate", gin.H{"num_days": 3})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success  bool `json:"success"`
		Forecast []struct {
			Date              string `json:"date"`
			ProductName       string `json:"product_name"`
			PredictedQuantity int    `json:"predicted_quantity"`
		} `json:"forecast"`
		Summary struct {
			TotalQuantity int `json:"total_quantity"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Forecast, 3)
	assert.Equal(t, "2025-03-11", resp.Forecast[0].Date)
	assert.Equal(t, 12, resp.Forecast[0].PredictedQuantity)
	assert.Equal(t, 36, resp.Summary.TotalQuantity)
}

func TestGenerateEndpointInvalidHorizon(t *testing.T) {
	router := testRouter(t, steadyHistory())
	w := doJSON(router, http.MethodPost, "/api/v1/forecast/generate", gin.H{"num_days": 31})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateEndpointNoData(t *testing.T) {
	router := testRouter(t, nil)
	w := doJSON(router, http.MethodPost, "/api/v1/forecast/generate", gin.H{"num_days": 7})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReorderEndpoint(t *testing.T) {
	router := testRouter(t, steadyHistory())
	w := doJSON(router, http.MethodPost, "/api/v1/reorder/recommendations", gin.H{
		"num_days":      7,
		"current_stock": gin.H{"Amul Milk 1L": 5},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success         bool `json:"success"`
		Recommendations []struct {
			ProductName   string `json:"product_name"`
			UrgencyStatus string `json:"urgency_status"`
		} `json:"recommendations"`
		Summary struct {
			CriticalCount int `json:"critical_count"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, "red", resp.Recommendations[0].UrgencyStatus)
	assert.Equal(t, 1, resp.Summary.CriticalCount)
}

func TestReorderEndpointNegativeStock(t *testing.T) {
	router := testRouter(t, steadyHistory())
	w := doJSON(router, http.MethodPost, "/api/v1/reorder/recommendations", gin.H{
		"num_days":      7,
		"current_stock": gin.H{"Amul Milk 1L": -2},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusEndpoint(t *testing.T) {
	router := testRouter(t, steadyHistory())
	w := doJSON(router, http.MethodGet, "/api/v1/forecast/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success      bool   `json:"success"`
		Status       string `json:"status"`
		ModelsLoaded bool   `json:"models_loaded"`
		LastDataDate string `json:"last_data_date"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Status)
	assert.True(t, resp.ModelsLoaded)
	assert.Equal(t, "2025-03-10", resp.LastDataDate)
}

func TestReloadEndpoint(t *testing.T) {
	router := testRouter(t, steadyHistory())
	w := doJSON(router, http.MethodPost, "/api/v1/forecast/reload-models", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
