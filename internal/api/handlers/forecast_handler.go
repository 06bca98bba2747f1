// internal/api/handlers/forecast_handler.go
package handlers

import (
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kiranakart/forecast/internal/domain"
	"github.com/kiranakart/forecast/internal/forecast"
	"github.com/kiranakart/forecast/internal/service"
)

type ForecastHandler struct {
	service *service.ForecastService
}

func NewForecastHandler(svc *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{service: svc}
}

type generateRequest struct {
	NumDays int `json:"num_days"`
}

type reorderRequest struct {
	NumDays      int            `json:"num_days"`
	CurrentStock map[string]int `json:"current_stock"`
	SafetyStock  *int           `json:"safety_stock"`
	LeadTimeDays *int           `json:"lead_time_days"`
}

// forecastRowResponse is the wire form of one forecast row; dates are plain
// YYYY-MM-DD and currency is rounded to two decimals.
type forecastRowResponse struct {
	Date              string  `json:"date"`
	ProductName       string  `json:"product_name"`
	Category          string  `json:"category"`
	Price             float64 `json:"price"`
	DiscountPercent   float64 `json:"discount_percent"`
	FinalPrice        float64 `json:"final_price"`
	IsFestival        int     `json:"is_festival"`
	FestivalName      string  `json:"festival_name"`
	PredictedQuantity int     `json:"predicted_quantity"`
	ForecastedRevenue float64 `json:"forecasted_revenue"`
}

// Generate handles POST /api/v1/forecast/generate.
func (h *ForecastHandler) Generate(c *gin.Context) {
	req := generateRequest{NumDays: 7}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body: " + err.Error()})
			return
		}
	}

	result, err := h.service.GenerateForecast(c.Request.Context(), req.NumDays)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, forecast.ErrNoHistory) {
			status = http.StatusNotFound
		} else if isValidationError(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"forecast": toForecastResponse(result.Rows),
		"summary":  roundedSummary(result.Summary),
	})
}

// Recommendations handles POST /api/v1/reorder/recommendations.
func (h *ForecastHandler) Recommendations(c *gin.Context) {
	req := reorderRequest{NumDays: 7}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body: " + err.Error()})
			return
		}
	}

	safetyStock := -1
	if req.SafetyStock != nil {
		safetyStock = *req.SafetyStock
	}
	leadTime := 0
	if req.LeadTimeDays != nil {
		leadTime = *req.LeadTimeDays
	}

	var stock domain.StockLevels
	if req.CurrentStock != nil {
		stock = domain.StockLevels(req.CurrentStock)
	}

	result, err := h.service.RecommendReorders(c.Request.Context(), req.NumDays, stock, safetyStock, leadTime)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, forecast.ErrNoHistory) {
			status = http.StatusNotFound
		} else if isValidationError(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"recommendations": result.Recommendations,
		"summary":         result.Summary,
	})
}

// Status handles GET /api/v1/forecast/status.
func (h *ForecastHandler) Status(c *gin.Context) {
	status := h.service.Status(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"status":         status.Status,
		"models_loaded":  status.ModelsLoaded,
		"data_available": status.DataAvailable,
		"last_data_date": status.LastDataDate,
	})
}

// ReloadModels handles POST /api/v1/forecast/reload-models.
func (h *ForecastHandler) ReloadModels(c *gin.Context) {
	if err := h.service.Reload(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Models reloaded successfully"})
}

func toForecastResponse(rows []domain.ForecastRow) []forecastRowResponse {
	out := make([]forecastRowResponse, len(rows))
	for i, r := range rows {
		out[i] = forecastRowResponse{
			Date:              r.Date.Format(time.DateOnly),
			ProductName:       r.ProductName,
			Category:          r.Category,
			Price:             r.Price,
			DiscountPercent:   r.DiscountPercent,
			FinalPrice:        round2(r.FinalPrice),
			IsFestival:        r.IsFestival,
			FestivalName:      r.FestivalName,
			PredictedQuantity: r.PredictedQuantity,
			ForecastedRevenue: round2(r.ForecastedRevenue),
		}
	}
	return out
}

func roundedSummary(s domain.ForecastSummary) domain.ForecastSummary {
	s.TotalRevenue = round2(s.TotalRevenue)
	for i := range s.ByCategory {
		s.ByCategory[i].TotalRevenue = round2(s.ByCategory[i].TotalRevenue)
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// isValidationError distinguishes bad request parameters from pipeline
// failures. Parameter errors mention the offending field.
func isValidationError(err error) bool {
	msg := err.Error()
	for _, marker := range []string{"num_days", "stock level"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
