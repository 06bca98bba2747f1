// internal/forecast/ensemble.go
package forecast

import (
	"math"
	"sort"

	"github.com/kiranakart/forecast/internal/domain"
	"github.com/kiranakart/forecast/internal/features"
	"github.com/kiranakart/forecast/internal/model"
)

// predictRows scores every future row through the bundle and converts each
// into an output forecast row. Predicted quantities round half away from
// zero; revenue is the rounded quantity times the discounted price.
func predictRows(bundle *model.Bundle, futureRows []features.Row, columns []string) []domain.ForecastRow {
	matrix := features.Matrix(futureRows, columns)

	out := make([]domain.ForecastRow, len(futureRows))
	for i, row := range futureRows {
		qty := int(math.Round(bundle.Predict(matrix[i])))
		finalPrice := row.Value("final_price")
		out[i] = domain.ForecastRow{
			Date:              row.Date,
			ProductName:       row.ProductName,
			Category:          row.Category,
			Price:             row.Value("price"),
			DiscountPercent:   row.Value("discount_percent"),
			FinalPrice:        finalPrice,
			IsFestival:        int(row.Value("is_festival")),
			FestivalName:      row.FestivalName,
			PredictedQuantity: qty,
			ForecastedRevenue: float64(qty) * finalPrice,
		}
	}
	return out
}

// Summarize aggregates a forecast run: totals, distinct product count, date
// span, and a per-category breakdown sorted by category name.
func Summarize(rows []domain.ForecastRow) domain.ForecastSummary {
	summary := domain.ForecastSummary{}
	if len(rows) == 0 {
		return summary
	}

	products := make(map[string]struct{})
	byCategory := make(map[string]*domain.CategoryForecast)
	minDate, maxDate := rows[0].Date, rows[0].Date

	for _, r := range rows {
		products[r.ProductName] = struct{}{}
		summary.TotalQuantity += r.PredictedQuantity
		summary.TotalRevenue += r.ForecastedRevenue

		cat, ok := byCategory[r.Category]
		if !ok {
			cat = &domain.CategoryForecast{Category: r.Category}
			byCategory[r.Category] = cat
		}
		cat.TotalQuantity += r.PredictedQuantity
		cat.TotalRevenue += r.ForecastedRevenue

		if r.Date.Before(minDate) {
			minDate = r.Date
		}
		if r.Date.After(maxDate) {
			maxDate = r.Date
		}
	}

	summary.TotalProducts = len(products)
	summary.DateRange = domain.DateRange{
		Start: minDate.Format("2006-01-02"),
		End:   maxDate.Format("2006-01-02"),
	}

	categories := make([]string, 0, len(byCategory))
	for name := range byCategory {
		categories = append(categories, name)
	}
	sort.Strings(categories)
	for _, name := range categories {
		summary.ByCategory = append(summary.ByCategory, *byCategory[name])
	}
	return summary
}
