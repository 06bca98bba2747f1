// internal/reorder/planner.go
package reorder

import (
	"fmt"
	"math"
	"sort"

	"github.com/kiranakart/forecast/internal/domain"
)

// Defaults applied when the caller does not override them.
const (
	DefaultSafetyStock  = 5
	DefaultLeadTimeDays = 1
)

// productShelfLife holds per-product overrides, in days. Milk gets daily
// delivery; fresh dairy lasts a few days.
var productShelfLife = map[string]int{
	"Amul Milk 1L":            1,
	"Amul Milk 500ml":         1,
	"Britannia Milk Bread":    2,
	"Amul Butter 100g":        4,
	"Amul Butter 500g":        4,
	"Amul Cheese Slices 200g": 4,
	"Amul Paneer 200g":        3,
	"Mother Dairy Curd 400g":  3,
	"Nestle Dahi 400g":        3,
}

var categoryShelfLife = map[string]int{
	"Dairy":         4,
	"Beverages":     6,
	"Snacks":        6,
	"Staples":       6,
	"Personal Care": 6,
}

// ShelfLifeDays resolves a product's shelf life: product override first, then
// category default, then 6 days.
func ShelfLifeDays(productName, category string) int {
	if days, ok := productShelfLife[productName]; ok {
		return days
	}
	if days, ok := categoryShelfLife[category]; ok {
		return days
	}
	return 6
}

// DaysUntilStockout walks the daily forecast until cumulative demand covers
// the current stock, returning a fractional day count. Stock outlasting the
// forecast extrapolates at the last forecast day's rate.
func DaysUntilStockout(currentStock int, dailyForecast []int) float64 {
	if currentStock <= 0 {
		return 0.0
	}

	cumulative := 0
	for dayIdx, qty := range dailyForecast {
		cumulative += qty
		if cumulative >= currentStock {
			remaining := currentStock - (cumulative - qty)
			fraction := 0.0
			if qty > 0 {
				fraction = float64(remaining) / float64(qty)
			}
			return float64(dayIdx) + fraction
		}
	}

	rate := 1
	if n := len(dailyForecast); n > 0 && dailyForecast[n-1] > 0 {
		rate = dailyForecast[n-1]
	}
	return float64(len(dailyForecast)) + float64(currentStock-cumulative)/float64(rate)
}

// Urgency classifies days-until-stockout: 0-2 red, up to 5 yellow, 6+ green.
func Urgency(daysUntilStockout float64) domain.UrgencyStatus {
	switch {
	case daysUntilStockout <= 2:
		return domain.UrgencyRed
	case daysUntilStockout <= 5:
		return domain.UrgencyYellow
	default:
		return domain.UrgencyGreen
	}
}

// Plan computes reorder recommendations for every product in the forecast,
// sorted red before yellow before green, soonest stockout first.
func Plan(forecast []domain.ForecastRow, stock domain.StockLevels, safetyStock, leadTimeDays int) []domain.ReorderRecommendation {
	byProduct := make(map[string][]domain.ForecastRow)
	names := make([]string, 0)
	for _, row := range forecast {
		if _, ok := byProduct[row.ProductName]; !ok {
			names = append(names, row.ProductName)
		}
		byProduct[row.ProductName] = append(byProduct[row.ProductName], row)
	}
	sort.Strings(names)

	results := make([]domain.ReorderRecommendation, 0, len(names))
	for _, name := range names {
		rows := byProduct[name]
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Date.Before(rows[j].Date)
		})
		results = append(results, planProduct(name, rows, stock[name], safetyStock))
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := urgencyRank(results[i].UrgencyStatus), urgencyRank(results[j].UrgencyStatus)
		if a != b {
			return a < b
		}
		return results[i].DaysUntilStockout < results[j].DaysUntilStockout
	})
	return results
}

func planProduct(name string, rows []domain.ForecastRow, currentStock, safetyStock int) domain.ReorderRecommendation {
	category := rows[0].Category
	shelfLife := ShelfLifeDays(name, category)

	daily := make([]int, len(rows))
	total := 0
	for i, r := range rows {
		daily[i] = r.PredictedQuantity
		total += r.PredictedQuantity
	}

	days := DaysUntilStockout(currentStock, daily)

	var targetStock float64
	var reason string
	switch {
	case shelfLife == 1:
		targetStock = float64(sumFirst(daily, 1) + safetyStock)
		reason = "Daily delivery item (1-day shelf life)"
	case shelfLife <= 4:
		targetStock = float64(sumFirst(daily, shelfLife) + safetyStock)
		reason = fmt.Sprintf("Order to cover next %d days + safety stock", shelfLife)
	default:
		targetStock = float64(sumFirst(daily, 6) + safetyStock)
		reason = "Order to cover next 6 days + safety stock"
	}

	orderQty := int(math.Round(math.Max(0, targetStock-float64(currentStock))))
	if orderQty == 0 {
		reason = "Stock sufficient"
	}

	return domain.ReorderRecommendation{
		ProductName:         name,
		Category:            category,
		CurrentStock:        currentStock,
		ShelfLifeDays:       shelfLife,
		DaysUntilStockout:   math.Round(days*10) / 10,
		UrgencyStatus:       Urgency(days),
		TargetStock:         targetStock,
		RecommendedOrderQty: orderQty,
		ReorderReason:       reason,
		Forecast7DayTotal:   total,
		ForecastDay1:        dayAt(daily, 0),
		ForecastDay2:        dayAt(daily, 1),
		ForecastDay3:        dayAt(daily, 2),
	}
}

func sumFirst(daily []int, n int) int {
	if n > len(daily) {
		n = len(daily)
	}
	sum := 0
	for _, v := range daily[:n] {
		sum += v
	}
	return sum
}

func dayAt(daily []int, idx int) int {
	if idx < len(daily) {
		return daily[idx]
	}
	return 0
}

func urgencyRank(s domain.UrgencyStatus) int {
	switch s {
	case domain.UrgencyRed:
		return 0
	case domain.UrgencyYellow:
		return 1
	default:
		return 2
	}
}
