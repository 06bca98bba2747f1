// internal/reorder/summary.go
package reorder

import (
	"sort"

	"github.com/kiranakart/forecast/internal/domain"
)

// Summarize aggregates a reorder run: urgency counts, total order quantity,
// and a per-category breakdown sorted by category name.
func Summarize(recs []domain.ReorderRecommendation) domain.ReorderSummary {
	summary := domain.ReorderSummary{TotalProducts: len(recs)}
	byCategory := make(map[string]*domain.CategoryReorder)

	for _, rec := range recs {
		switch rec.UrgencyStatus {
		case domain.UrgencyRed:
			summary.CriticalCount++
		case domain.UrgencyYellow:
			summary.WarningCount++
		default:
			summary.GoodCount++
		}
		summary.TotalOrderQty += rec.RecommendedOrderQty
		if rec.RecommendedOrderQty > 0 {
			summary.ProductsNeedingOrder++
		}

		cat, ok := byCategory[rec.Category]
		if !ok {
			cat = &domain.CategoryReorder{Category: rec.Category}
			byCategory[rec.Category] = cat
		}
		cat.TotalOrderQty += rec.RecommendedOrderQty
		if rec.UrgencyStatus == domain.UrgencyRed {
			cat.CriticalCount++
		}
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
