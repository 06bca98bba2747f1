// internal/domain/models.go
package domain

import "time"

// SaleRecord is one historical sales fact: a product sold on a calendar day.
// Rows are immutable once loaded; the feature engine treats each product's
// series as gap-free and ordered by date.
type SaleRecord struct {
	SaleDate        time.Time `json:"sale_date" db:"sale_date"`
	ProductName     string    `json:"product_name" db:"product_name"`
	Category        string    `json:"category" db:"category"`
	SeasonAffinity  string    `json:"season_affinity" db:"season_affinity"`
	QuantitySold    float64   `json:"quantity_sold" db:"quantity_sold"`
	Price           float64   `json:"price" db:"price"`
	CostPrice       float64   `json:"cost_price" db:"cost_price"`
	DiscountPercent float64   `json:"discount_percent" db:"discount_percent"`
	FinalPrice      float64   `json:"final_price" db:"final_price"`
}

// ProductInfo holds the per-product attributes used to synthesize future rows.
type ProductInfo struct {
	Category       string  `json:"category"`
	SeasonAffinity string  `json:"season_affinity"`
	Price          float64 `json:"price"`
	CostPrice      float64 `json:"cost_price"`
}

// ProductMaster maps product name to its first-observed attributes. One entry
// per distinct product name.
type ProductMaster map[string]ProductInfo

// BuildProductMaster derives the product master from history, keeping the
// first-observed values per product name.
func BuildProductMaster(history []SaleRecord) ProductMaster {
	master := make(ProductMaster)
	for _, rec := range history {
		if _, ok := master[rec.ProductName]; ok {
			continue
		}
		master[rec.ProductName] = ProductInfo{
			Category:       rec.Category,
			SeasonAffinity: rec.SeasonAffinity,
			Price:          rec.Price,
			CostPrice:      rec.CostPrice,
		}
	}
	return master
}

// ForecastRow is one predicted (date, product) demand value.
type ForecastRow struct {
	Date              time.Time `json:"date"`
	ProductName       string    `json:"product_name"`
	Category          string    `json:"category"`
	Price             float64   `json:"price"`
	DiscountPercent   float64   `json:"discount_percent"`
	FinalPrice        float64   `json:"final_price"`
	IsFestival        int       `json:"is_festival"`
	FestivalName      string    `json:"festival_name"`
	PredictedQuantity int       `json:"predicted_quantity"`
	ForecastedRevenue float64   `json:"forecasted_revenue"`
}

// CategoryForecast aggregates predicted demand for one category.
type CategoryForecast struct {
	Category      string  `json:"category"`
	TotalQuantity int     `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// DateRange is an inclusive forecast date span.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ForecastSummary aggregates one forecast run for display.
type ForecastSummary struct {
	TotalProducts int                `json:"total_products"`
	TotalQuantity int                `json:"total_quantity"`
	TotalRevenue  float64            `json:"total_revenue"`
	DateRange     DateRange          `json:"date_range"`
	ByCategory    []CategoryForecast `json:"by_category"`
}

// UrgencyStatus classifies how soon a product runs out of stock.
type UrgencyStatus string

const (
	UrgencyRed    UrgencyStatus = "red"    // 0-2 days
	UrgencyYellow UrgencyStatus = "yellow" // 3-5 days
	UrgencyGreen  UrgencyStatus = "green"  // 6+ days
)

// StockLevels maps product name to current stock on hand.
type StockLevels map[string]int

// ReorderRecommendation is the per-product reorder decision derived from a
// forecast run. Not persisted by the core.
type ReorderRecommendation struct {
	ProductName         string        `json:"product_name"`
	Category            string        `json:"category"`
	CurrentStock        int           `json:"current_stock"`
	ShelfLifeDays       int           `json:"shelf_life_days"`
	DaysUntilStockout   float64       `json:"days_until_stockout"`
	UrgencyStatus       UrgencyStatus `json:"urgency_status"`
	TargetStock         float64       `json:"target_stock"`
	RecommendedOrderQty int           `json:"recommended_order_qty"`
	ReorderReason       string        `json:"reorder_reason"`
	Forecast7DayTotal   int           `json:"forecast_7day_total"`
	ForecastDay1        int           `json:"forecast_day1"`
	ForecastDay2        int           `json:"forecast_day2"`
	ForecastDay3        int           `json:"forecast_day3"`
}

// CategoryReorder aggregates order quantity and critical count per category.
type CategoryReorder struct {
	Category      string `json:"category"`
	TotalOrderQty int    `json:"total_order_qty"`
	CriticalCount int    `json:"critical_count"`
}

// ReorderSummary aggregates a reorder run across all products.
type ReorderSummary struct {
	TotalProducts        int               `json:"total_products"`
	CriticalCount        int               `json:"critical_count"`
	WarningCount         int               `json:"warning_count"`
	GoodCount            int               `json:"good_count"`
	TotalOrderQty        int               `json:"total_order_qty"`
	ProductsNeedingOrder int               `json:"products_needing_order"`
	ByCategory           []CategoryReorder `json:"by_category"`
}

// ForecastStatus reports readiness of the forecasting subsystem.
type ForecastStatus struct {
	Status        string `json:"status"`
	ModelsLoaded  bool   `json:"models_loaded"`
	DataAvailable bool   `json:"data_available"`
	LastDataDate  string `json:"last_data_date,omitempty"`
}
