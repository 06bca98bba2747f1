// internal/features/columns.go
package features

import (
	"fmt"
	"math"
	"time"
)

// Row is one engineered feature row: the identifying fields of the source
// sale plus every derived numeric column keyed by name. Undefined values
// (insufficient lag/rolling history) are stored as NaN and only zero-filled
// when a model matrix is built.
type Row struct {
	Date           time.Time
	ProductName    string
	Category       string
	SeasonAffinity string
	FestivalName   string
	QuantitySold   float64
	Values         map[string]float64
}

// Value returns the named feature value, or NaN when absent.
func (r Row) Value(name string) float64 {
	if v, ok := r.Values[name]; ok {
		return v
	}
	return math.NaN()
}

var (
	lagDays        = []int{1, 3, 7, 14, 21, 30}
	rollingWindows = []int{3, 7, 14, 30}
	rollingStats   = []string{"mean", "std", "min", "max", "median", "q25", "q75"}
	ewmSpans       = []int{3, 7, 14, 30}
)

// Columns returns the generated feature column list in a fixed order. This is
// the fallback ordering when a model bundle does not carry its own
// feature-column list; bundles trained elsewhere always take precedence.
func Columns() []string {
	cols := []string{
		// base numeric fields carried through from the sale record
		"price", "cost_price", "discount_percent", "final_price",
		"is_festival", "days_to_festival",
		// calendar
		"day_of_week", "day_of_month", "week_of_year", "month", "quarter", "year",
		"is_weekend", "is_month_start", "is_month_end", "days_in_month", "day_of_year",
		"is_payday", "days_since_month_start", "days_until_month_end",
		"month_sin", "month_cos", "dow_sin", "dow_cos", "day_of_year_sin", "day_of_year_cos",
		// target encodings
		"product_encoded", "product_std", "product_median", "product_max",
		"category_encoded", "category_std", "product_category_encoded",
	}

	for _, lag := range lagDays {
		cols = append(cols, fmt.Sprintf("lag_%d", lag))
	}
	cols = append(cols,
		"lag_diff_7_1", "lag_diff_14_7", "lag_diff_30_14",
		"lag_pct_change_7", "lag_pct_change_30",
	)

	for _, w := range rollingWindows {
		for _, stat := range rollingStats {
			cols = append(cols, fmt.Sprintf("rolling_%s_%d", stat, w))
		}
	}
	cols = append(cols, "cv_7", "cv_30")

	for _, span := range ewmSpans {
		cols = append(cols, fmt.Sprintf("ewm_%d", span))
	}
	cols = append(cols, "ewm_std_7", "ewm_std_30")

	cols = append(cols,
		"discount_festival_interaction", "weekend_festival_interaction",
		"discount_weekend_interaction", "discount_squared", "discount_weekend_festival",
		"discount_price_interaction", "festival_price_interaction",
		"season_encoded", "season_month_interaction", "season_festival_interaction",
		"price_discount_ratio", "profit_margin", "discount_amount", "profit_amount",
		"price_to_cost_ratio", "discount_impact",
		"wow_trend", "wow_trend_pct", "mom_trend", "mom_trend_pct", "acceleration",
		"same_dow_mean_4w",
	)

	return cols
}

// Matrix assembles the model input for the given rows using exactly the
// provided column set and order. Columns absent from a row and NaN values are
// filled with zero; row values outside the column set are dropped.
func Matrix(rows []Row, columns []string) [][]float64 {
	matrix := make([][]float64, len(rows))
	for i, row := range rows {
		vec := make([]float64, len(columns))
		for j, col := range columns {
			v, ok := row.Values[col]
			if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			}
			vec[j] = v
		}
		matrix[i] = vec
	}
	return matrix
}
