// internal/features/engine.go
package features

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/kiranakart/forecast/internal/calendar"
	"github.com/kiranakart/forecast/internal/domain"
)

var seasonCodes = map[string]float64{
	"all":     0,
	"summer":  1,
	"winter":  2,
	"monsoon": 3,
}

// BuildFeatures engineers the full feature set from historical sales,
// producing one row per input record. Rows with undefined lag or rolling
// values (insufficient history) are retained; the projector needs the intact
// tail of every product's series.
func BuildFeatures(history []domain.SaleRecord) []Row {
	records := make([]domain.SaleRecord, len(history))
	copy(records, history)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].SaleDate.Before(records[j].SaleDate)
	})

	rows := make([]Row, len(records))
	for i, rec := range records {
		isFest, festName, daysToFest := calendar.FestivalStatus(rec.SaleDate, rec.Category)
		values := map[string]float64{
			"price":            rec.Price,
			"cost_price":       rec.CostPrice,
			"discount_percent": rec.DiscountPercent,
			"final_price":      rec.FinalPrice,
			"is_festival":      boolToFloat(isFest),
			"days_to_festival": float64(daysToFest),
		}
		ApplyCalendar(values, rec.SaleDate)

		rows[i] = Row{
			Date:           rec.SaleDate,
			ProductName:    rec.ProductName,
			Category:       rec.Category,
			SeasonAffinity: rec.SeasonAffinity,
			FestivalName:   festName,
			QuantitySold:   rec.QuantitySold,
			Values:         values,
		}
	}

	enc := ComputeEncodings(rows)
	for i := range rows {
		enc.Apply(&rows[i])
	}

	buildSeriesFeatures(rows)

	for i := range rows {
		ApplyInteractions(rows[i].Values, rows[i].SeasonAffinity)
	}

	return rows
}

// buildSeriesFeatures computes the per-product lag, rolling, EWM, trend, and
// same-day-of-week features in place.
func buildSeriesFeatures(rows []Row) {
	byProduct := make(map[string][]int)
	order := make([]string, 0)
	for i, r := range rows {
		if _, ok := byProduct[r.ProductName]; !ok {
			order = append(order, r.ProductName)
		}
		byProduct[r.ProductName] = append(byProduct[r.ProductName], i)
	}

	for _, product := range order {
		idx := byProduct[product]
		qty := make([]float64, len(idx))
		for k, i := range idx {
			qty[k] = rows[i].QuantitySold
		}

		lagSeries := make(map[int][]float64, len(lagDays))
		for _, lag := range lagDays {
			lagSeries[lag] = lagged(qty, lag)
		}

		rollSeries := make(map[string][]float64)
		for _, w := range rollingWindows {
			rollSeries[fmt.Sprintf("rolling_mean_%d", w)] = rollingApply(qty, w, mean)
			rollSeries[fmt.Sprintf("rolling_std_%d", w)] = rollingApply(qty, w, sampleStd)
			rollSeries[fmt.Sprintf("rolling_min_%d", w)] = rollingApply(qty, w, minOf)
			rollSeries[fmt.Sprintf("rolling_max_%d", w)] = rollingApply(qty, w, maxOf)
			rollSeries[fmt.Sprintf("rolling_median_%d", w)] = rollingApply(qty, w, median)
			rollSeries[fmt.Sprintf("rolling_q25_%d", w)] = rollingApply(qty, w, func(v []float64) float64 { return quantile(v, 0.25) })
			rollSeries[fmt.Sprintf("rolling_q75_%d", w)] = rollingApply(qty, w, func(v []float64) float64 { return quantile(v, 0.75) })
		}

		ewmSeries := make(map[string][]float64)
		for _, span := range ewmSpans {
			ewmSeries[fmt.Sprintf("ewm_%d", span)] = ewmMean(qty, span)
		}
		ewmSeries["ewm_std_7"] = ewmStd(qty, 7)
		ewmSeries["ewm_std_30"] = ewmStd(qty, 30)

		sameDOW := sameDOWMeans(rows, idx, qty)

		for k, i := range idx {
			v := rows[i].Values

			for _, lag := range lagDays {
				v[fmt.Sprintf("lag_%d", lag)] = lagSeries[lag][k]
			}
			lag1 := lagSeries[1][k]
			lag7 := lagSeries[7][k]
			lag14 := lagSeries[14][k]
			lag30 := lagSeries[30][k]

			v["lag_diff_7_1"] = lag1 - lag7
			v["lag_diff_14_7"] = lag7 - lag14
			v["lag_diff_30_14"] = lag14 - lag30
			v["lag_pct_change_7"] = (lag1 - lag7) / (lag7 + 1)
			v["lag_pct_change_30"] = (lag7 - lag30) / (lag30 + 1)

			for name, series := range rollSeries {
				v[name] = series[k]
			}
			v["cv_7"] = v["rolling_std_7"] / (v["rolling_mean_7"] + 1)
			v["cv_30"] = v["rolling_std_30"] / (v["rolling_mean_30"] + 1)

			for name, series := range ewmSeries {
				v[name] = series[k]
			}

			v["wow_trend"] = lag7 - lag14
			v["wow_trend_pct"] = (lag7 - lag14) / (lag14 + 1)
			v["mom_trend"] = lag7 - lag30
			v["mom_trend_pct"] = (lag7 - lag30) / (lag30 + 1)
			v["acceleration"] = (lag1 - lag7) - (lag7 - lag14)

			dowMean := sameDOW[k]
			if math.IsNaN(dowMean) {
				dowMean = v["rolling_mean_7"]
			}
			v["same_dow_mean_4w"] = dowMean
		}
	}
}

// sameDOWMeans computes, per weekday within one product's series, the
// trailing 4-occurrence mean of quantity sold shifted by one occurrence so it
// never includes the current row. Positions with no prior same-weekday
// occurrence are NaN.
func sameDOWMeans(rows []Row, idx []int, qty []float64) []float64 {
	out := make([]float64, len(idx))
	perDOW := make(map[time.Weekday][]float64)
	for k, i := range idx {
		dow := rows[i].Date.Weekday()
		prior := perDOW[dow]
		if len(prior) == 0 {
			out[k] = math.NaN()
		} else {
			out[k] = mean(tail(prior, 4))
		}
		perDOW[dow] = append(prior, qty[k])
	}
	return out
}

// ApplyCalendar stamps all date-derived feature columns for one day. Shared
// with future-row projection.
func ApplyCalendar(v map[string]float64, date time.Time) {
	dow := mondayWeekday(date.Weekday())
	dayOfMonth := date.Day()
	month := int(date.Month())
	_, isoWeek := date.ISOWeek()
	daysInMonth := daysIn(date.Year(), date.Month())
	dayOfYear := date.YearDay()

	v["day_of_week"] = float64(dow)
	v["day_of_month"] = float64(dayOfMonth)
	v["week_of_year"] = float64(isoWeek)
	v["month"] = float64(month)
	v["quarter"] = float64((month-1)/3 + 1)
	v["year"] = float64(date.Year())
	v["is_weekend"] = boolToFloat(dow >= 5)
	v["is_month_start"] = boolToFloat(dayOfMonth <= 7)
	v["is_month_end"] = boolToFloat(dayOfMonth >= 23)
	v["days_in_month"] = float64(daysInMonth)
	v["day_of_year"] = float64(dayOfYear)
	v["is_payday"] = boolToFloat(dayOfMonth == 1 || dayOfMonth == 15 || dayOfMonth == 30)
	v["days_since_month_start"] = float64(dayOfMonth)
	v["days_until_month_end"] = float64(daysInMonth - dayOfMonth)

	// Cyclical encodings remove the false ordinal jump across year and week
	// boundaries that raw month/day-of-week integers impose.
	v["month_sin"] = math.Sin(2 * math.Pi * float64(month) / 12)
	v["month_cos"] = math.Cos(2 * math.Pi * float64(month) / 12)
	v["dow_sin"] = math.Sin(2 * math.Pi * float64(dow) / 7)
	v["dow_cos"] = math.Cos(2 * math.Pi * float64(dow) / 7)
	v["day_of_year_sin"] = math.Sin(2 * math.Pi * float64(dayOfYear) / 365)
	v["day_of_year_cos"] = math.Cos(2 * math.Pi * float64(dayOfYear) / 365)
}

// ApplyInteractions stamps the discount, season, and price interaction
// columns. Requires the base, calendar, and encoding values to be present.
func ApplyInteractions(v map[string]float64, seasonAffinity string) {
	discount := v["discount_percent"]
	isFestival := v["is_festival"]
	isWeekend := v["is_weekend"]
	price := v["price"]
	costPrice := v["cost_price"]
	finalPrice := v["final_price"]

	v["discount_festival_interaction"] = discount * isFestival
	v["weekend_festival_interaction"] = isWeekend * isFestival
	v["discount_weekend_interaction"] = discount * isWeekend
	v["discount_squared"] = discount * discount
	v["discount_weekend_festival"] = discount * isWeekend * isFestival
	v["discount_price_interaction"] = discount * price
	v["festival_price_interaction"] = isFestival * price

	season, ok := seasonCodes[seasonAffinity]
	if !ok {
		season = math.NaN()
	}
	v["season_encoded"] = season
	v["season_month_interaction"] = season * v["month"]
	v["season_festival_interaction"] = season * isFestival

	v["price_discount_ratio"] = finalPrice / price
	v["profit_margin"] = (price - costPrice) / price
	v["discount_amount"] = price - finalPrice
	v["profit_amount"] = price - costPrice
	v["price_to_cost_ratio"] = price / costPrice
	v["discount_impact"] = discount / (price + 1)
}

// mondayWeekday converts Go's Sunday-based weekday to the Monday=0 convention
// the feature columns use.
func mondayWeekday(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
