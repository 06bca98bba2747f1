// internal/forecast/projector.go
package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/kiranakart/forecast/internal/calendar"
	"github.com/kiranakart/forecast/internal/domain"
	"github.com/kiranakart/forecast/internal/features"
)

// Projector synthesizes feature rows for horizon days past the end of
// history. Lag and rolling features are frozen from each product's history
// tail rather than fed back from predictions, so every horizon day of one
// product shares the same demand-history snapshot.
type Projector struct {
	oracle *calendar.Oracle
}

func NewProjector(oracle *calendar.Oracle) *Projector {
	return &Projector{oracle: oracle}
}

// lagWindows lists the lag offsets in ascending order so a missing lag can
// cascade to the next shorter one.
var lagWindows = []int{1, 3, 7, 14, 21, 30}

// ProjectFuture builds one feature row per (product, horizon day) for the
// num_days dates following lastDate. histRows must be the engineered history
// rows, ordered by date within each product.
func (p *Projector) ProjectFuture(lastDate time.Time, numDays int, master domain.ProductMaster, histRows []features.Row) []features.Row {
	enc := features.ComputeEncodings(histRows)
	tails := historyTails(histRows)

	products := make([]string, 0, len(master))
	for name := range master {
		products = append(products, name)
	}
	sort.Strings(products)

	rows := make([]features.Row, 0, len(products)*numDays)
	for _, product := range products {
		info := master[product]
		tail30 := tails[product]

		for d := 1; d <= numDays; d++ {
			date := lastDate.AddDate(0, 0, d)
			row := p.baseRow(date, product, info)
			enc.Apply(&row)
			if len(tail30) > 0 {
				applyDemandSnapshot(row.Values, tail30)
			}
			features.ApplyInteractions(row.Values, info.SeasonAffinity)
			rows = append(rows, row)
		}
	}
	return rows
}

// baseRow builds one future row with price, discount, calendar, and festival
// values; demand-history features are stamped separately.
func (p *Projector) baseRow(date time.Time, product string, info domain.ProductInfo) features.Row {
	isFest, festName, daysToFest := calendar.FestivalStatus(date, info.Category)
	discount := p.oracle.DiscountFor(date, info.Category)
	finalPrice := info.Price * (1 - discount/100)

	values := map[string]float64{
		"price":            info.Price,
		"cost_price":       info.CostPrice,
		"discount_percent": discount,
		"final_price":      finalPrice,
		"is_festival":      boolToFloat(isFest),
		"days_to_festival": float64(daysToFest),
	}
	features.ApplyCalendar(values, date)

	return features.Row{
		Date:           date,
		ProductName:    product,
		Category:       info.Category,
		SeasonAffinity: info.SeasonAffinity,
		FestivalName:   festName,
		QuantitySold:   0,
		Values:         values,
	}
}

// historyTails collects the last 30 quantity values per product, in date
// order, from the engineered history rows.
func historyTails(histRows []features.Row) map[string][]float64 {
	tails := make(map[string][]float64)
	for _, r := range histRows {
		tails[r.ProductName] = append(tails[r.ProductName], r.QuantitySold)
	}
	for product, series := range tails {
		if len(series) > 30 {
			tails[product] = series[len(series)-30:]
		}
	}
	return tails
}

// applyDemandSnapshot stamps the frozen lag, rolling, EWM, trend, and
// same-day-of-week features derived from one product's history tail.
// tail30 must be non-empty.
func applyDemandSnapshot(v map[string]float64, tail30 []float64) {
	n := len(tail30)
	fromEnd := func(k int) (float64, bool) {
		if n >= k {
			return tail30[n-k], true
		}
		return 0, false
	}

	// A lag the tail cannot reach cascades to the next shorter lag; lag_1
	// is always defined for a non-empty tail.
	lagValue := 0.0
	for _, k := range lagWindows {
		if val, ok := fromEnd(k); ok {
			lagValue = val
		}
		v[fmt.Sprintf("lag_%d", k)] = lagValue
	}

	lag1, lag7 := v["lag_1"], v["lag_7"]
	lag14, lag30 := v["lag_14"], v["lag_30"]
	v["lag_diff_7_1"] = lag1 - lag7
	v["lag_diff_14_7"] = lag7 - lag14
	v["lag_diff_30_14"] = lag14 - lag30
	v["lag_pct_change_7"] = (lag1 - lag7) / (lag7 + 1)
	v["lag_pct_change_30"] = (lag7 - lag30) / (lag30 + 1)

	for _, window := range []int{3, 7, 14, 30} {
		applyRollingSnapshot(v, tail30, window)
	}

	v["cv_7"] = v["rolling_std_7"] / (v["rolling_mean_7"] + 1)
	v["cv_30"] = v["rolling_std_30"] / (v["rolling_mean_30"] + 1)

	v["ewm_3"] = v["rolling_mean_3"]
	v["ewm_7"] = v["rolling_mean_7"]
	v["ewm_14"] = v["rolling_mean_14"]
	v["ewm_30"] = v["rolling_mean_30"]
	v["ewm_std_7"] = v["rolling_std_7"]
	v["ewm_std_30"] = v["rolling_std_30"]

	v["wow_trend"] = lag7 - lag14
	v["wow_trend_pct"] = (lag7 - lag14) / (lag14 + 1)
	v["mom_trend"] = lag7 - lag30
	v["mom_trend_pct"] = (lag7 - lag30) / (lag30 + 1)
	v["acceleration"] = (lag1 - lag7) - (lag7 - lag14)

	v["same_dow_mean_4w"] = v["rolling_mean_7"]
}

// applyRollingSnapshot stamps one window's rolling stats from the tail. For
// tails shorter than the window, stats cover the whole tail and the quartiles
// widen to the min/max.
func applyRollingSnapshot(v map[string]float64, tail30 []float64, window int) {
	data := tail30
	short := len(tail30) < window
	if !short {
		data = tail30[len(tail30)-window:]
	}

	v[fmt.Sprintf("rolling_mean_%d", window)] = meanOf(data)
	v[fmt.Sprintf("rolling_std_%d", window)] = stdOf(data)
	v[fmt.Sprintf("rolling_min_%d", window)] = minOf(data)
	v[fmt.Sprintf("rolling_max_%d", window)] = maxOf(data)
	v[fmt.Sprintf("rolling_median_%d", window)] = percentileOf(data, 0.5)
	if short {
		v[fmt.Sprintf("rolling_q25_%d", window)] = minOf(data)
		v[fmt.Sprintf("rolling_q75_%d", window)] = maxOf(data)
	} else {
		v[fmt.Sprintf("rolling_q25_%d", window)] = percentileOf(data, 0.25)
		v[fmt.Sprintf("rolling_q75_%d", window)] = percentileOf(data, 0.75)
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func meanOf(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// stdOf is the population standard deviation.
func stdOf(vals []float64) float64 {
	m := meanOf(vals)
	sum2 := 0.0
	for _, v := range vals {
		d := v - m
		sum2 += d * d
	}
	return math.Sqrt(sum2 / float64(len(vals)))
}

func minOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func percentileOf(vals []float64, q float64) float64 {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
