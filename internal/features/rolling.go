// internal/features/rolling.go
package features

import (
	"math"
	"sort"
)

// mean returns the arithmetic mean of vals, or NaN when empty.
func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// sampleStd returns the sample (n-1) standard deviation, NaN for fewer than
// two observations.
func sampleStd(vals []float64) float64 {
	n := len(vals)
	if n < 2 {
		return math.NaN()
	}
	m := mean(vals)
	sum2 := 0.0
	for _, v := range vals {
		d := v - m
		sum2 += d * d
	}
	variance := sum2 / float64(n-1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// populationStd returns the population (n) standard deviation. Used when
// projecting future rows from a history tail.
func populationStd(vals []float64) float64 {
	n := len(vals)
	if n == 0 {
		return math.NaN()
	}
	m := mean(vals)
	sum2 := 0.0
	for _, v := range vals {
		d := v - m
		sum2 += d * d
	}
	return math.Sqrt(sum2 / float64(n))
}

func minOf(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// quantile computes the q-th quantile (0..1) with linear interpolation
// between the two nearest order statistics.
func quantile(vals []float64, q float64) float64 {
	n := len(vals)
	if n == 0 {
		return math.NaN()
	}
	sorted := make([]float64, n)
	copy(sorted, vals)
	sort.Float64s(sorted)

	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func median(vals []float64) float64 {
	return quantile(vals, 0.5)
}

// tail returns the last n elements of vals, or all of them when shorter.
func tail(vals []float64, n int) []float64 {
	if len(vals) <= n {
		return vals
	}
	return vals[len(vals)-n:]
}

// rollingApply computes fn over a trailing window at every position of the
// series, with a minimum of one observation (early positions use however much
// history exists so far).
func rollingApply(series []float64, window int, fn func([]float64) float64) []float64 {
	out := make([]float64, len(series))
	for i := range series {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		out[i] = fn(series[start : i+1])
	}
	return out
}

// ewmMean computes a non-adjusted exponentially weighted mean over the
// series with the given span: alpha = 2/(span+1), m_t = (1-a)m_{t-1} + a*x_t.
func ewmMean(series []float64, span int) []float64 {
	out := make([]float64, len(series))
	if len(series) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	m := series[0]
	out[0] = m
	for i := 1; i < len(series); i++ {
		m = (1-alpha)*m + alpha*series[i]
		out[i] = m
	}
	return out
}

// ewmStd computes a recursive exponentially weighted standard deviation with
// the given span. The first observation has no spread and yields NaN, like an
// undefined rolling std.
func ewmStd(series []float64, span int) []float64 {
	out := make([]float64, len(series))
	if len(series) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	m := series[0]
	v := 0.0
	out[0] = math.NaN()
	for i := 1; i < len(series); i++ {
		d := series[i] - m
		v = (1 - alpha) * (v + alpha*d*d)
		m = (1-alpha)*m + alpha*series[i]
		out[i] = math.Sqrt(v)
	}
	return out
}

// lagged returns the series shifted forward by lag positions; the first lag
// positions are NaN.
func lagged(series []float64, lag int) []float64 {
	out := make([]float64, len(series))
	for i := range series {
		if i < lag {
			out[i] = math.NaN()
		} else {
			out[i] = series[i-lag]
		}
	}
	return out
}
