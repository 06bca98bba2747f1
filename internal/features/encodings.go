// internal/features/encodings.go
package features

import "math"

// Encodings holds the historical target statistics per product, category,
// and product-within-category. They are fitted once over the full history
// and reused when projecting future rows, so unseen horizon dates keep the
// same encoded values as the tail of the training data.
type Encodings struct {
	ProductMean   map[string]float64
	ProductStd    map[string]float64
	ProductMedian map[string]float64
	ProductMax    map[string]float64
	CategoryMean  map[string]float64
	CategoryStd   map[string]float64
	ProdCatMean   map[productCategory]float64
}

type productCategory struct {
	Product  string
	Category string
}

// ComputeEncodings fits the target-encoding statistics over all rows.
func ComputeEncodings(rows []Row) Encodings {
	byProduct := make(map[string][]float64)
	byCategory := make(map[string][]float64)
	byProdCat := make(map[productCategory][]float64)
	for _, r := range rows {
		byProduct[r.ProductName] = append(byProduct[r.ProductName], r.QuantitySold)
		byCategory[r.Category] = append(byCategory[r.Category], r.QuantitySold)
		key := productCategory{r.ProductName, r.Category}
		byProdCat[key] = append(byProdCat[key], r.QuantitySold)
	}

	enc := Encodings{
		ProductMean:   make(map[string]float64, len(byProduct)),
		ProductStd:    make(map[string]float64, len(byProduct)),
		ProductMedian: make(map[string]float64, len(byProduct)),
		ProductMax:    make(map[string]float64, len(byProduct)),
		CategoryMean:  make(map[string]float64, len(byCategory)),
		CategoryStd:   make(map[string]float64, len(byCategory)),
		ProdCatMean:   make(map[productCategory]float64, len(byProdCat)),
	}
	for product, series := range byProduct {
		enc.ProductMean[product] = mean(series)
		std := sampleStd(series)
		if math.IsNaN(std) {
			std = 0
		}
		enc.ProductStd[product] = std
		enc.ProductMedian[product] = median(series)
		enc.ProductMax[product] = maxOf(series)
	}
	for category, series := range byCategory {
		enc.CategoryMean[category] = mean(series)
		enc.CategoryStd[category] = sampleStd(series)
	}
	for key, series := range byProdCat {
		enc.ProdCatMean[key] = mean(series)
	}
	return enc
}

// Apply stamps the encoding columns onto a row. Products or categories never
// seen during fitting get NaN, which the model matrix zero-fills.
func (e Encodings) Apply(r *Row) {
	v := r.Values
	v["product_encoded"] = lookup(e.ProductMean, r.ProductName)
	v["product_std"] = lookup(e.ProductStd, r.ProductName)
	v["product_median"] = lookup(e.ProductMedian, r.ProductName)
	v["product_max"] = lookup(e.ProductMax, r.ProductName)
	v["category_encoded"] = lookup(e.CategoryMean, r.Category)
	v["category_std"] = lookup(e.CategoryStd, r.Category)

	if m, ok := e.ProdCatMean[productCategory{r.ProductName, r.Category}]; ok {
		v["product_category_encoded"] = m
	} else {
		v["product_category_encoded"] = v["product_encoded"]
	}
}

func lookup(m map[string]float64, key string) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return math.NaN()
}
