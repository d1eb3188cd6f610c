package cleaning

import (
	"sort"
	"strings"

	"olistdw/pkg/records"
)

// countColumns default to 0 when missing.
var countColumns = []string{
	"product_name_lenght",
	"product_description_lenght",
	"product_photos_qty",
}

// dimensionColumns fall back to the column's median when missing or
// non-positive.
var dimensionColumns = []string{
	"product_weight_g",
	"product_length_cm",
	"product_height_cm",
	"product_width_cm",
}

// CleanProducts fills missing categories with "unknown", zero-fills the count
// columns, and repairs the physical dimension columns: each column's median
// is computed once over its positive values, then substituted for every
// missing or non-positive entry. The median is taken before any substitution
// so repaired rows never feed back into it.
func CleanProducts(recs []records.Record) []records.Record {
	for _, rec := range recs {
		if cat := strings.TrimSpace(toString(rec["product_category_name"])); cat == "" {
			rec["product_category_name"] = "unknown"
		} else {
			rec["product_category_name"] = cat
		}
		for _, col := range countColumns {
			coerceFloatDefault(rec, col, 0)
		}
	}

	for _, col := range dimensionColumns {
		med := columnMedian(recs, col)
		for _, rec := range recs {
			f, ok := toFloat(rec[col])
			if !ok || f <= 0 {
				rec[col] = med
			} else {
				rec[col] = f
			}
		}
	}
	return recs
}

// columnMedian returns the median of the column's positive values, or 0 when
// none exist. Even-length sets average the middle pair.
func columnMedian(recs []records.Record, col string) float64 {
	vals := make([]float64, 0, len(recs))
	for _, rec := range recs {
		if f, ok := toFloat(rec[col]); ok && f > 0 {
			vals = append(vals, f)
		}
	}
	if len(vals) == 0 {
		return 0
	}
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return vals[mid]
	}
	return (vals[mid-1] + vals[mid]) / 2
}
