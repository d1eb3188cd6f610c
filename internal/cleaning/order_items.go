package cleaning

import "olistdw/pkg/records"

// CleanOrderItems coerces the shipping limit to a timestamp and makes the
// money columns numeric, defaulting missing or garbled values to 0.
func CleanOrderItems(recs []records.Record) []records.Record {
	for _, rec := range recs {
		coerceTime(rec, "shipping_limit_date")
		coerceFloatDefault(rec, "price", 0)
		coerceFloatDefault(rec, "freight_value", 0)
	}
	return recs
}
