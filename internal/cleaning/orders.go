package cleaning

import (
	"time"

	"olistdw/pkg/records"
)

// validOrderStatuses is the set of statuses that flow downstream; everything
// else (canceled, unavailable, created, ...) is dropped.
var validOrderStatuses = map[string]bool{
	"delivered": true,
	"shipped":   true,
	"invoiced":  true,
}

var orderDateColumns = []string{
	"order_purchase_timestamp",
	"order_approved_at",
	"order_delivered_carrier_date",
	"order_delivered_customer_date",
	"order_estimated_delivery_date",
}

// CleanOrders coerces the five date columns, filters to valid statuses, and
// drops rows whose dates contradict each other:
//   - delivered orders missing a customer delivery date
//   - purchase after customer delivery
//   - estimated delivery before purchase
func CleanOrders(recs []records.Record) []records.Record {
	out := make([]records.Record, 0, len(recs))
	for _, rec := range recs {
		for _, col := range orderDateColumns {
			coerceTime(rec, col)
		}

		status := toString(rec["order_status"])
		if !validOrderStatuses[status] {
			continue
		}

		purchase, hasPurchase := fieldTime(rec, "order_purchase_timestamp")
		delivered, hasDelivered := fieldTime(rec, "order_delivered_customer_date")
		estimated, hasEstimated := fieldTime(rec, "order_estimated_delivery_date")

		if status == "delivered" && !hasDelivered {
			continue
		}
		if hasPurchase && hasDelivered && purchase.After(delivered) {
			continue
		}
		if hasPurchase && hasEstimated && estimated.Before(purchase) {
			continue
		}

		out = append(out, rec)
	}
	return out
}

// fieldTime reads a previously coerced date field.
func fieldTime(rec records.Record, field string) (time.Time, bool) {
	ts, ok := rec[field].(time.Time)
	return ts, ok
}
