package warehouse

import (
	"context"
	"math"

	"olistdw/internal/ddl"
	"olistdw/internal/schema"
	"olistdw/pkg/records"
)

// LogisticsStore is what BuildLogistics needs from the storage layer.
type LogisticsStore interface {
	QueryRecords(ctx context.Context, sql string, args ...any) ([]records.Record, error)
	ReplaceTable(ctx context.Context, def ddl.TableDef, recs []records.Record) (int64, error)
}

// logisticsDef is the shipped-distance table the segmentation build joins.
var logisticsDef = ddl.TableDef{
	FQN: schema.Warehouse + ".logistics_analytics",
	Columns: []ddl.ColumnDef{
		{Name: "order_id", SQLType: "VARCHAR(100)"},
		{Name: "seller_zip_code_prefix", SQLType: "VARCHAR(10)"},
		{Name: "customer_zip_code_prefix", SQLType: "VARCHAR(10)"},
		{Name: "distance_km", SQLType: "DOUBLE PRECISION"},
		{Name: "delivery_days", SQLType: "DOUBLE PRECISION"},
	},
}

// zipCentroidsSQL averages the geolocation points per zip prefix; the raw
// data has many points per prefix and some junk outliers, the mean is good
// enough for a shipping-distance estimate.
const zipCentroidsSQL = `
SELECT
    geolocation_zip_code_prefix AS zip,
    AVG(geolocation_lat) AS lat,
    AVG(geolocation_lng) AS lng
FROM staging.geolocation
GROUP BY geolocation_zip_code_prefix`

// deliveredOrdersSQL yields one row per delivered order with the customer
// zip and a single seller zip. Multi-seller orders collapse to the smallest
// seller zip so the output stays one row per order.
const deliveredOrdersSQL = `
SELECT
    fo.order_id,
    MIN(s.seller_zip_code_prefix) AS seller_zip,
    MAX(c.customer_zip_code_prefix) AS customer_zip,
    MAX(fo.actual_delivery_days) AS delivery_days
FROM warehouse.fact_orders fo
JOIN warehouse.dim_customers c ON fo.customer_id = c.customer_id
JOIN warehouse.fact_order_items oi ON fo.order_id = oi.order_id
JOIN warehouse.dim_sellers s ON oi.seller_id = s.seller_id
WHERE fo.order_status = 'delivered'
GROUP BY fo.order_id`

// BuildLogistics rebuilds warehouse.logistics_analytics: one row per
// delivered order with the great-circle distance between the seller's and
// the customer's zip centroid. Orders whose zips have no geolocation rows
// are skipped rather than written with a bogus distance.
func BuildLogistics(ctx context.Context, db LogisticsStore) (int64, error) {
	centroids, err := db.QueryRecords(ctx, zipCentroidsSQL)
	if err != nil {
		return 0, err
	}
	type point struct{ lat, lng float64 }
	byZip := make(map[string]point, len(centroids))
	for _, c := range centroids {
		zip, _ := c["zip"].(string)
		lat, okLat := asFloat(c["lat"])
		lng, okLng := asFloat(c["lng"])
		if zip == "" || !okLat || !okLng {
			continue
		}
		byZip[zip] = point{lat, lng}
	}

	orders, err := db.QueryRecords(ctx, deliveredOrdersSQL)
	if err != nil {
		return 0, err
	}

	rows := make([]records.Record, 0, len(orders))
	for _, o := range orders {
		sellerZip, _ := o["seller_zip"].(string)
		customerZip, _ := o["customer_zip"].(string)
		from, okFrom := byZip[sellerZip]
		to, okTo := byZip[customerZip]
		if !okFrom || !okTo {
			continue
		}
		rec := records.Record{
			"order_id":                 o["order_id"],
			"seller_zip_code_prefix":   sellerZip,
			"customer_zip_code_prefix": customerZip,
			"distance_km":              Haversine(from.lat, from.lng, to.lat, to.lng),
		}
		if d, ok := asFloat(o["delivery_days"]); ok {
			rec["delivery_days"] = d
		} else {
			rec["delivery_days"] = nil
		}
		rows = append(rows, rec)
	}

	return db.ReplaceTable(ctx, logisticsDef, rows)
}

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between two
// latitude/longitude points.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	const rad = math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// asFloat widens the numeric types pgx hands back for aggregate columns.
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	default:
		return 0, false
	}
}
