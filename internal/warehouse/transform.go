// Package warehouse builds the dimensional model and the reporting
// aggregates on top of staging. Every table is derived: builds drop and
// recreate, so rerunning a stage converges to the same state.
package warehouse

import (
	"context"
	"log/slog"

	"olistdw/internal/metrics"
	"olistdw/internal/schema"
)

// Store is the slice of the storage layer the warehouse stages use.
type Store interface {
	Exec(ctx context.Context, sql string, args ...any) error
	CreateTableAs(ctx context.Context, fqn, selectSQL string) (int64, error)
}

const dimDateSQL = `
WITH date_range AS (
    SELECT
        MIN(order_purchase_timestamp::date) AS min_date,
        MAX(COALESCE(order_delivered_customer_date::date, order_estimated_delivery_date::date)) AS max_date
    FROM staging.orders_cleaned
)
SELECT
    datum::date AS date,
    EXTRACT(YEAR FROM datum)::INTEGER AS year,
    EXTRACT(QUARTER FROM datum)::INTEGER AS quarter,
    EXTRACT(MONTH FROM datum)::INTEGER AS month,
    EXTRACT(WEEK FROM datum)::INTEGER AS week,
    EXTRACT(DAY FROM datum)::INTEGER AS day,
    EXTRACT(ISODOW FROM datum)::INTEGER AS day_of_week,
    TO_CHAR(datum, 'Day')::VARCHAR(20) AS day_name,
    TO_CHAR(datum, 'Month')::VARCHAR(20) AS month_name,
    CASE
        WHEN EXTRACT(ISODOW FROM datum) IN (6, 7) THEN 1
        ELSE 0
    END::INTEGER AS is_weekend
FROM date_range,
     generate_series(min_date, max_date, '1 day'::interval) AS datum`

const dimCustomersSQL = `
SELECT
    customer_id::VARCHAR(100),
    customer_unique_id::VARCHAR(100),
    customer_zip_code_prefix::VARCHAR(10),
    customer_city::TEXT,
    customer_state::VARCHAR(10)
FROM staging.customers_cleaned`

const dimProductsSQL = `
SELECT
    p.product_id::VARCHAR(100),
    p.product_category_name::TEXT,
    COALESCE(t.product_category_name_english, p.product_category_name)::TEXT AS category_english,
    p.product_name_lenght::DOUBLE PRECISION,
    p.product_description_lenght::DOUBLE PRECISION,
    p.product_photos_qty::DOUBLE PRECISION,
    p.product_weight_g::DOUBLE PRECISION,
    p.product_length_cm::DOUBLE PRECISION,
    p.product_height_cm::DOUBLE PRECISION,
    p.product_width_cm::DOUBLE PRECISION,
    (p.product_length_cm * p.product_height_cm * p.product_width_cm)::DOUBLE PRECISION AS product_volume_cm3
FROM staging.products_cleaned p
LEFT JOIN staging.product_category_name_translation t
    ON p.product_category_name = t.product_category_name`

const dimSellersSQL = `
SELECT
    seller_id::VARCHAR(100),
    seller_zip_code_prefix::VARCHAR(10),
    seller_city::TEXT,
    seller_state::VARCHAR(10)
FROM staging.sellers_cleaned`

const factOrderItemsSQL = `
SELECT
    oi.order_id::VARCHAR(100),
    oi.order_item_id::INTEGER,
    oi.product_id::VARCHAR(100),
    oi.seller_id::VARCHAR(100),
    oi.shipping_limit_date::TIMESTAMP,
    oi.price::DOUBLE PRECISION,
    oi.freight_value::DOUBLE PRECISION
FROM staging.order_items_cleaned oi`

const factOrdersSQL = `
WITH order_totals AS (
    SELECT
        order_id,
        SUM(price) AS total_price,
        SUM(freight_value) AS total_freight,
        SUM(price + freight_value) AS total_amount,
        COUNT(*) AS item_count
    FROM staging.order_items_cleaned
    GROUP BY order_id
),
order_reviews AS (
    SELECT
        order_id,
        AVG(review_score) AS avg_review_score,
        COUNT(*) AS review_count
    FROM staging.reviews_cleaned
    GROUP BY order_id
)
SELECT
    o.order_id::VARCHAR(100),
    o.customer_id::VARCHAR(100),
    o.order_status::VARCHAR(50),
    o.order_purchase_timestamp::TIMESTAMP,
    o.order_approved_at::TIMESTAMP,
    o.order_delivered_carrier_date::TIMESTAMP,
    o.order_delivered_customer_date::TIMESTAMP,
    o.order_estimated_delivery_date::TIMESTAMP,
    CASE
        WHEN o.order_delivered_customer_date IS NOT NULL
        THEN EXTRACT(DAY FROM (o.order_delivered_customer_date - o.order_estimated_delivery_date))
        ELSE NULL
    END::DOUBLE PRECISION AS delivery_delay_days,
    CASE
        WHEN o.order_delivered_customer_date IS NOT NULL
        THEN CASE WHEN o.order_delivered_customer_date <= o.order_estimated_delivery_date
             THEN 1 ELSE 0 END
        ELSE NULL
    END::INTEGER AS on_time_delivery,
    CASE
        WHEN o.order_delivered_customer_date IS NOT NULL
        THEN EXTRACT(DAY FROM (o.order_delivered_customer_date - o.order_purchase_timestamp))
        ELSE NULL
    END::DOUBLE PRECISION AS actual_delivery_days,
    COALESCE(ot.total_price, 0)::DOUBLE PRECISION AS total_price,
    COALESCE(ot.total_freight, 0)::DOUBLE PRECISION AS total_freight,
    COALESCE(ot.total_amount, 0)::DOUBLE PRECISION AS total_amount,
    COALESCE(ot.item_count, 0)::INTEGER AS item_count,
    r.avg_review_score::DOUBLE PRECISION,
    COALESCE(r.review_count, 0)::INTEGER AS review_count
FROM staging.orders_cleaned o
LEFT JOIN order_totals ot ON o.order_id = ot.order_id
LEFT JOIN order_reviews r ON o.order_id = r.order_id
WHERE o.order_status IN ('delivered', 'shipped', 'invoiced')`

// transformTables pairs each warehouse table with its defining query.
// Dimensions build before facts; fact_orders reads nothing from the other
// warehouse tables, so order within each group is cosmetic.
var transformTables = []struct {
	name string
	sql  string
}{
	{"dim_date", dimDateSQL},
	{"dim_customers", dimCustomersSQL},
	{"dim_products", dimProductsSQL},
	{"dim_sellers", dimSellersSQL},
	{"fact_order_items", factOrderItemsSQL},
	{"fact_orders", factOrdersSQL},
}

// RunTransform rebuilds the dimension and fact tables from staging. A
// failing table is logged and reported as 0 rows; the rest still build.
func RunTransform(ctx context.Context, db Store, log *slog.Logger) (map[string]int64, error) {
	if err := db.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+schema.Warehouse); err != nil {
		return nil, err
	}

	stats := make(map[string]int64, len(transformTables))
	for _, t := range transformTables {
		n, err := db.CreateTableAs(ctx, schema.Warehouse+"."+t.name, t.sql)
		if err != nil {
			log.Error("warehouse table build failed", "table", t.name, "error", err)
			metrics.RecordTableFailure("transform", t.name)
			stats[t.name] = 0
			continue
		}
		log.Info("warehouse table built", "table", t.name, "rows", n)
		metrics.RecordTableRows("transform", t.name, n)
		stats[t.name] = n
	}
	return stats, nil
}
