package warehouse

import (
	"context"
	"log/slog"

	"olistdw/internal/metrics"
	"olistdw/internal/schema"
)

const aggDailySalesSQL = `
WITH daily_data AS (
    SELECT
        fo.order_purchase_timestamp::date AS date,
        SUM(fo.total_amount) AS revenue,
        COUNT(DISTINCT fo.order_id) AS orders,
        COUNT(DISTINCT c.customer_unique_id) AS customers
    FROM warehouse.fact_orders fo
    JOIN warehouse.dim_customers c ON fo.customer_id = c.customer_id
    WHERE fo.order_status IN ('delivered', 'shipped', 'invoiced')
    GROUP BY 1
),
date_range AS (
    SELECT generate_series(MIN(date), MAX(date), '1 day'::interval)::date AS d
    FROM daily_data
)
SELECT
    dr.d AS date,
    COALESCE(dd.revenue, 0) AS revenue,
    COALESCE(dd.orders, 0) AS orders,
    COALESCE(dd.customers, 0) AS customers
FROM date_range dr
LEFT JOIN daily_data dd ON dr.d = dd.date
ORDER BY dr.d`

const aggProductPerformanceSQL = `
SELECT
    oi.product_id,
    SUM(oi.price) AS revenue,
    COUNT(*) AS quantity,
    COUNT(DISTINCT oi.order_id) AS order_count,
    RANK() OVER (ORDER BY SUM(oi.price) DESC) AS rank
FROM staging.order_items_cleaned oi
JOIN warehouse.fact_orders fo ON oi.order_id = fo.order_id
WHERE fo.order_status IN ('delivered', 'shipped', 'invoiced')
GROUP BY oi.product_id`

const aggCategoryPerformanceSQL = `
SELECT
    p.category_english AS category,
    SUM(oi.price) AS revenue,
    COUNT(DISTINCT oi.order_id) AS orders,
    ROUND(AVG(oi.price)::numeric, 2) AS avg_price
FROM staging.order_items_cleaned oi
JOIN warehouse.dim_products p ON oi.product_id = p.product_id
JOIN warehouse.fact_orders fo ON oi.order_id = fo.order_id
WHERE fo.order_status IN ('delivered', 'shipped', 'invoiced')
GROUP BY p.category_english
ORDER BY revenue DESC`

const aggStatePerformanceSQL = `
SELECT
    c.customer_state AS state,
    SUM(fo.total_amount) AS revenue,
    COUNT(DISTINCT fo.order_id) AS orders,
    ROUND(AVG(fo.actual_delivery_days)::numeric, 2) AS avg_delivery_days
FROM warehouse.fact_orders fo
JOIN warehouse.dim_customers c ON fo.customer_id = c.customer_id
WHERE fo.order_status IN ('delivered', 'shipped', 'invoiced')
GROUP BY c.customer_state
ORDER BY revenue DESC`

// sellerEvaluationSQL flattens item, order, and review data into one wide
// table per order item, the input for offline seller scoring.
const sellerEvaluationSQL = `
SELECT
    oi.seller_id,
    oi.order_id,
    oi.product_id,
    fo.order_status,
    fo.order_purchase_timestamp,
    fo.order_approved_at,
    fo.order_delivered_carrier_date,
    fo.order_delivered_customer_date,
    fo.order_estimated_delivery_date,
    oi.shipping_limit_date,
    r.review_score,
    r.review_comment_message,
    oi.price,
    oi.freight_value
FROM warehouse.fact_order_items oi
JOIN warehouse.fact_orders fo ON oi.order_id = fo.order_id
LEFT JOIN staging.reviews_cleaned r ON fo.order_id = r.order_id
WHERE fo.order_status IS NOT NULL`

const sellerSegmentationSQL = `
WITH order_metrics AS (
    SELECT
        oi.seller_id,
        oi.order_id,
        SUM(oi.price) AS order_value,
        SUM(oi.freight_value) AS order_freight,
        MAX(la.distance_km) AS distance_km,
        MAX(c.customer_state) AS customer_state
    FROM warehouse.fact_order_items oi
    JOIN warehouse.fact_orders fo ON oi.order_id = fo.order_id
    JOIN warehouse.dim_customers c ON fo.customer_id = c.customer_id
    LEFT JOIN warehouse.logistics_analytics la ON oi.order_id = la.order_id
    WHERE fo.order_status = 'delivered'
    GROUP BY oi.seller_id, oi.order_id
),
item_metrics AS (
    SELECT
        oi.seller_id,
        AVG(p.product_weight_g) AS avg_item_weight_g,
        COUNT(DISTINCT p.product_category_name) AS distinct_categories
    FROM warehouse.fact_order_items oi
    JOIN warehouse.dim_products p ON oi.product_id = p.product_id
    GROUP BY oi.seller_id
)
SELECT
    om.seller_id,
    COALESCE(MAX(im.avg_item_weight_g), 0) AS avg_weight_g,
    COALESCE(MAX(im.distinct_categories), 1) AS category_diversity,
    COUNT(DISTINCT om.customer_state) AS market_reach,
    AVG(om.distance_km) AS avg_distance_km,
    AVG(om.order_value) AS avg_order_value,
    AVG(om.order_freight / NULLIF(om.order_value, 0)) AS avg_freight_ratio
FROM order_metrics om
LEFT JOIN item_metrics im ON om.seller_id = im.seller_id
GROUP BY om.seller_id`

const nlpBadReviewSQL = `
SELECT review_score, review_comment_message
FROM staging.reviews_cleaned
WHERE review_score IN (1, 2) AND review_comment_message IS NOT NULL`

const nlpGoodReviewSQL = `
SELECT review_score, review_comment_message
FROM staging.reviews_cleaned
WHERE review_score IN (4, 5) AND review_comment_message IS NOT NULL`

// aggregateTables lists the reporting builds in execution order. The
// logistics distance table is built in Go (see logistics.go) between
// seller_evaluation and seller_segmentation, because segmentation joins it.
var aggregateTables = []struct {
	name string
	sql  string
}{
	{"agg_daily_sales", aggDailySalesSQL},
	{"agg_product_performance", aggProductPerformanceSQL},
	{"agg_category_performance", aggCategoryPerformanceSQL},
	{"agg_state_performance", aggStatePerformanceSQL},
	{"seller_evaluation", sellerEvaluationSQL},
	{"nlp_bad_review", nlpBadReviewSQL},
	{"nlp_good_review", nlpGoodReviewSQL},
}

// AggStore adds the record-level access the logistics build needs on top of
// the plain table rebuilds.
type AggStore interface {
	Store
	LogisticsStore
}

// RunAggregation rebuilds the reporting tables. Like the other stages, a
// failing table reports 0 rows and the rest continue.
func RunAggregation(ctx context.Context, db AggStore, log *slog.Logger) (map[string]int64, error) {
	if err := db.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+schema.Warehouse); err != nil {
		return nil, err
	}

	stats := make(map[string]int64, len(aggregateTables)+2)
	build := func(name string, fn func() (int64, error)) {
		n, err := fn()
		if err != nil {
			log.Error("aggregate build failed", "table", name, "error", err)
			metrics.RecordTableFailure("aggregate", name)
			stats[name] = 0
			return
		}
		log.Info("aggregate built", "table", name, "rows", n)
		metrics.RecordTableRows("aggregate", name, n)
		stats[name] = n
	}

	for _, t := range aggregateTables {
		build(t.name, func() (int64, error) {
			return db.CreateTableAs(ctx, schema.Warehouse+"."+t.name, t.sql)
		})
		// seller_segmentation joins the logistics distances, so they are
		// rebuilt right after the evaluation table it also depends on.
		if t.name == "seller_evaluation" {
			build("logistics_analytics", func() (int64, error) {
				return BuildLogistics(ctx, db)
			})
			build("seller_segmentation", func() (int64, error) {
				return db.CreateTableAs(ctx, schema.Warehouse+".seller_segmentation", sellerSegmentationSQL)
			})
		}
	}
	return stats, nil
}
