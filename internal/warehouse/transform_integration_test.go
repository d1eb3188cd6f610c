package warehouse

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"olistdw/internal/schema"
	"olistdw/internal/storage/postgres"
	"olistdw/pkg/records"
)

// openTestRepo connects to the database named by TEST_PG_DSN and rebuilds
// every staging table empty, ready for fixtures.
func openTestRepo(t *testing.T, ctx context.Context) *postgres.Repository {
	t.Helper()
	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("skipping integration test: set TEST_PG_DSN to run")
	}
	repo, closeFn, err := postgres.Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(closeFn)

	if err := repo.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+schema.Staging); err != nil {
		t.Fatalf("create staging schema: %v", err)
	}
	for _, def := range schema.StagingTables() {
		if _, err := repo.ReplaceTable(ctx, def, nil); err != nil {
			t.Fatalf("reset %s: %v", def.FQN, err)
		}
	}
	return repo
}

func ts(value string) time.Time {
	parsed, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

// TestFactOrdersDerivedColumns pins the delivery arithmetic against a real
// database: an order purchased 2021-01-01, delivered 2021-01-10, estimated
// 2021-01-08 is two days late (on_time 0), took nine days, and totals the
// sum of its items' price and freight.
func TestFactOrdersDerivedColumns(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t, ctx)

	orders, _ := schema.StagingTable("orders_cleaned")
	if _, err := repo.ReplaceTable(ctx, orders, []records.Record{
		{
			"order_id":                      "o1",
			"customer_id":                   "c1",
			"order_status":                  "delivered",
			"order_purchase_timestamp":      ts("2021-01-01 00:00:00"),
			"order_delivered_customer_date": ts("2021-01-10 00:00:00"),
			"order_estimated_delivery_date": ts("2021-01-08 00:00:00"),
		},
		// Delivered order with no items and no reviews: totals zero-fill.
		{
			"order_id":                      "o2",
			"customer_id":                   "c2",
			"order_status":                  "delivered",
			"order_purchase_timestamp":      ts("2021-02-01 00:00:00"),
			"order_delivered_customer_date": ts("2021-02-03 00:00:00"),
			"order_estimated_delivery_date": ts("2021-02-05 00:00:00"),
		},
	}); err != nil {
		t.Fatalf("load orders: %v", err)
	}

	items, _ := schema.StagingTable("order_items_cleaned")
	if _, err := repo.ReplaceTable(ctx, items, []records.Record{
		{"order_id": "o1", "order_item_id": 1, "product_id": "p1", "seller_id": "s1", "price": 100.0, "freight_value": 10.0},
		{"order_id": "o1", "order_item_id": 2, "product_id": "p2", "seller_id": "s1", "price": 50.0, "freight_value": 5.0},
	}); err != nil {
		t.Fatalf("load order items: %v", err)
	}

	log := slog.New(slog.DiscardHandler)
	stats, err := RunTransform(ctx, repo, log)
	if err != nil {
		t.Fatalf("RunTransform: %v", err)
	}
	if stats["fact_orders"] != 2 {
		t.Fatalf("fact_orders rows: got %d want 2", stats["fact_orders"])
	}

	recs, err := repo.QueryRecords(ctx, `
		SELECT on_time_delivery, delivery_delay_days, actual_delivery_days,
		       total_amount, item_count, avg_review_score
		FROM warehouse.fact_orders
		ORDER BY order_id`)
	if err != nil {
		t.Fatalf("read fact_orders: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("fact_orders rows: got %d", len(recs))
	}

	o1 := recs[0]
	if got := o1["delivery_delay_days"]; got != 2.0 {
		t.Errorf("o1 delivery_delay_days: got %v want 2", got)
	}
	if got := o1["on_time_delivery"]; got != int32(0) {
		t.Errorf("o1 on_time_delivery: got %v want 0", got)
	}
	if got := o1["actual_delivery_days"]; got != 9.0 {
		t.Errorf("o1 actual_delivery_days: got %v want 9", got)
	}
	if got := o1["total_amount"]; got != 165.0 {
		t.Errorf("o1 total_amount: got %v want 165", got)
	}
	if got := o1["item_count"]; got != int32(2) {
		t.Errorf("o1 item_count: got %v want 2", got)
	}

	o2 := recs[1]
	if got := o2["total_amount"]; got != 0.0 {
		t.Errorf("o2 total_amount: got %v want 0", got)
	}
	if got := o2["item_count"]; got != int32(0) {
		t.Errorf("o2 item_count: got %v want 0", got)
	}
	if got := o2["on_time_delivery"]; got != int32(1) {
		t.Errorf("o2 on_time_delivery: got %v want 1", got)
	}
	if got := o2["avg_review_score"]; got != nil {
		t.Errorf("o2 avg_review_score: got %v want NULL", got)
	}
}

// TestDimDateIdempotent rebuilds the date dimension twice over unchanged
// staging orders and expects identical output.
func TestDimDateIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t, ctx)

	orders, _ := schema.StagingTable("orders_cleaned")
	if _, err := repo.ReplaceTable(ctx, orders, []records.Record{
		{
			"order_id":                      "o1",
			"customer_id":                   "c1",
			"order_status":                  "delivered",
			"order_purchase_timestamp":      ts("2021-01-01 00:00:00"),
			"order_delivered_customer_date": ts("2021-01-10 00:00:00"),
			"order_estimated_delivery_date": ts("2021-01-08 00:00:00"),
		},
	}); err != nil {
		t.Fatalf("load orders: %v", err)
	}

	if err := repo.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+schema.Warehouse); err != nil {
		t.Fatalf("create warehouse schema: %v", err)
	}

	var counts [2]int64
	for i := range counts {
		n, err := repo.CreateTableAs(ctx, schema.Warehouse+".dim_date", dimDateSQL)
		if err != nil {
			t.Fatalf("build dim_date (pass %d): %v", i+1, err)
		}
		counts[i] = n
	}
	// 2021-01-01 through 2021-01-10 inclusive.
	if counts[0] != 10 || counts[1] != 10 {
		t.Fatalf("dim_date rows: got %v want 10 on both passes", counts)
	}
}
