package warehouse

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"olistdw/internal/ddl"
	"olistdw/pkg/records"
)

type fakeWarehouseStore struct {
	execs    []string
	created  []string // table FQNs in build order
	rowCount int64
	failOn   string // table name substring that fails CreateTableAs

	queryResults map[string][]records.Record // keyed by a substring of the SQL
	replaced     map[string]int
}

func (f *fakeWarehouseStore) Exec(ctx context.Context, sql string, args ...any) error {
	f.execs = append(f.execs, sql)
	return nil
}

func (f *fakeWarehouseStore) CreateTableAs(ctx context.Context, fqn, selectSQL string) (int64, error) {
	if f.failOn != "" && strings.Contains(fqn, f.failOn) {
		return 0, errors.New("syntax error")
	}
	f.created = append(f.created, fqn)
	return f.rowCount, nil
}

func (f *fakeWarehouseStore) QueryRecords(ctx context.Context, sql string, args ...any) ([]records.Record, error) {
	for key, recs := range f.queryResults {
		if strings.Contains(sql, key) {
			return recs, nil
		}
	}
	return nil, nil
}

func (f *fakeWarehouseStore) ReplaceTable(ctx context.Context, def ddl.TableDef, recs []records.Record) (int64, error) {
	if f.replaced == nil {
		f.replaced = map[string]int{}
	}
	f.replaced[def.FQN] = len(recs)
	return int64(len(recs)), nil
}

func TestRunTransformBuildsDimensionsThenFacts(t *testing.T) {
	db := &fakeWarehouseStore{rowCount: 5}
	stats, err := RunTransform(context.Background(), db, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("RunTransform: %v", err)
	}

	if len(db.execs) == 0 || db.execs[0] != "CREATE SCHEMA IF NOT EXISTS warehouse" {
		t.Fatalf("first statement should create the schema, got %v", db.execs)
	}
	want := []string{
		"warehouse.dim_date",
		"warehouse.dim_customers",
		"warehouse.dim_products",
		"warehouse.dim_sellers",
		"warehouse.fact_order_items",
		"warehouse.fact_orders",
	}
	if len(db.created) != len(want) {
		t.Fatalf("tables built: got %v", db.created)
	}
	for i, fqn := range want {
		if db.created[i] != fqn {
			t.Fatalf("build order[%d]: got %s want %s", i, db.created[i], fqn)
		}
	}
	if stats["fact_orders"] != 5 {
		t.Fatalf("fact_orders rows: got %d", stats["fact_orders"])
	}
}

func TestRunTransformIsolatesFailures(t *testing.T) {
	db := &fakeWarehouseStore{rowCount: 3, failOn: "dim_products"}
	stats, err := RunTransform(context.Background(), db, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("RunTransform: %v", err)
	}
	if stats["dim_products"] != 0 {
		t.Fatalf("failed table should report 0 rows, got %d", stats["dim_products"])
	}
	if stats["fact_orders"] != 3 {
		t.Fatalf("later builds should continue, got %d", stats["fact_orders"])
	}
}

func TestFactOrdersQueryShape(t *testing.T) {
	// Orders without items or reviews still appear, zero-filled.
	for _, want := range []string{
		"LEFT JOIN order_totals",
		"LEFT JOIN order_reviews",
		"COALESCE(ot.total_amount, 0)",
		"COALESCE(ot.item_count, 0)",
		"COALESCE(r.review_count, 0)",
		"WHERE o.order_status IN ('delivered', 'shipped', 'invoiced')",
	} {
		if !strings.Contains(factOrdersSQL, want) {
			t.Errorf("fact_orders query missing %q", want)
		}
	}
	// avg_review_score stays NULL when there are no reviews.
	if strings.Contains(factOrdersSQL, "COALESCE(r.avg_review_score") {
		t.Error("avg_review_score must not be zero-filled")
	}
}

func TestDimDateQueryShape(t *testing.T) {
	for _, want := range []string{
		"generate_series(min_date, max_date, '1 day'::interval)",
		"EXTRACT(ISODOW FROM datum) IN (6, 7)",
		"COALESCE(order_delivered_customer_date::date, order_estimated_delivery_date::date)",
	} {
		if !strings.Contains(dimDateSQL, want) {
			t.Errorf("dim_date query missing %q", want)
		}
	}
}

func TestDimProductsFallsBackToPortugueseName(t *testing.T) {
	if !strings.Contains(dimProductsSQL, "COALESCE(t.product_category_name_english, p.product_category_name)") {
		t.Error("category_english must fall back to the untranslated name")
	}
	if !strings.Contains(dimProductsSQL, "LEFT JOIN staging.product_category_name_translation") {
		t.Error("translation join must be a LEFT JOIN")
	}
}
