package cleaning

import (
	"context"
	"fmt"
	"log/slog"

	"olistdw/internal/ddl"
	"olistdw/internal/metrics"
	"olistdw/internal/schema"
	"olistdw/pkg/records"
)

// Store is the slice of the storage layer the cleaning stage uses.
type Store interface {
	QueryRecords(ctx context.Context, sql string, args ...any) ([]records.Record, error)
	ReplaceTable(ctx context.Context, def ddl.TableDef, recs []records.Record) (int64, error)
}

// task maps one raw table onto its staging target, with an optional rule
// function. Nil rules mean a straight copy.
type task struct {
	rawTable     string
	stagingTable string
	rules        func([]records.Record) []records.Record
}

// tasks lists the cleaning work in execution order: the plain copies first,
// then the tables with real rules.
var tasks = []task{
	{rawTable: "customers", stagingTable: "customers_cleaned"},
	{rawTable: "sellers", stagingTable: "sellers_cleaned"},
	{rawTable: "geolocation", stagingTable: "geolocation"},
	{rawTable: "payments", stagingTable: "payments_cleaned"},
	{rawTable: "product_category_name_translation", stagingTable: "product_category_name_translation"},
	{rawTable: "order_items", stagingTable: "order_items_cleaned", rules: CleanOrderItems},
	{rawTable: "orders", stagingTable: "orders_cleaned", rules: CleanOrders},
	{rawTable: "products", stagingTable: "products_cleaned", rules: CleanProducts},
	{rawTable: "reviews", stagingTable: "reviews_cleaned", rules: CleanReviews},
}

// Run rebuilds every staging table from raw. A failing table is logged,
// reported as 0 rows, and skipped; the remaining tables still run. The
// returned map counts loaded rows per staging table.
func Run(ctx context.Context, db Store, log *slog.Logger) (map[string]int64, error) {
	stats := make(map[string]int64, len(tasks))
	for _, t := range tasks {
		n, err := runTask(ctx, db, t)
		if err != nil {
			log.Error("table cleaning failed", "table", t.stagingTable, "error", err)
			metrics.RecordTableFailure("cleaning", t.stagingTable)
			stats[t.stagingTable] = 0
			continue
		}
		log.Info("staging table rebuilt", "table", t.stagingTable, "rows", n)
		metrics.RecordTableRows("cleaning", t.stagingTable, n)
		stats[t.stagingTable] = n
	}
	return stats, nil
}

func runTask(ctx context.Context, db Store, t task) (int64, error) {
	def, ok := schema.StagingTable(t.stagingTable)
	if !ok {
		return 0, fmt.Errorf("no staging definition for %s", t.stagingTable)
	}

	recs, err := db.QueryRecords(ctx, "SELECT * FROM "+schema.Raw+"."+t.rawTable)
	if err != nil {
		return 0, fmt.Errorf("read %s.%s: %w", schema.Raw, t.rawTable, err)
	}
	if t.rules != nil {
		recs = t.rules(recs)
	}

	n, err := db.ReplaceTable(ctx, def, recs)
	if err != nil {
		return 0, fmt.Errorf("rebuild %s: %w", def.FQN, err)
	}
	return n, nil
}
