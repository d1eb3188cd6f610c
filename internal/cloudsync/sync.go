package cloudsync

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"olistdw/internal/metrics"
	"olistdw/internal/schema"
)

// SyncTables are the warehouse tables replicated to the cloud, in sync
// order. The reporting aggregates stay local; downstream BI reads the facts
// and dimensions and derives its own rollups.
var SyncTables = []string{
	"fact_orders",
	"fact_order_items",
	"dim_sellers",
	"dim_customers",
	"dim_products",
}

// ObjectUploader is the object-storage side of the sync.
type ObjectUploader interface {
	UploadFile(ctx context.Context, path, key string) error
}

// TableLoader is the analytical-warehouse side of the sync.
type TableLoader interface {
	LoadCSV(ctx context.Context, table, path string) (int64, error)
}

// Run replicates each sync table: export to a local CSV, upload it under
// warehouse/<table>.csv, load it into the analytical warehouse, then delete
// the local file. A failing table logs, reports 0 rows, and the sync moves
// on; there is no retry, the next pipeline run re-exports everything anyway.
func Run(ctx context.Context, db RowQuerier, up ObjectUploader, loader TableLoader, workDir string, log *slog.Logger) (map[string]int64, error) {
	stats := make(map[string]int64, len(SyncTables))
	for _, table := range SyncTables {
		n, err := syncTable(ctx, db, up, loader, workDir, table, log)
		if err != nil {
			log.Error("table sync failed", "table", table, "error", err)
			metrics.RecordTableFailure("cloudsync", table)
			stats[table] = 0
			continue
		}
		log.Info("table synced", "table", table, "rows", n)
		metrics.RecordTableRows("cloudsync", table, n)
		stats[table] = n
	}
	return stats, nil
}

func syncTable(ctx context.Context, db RowQuerier, up ObjectUploader, loader TableLoader, workDir, table string, log *slog.Logger) (int64, error) {
	path := filepath.Join(workDir, table+".csv")
	defer os.Remove(path)

	rows, sum, err := ExportCSV(ctx, db, schema.Warehouse+"."+table, path)
	if err != nil {
		return 0, err
	}
	log.Debug("table exported", "table", table, "rows", rows, "fingerprint", sum)

	if err := up.UploadFile(ctx, path, "warehouse/"+table+".csv"); err != nil {
		return 0, err
	}
	if _, err := loader.LoadCSV(ctx, table, path); err != nil {
		return 0, err
	}
	return rows, nil
}
