// Package cloudsync replicates the finished warehouse tables out of
// Postgres: each table is exported to CSV, pushed to object storage, and
// loaded into the analytical warehouse.
package cloudsync

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/zeebo/xxh3"
)

// RowQuerier is the read-side slice of the storage layer the exporter uses.
type RowQuerier interface {
	QueryRows(ctx context.Context, sql string, args ...any) ([]string, [][]any, error)
}

const csvTimeLayout = "2006-01-02 15:04:05"

// ExportCSV writes a table to a CSV file with a header row. It returns the
// data row count and an xxh3 fingerprint of the file contents, which the
// sync log uses to spot unchanged exports across runs.
func ExportCSV(ctx context.Context, db RowQuerier, fqn, path string) (int64, uint64, error) {
	cols, rows, err := db.QueryRows(ctx, "SELECT * FROM "+fqn)
	if err != nil {
		return 0, 0, fmt.Errorf("read %s: %w", fqn, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(cols); err != nil {
		return 0, 0, err
	}
	line := make([]string, len(cols))
	for _, row := range rows {
		for i, v := range row {
			line[i] = formatCSVValue(v)
		}
		if err := w.Write(line); err != nil {
			return 0, 0, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, 0, err
	}
	if err := f.Close(); err != nil {
		return 0, 0, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, err
	}
	return int64(len(rows)), xxh3.Hash(data), nil
}

// formatCSVValue renders a database value for CSV. NULL becomes the empty
// string, timestamps use a layout both spreadsheet tools and the analytical
// warehouse parse, and floats keep their shortest exact form.
func formatCSVValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format(csvTimeLayout)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int16:
		return strconv.FormatInt(int64(t), 10)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
