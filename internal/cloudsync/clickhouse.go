package cloudsync

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"olistdw/internal/config"
)

// Loader replaces tables in the analytical warehouse from CSV files.
type Loader struct {
	conn     driver.Conn
	database string
}

// NewLoader opens a native-protocol connection and pings it.
func NewLoader(ctx context.Context, cfg config.ClickHouseConfig) (*Loader, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		DialTimeout: 30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to clickhouse: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}
	return &Loader{conn: conn, database: cfg.Database}, nil
}

// Close releases the connection.
func (l *Loader) Close() error { return l.conn.Close() }

// EnsureDatabase creates the target database if it does not exist yet.
func (l *Loader) EnsureDatabase(ctx context.Context) error {
	return l.conn.Exec(ctx, "CREATE DATABASE IF NOT EXISTS "+l.database)
}

// LoadCSV replaces a table from a CSV export: the old table is dropped, a
// new one is created with column types inferred from the data, and every
// row after the header is batch-inserted. Returns the loaded row count.
func (l *Loader) LoadCSV(ctx context.Context, table, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	all, err := r.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(all) == 0 {
		return 0, fmt.Errorf("%s: no header row", path)
	}
	header, rows := all[0], all[1:]
	types := inferColumnTypes(header, rows)

	fqn := l.database + "." + table
	if err := l.conn.Exec(ctx, "DROP TABLE IF EXISTS "+fqn); err != nil {
		return 0, fmt.Errorf("drop %s: %w", fqn, err)
	}

	cols := make([]string, len(header))
	for i, name := range header {
		cols[i] = fmt.Sprintf("`%s` %s", name, types[i])
	}
	create := fmt.Sprintf(
		"CREATE TABLE %s (%s) ENGINE = MergeTree ORDER BY tuple()",
		fqn, strings.Join(cols, ", "),
	)
	if err := l.conn.Exec(ctx, create); err != nil {
		return 0, fmt.Errorf("create %s: %w", fqn, err)
	}

	if len(rows) == 0 {
		return 0, nil
	}

	batch, err := l.conn.PrepareBatch(ctx, "INSERT INTO "+fqn)
	if err != nil {
		return 0, fmt.Errorf("prepare batch for %s: %w", fqn, err)
	}
	for _, row := range rows {
		vals := make([]any, len(row))
		for i, cell := range row {
			v, err := convertCell(cell, types[i])
			if err != nil {
				return 0, fmt.Errorf("%s row value %q: %w", fqn, cell, err)
			}
			vals[i] = v
		}
		if err := batch.Append(vals...); err != nil {
			return 0, fmt.Errorf("append to %s: %w", fqn, err)
		}
	}
	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("send batch to %s: %w", fqn, err)
	}
	return int64(len(rows)), nil
}

// Column types used for inferred schemas. Everything is Nullable because
// CSV renders SQL NULL as the empty string.
const (
	typeFloat    = "Nullable(Float64)"
	typeDateTime = "Nullable(DateTime)"
	typeString   = "Nullable(String)"
)

// inferColumnTypes picks a type per column by scanning the data: a column
// whose non-empty cells all parse as numbers is Float64, all timestamps is
// DateTime, anything else is String. Columns with no data default to String.
//
// Digit strings with a leading zero (zip prefixes like "01037") parse as
// floats but would not round-trip, so they force String.
func inferColumnTypes(header []string, rows [][]string) []string {
	types := make([]string, len(header))
	for col := range header {
		allFloat, allTime, seen := true, true, false
		for _, row := range rows {
			if col >= len(row) || row[col] == "" {
				continue
			}
			seen = true
			cell := row[col]
			if hasLeadingZero(cell) {
				allFloat = false
			} else if _, err := strconv.ParseFloat(cell, 64); err != nil {
				allFloat = false
			}
			if !parsesAsTime(cell) {
				allTime = false
			}
			if !allFloat && !allTime {
				break
			}
		}
		switch {
		case !seen:
			types[col] = typeString
		case allFloat:
			types[col] = typeFloat
		case allTime:
			types[col] = typeDateTime
		default:
			types[col] = typeString
		}
	}
	return types
}

// hasLeadingZero reports whether a cell starts with "0" followed by another
// digit. "0" and "0.5" are real numbers; "01037" is an identifier.
func hasLeadingZero(s string) bool {
	return len(s) >= 2 && s[0] == '0' && s[1] >= '0' && s[1] <= '9'
}

func parsesAsTime(s string) bool {
	for _, layout := range []string{csvTimeLayout, "2006-01-02"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// convertCell turns a CSV cell into the Go value the batch encoder expects
// for the inferred column type. Empty cells load as NULL.
func convertCell(cell, colType string) (any, error) {
	if cell == "" {
		return nil, nil
	}
	switch colType {
	case typeFloat:
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, err
		}
		return f, nil
	case typeDateTime:
		for _, layout := range []string{csvTimeLayout, "2006-01-02"} {
			if ts, err := time.Parse(layout, cell); err == nil {
				return ts, nil
			}
		}
		return nil, fmt.Errorf("unparseable timestamp")
	default:
		return cell, nil
	}
}
