package schema

import (
	"context"
	"fmt"
	"log/slog"

	"olistdw/internal/ddl"
)

// Execer is the slice of the storage layer the bootstrap needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) error
}

// Querier resolves single-value lookups, used by Verify.
type Querier interface {
	QueryInt(ctx context.Context, sql string, args ...any) (int64, error)
}

// Bootstrap creates the three schemas and all raw tables. Every statement is
// idempotent, so re-running against a populated database is safe and leaves
// existing data untouched.
func Bootstrap(ctx context.Context, db Execer, log *slog.Logger) error {
	for _, s := range Schemas {
		if err := db.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+s); err != nil {
			return fmt.Errorf("create schema %s: %w", s, err)
		}
		log.Debug("schema ready", "schema", s)
	}

	for _, t := range RawTables() {
		sql, err := ddl.BuildCreateTableSQL(t, true)
		if err != nil {
			return fmt.Errorf("render %s: %w", t.FQN, err)
		}
		if err := db.Exec(ctx, sql); err != nil {
			return fmt.Errorf("create table %s: %w", t.FQN, err)
		}
		log.Info("table ready", "table", t.FQN)
	}
	return nil
}

// VerifyReport summarizes what Bootstrap left behind.
type VerifyReport struct {
	Schemas   int64
	RawTables int64
}

// Verify counts the pipeline schemas and raw tables from the catalog. It does
// not fail on a short count; callers decide whether a partial bootstrap is an
// error.
func Verify(ctx context.Context, db Querier) (VerifyReport, error) {
	var rep VerifyReport

	n, err := db.QueryInt(ctx, `
		SELECT COUNT(*) FROM information_schema.schemata
		WHERE schema_name IN ($1, $2, $3)`, Raw, Staging, Warehouse)
	if err != nil {
		return rep, fmt.Errorf("count schemas: %w", err)
	}
	rep.Schemas = n

	n, err = db.QueryInt(ctx, `
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = $1`, Raw)
	if err != nil {
		return rep, fmt.Errorf("count raw tables: %w", err)
	}
	rep.RawTables = n

	return rep, nil
}
