// Package postgres implements the pipeline's Postgres repository using pgx v5.
// Bulk loads go through COPY; derived tables are rebuilt with a drop followed
// by CREATE TABLE AS, which keeps every build idempotent.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"olistdw/internal/ddl"
	"olistdw/pkg/records"
)

// Repository is a pooled Postgres connection with the handful of operations
// the pipeline stages need.
type Repository struct {
	pool *pgxpool.Pool
}

// Open constructs a Repository and returns a close function for cleanup. The
// initial ping catches bad DSNs before a stage starts mutating anything.
func Open(ctx context.Context, dsn string) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	return &Repository{pool: pool}, pool.Close, nil
}

// Exec runs a single statement.
func (r *Repository) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := r.pool.Exec(ctx, sql, args...)
	return err
}

// QueryInt returns the first column of the first row as an int64.
func (r *Repository) QueryInt(ctx context.Context, sql string, args ...any) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CountRows counts the rows of a schema-qualified table.
func (r *Repository) CountRows(ctx context.Context, fqn string) (int64, error) {
	return r.QueryInt(ctx, "SELECT COUNT(*) FROM "+pgFQN(fqn))
}

// QueryRecords runs a query and returns every row as a Record keyed by the
// result's column names. Fine for the staging-sized tables the cleaning stage
// reads; the warehouse rebuilds never round-trip rows through Go.
func (r *Repository) QueryRecords(ctx context.Context, sql string, args ...any) ([]records.Record, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}

	var out []records.Record
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		rec := make(records.Record, len(cols))
		for i, c := range cols {
			rec[c] = vals[i]
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// QueryRows runs a query and returns the column names plus raw row values in
// result order. The CSV exporter wants ordered columns, not maps.
func (r *Repository) QueryRows(ctx context.Context, sql string, args ...any) ([]string, [][]any, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}

	var out [][]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, nil, err
		}
		out = append(out, vals)
	}
	return cols, out, rows.Err()
}

// ReplaceTable drops and recreates a table from its definition, then bulk
// loads the given rows via COPY. Rows are projected onto the definition's
// column order.
func (r *Repository) ReplaceTable(ctx context.Context, def ddl.TableDef, recs []records.Record) (int64, error) {
	if err := r.Exec(ctx, "DROP TABLE IF EXISTS "+pgFQN(def.FQN)+" CASCADE"); err != nil {
		return 0, fmt.Errorf("drop %s: %w", def.FQN, err)
	}
	create, err := ddl.BuildCreateTableSQL(def, false)
	if err != nil {
		return 0, err
	}
	if err := r.Exec(ctx, create); err != nil {
		return 0, fmt.Errorf("create %s: %w", def.FQN, err)
	}

	cols := def.ColumnNames()
	rows := make([][]any, len(recs))
	for i, rec := range recs {
		rows[i] = rec.Row(cols)
	}

	n, err := r.pool.CopyFrom(ctx, splitFQN(def.FQN), cols, pgx.CopyFromRows(rows))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			return 0, fmt.Errorf("copy into %s: %s (%s)", def.FQN, pgErr.Detail, pgErr.SQLState())
		}
		return 0, fmt.Errorf("copy into %s: %w", def.FQN, err)
	}
	return n, nil
}

// CreateTableAs rebuilds a derived table from a SELECT: drop, CREATE TABLE AS,
// then a count of what landed. The drop and the create run as separate
// statements because pgx's extended protocol takes one statement at a time.
func (r *Repository) CreateTableAs(ctx context.Context, fqn, selectSQL string) (int64, error) {
	if err := r.Exec(ctx, "DROP TABLE IF EXISTS "+pgFQN(fqn)+" CASCADE"); err != nil {
		return 0, fmt.Errorf("drop %s: %w", fqn, err)
	}
	create := fmt.Sprintf("CREATE TABLE %s AS\n%s", pgFQN(fqn), selectSQL)
	if err := r.Exec(ctx, create); err != nil {
		return 0, fmt.Errorf("create %s: %w", fqn, err)
	}
	return r.CountRows(ctx, fqn)
}

// pgIdent safely quotes a single identifier segment for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// pgFQN quotes a possibly schema-qualified name like "staging.orders_cleaned"
// to "staging"."orders_cleaned". If no dot is present, returns a single
// quoted ident.
func pgFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pgIdent(p)
	}
	return strings.Join(parts, ".")
}

// splitFQN converts "schema.table" into a pgx.Identifier {"schema","table"}.
// If no dot is present, returns {"table"}.
func splitFQN(fqn string) pgx.Identifier {
	parts := strings.Split(fqn, ".")
	id := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			id = append(id, p)
		}
	}
	return id
}
