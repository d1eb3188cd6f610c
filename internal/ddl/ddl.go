// Package ddl defines a small model for SQL table definitions and renders
// CREATE TABLE statements from it. The model stays dialect-agnostic:
// identifiers are emitted as-is and quoting is left to the storage layer,
// which knows its own dialect.
package ddl

import (
	"fmt"
	"strings"
)

// ColumnDef describes a single column.
type ColumnDef struct {
	Name       string
	SQLType    string // e.g. TEXT, TIMESTAMP, DOUBLE PRECISION
	NotNull    bool
	PrimaryKey bool // part of the primary key
}

// TableDef holds a schema-qualified table name and its ordered columns.
type TableDef struct {
	FQN     string // dotted form, e.g. "raw_data.orders"
	Columns []ColumnDef
}

// ColumnNames returns the column names in definition order.
func (t TableDef) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// BuildCreateTableSQL renders a CREATE TABLE statement. With ifNotExists the
// statement is idempotent, which is what the schema bootstrap wants; staging
// rebuilds drop first and pass false.
//
// Columns render as "<name> <type> [NOT NULL]"; primary-key columns are
// collected into a trailing PRIMARY KEY clause so composite keys work.
func BuildCreateTableSQL(t TableDef, ifNotExists bool) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: table %s has no columns", fqn)
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, 2)

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s.%s missing SQLType", fqn, name)
		}

		def := name + " " + typ
		if c.NotNull {
			def += " NOT NULL"
		}
		cols = append(cols, def)

		if c.PrimaryKey {
			pks = append(pks, name)
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	create := "CREATE TABLE"
	if ifNotExists {
		create = "CREATE TABLE IF NOT EXISTS"
	}

	return fmt.Sprintf("%s %s (\n  %s\n)", create, fqn, strings.Join(cols, ",\n  ")), nil
}
