// Package records defines the row representation passed between pipeline
// stages. A Record is a loosely-typed map keyed by column name; stages that
// need stronger typing coerce values at their own boundary.
package records

// Record is a single row. Values are whatever the source produced: strings
// fresh from a CSV import, or typed values (time.Time, float64, int64, nil)
// when read back from the database.
type Record map[string]any

// Clone returns a shallow copy of the record. Transformations that rewrite
// values in place should clone first when the input must stay untouched.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Row projects the record onto an ordered column list, producing the
// positional form expected by bulk loaders (COPY). Missing columns become nil.
func (r Record) Row(columns []string) []any {
	row := make([]any, len(columns))
	for i, c := range columns {
		row[i] = r[c]
	}
	return row
}
