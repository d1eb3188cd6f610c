// Package schema fixes the layout of the three database schemas the pipeline
// works with: raw_data (ingested source tables), staging (cleaned copies),
// and warehouse (dimensional model plus reporting aggregates). It also owns
// the bootstrap that creates the schemas and the raw table definitions.
package schema

const (
	Raw       = "raw_data"
	Staging   = "staging"
	Warehouse = "warehouse"
)

// Schemas lists the namespaces created by the bootstrap, in order.
var Schemas = []string{Raw, Staging, Warehouse}
