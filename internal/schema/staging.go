package schema

import "olistdw/internal/ddl"

// StagingTables returns the cleaned-layer table definitions. Staging tables
// carry no keys or constraints: they are rebuilt wholesale on every cleaning
// run and only exist to feed the warehouse transformation.
func StagingTables() []ddl.TableDef {
	return []ddl.TableDef{
		{
			FQN: Staging + ".orders_cleaned",
			Columns: []ddl.ColumnDef{
				{Name: "order_id", SQLType: "VARCHAR(100)"},
				{Name: "customer_id", SQLType: "VARCHAR(100)"},
				{Name: "order_status", SQLType: "VARCHAR(50)"},
				{Name: "order_purchase_timestamp", SQLType: "TIMESTAMP"},
				{Name: "order_approved_at", SQLType: "TIMESTAMP"},
				{Name: "order_delivered_carrier_date", SQLType: "TIMESTAMP"},
				{Name: "order_delivered_customer_date", SQLType: "TIMESTAMP"},
				{Name: "order_estimated_delivery_date", SQLType: "TIMESTAMP"},
			},
		},
		{
			FQN: Staging + ".order_items_cleaned",
			Columns: []ddl.ColumnDef{
				{Name: "order_id", SQLType: "VARCHAR(100)"},
				{Name: "order_item_id", SQLType: "INTEGER"},
				{Name: "product_id", SQLType: "VARCHAR(100)"},
				{Name: "seller_id", SQLType: "VARCHAR(100)"},
				{Name: "shipping_limit_date", SQLType: "TIMESTAMP"},
				{Name: "price", SQLType: "DOUBLE PRECISION"},
				{Name: "freight_value", SQLType: "DOUBLE PRECISION"},
			},
		},
		{
			FQN: Staging + ".customers_cleaned",
			Columns: []ddl.ColumnDef{
				{Name: "customer_id", SQLType: "VARCHAR(100)"},
				{Name: "customer_unique_id", SQLType: "VARCHAR(100)"},
				{Name: "customer_zip_code_prefix", SQLType: "VARCHAR(10)"},
				{Name: "customer_city", SQLType: "TEXT"},
				{Name: "customer_state", SQLType: "VARCHAR(10)"},
			},
		},
		{
			FQN: Staging + ".products_cleaned",
			Columns: []ddl.ColumnDef{
				{Name: "product_id", SQLType: "VARCHAR(100)"},
				{Name: "product_category_name", SQLType: "TEXT"},
				{Name: "product_name_lenght", SQLType: "DOUBLE PRECISION"},
				{Name: "product_description_lenght", SQLType: "DOUBLE PRECISION"},
				{Name: "product_photos_qty", SQLType: "DOUBLE PRECISION"},
				{Name: "product_weight_g", SQLType: "DOUBLE PRECISION"},
				{Name: "product_length_cm", SQLType: "DOUBLE PRECISION"},
				{Name: "product_height_cm", SQLType: "DOUBLE PRECISION"},
				{Name: "product_width_cm", SQLType: "DOUBLE PRECISION"},
			},
		},
		{
			FQN: Staging + ".sellers_cleaned",
			Columns: []ddl.ColumnDef{
				{Name: "seller_id", SQLType: "VARCHAR(100)"},
				{Name: "seller_zip_code_prefix", SQLType: "VARCHAR(10)"},
				{Name: "seller_city", SQLType: "TEXT"},
				{Name: "seller_state", SQLType: "VARCHAR(10)"},
			},
		},
		{
			// review_score widens to double: malformed scores coerce through
			// float parsing and keep their fractional form if any.
			FQN: Staging + ".reviews_cleaned",
			Columns: []ddl.ColumnDef{
				{Name: "review_id", SQLType: "VARCHAR(100)"},
				{Name: "order_id", SQLType: "VARCHAR(100)"},
				{Name: "review_score", SQLType: "DOUBLE PRECISION"},
				{Name: "review_comment_title", SQLType: "TEXT"},
				{Name: "review_comment_message", SQLType: "TEXT"},
				{Name: "review_creation_date", SQLType: "TIMESTAMP"},
				{Name: "review_answer_timestamp", SQLType: "TIMESTAMP"},
			},
		},
		{
			FQN: Staging + ".payments_cleaned",
			Columns: []ddl.ColumnDef{
				{Name: "order_id", SQLType: "VARCHAR(100)"},
				{Name: "payment_sequential", SQLType: "INTEGER"},
				{Name: "payment_type", SQLType: "VARCHAR(50)"},
				{Name: "payment_installments", SQLType: "INTEGER"},
				{Name: "payment_value", SQLType: "DOUBLE PRECISION"},
			},
		},
		{
			FQN: Staging + ".geolocation",
			Columns: []ddl.ColumnDef{
				{Name: "id", SQLType: "BIGINT"},
				{Name: "geolocation_zip_code_prefix", SQLType: "VARCHAR(10)"},
				{Name: "geolocation_lat", SQLType: "DOUBLE PRECISION"},
				{Name: "geolocation_lng", SQLType: "DOUBLE PRECISION"},
				{Name: "geolocation_city", SQLType: "TEXT"},
				{Name: "geolocation_state", SQLType: "VARCHAR(10)"},
			},
		},
		{
			FQN: Staging + ".product_category_name_translation",
			Columns: []ddl.ColumnDef{
				{Name: "product_category_name", SQLType: "TEXT"},
				{Name: "product_category_name_english", SQLType: "TEXT"},
			},
		},
	}
}

// StagingTable looks up a staging definition by bare table name.
func StagingTable(name string) (ddl.TableDef, bool) {
	for _, t := range StagingTables() {
		if t.FQN == Staging+"."+name {
			return t, true
		}
	}
	return ddl.TableDef{}, false
}
