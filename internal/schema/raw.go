package schema

import "olistdw/internal/ddl"

// RawTables returns the nine source table definitions, in creation order.
// These mirror the Olist CSV exports: natural string keys, loose typing on
// the numeric columns (cleaning firms them up later).
func RawTables() []ddl.TableDef {
	return []ddl.TableDef{
		{
			FQN: Raw + ".geolocation",
			Columns: []ddl.ColumnDef{
				{Name: "id", SQLType: "SERIAL", PrimaryKey: true},
				{Name: "geolocation_zip_code_prefix", SQLType: "VARCHAR(10)", NotNull: true},
				{Name: "geolocation_lat", SQLType: "DOUBLE PRECISION", NotNull: true},
				{Name: "geolocation_lng", SQLType: "DOUBLE PRECISION", NotNull: true},
				{Name: "geolocation_city", SQLType: "TEXT"},
				{Name: "geolocation_state", SQLType: "VARCHAR(10)"},
			},
		},
		{
			FQN: Raw + ".customers",
			Columns: []ddl.ColumnDef{
				{Name: "customer_id", SQLType: "VARCHAR(100)", PrimaryKey: true},
				{Name: "customer_unique_id", SQLType: "VARCHAR(100)", NotNull: true},
				{Name: "customer_zip_code_prefix", SQLType: "VARCHAR(10)"},
				{Name: "customer_city", SQLType: "TEXT"},
				{Name: "customer_state", SQLType: "VARCHAR(10)"},
			},
		},
		{
			FQN: Raw + ".sellers",
			Columns: []ddl.ColumnDef{
				{Name: "seller_id", SQLType: "VARCHAR(100)", PrimaryKey: true},
				{Name: "seller_zip_code_prefix", SQLType: "VARCHAR(10)"},
				{Name: "seller_city", SQLType: "TEXT"},
				{Name: "seller_state", SQLType: "VARCHAR(10)"},
			},
		},
		{
			FQN: Raw + ".products",
			Columns: []ddl.ColumnDef{
				{Name: "product_id", SQLType: "VARCHAR(100)", PrimaryKey: true},
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
			FQN: Raw + ".product_category_name_translation",
			Columns: []ddl.ColumnDef{
				{Name: "product_category_name", SQLType: "TEXT", PrimaryKey: true},
				{Name: "product_category_name_english", SQLType: "TEXT"},
			},
		},
		{
			FQN: Raw + ".orders",
			Columns: []ddl.ColumnDef{
				{Name: "order_id", SQLType: "VARCHAR(100)", PrimaryKey: true},
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
			FQN: Raw + ".order_items",
			Columns: []ddl.ColumnDef{
				{Name: "order_id", SQLType: "VARCHAR(100)", PrimaryKey: true},
				{Name: "order_item_id", SQLType: "INTEGER", PrimaryKey: true},
				{Name: "product_id", SQLType: "VARCHAR(100)"},
				{Name: "seller_id", SQLType: "VARCHAR(100)"},
				{Name: "shipping_limit_date", SQLType: "TIMESTAMP"},
				{Name: "price", SQLType: "DOUBLE PRECISION"},
				{Name: "freight_value", SQLType: "DOUBLE PRECISION"},
			},
		},
		{
			FQN: Raw + ".payments",
			Columns: []ddl.ColumnDef{
				{Name: "order_id", SQLType: "VARCHAR(100)", PrimaryKey: true},
				{Name: "payment_sequential", SQLType: "INTEGER", PrimaryKey: true},
				{Name: "payment_type", SQLType: "VARCHAR(50)"},
				{Name: "payment_installments", SQLType: "INTEGER"},
				{Name: "payment_value", SQLType: "DOUBLE PRECISION"},
			},
		},
		{
			FQN: Raw + ".reviews",
			Columns: []ddl.ColumnDef{
				{Name: "review_id", SQLType: "VARCHAR(100)"},
				{Name: "order_id", SQLType: "VARCHAR(100)"},
				{Name: "review_score", SQLType: "INTEGER"},
				{Name: "review_comment_title", SQLType: "TEXT"},
				{Name: "review_comment_message", SQLType: "TEXT"},
				{Name: "review_creation_date", SQLType: "TIMESTAMP"},
				{Name: "review_answer_timestamp", SQLType: "TIMESTAMP"},
			},
		},
	}
}
