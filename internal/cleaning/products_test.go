package cleaning

import (
	"testing"

	"olistdw/pkg/records"
)

func TestCleanProductsCategoryFallback(t *testing.T) {
	got := CleanProducts([]records.Record{
		{"product_id": "p1", "product_category_name": nil},
		{"product_id": "p2", "product_category_name": "  "},
		{"product_id": "p3", "product_category_name": "beleza_saude"},
	})
	if got[0]["product_category_name"] != "unknown" {
		t.Fatalf("nil category: got %v", got[0]["product_category_name"])
	}
	if got[1]["product_category_name"] != "unknown" {
		t.Fatalf("blank category: got %v", got[1]["product_category_name"])
	}
	if got[2]["product_category_name"] != "beleza_saude" {
		t.Fatalf("category: got %v", got[2]["product_category_name"])
	}
}

func TestCleanProductsCountColumnsDefaultZero(t *testing.T) {
	got := CleanProducts([]records.Record{
		{"product_id": "p1", "product_photos_qty": nil, "product_name_lenght": "oops"},
	})
	if got[0]["product_photos_qty"] != 0.0 {
		t.Fatalf("photos qty: got %v", got[0]["product_photos_qty"])
	}
	if got[0]["product_name_lenght"] != 0.0 {
		t.Fatalf("name length: got %v", got[0]["product_name_lenght"])
	}
}

func TestCleanProductsDimensionMedian(t *testing.T) {
	// Median is taken over positive values only: {10, 20, 30} -> 20.
	// Both the missing and the non-positive entries get the same fill.
	got := CleanProducts([]records.Record{
		{"product_id": "p1", "product_weight_g": -5.0},
		{"product_id": "p2", "product_weight_g": 10.0},
		{"product_id": "p3", "product_weight_g": 20.0},
		{"product_id": "p4", "product_weight_g": 30.0},
		{"product_id": "p5", "product_weight_g": nil},
	})
	for _, i := range []int{0, 4} {
		if got[i]["product_weight_g"] != 20.0 {
			t.Fatalf("row %d weight: got %v want 20", i, got[i]["product_weight_g"])
		}
	}
	if got[1]["product_weight_g"] != 10.0 {
		t.Fatalf("valid weight changed: got %v", got[1]["product_weight_g"])
	}
}

func TestCleanProductsMedianEvenCount(t *testing.T) {
	got := CleanProducts([]records.Record{
		{"product_id": "p1", "product_length_cm": 10.0},
		{"product_id": "p2", "product_length_cm": 20.0},
		{"product_id": "p3", "product_length_cm": 0.0},
	})
	if got[2]["product_length_cm"] != 15.0 {
		t.Fatalf("even median fill: got %v want 15", got[2]["product_length_cm"])
	}
}

func TestCleanProductsAllMissingDimension(t *testing.T) {
	got := CleanProducts([]records.Record{
		{"product_id": "p1", "product_height_cm": nil},
		{"product_id": "p2", "product_height_cm": -1.0},
	})
	for i, rec := range got {
		if rec["product_height_cm"] != 0.0 {
			t.Fatalf("row %d height: got %v want 0", i, rec["product_height_cm"])
		}
	}
}
