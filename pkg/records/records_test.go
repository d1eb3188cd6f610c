package records

import (
	"reflect"
	"testing"
)

func TestClone(t *testing.T) {
	orig := Record{"a": 1, "b": "x"}
	cp := orig.Clone()
	cp["a"] = 2
	if orig["a"] != 1 {
		t.Fatal("Clone must not share storage with the original")
	}
	if !reflect.DeepEqual(orig, Record{"a": 1, "b": "x"}) {
		t.Fatalf("original mutated: %v", orig)
	}
}

func TestRow(t *testing.T) {
	rec := Record{"order_id": "o1", "price": 9.9}
	got := rec.Row([]string{"order_id", "price", "missing"})
	want := []any{"o1", 9.9, nil}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Row: got %v want %v", got, want)
	}
}
