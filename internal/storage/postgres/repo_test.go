package postgres

import (
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestPgIdent(t *testing.T) {
	cases := []struct{ in, want string }{
		{"orders", `"orders"`},
		{`we"ird`, `"we""ird"`},
		{"", `""`},
	}
	for _, c := range cases {
		if got := pgIdent(c.in); got != c.want {
			t.Errorf("pgIdent(%q): got %s want %s", c.in, got, c.want)
		}
	}
}

func TestPgFQN(t *testing.T) {
	if got := pgFQN("staging.orders_cleaned"); got != `"staging"."orders_cleaned"` {
		t.Fatalf("pgFQN: got %s", got)
	}
	if got := pgFQN("orders"); got != `"orders"` {
		t.Fatalf("pgFQN bare: got %s", got)
	}
}

func TestSplitFQN(t *testing.T) {
	if got := splitFQN("warehouse.fact_orders"); !reflect.DeepEqual(got, pgx.Identifier{"warehouse", "fact_orders"}) {
		t.Fatalf("splitFQN: got %v", got)
	}
	if got := splitFQN("orders"); !reflect.DeepEqual(got, pgx.Identifier{"orders"}) {
		t.Fatalf("splitFQN bare: got %v", got)
	}
	if got := splitFQN(".orders"); !reflect.DeepEqual(got, pgx.Identifier{"orders"}) {
		t.Fatalf("splitFQN leading dot: got %v", got)
	}
}
