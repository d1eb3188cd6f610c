package cleaning

import (
	"testing"
	"time"
)

func TestToFloat(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{nil, 0, false},
		{"", 0, false},
		{"  ", 0, false},
		{"abc", 0, false},
		{"3.5", 3.5, true},
		{" 42 ", 42, true},
		{int64(7), 7, true},
		{float64(-5), -5, true},
	}
	for _, c := range cases {
		got, ok := toFloat(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("toFloat(%v): got (%v, %v) want (%v, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestToTime(t *testing.T) {
	ts, ok := toTime("2017-10-02 10:56:33")
	if !ok || ts.Year() != 2017 || ts.Hour() != 10 {
		t.Fatalf("timestamp layout: got (%v, %v)", ts, ok)
	}
	if ts, ok = toTime("2017-10-02"); !ok || ts.Day() != 2 {
		t.Fatalf("date layout: got (%v, %v)", ts, ok)
	}
	if _, ok = toTime("not a date"); ok {
		t.Fatal("garbage should not parse")
	}
	if _, ok = toTime(nil); ok {
		t.Fatal("nil should not parse")
	}
	if _, ok = toTime(time.Time{}); ok {
		t.Fatal("zero time should report missing")
	}
	now := time.Now()
	if got, ok := toTime(now); !ok || !got.Equal(now) {
		t.Fatal("time.Time should pass through")
	}
}
