package metrics

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

type captureBackend struct {
	counters   map[string]float64
	lastLabels Labels
	observed   []float64
}

func (c *captureBackend) IncCounter(name string, delta float64, labels Labels) {
	if c.counters == nil {
		c.counters = map[string]float64{}
	}
	c.counters[name] += delta
	c.lastLabels = labels
}

func (c *captureBackend) ObserveHistogram(name string, value float64, labels Labels) {
	c.observed = append(c.observed, value)
}

func (c *captureBackend) Flush() error { return nil }

func TestNopBackendIsSafe(t *testing.T) {
	backend = nopBackend{}
	RecordStage("cleaning", nil, time.Second)
	RecordTableRows("cleaning", "orders_cleaned", 42)
	if err := Flush(); err != nil {
		t.Fatalf("nop flush: %v", err)
	}
}

func TestRecordStageStatus(t *testing.T) {
	cap := &captureBackend{}
	SetBackend(cap)
	defer SetBackend(nopBackend{})

	RecordStage("transform", errors.New("boom"), 2*time.Second)

	want := Labels{"stage": "transform", "status": "failure"}
	if !reflect.DeepEqual(cap.lastLabels, want) {
		t.Fatalf("labels: got %#v want %#v", cap.lastLabels, want)
	}
	if len(cap.observed) != 1 || cap.observed[0] != 2 {
		t.Fatalf("duration observation: got %v", cap.observed)
	}
}

func TestRecordTableRows(t *testing.T) {
	cap := &captureBackend{}
	SetBackend(cap)
	defer SetBackend(nopBackend{})

	RecordTableRows("cleaning", "reviews_cleaned", 7)
	RecordTableRows("cleaning", "reviews_cleaned", -1) // ignored

	if got := cap.counters["pipeline_table_rows_total"]; got != 7 {
		t.Fatalf("row counter: got %v want 7", got)
	}
}
