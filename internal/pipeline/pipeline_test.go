package pipeline

import (
	"errors"
	"log/slog"
	"testing"

	"olistdw/internal/metrics"
)

type flushCounter struct {
	counters map[string]float64
	flushes  int
}

func (f *flushCounter) IncCounter(name string, delta float64, labels metrics.Labels) {
	if f.counters == nil {
		f.counters = map[string]float64{}
	}
	f.counters[name] += delta
}

func (f *flushCounter) ObserveHistogram(name string, value float64, labels metrics.Labels) {}

func (f *flushCounter) Flush() error {
	f.flushes++
	return nil
}

func TestCloseFlushesMetricsAfterStageFailure(t *testing.T) {
	backend := &flushCounter{}
	metrics.SetBackend(backend)
	defer metrics.SetBackend(&flushCounter{})

	closed := false
	app := &App{
		Log:     slog.New(slog.DiscardHandler),
		closeDB: func() { closed = true },
	}

	err := runStage("transform", app.Log, func() error {
		return errors.New("relation does not exist")
	})
	if err == nil {
		t.Fatal("runStage should propagate the failure")
	}
	app.Close()

	if !closed {
		t.Fatal("Close must release the database pool")
	}
	// The failure counter only reaches the gateway if Close still flushes
	// after a failed stage.
	if backend.flushes != 1 {
		t.Fatalf("flushes: got %d want 1", backend.flushes)
	}
	if backend.counters["pipeline_stage_total"] != 1 {
		t.Fatalf("stage counter: got %v", backend.counters["pipeline_stage_total"])
	}
}

func TestRunStageSuccess(t *testing.T) {
	backend := &flushCounter{}
	metrics.SetBackend(backend)
	defer metrics.SetBackend(&flushCounter{})

	if err := runStage("cleaning", slog.New(slog.DiscardHandler), func() error { return nil }); err != nil {
		t.Fatalf("runStage: %v", err)
	}
	if backend.counters["pipeline_stage_total"] != 1 {
		t.Fatalf("stage counter: got %v", backend.counters["pipeline_stage_total"])
	}
}
