// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the pipeline stages.
//
// The global backend defaults to a no-op implementation, so metrics are
// always safe to call even when no real backend is configured. Concrete
// systems (currently a Prometheus Pushgateway client) live in subpackages
// and are installed by the stage binaries via SetBackend.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStage measures one stage execution: latency plus success/failure.
func RecordStage(stage string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"stage":  stage,
		"status": status,
	}

	backend.IncCounter("pipeline_stage_total", 1, lbls)
	backend.ObserveHistogram("pipeline_stage_duration_seconds", d.Seconds(), lbls)
}

// RecordTableRows records how many rows a stage produced for one table.
// A failed table reports zero rows, which is recorded as a failure count
// instead so that dashboards can tell "empty" apart from "broken".
func RecordTableRows(stage, table string, rows int64) {
	if rows < 0 {
		return
	}
	backend.IncCounter("pipeline_table_rows_total", float64(rows), Labels{
		"stage": stage,
		"table": table,
	})
}

// RecordTableFailure counts a per-table failure within a stage.
func RecordTableFailure(stage, table string) {
	backend.IncCounter("pipeline_table_failures_total", 1, Labels{
		"stage": stage,
		"table": table,
	})
}
