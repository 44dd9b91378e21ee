// Package metrics exposes Prometheus instrumentation for the bulk-ingestion
// path. Scoring itself is pure and unobserved; only the buffer/flush pipeline
// is worth counting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "riftgrade"

// Ingest holds the counters and gauges for the cohort aggregation buffer.
type Ingest struct {
	SamplesBuffered prometheus.Counter
	SamplesFlushed  prometheus.Counter
	Flushes         prometheus.Counter
	FlushFailures   prometheus.Counter
	FlushSkipped    prometheus.Counter
	BatchesDropped  prometheus.Counter
	CohortsBuffered prometheus.Gauge
}

// NewIngest registers the ingest metrics with reg and returns them.
// Pass prometheus.DefaultRegisterer for process-wide metrics.
func NewIngest(reg prometheus.Registerer) *Ingest {
	factory := promauto.With(reg)
	return &Ingest{
		SamplesBuffered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ingest",
			Name: "samples_buffered_total",
			Help: "Match observations accepted into the in-memory cohort buffer.",
		}),
		SamplesFlushed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ingest",
			Name: "samples_flushed_total",
			Help: "Match observations written to the store by successful flushes.",
		}),
		Flushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ingest",
			Name: "flushes_total",
			Help: "Completed flush attempts, successful or not.",
		}),
		FlushFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ingest",
			Name: "flush_failures_total",
			Help: "Flush attempts that failed writing to the store.",
		}),
		FlushSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ingest",
			Name: "flush_skipped_total",
			Help: "Flush requests skipped because a flush was already in progress.",
		}),
		BatchesDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ingest",
			Name: "batches_dropped_total",
			Help: "Batches dropped after a failed flush (at-most-once policy).",
		}),
		CohortsBuffered: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "ingest",
			Name: "cohorts_buffered",
			Help: "Distinct cohort keys currently held in the buffer.",
		}),
	}
}
