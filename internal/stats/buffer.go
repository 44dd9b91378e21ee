package stats

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/riftlab/riftgrade/internal/metrics"
	"github.com/riftlab/riftgrade/internal/model"
)

// CohortWriter persists a batch of per-cohort deltas in one pass. The buffer
// is the only caller and Flush is the only place external I/O happens.
type CohortWriter interface {
	MergeCohorts(ctx context.Context, deltas []*CohortSnapshot) error
}

// BufferOption configures a Buffer.
type BufferOption func(*Buffer)

// WithLogger sets the structured logger used on the flush path.
func WithLogger(log *slog.Logger) BufferOption {
	return func(b *Buffer) { b.log = log }
}

// WithMetrics wires ingest instrumentation into the buffer.
func WithMetrics(m *metrics.Ingest) BufferOption {
	return func(b *Buffer) { b.mx = m }
}

// WithSubCohorts controls whether observations with a core-build key also
// accumulate into the narrowed (champion, patch, coreBuild) sub-cohort.
// Enabled by default.
func WithSubCohorts(enabled bool) BufferOption {
	return func(b *Buffer) { b.subCohorts = enabled }
}

// Buffer accumulates match observations in memory, grouped by cohort key,
// so thousands of observations arriving in a short window amortize into a
// handful of store writes.
//
// Add is safe for concurrent use. Flush snapshots the buffer and clears it
// before writing, so accumulation continues into a fresh buffer the instant
// a flush begins; a second Flush while one is in flight is a no-op.
type Buffer struct {
	mu      sync.Mutex
	byKey   map[model.CohortKey]*CohortSnapshot
	samples uint64

	flushing atomic.Bool

	log        *slog.Logger
	mx         *metrics.Ingest
	subCohorts bool
}

// NewBuffer returns an empty buffer.
func NewBuffer(opts ...BufferOption) *Buffer {
	b := &Buffer{
		byKey:      make(map[model.CohortKey]*CohortSnapshot),
		log:        slog.Default(),
		subCohorts: true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add folds one observation into the buffer. Remakes are not representative
// of build or performance quality and are skipped.
func (b *Buffer) Add(o *model.MatchObservation) {
	if o == nil || o.Remake {
		return
	}
	keys := []model.CohortKey{{ChampionID: o.ChampionID, Patch: o.Patch}}
	if b.subCohorts && o.ItemCore != "" {
		keys = append(keys, model.CohortKey{ChampionID: o.ChampionID, Patch: o.Patch, CoreBuild: o.ItemCore})
	}

	b.mu.Lock()
	for _, key := range keys {
		snap := b.byKey[key]
		if snap == nil {
			snap = NewCohortSnapshot(key)
			b.byKey[key] = snap
		}
		snap.Observe(o)
	}
	b.samples++
	cohorts := len(b.byKey)
	b.mu.Unlock()

	if b.mx != nil {
		b.mx.SamplesBuffered.Inc()
		b.mx.CohortsBuffered.Set(float64(cohorts))
	}
}

// Len returns the number of distinct cohort keys currently buffered.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.byKey)
}

// Samples returns the number of observations accumulated since the last flush.
func (b *Buffer) Samples() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.samples
}

// Flush drains the buffer through the writer. At most one flush runs at a
// time; a request arriving while one is active returns (false, nil) without
// queueing. The buffer is cleared the moment the flush begins, so a failed
// write drops the batch rather than corrupting or double-counting the
// aggregate: best-effort, at-most-once durability.
func (b *Buffer) Flush(ctx context.Context, w CohortWriter) (bool, error) {
	if !b.flushing.CompareAndSwap(false, true) {
		if b.mx != nil {
			b.mx.FlushSkipped.Inc()
		}
		return false, nil
	}
	defer b.flushing.Store(false)

	b.mu.Lock()
	batch := b.byKey
	count := b.samples
	b.byKey = make(map[model.CohortKey]*CohortSnapshot)
	b.samples = 0
	b.mu.Unlock()

	if b.mx != nil {
		b.mx.CohortsBuffered.Set(0)
	}
	if len(batch) == 0 {
		return true, nil
	}

	deltas := make([]*CohortSnapshot, 0, len(batch))
	for _, snap := range batch {
		deltas = append(deltas, snap)
	}

	err := w.MergeCohorts(ctx, deltas)
	if b.mx != nil {
		b.mx.Flushes.Inc()
	}
	if err != nil {
		if b.mx != nil {
			b.mx.FlushFailures.Inc()
			b.mx.BatchesDropped.Inc()
		}
		b.log.Error("cohort flush failed, dropping batch",
			slog.Int("cohorts", len(deltas)),
			slog.Uint64("samples", count),
			slog.Any("error", err))
		return true, err
	}

	if b.mx != nil {
		b.mx.SamplesFlushed.Add(float64(count))
	}
	b.log.Debug("cohort flush complete",
		slog.Int("cohorts", len(deltas)),
		slog.Uint64("samples", count))
	return true, nil
}
