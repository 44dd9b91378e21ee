// Package stats implements the online statistics the scoring engine runs on:
// Welford mean/variance states, Wilson confidence bounds, cohort snapshots
// and the batched cohort aggregation buffer.
package stats

import "math"

// Welford maintains a running count/mean/sum-of-squared-deviations for one
// metric using Welford's online algorithm. The zero value is an empty state.
//
// Fields are exported so snapshots can be persisted and restored; mutate only
// through Update and Merge.
type Welford struct {
	Count uint64
	Mean  float64
	M2    float64
}

// Update incorporates one new sample in O(1).
func (w *Welford) Update(x float64) {
	w.Count++
	delta := x - w.Mean
	w.Mean += delta / float64(w.Count)
	delta2 := x - w.Mean
	w.M2 += delta * delta2
}

// Merge combines two independently accumulated states using the parallel
// variance combination identity. Commutative and associative up to float
// rounding: merging partials in any order matches direct accumulation.
func Merge(a, b Welford) Welford {
	if a.Count == 0 {
		return b
	}
	if b.Count == 0 {
		return a
	}
	na := float64(a.Count)
	nb := float64(b.Count)
	n := na + nb
	delta := b.Mean - a.Mean
	return Welford{
		Count: a.Count + b.Count,
		Mean:  a.Mean + delta*nb/n,
		M2:    a.M2 + b.M2 + delta*delta*na*nb/n,
	}
}

// Variance returns the population variance M2/Count, or 0 when fewer than
// two samples have been observed.
func (w Welford) Variance() float64 {
	if w.Count < 2 {
		return 0
	}
	return w.M2 / float64(w.Count)
}

// StdDev returns the population standard deviation.
func (w Welford) StdDev() float64 {
	return math.Sqrt(w.Variance())
}
