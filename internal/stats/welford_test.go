package stats

import (
	"math"
	"math/rand"
	"testing"
)

const tolerance = 1e-9

func directStats(samples []float64) (mean, variance float64) {
	n := float64(len(samples))
	if n == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, x := range samples {
		sum += x
	}
	mean = sum / n
	for _, x := range samples {
		d := x - mean
		variance += d * d
	}
	variance /= n
	return mean, variance
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestUpdateMatchesDirectComputation(t *testing.T) {
	samples := []float64{480, 512.5, 431, 610, 505, 477.25, 590, 402}

	var w Welford
	for _, x := range samples {
		w.Update(x)
	}

	wantMean, wantVar := directStats(samples)
	if !approxEqual(w.Mean, wantMean, tolerance) {
		t.Errorf("mean: got %v, want %v", w.Mean, wantMean)
	}
	if !approxEqual(w.Variance(), wantVar, tolerance) {
		t.Errorf("variance: got %v, want %v", w.Variance(), wantVar)
	}
	if w.Count != uint64(len(samples)) {
		t.Errorf("count: got %d, want %d", w.Count, len(samples))
	}
}

func TestVarianceUndefinedBelowTwoSamples(t *testing.T) {
	var w Welford
	if w.Variance() != 0 {
		t.Errorf("empty state variance: got %v, want 0", w.Variance())
	}
	w.Update(42)
	if w.Variance() != 0 {
		t.Errorf("single-sample variance: got %v, want 0", w.Variance())
	}
	if w.M2 < 0 {
		t.Errorf("M2 must stay non-negative, got %v", w.M2)
	}
}

// TestMergeMatchesSequentialUpdate splits a random sample sequence at every
// possible point, aggregates each half independently and checks that the
// merged state matches one-by-one accumulation within float tolerance.
func TestMergeMatchesSequentialUpdate(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	samples := make([]float64, 200)
	for i := range samples {
		samples[i] = 300 + rng.NormFloat64()*120
	}

	var direct Welford
	for _, x := range samples {
		direct.Update(x)
	}

	for split := 0; split <= len(samples); split += 17 {
		var a, b Welford
		for _, x := range samples[:split] {
			a.Update(x)
		}
		for _, x := range samples[split:] {
			b.Update(x)
		}
		merged := Merge(a, b)

		if merged.Count != direct.Count {
			t.Fatalf("split %d: count %d, want %d", split, merged.Count, direct.Count)
		}
		if !approxEqual(merged.Mean, direct.Mean, 1e-9) {
			t.Errorf("split %d: mean %v, want %v", split, merged.Mean, direct.Mean)
		}
		if !approxEqual(merged.M2, direct.M2, 1e-9) {
			t.Errorf("split %d: M2 %v, want %v", split, merged.M2, direct.M2)
		}
	}
}

// TestMergeCommutativeAssociative merges three partials in different orders
// and expects identical results within tolerance.
func TestMergeCommutativeAssociative(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	parts := make([]Welford, 3)
	for i := range parts {
		for j := 0; j < 30+i*13; j++ {
			parts[i].Update(rng.Float64() * 1000)
		}
	}

	ab := Merge(Merge(parts[0], parts[1]), parts[2])
	ba := Merge(parts[2], Merge(parts[1], parts[0]))
	ca := Merge(Merge(parts[2], parts[0]), parts[1])

	for _, other := range []Welford{ba, ca} {
		if other.Count != ab.Count {
			t.Fatalf("count mismatch: %d vs %d", other.Count, ab.Count)
		}
		if !approxEqual(other.Mean, ab.Mean, 1e-9) {
			t.Errorf("mean mismatch: %v vs %v", other.Mean, ab.Mean)
		}
		if !approxEqual(other.M2, ab.M2, 1e-9) {
			t.Errorf("M2 mismatch: %v vs %v", other.M2, ab.M2)
		}
	}
}

func TestMergeWithEmptyState(t *testing.T) {
	var a Welford
	a.Update(10)
	a.Update(20)

	left := Merge(Welford{}, a)
	right := Merge(a, Welford{})

	if left != a || right != a {
		t.Errorf("merge with empty state must be identity: got %+v and %+v, want %+v", left, right, a)
	}
}
