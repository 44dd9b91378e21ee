// Package scoring converts a participant's raw stats into bounded,
// explainable sub-scores against a cohort snapshot, and composes them into
// the final match quality score.
package scoring

import (
	"math"

	"github.com/riftlab/riftgrade/internal/model"
	"github.com/riftlab/riftgrade/internal/stats"
)

// ComparatorParams are the tuned constants of the continuous-metric
// comparator. The z slope and the fallback ratio are product-visible: score
// values are expected to stay stable across releases.
type ComparatorParams struct {
	// MinReliableSamples is the cohort size below which sample variance is
	// treated as statistically unreliable.
	MinReliableSamples uint64
	// FallbackStdDevRatio approximates stddev as this fraction of the mean
	// when the cohort is unreliable.
	FallbackStdDevRatio float64
	// ZSlope maps z-scores onto the 0-100 scale: score = 50 + ZSlope*z.
	ZSlope float64
	// OutlierZ flags |z| beyond this as an outlier.
	OutlierZ float64
}

// DefaultComparatorParams returns the tuned comparator constants.
func DefaultComparatorParams() ComparatorParams {
	return ComparatorParams{
		MinReliableSamples:  30,
		FallbackStdDevRatio: 0.15,
		ZSlope:              25,
		OutlierZ:            2,
	}
}

// Comparator scores continuous per-minute metrics via cohort z-scores.
type Comparator struct {
	p ComparatorParams
}

// NewComparator returns a comparator with the given params.
func NewComparator(p ComparatorParams) *Comparator {
	return &Comparator{p: p}
}

// Compare converts the player's metric value into a 0-100 score from the
// cohort's Welford state. lowerIsBetter inverts the z sign for metrics where
// a smaller value is the good outcome (e.g. deaths per minute).
//
// The linear-in-z mapping is deliberate: z=0 is the midpoint, z=±2 pins the
// bounds. A cohort mean of zero or below means the metric is not meaningful
// for this population and yields the neutral score.
func (c *Comparator) Compare(metric string, playerValue float64, w stats.Welford, lowerIsBetter bool) model.ComparisonResult {
	res := model.ComparisonResult{
		Metric:      metric,
		PlayerValue: playerValue,
		CohortMean:  w.Mean,
		SampleSize:  w.Count,
		Score:       50,
	}
	if w.Count == 0 || w.Mean <= 0 {
		return res
	}

	stdDev := w.StdDev()
	if w.Count < c.p.MinReliableSamples || stdDev == 0 {
		stdDev = w.Mean * c.p.FallbackStdDevRatio
		res.Fallback = true
	}
	res.CohortStdDev = stdDev
	if stdDev == 0 {
		return res
	}

	z := (playerValue - w.Mean) / stdDev
	if lowerIsBetter {
		z = -z
	}
	res.ZScore = z
	res.IsOutlier = math.Abs(z) > c.p.OutlierZ
	res.Score = c.scoreFromZ(z)
	return res
}

func (c *Comparator) scoreFromZ(z float64) float64 {
	s := 50 + c.p.ZSlope*z
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
