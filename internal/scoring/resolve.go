package scoring

import (
	"github.com/riftlab/riftgrade/internal/model"
	"github.com/riftlab/riftgrade/internal/stats"
)

// ResolveCohort picks the population to score against, with a fixed,
// documented precedence:
//
//  1. the (champion, patch, coreBuild) sub-cohort, when it holds at least
//     minSubGames observations;
//  2. the base (champion, patch) cohort, whatever its size — the comparator
//     and ranker degrade gracefully on small samples;
//  3. an empty snapshot, so callers never see nil.
//
// Returns the chosen snapshot and whether the sub-cohort was used.
func ResolveCohort(sub, base *stats.CohortSnapshot, key model.CohortKey, minSubGames uint64) (*stats.CohortSnapshot, bool) {
	if sub != nil && sub.Games >= minSubGames && minSubGames > 0 {
		return sub, true
	}
	if base != nil {
		return base, false
	}
	return stats.NewCohortSnapshot(key.Base()), false
}
