package scoring

import (
	"math"

	"github.com/riftlab/riftgrade/internal/model"
	"github.com/riftlab/riftgrade/internal/stats"
)

// lowerIsBetter marks metrics where a smaller value is the good outcome.
var lowerIsBetter = map[string]bool{
	model.MetricDeathsPerMin: true,
}

// metricLabels are the display names of the breakdown entries.
var metricLabels = map[string]string{
	model.MetricDamagePerMin:      "Damage to champions /min",
	model.MetricTotalDamagePerMin: "Total damage /min",
	model.MetricHealShieldPerMin:  "Healing + shielding /min",
	model.MetricCCPerMin:          "Crowd control /min",
	model.MetricDeathsPerMin:      "Deaths /min",
	model.MetricKDA:               "KDA",
	model.CategoryItemCore:        "Item core",
	model.CategoryKeystone:        "Keystone",
	model.CategorySpellPair:       "Spell pair",
	model.CategorySkillOrder:      "Skill order",
	model.CategoryStartingItems:   "Starting items",
	model.CategoryDeathQuality:    "Death quality",
	model.CategoryKillQuality:     "Kill quality",
}

// DefaultWeights returns the category importance weights. They sum to 1, so
// a flawless match scores 100 and every sub-score shortfall eats into the
// ceiling in proportion to its weight.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		model.MetricDamagePerMin:      0.15,
		model.MetricTotalDamagePerMin: 0.05,
		model.MetricHealShieldPerMin:  0.05,
		model.MetricCCPerMin:          0.05,
		model.MetricDeathsPerMin:      0.05,
		model.MetricKDA:               0.10,
		model.CategoryItemCore:        0.10,
		model.CategoryKeystone:        0.10,
		model.CategorySpellPair:       0.05,
		model.CategorySkillOrder:      0.05,
		model.CategoryStartingItems:   0.05,
		model.CategoryDeathQuality:    0.15,
		model.CategoryKillQuality:     0.05,
	}
}

// Scorer composes comparator, ranker and event-quality sub-scores into the
// final match quality score. Pure: scoring performs no I/O and is safe to
// run in parallel against read-only snapshots.
type Scorer struct {
	cmp     *Comparator
	rnk     *Ranker
	weights map[string]float64
}

// NewScorer builds a scorer from its parts.
func NewScorer(cp ComparatorParams, rp RankerParams, weights map[string]float64) *Scorer {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &Scorer{
		cmp:     NewComparator(cp),
		rnk:     NewRanker(rp),
		weights: weights,
	}
}

// Ranker exposes the underlying ranker for best-build queries.
func (s *Scorer) Ranker() *Ranker { return s.rnk }

// Score builds the full breakdown for one observation against a resolved
// cohort snapshot. combat may be nil when the timeline carried no kill
// events; categories without usable cohort data are omitted from the
// breakdown, never penalized.
func (s *Scorer) Score(obs *model.MatchObservation, cohort *stats.CohortSnapshot, combat *model.CombatQuality, usedCoreBuild bool) *model.ScoreBreakdown {
	bd := &model.ScoreBreakdown{
		MatchID:       obs.MatchID,
		ParticipantID: obs.ParticipantID,
		ChampionID:    obs.ChampionID,
		Patch:         obs.Patch,
		UsedCoreBuild: usedCoreBuild,
		Combat:        combat,
	}
	if cohort != nil {
		bd.CohortGames = cohort.Games
	}

	totalPenalty := 0.0

	// Continuous metrics.
	for _, name := range model.AllMetrics {
		w := cohort.Metric(name)
		if w.Count == 0 || w.Mean <= 0 {
			continue // cohort has nothing meaningful to compare against
		}
		value, ok := obs.Metric(name)
		if !ok {
			continue
		}
		res := s.cmp.Compare(name, value, w, lowerIsBetter[name])
		bd.Comparisons = append(bd.Comparisons, res)

		weight := s.weights[name]
		entry := model.ScoreEntry{
			Category:    name,
			Label:       metricLabels[name],
			Score:       res.Score,
			Weight:      weight,
			Penalty:     weight * (100 - res.Score),
			PlayerValue: value,
			CohortAvg:   w.Mean,
		}
		if w.Mean > 0 {
			entry.PctOfAvg = value / w.Mean * 100
		}
		totalPenalty += entry.Penalty
		bd.Entries = append(bd.Entries, entry)
	}

	// Discrete choices. Low-sample choices are down-weighted by confidence
	// rather than treated as equally certain.
	for _, category := range model.AllCategories {
		choice := obs.Choice(category)
		if choice == "" {
			continue // nothing extracted from the timeline for this category
		}
		table := cohort.Choice(category)
		if len(table) == 0 {
			continue
		}
		res := s.rnk.RankChoice(category, choice, table)
		bd.Builds = append(bd.Builds, res)

		weight := s.weights[category]
		confidence := res.Confidence
		if res.Unseen {
			confidence = 1 // the unseen score is already the hedge
		}
		entry := model.ScoreEntry{
			Category:    category,
			Label:       metricLabels[category],
			Score:       res.Score,
			Weight:      weight,
			Penalty:     weight * confidence * (100 - res.Score),
			PlayerValue: res.PlayerWinRate * 100,
			CohortAvg:   res.TopWinRate * 100,
		}
		totalPenalty += entry.Penalty
		bd.Entries = append(bd.Entries, entry)
	}

	// Kill/death event quality.
	if combat != nil {
		for _, part := range []struct {
			category string
			score    float64
		}{
			{model.CategoryDeathQuality, combat.DeathScore},
			{model.CategoryKillQuality, combat.KillScore},
		} {
			weight := s.weights[part.category]
			entry := model.ScoreEntry{
				Category: part.category,
				Label:    metricLabels[part.category],
				Score:    part.score,
				Weight:   weight,
				Penalty:  weight * (100 - part.score),
			}
			totalPenalty += entry.Penalty
			bd.Entries = append(bd.Entries, entry)
		}
	}

	bd.Score = roundScore(100 - totalPenalty)
	return bd
}

// roundScore clamps to [0,100] and rounds to one decimal.
func roundScore(v float64) float64 {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return math.Round(v*10) / 10
}
