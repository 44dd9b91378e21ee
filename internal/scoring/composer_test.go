package scoring

import (
	"testing"

	"github.com/riftlab/riftgrade/internal/model"
	"github.com/riftlab/riftgrade/internal/stats"
)

func newTestScorer() *Scorer {
	return NewScorer(DefaultComparatorParams(), DefaultRankerParams(), nil)
}

// averageCohort builds a snapshot where every metric has a healthy sample
// centered on the given means, and one keystone table.
func averageCohort(key model.CohortKey) *stats.CohortSnapshot {
	snap := stats.NewCohortSnapshot(key)
	means := map[string]float64{
		model.MetricDamagePerMin:      500,
		model.MetricTotalDamagePerMin: 1200,
		model.MetricHealShieldPerMin:  90,
		model.MetricCCPerMin:          12,
		model.MetricDeathsPerMin:      0.25,
		model.MetricKDA:               2.8,
	}
	for name, mean := range means {
		snap.Metrics[name] = stats.Welford{Count: 100, Mean: mean, M2: (mean * 0.2) * (mean * 0.2) * 100}
	}
	snap.Games = 100
	snap.Wins = 52
	snap.Choices[model.CategoryKeystone] = stats.ChoiceTable{
		"8010": {Games: 60, Wins: 33},
		"8112": {Games: 40, Wins: 19},
	}
	return snap
}

func averageObservation() *model.MatchObservation {
	return &model.MatchObservation{
		MatchID:           "NA1_100",
		ParticipantID:     4,
		ChampionID:        266,
		Patch:             "14.10",
		Side:              model.SideBlue,
		DurationSec:       1500,
		DamagePerMin:      500,
		TotalDamagePerMin: 1200,
		HealShieldPerMin:  90,
		CCPerMin:          12,
		DeathsPerMin:      0.25,
		KDA:               2.8,
		Keystone:          "8010",
	}
}

// TestComposeExactlyAverageTopBuild: matching the cohort on every metric and
// running the top keystone yields sub-scores of 50 (metrics) and 90
// (keystone); the composite is the weighted remainder.
func TestComposeExactlyAverageTopBuild(t *testing.T) {
	s := newTestScorer()
	cohort := averageCohort(model.CohortKey{ChampionID: 266, Patch: "14.10"})
	bd := s.Score(averageObservation(), cohort, nil, false)

	if len(bd.Comparisons) != len(model.AllMetrics) {
		t.Fatalf("expected %d metric comparisons, got %d", len(model.AllMetrics), len(bd.Comparisons))
	}
	for _, cmp := range bd.Comparisons {
		if cmp.Score != 50 {
			t.Errorf("%s: at-average score %v, want 50", cmp.Metric, cmp.Score)
		}
	}
	if len(bd.Builds) != 1 || bd.Builds[0].Score != 90 {
		t.Fatalf("expected one keystone result at 90, got %+v", bd.Builds)
	}

	// Weighted penalties: metrics contribute 0.45·50, keystone 0.10·(100-90)·1.
	want := 100 - (0.45*50 + 0.10*10)
	if bd.Score != roundScore(want) {
		t.Errorf("composite: got %v, want %v", bd.Score, roundScore(want))
	}
	if bd.Combat != nil {
		t.Error("no combat data supplied, breakdown must carry none")
	}
}

// TestComposeSkipsMissingCategories: variable-length breakdowns — an empty
// cohort metric or an unextracted choice is omitted, not penalized.
func TestComposeSkipsMissingCategories(t *testing.T) {
	s := newTestScorer()
	key := model.CohortKey{ChampionID: 266, Patch: "14.10"}

	cohort := averageCohort(key)
	delete(cohort.Metrics, model.MetricHealShieldPerMin) // never observed
	cohort.Metrics[model.MetricCCPerMin] = stats.Welford{Count: 50, Mean: 0}

	obs := averageObservation()
	obs.SkillOrder = "" // not extractable from this timeline
	obs.Keystone = ""

	bd := s.Score(obs, cohort, nil, false)
	seen := make(map[string]bool)
	for _, e := range bd.Entries {
		seen[e.Category] = true
	}
	for _, skipped := range []string{
		model.MetricHealShieldPerMin,
		model.MetricCCPerMin,
		model.CategoryKeystone,
		model.CategorySkillOrder,
	} {
		if seen[skipped] {
			t.Errorf("category %s must be omitted from the breakdown", skipped)
		}
	}
}

// TestComposeEmptyCohort: a fully empty cohort produces an empty breakdown
// at the ceiling rather than an error or a zero.
func TestComposeEmptyCohort(t *testing.T) {
	s := newTestScorer()
	cohort := stats.NewCohortSnapshot(model.CohortKey{ChampionID: 266, Patch: "14.10"})
	bd := s.Score(averageObservation(), cohort, nil, false)

	if len(bd.Entries) != 0 {
		t.Errorf("empty cohort must omit every category, got %d entries", len(bd.Entries))
	}
	if bd.Score != 100 {
		t.Errorf("no penalties means the ceiling: got %v", bd.Score)
	}
}

func TestComposeCombatEntries(t *testing.T) {
	s := newTestScorer()
	cohort := averageCohort(model.CohortKey{ChampionID: 266, Patch: "14.10"})
	combat := &model.CombatQuality{KillScore: 60, DeathScore: 70, Kills: 4, Deaths: 5}

	bd := s.Score(averageObservation(), cohort, combat, false)
	var death, kill *model.ScoreEntry
	for i := range bd.Entries {
		switch bd.Entries[i].Category {
		case model.CategoryDeathQuality:
			death = &bd.Entries[i]
		case model.CategoryKillQuality:
			kill = &bd.Entries[i]
		}
	}
	if death == nil || kill == nil {
		t.Fatal("combat entries missing from breakdown")
	}
	if death.Penalty != 0.15*30 {
		t.Errorf("death penalty: got %v, want %v", death.Penalty, 0.15*30)
	}
	if kill.Penalty != 0.05*40 {
		t.Errorf("kill penalty: got %v, want %v", kill.Penalty, 0.05*40)
	}
}

func TestComposeBoundedAndRounded(t *testing.T) {
	s := newTestScorer()
	cohort := averageCohort(model.CohortKey{ChampionID: 266, Patch: "14.10"})

	// Tank every metric far below the cohort.
	obs := averageObservation()
	obs.DamagePerMin = 0
	obs.TotalDamagePerMin = 0
	obs.HealShieldPerMin = 0
	obs.CCPerMin = 0
	obs.DeathsPerMin = 3
	obs.KDA = 0
	obs.Keystone = "8112"

	bd := s.Score(obs, cohort, &model.CombatQuality{KillScore: 50, DeathScore: 0}, false)
	if bd.Score < 0 || bd.Score > 100 {
		t.Fatalf("composite out of bounds: %v", bd.Score)
	}
	// One decimal place.
	scaled := bd.Score * 10
	if scaled != float64(int64(scaled)) {
		t.Errorf("composite not rounded to one decimal: %v", bd.Score)
	}
}

func TestResolveCohortPrecedence(t *testing.T) {
	key := model.CohortKey{ChampionID: 24, Patch: "14.9", CoreBuild: "3124_3153_3748"}

	sub := stats.NewCohortSnapshot(key)
	sub.Games = 80
	base := stats.NewCohortSnapshot(key.Base())
	base.Games = 900

	snap, usedSub := ResolveCohort(sub, base, key, 50)
	if !usedSub || snap != sub {
		t.Error("sub-cohort above the floor must win")
	}

	sub.Games = 20
	snap, usedSub = ResolveCohort(sub, base, key, 50)
	if usedSub || snap != base {
		t.Error("starved sub-cohort must fall back to the base cohort")
	}

	snap, usedSub = ResolveCohort(nil, nil, key, 50)
	if usedSub || snap == nil || !snap.Empty() {
		t.Error("missing cohorts must resolve to an empty snapshot, never nil")
	}
	if snap.Key.CoreBuild != "" {
		t.Error("empty fallback must use the base key")
	}
}
