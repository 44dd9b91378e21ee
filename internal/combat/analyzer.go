// Package combat grades kill and death events by their spatio-temporal
// context: group engagement vs. solo, aggressive vs. defensive positioning,
// and the economy carried at the moment of the event.
package combat

import (
	"math"

	"github.com/riftlab/riftgrade/internal/model"
)

// Params are the tuned grading constants. Product-visible score values
// depend on them, so change with care.
type Params struct {
	// Teamfight classification: an event with at least MinNearbyKills other
	// kill events inside the window and radius is a group engagement.
	TeamfightWindowMS int64
	TeamfightRadius   float64
	MinNearbyKills    int

	// Map geometry: the diagonal between the two base corners. A position's
	// score in [0,1] is its normalized projection onto this diagonal,
	// oriented so 1.0 is deep in the opponent's territory.
	BlueBase model.Position
	RedBase  model.Position

	// Death grading.
	DeathBasePenalty   float64
	DeathGoldPer500    float64 // surcharge per 500 carried gold
	DeathGoldCap       float64
	DeathTeamfightRebate float64
	DeathDeepRebate    float64
	DeathDeepThreshold float64 // position score at or above which a death counts as aggressive
	DeathMinPenalty    float64

	// Kill grading.
	KillBaseValue      float64
	KillGoldPer500     float64 // denial bonus per 500 gold the victim carried
	KillGoldCap        float64
	KillDefensiveBonus float64
	KillDefensiveThreshold float64 // position score at or below which a kill counts as defensive
}

// DefaultParams returns the grading constants tuned for Summoner's Rift
// coordinates and typical game economies.
func DefaultParams() Params {
	return Params{
		TeamfightWindowMS: 10_000,
		TeamfightRadius:   2000,
		MinNearbyKills:    3,

		BlueBase: model.Position{X: 394, Y: 461},
		RedBase:  model.Position{X: 14340, Y: 14391},

		DeathBasePenalty:     8,
		DeathGoldPer500:      1,
		DeathGoldCap:         6,
		DeathTeamfightRebate: 3,
		DeathDeepRebate:      2,
		DeathDeepThreshold:   0.65,
		DeathMinPenalty:      2,

		KillBaseValue:          3,
		KillGoldPer500:         1,
		KillGoldCap:            3,
		KillDefensiveBonus:     1,
		KillDefensiveThreshold: 0.4,
	}
}

// Analyzer grades a participant's kill and death events against the full
// event list of the match. Pure and side-effect free.
type Analyzer struct {
	p Params
}

// NewAnalyzer returns an analyzer with the given params.
func NewAnalyzer(p Params) *Analyzer {
	return &Analyzer{p: p}
}

// PositionScore projects pos onto the base-to-base diagonal and returns its
// normalized position in [0,1] from the given side's perspective: 0.0 at
// one's own base, 1.0 deep in the opponent's territory.
func (a *Analyzer) PositionScore(pos model.Position, side model.Side) float64 {
	dx := a.p.RedBase.X - a.p.BlueBase.X
	dy := a.p.RedBase.Y - a.p.BlueBase.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return 0.5
	}
	t := ((pos.X-a.p.BlueBase.X)*dx + (pos.Y-a.p.BlueBase.Y)*dy) / lenSq
	t = clamp01(t)
	if side == model.SideRed {
		return 1 - t
	}
	return t
}

// IsTeamfight reports whether the event co-occurred in time and space with
// enough other kill events to count as a group engagement.
func (a *Analyzer) IsTeamfight(ev model.KillEvent, all []model.KillEvent) bool {
	nearby := 0
	for i := range all {
		other := &all[i]
		if other.TimestampMS == ev.TimestampMS && other.KillerID == ev.KillerID && other.VictimID == ev.VictimID {
			continue
		}
		dt := other.TimestampMS - ev.TimestampMS
		if dt < -a.p.TeamfightWindowMS || dt > a.p.TeamfightWindowMS {
			continue
		}
		ddx := other.Position.X - ev.Position.X
		ddy := other.Position.Y - ev.Position.Y
		if math.Sqrt(ddx*ddx+ddy*ddy) > a.p.TeamfightRadius {
			continue
		}
		nearby++
	}
	return nearby >= a.p.MinNearbyKills
}

// DeathPenalty grades a single death. Dying rich is worse; dying in a group
// engagement or deep in enemy territory is acceptable risk and rebated. The
// result is floored at the minimum per-death penalty.
func (a *Analyzer) DeathPenalty(ev model.KillEvent, all []model.KillEvent, side model.Side) (penalty float64, teamfight bool) {
	penalty = a.p.DeathBasePenalty
	penalty += math.Min(a.p.DeathGoldCap, float64(ev.VictimGold)/500*a.p.DeathGoldPer500)

	teamfight = a.IsTeamfight(ev, all)
	if teamfight {
		penalty -= a.p.DeathTeamfightRebate
	}
	if a.PositionScore(ev.Position, side) >= a.p.DeathDeepThreshold {
		penalty -= a.p.DeathDeepRebate
	}
	if penalty < a.p.DeathMinPenalty {
		penalty = a.p.DeathMinPenalty
	}
	return penalty, teamfight
}

// KillValue grades a single kill: denial value for eliminating a resource-
// rich target, plus a small defensive bonus for kills on one's own side.
func (a *Analyzer) KillValue(ev model.KillEvent, side model.Side) float64 {
	v := a.p.KillBaseValue
	v += math.Min(a.p.KillGoldCap, float64(ev.VictimGold)/500*a.p.KillGoldPer500)
	if a.PositionScore(ev.Position, side) <= a.p.KillDefensiveThreshold {
		v += a.p.KillDefensiveBonus
	}
	return v
}

// Analyze grades every kill and death for the participant and folds them
// into the 0-100 aggregates. The death aggregate starts at 100 and is
// reduced per death; the kill aggregate starts at the neutral midpoint and
// is increased per kill. Returns nil when the match carried no kill events
// at all, so callers can omit the category instead of zeroing it.
func (a *Analyzer) Analyze(participantID int, side model.Side, events []model.KillEvent) *model.CombatQuality {
	if len(events) == 0 {
		return nil
	}

	q := &model.CombatQuality{KillScore: 50, DeathScore: 100}
	for i := range events {
		ev := events[i]
		switch participantID {
		case ev.VictimID:
			penalty, teamfight := a.DeathPenalty(ev, events, side)
			q.DeathScore -= penalty
			q.Deaths++
			if teamfight {
				q.TeamfightDeaths++
			}
		case ev.KillerID:
			q.KillScore += a.KillValue(ev, side)
			q.Kills++
			if a.IsTeamfight(ev, events) {
				q.TeamfightKills++
			}
		}
	}
	q.KillScore = clamp100(q.KillScore)
	q.DeathScore = clamp100(q.DeathScore)
	return q
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
