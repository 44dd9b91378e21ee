// Package simulate generates synthetic matches with plausible timelines,
// for seeding cohorts in development and demos without an API key.
package simulate

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/riftlab/riftgrade/internal/model"
)

// champion is one synthetic champion profile: its item/rune pools and the
// per-minute stat ranges its games draw from.
type champion struct {
	id         int
	cores      [][]int
	starts     [][]int
	keystones  []int
	spellPairs [][2]int
	skillOrder []string

	damageMean float64
	kdaMean    float64
}

// pool is a small fixed roster; enough variety to produce distinguishable
// cohorts without a data-dragon dependency.
var pool = []champion{
	{
		id:         103,
		cores:      [][]int{{3089, 3135, 3157}, {3089, 3100, 3135}},
		starts:     [][]int{{1056, 2003}, {1082, 2003}},
		keystones:  []int{8112, 8010},
		spellPairs: [][2]int{{4, 14}, {4, 12}},
		skillOrder: []string{"QWE", "QEW"},
		damageMean: 620, kdaMean: 3.2,
	},
	{
		id:         64,
		cores:      [][]int{{6692, 3071, 3053}, {6692, 3053, 3065}},
		starts:     [][]int{{1103, 2003}},
		keystones:  []int{8010, 8437},
		spellPairs: [][2]int{{4, 11}},
		skillOrder: []string{"QWE", "WQE"},
		damageMean: 450, kdaMean: 2.6,
	},
	{
		id:         22,
		cores:      [][]int{{3031, 3094, 3036}, {3031, 3085, 3094}},
		starts:     [][]int{{1055, 2003}},
		keystones:  []int{8008, 8021},
		spellPairs: [][2]int{{4, 7}, {4, 1}},
		skillOrder: []string{"QWE"},
		damageMean: 700, kdaMean: 2.9,
	},
	{
		id:         412,
		cores:      [][]int{{3190, 3109, 3107}},
		starts:     [][]int{{3862, 2003}},
		keystones:  []int{8439, 8465},
		spellPairs: [][2]int{{4, 14}, {4, 3}},
		skillOrder: []string{"QEW", "EQW"},
		damageMean: 180, kdaMean: 3.5,
	},
	{
		id:         238,
		cores:      [][]int{{6691, 3142, 3814}},
		starts:     [][]int{{1055, 2003}, {1056, 2003}},
		keystones:  []int{8112},
		spellPairs: [][2]int{{4, 14}},
		skillOrder: []string{"QEW", "QWE"},
		damageMean: 650, kdaMean: 2.8,
	},
}

var skillSlots = map[byte]int{'Q': 1, 'W': 2, 'E': 3}

// itemSlotGap spaces completed-item purchases along the game clock.
const itemSlotGap int64 = 420_000

// Generator produces synthetic matches. Deterministic for a given seed.
type Generator struct {
	rng   *rand.Rand
	patch string
	seq   int
}

// New returns a generator for the given patch.
func New(seed int64, patch string) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed)), patch: patch}
}

// Match generates one full match: detail plus timeline. Ten participants,
// five per side, champions drawn from the roster with duplicates allowed
// across sides.
func (g *Generator) Match() (*model.MatchDetail, *model.MatchTimeline) {
	g.seq++
	matchID := fmt.Sprintf("SIM_%s", uuid.NewString()[:8])
	durationSec := 1500 + g.rng.Intn(900)
	blueWins := g.rng.Intn(2) == 0

	detail := &model.MatchDetail{
		MatchID:     matchID,
		GameVersion: g.patch + ".1.1",
		QueueID:     420,
		DurationSec: durationSec,
	}
	tl := &model.MatchTimeline{MatchID: matchID, FrameIntervalMS: 60_000}

	minutes := float64(durationSec) / 60
	var allEvents []model.TimelineEvent

	for pid := 1; pid <= 10; pid++ {
		side := model.SideBlue
		if pid > 5 {
			side = model.SideRed
		}
		champ := pool[g.rng.Intn(len(pool))]
		win := (side == model.SideBlue) == blueWins

		kills := g.poisson(champ.kdaMean)
		deaths := 1 + g.poisson(2.5)
		assists := g.poisson(champ.kdaMean * 1.8)
		if win {
			kills += g.rng.Intn(3)
		} else {
			deaths += g.rng.Intn(3)
		}

		detail.Participants = append(detail.Participants, model.ParticipantDetail{
			ParticipantID:      pid,
			PUUID:              uuid.NewString(),
			ChampionID:         champ.id,
			TeamID:             int(side),
			Win:                win,
			Kills:              kills,
			Deaths:             deaths,
			Assists:            assists,
			DamageToChampions:  int(g.gauss(champ.damageMean, champ.damageMean*0.2) * minutes),
			TotalDamage:        int(g.gauss(champ.damageMean*2.5, champ.damageMean*0.4) * minutes),
			TotalHeal:          int(g.gauss(30, 12) * minutes),
			TotalShield:        int(g.gauss(20, 10) * minutes),
			TimeCCingOthersSec: int(g.gauss(0.8, 0.3) * minutes),
			Spell1ID:           champ.spellPairs[g.rng.Intn(len(champ.spellPairs))][0],
			Spell2ID:           champ.spellPairs[g.rng.Intn(len(champ.spellPairs))][1],
			KeystoneID:         champ.keystones[g.rng.Intn(len(champ.keystones))],
		})

		allEvents = append(allEvents, g.itemEvents(pid, champ)...)
		allEvents = append(allEvents, g.skillEvents(pid, champ)...)
	}

	allEvents = append(allEvents, g.killEvents(detail)...)
	tl.Frames = g.frames(detail, allEvents)
	return detail, tl
}

func (g *Generator) itemEvents(pid int, champ champion) []model.TimelineEvent {
	var events []model.TimelineEvent
	for _, id := range champ.starts[g.rng.Intn(len(champ.starts))] {
		events = append(events, model.TimelineEvent{
			Type: model.EventItemPurchased, ParticipantID: pid, ItemID: id,
			TimestampMS: int64(g.rng.Intn(20_000)),
		})
	}
	events = append(events, model.TimelineEvent{
		Type: model.EventItemPurchased, ParticipantID: pid, ItemID: 1001,
		TimestampMS: int64(120_000 + g.rng.Intn(60_000)),
	})
	for i, id := range champ.cores[g.rng.Intn(len(champ.cores))] {
		events = append(events, model.TimelineEvent{
			Type: model.EventItemPurchased, ParticipantID: pid, ItemID: id,
			TimestampMS: int64(i+1)*itemSlotGap + int64(g.rng.Intn(120_000)),
		})
	}
	return events
}

func (g *Generator) skillEvents(pid int, champ champion) []model.TimelineEvent {
	order := champ.skillOrder[g.rng.Intn(len(champ.skillOrder))]
	events := make([]model.TimelineEvent, 0, len(order))
	for i := 0; i < len(order); i++ {
		events = append(events, model.TimelineEvent{
			Type: model.EventSkillLevelUp, ParticipantID: pid,
			SkillSlot:   skillSlots[order[i]],
			TimestampMS: int64(i+1) * 60_000,
		})
	}
	return events
}

func (g *Generator) killEvents(detail *model.MatchDetail) []model.TimelineEvent {
	var events []model.TimelineEvent
	for i := range detail.Participants {
		victim := &detail.Participants[i]
		for d := 0; d < victim.Deaths; d++ {
			killer := &detail.Participants[g.rng.Intn(len(detail.Participants))]
			for killer.TeamID == victim.TeamID {
				killer = &detail.Participants[g.rng.Intn(len(detail.Participants))]
			}
			events = append(events, model.TimelineEvent{
				Type:        model.EventChampionKill,
				TimestampMS: int64(180_000 + g.rng.Intn(detail.DurationSec*1000-240_000)),
				KillerID:    killer.ParticipantID,
				VictimID:    victim.ParticipantID,
				Position: &model.Position{
					X: float64(1000 + g.rng.Intn(13_000)),
					Y: float64(1000 + g.rng.Intn(13_000)),
				},
			})
		}
	}
	return events
}

// frames buckets events into one-minute frames with economy snapshots.
func (g *Generator) frames(detail *model.MatchDetail, events []model.TimelineEvent) []model.Frame {
	frameCount := detail.DurationSec/60 + 1
	frames := make([]model.Frame, frameCount)
	for i := range frames {
		ts := int64(i) * 60_000
		frames[i].TimestampMS = ts
		frames[i].Participants = make(map[string]model.ParticipantFrame, len(detail.Participants))
		for _, p := range detail.Participants {
			frames[i].Participants[fmt.Sprintf("%d", p.ParticipantID)] = model.ParticipantFrame{
				ParticipantID: p.ParticipantID,
				CurrentGold:   g.rng.Intn(400 + i*120),
				TotalGold:     500 + i*380,
				Level:         min(18, 1+i),
			}
		}
	}
	for _, ev := range events {
		idx := int(ev.TimestampMS / 60_000)
		if idx >= frameCount {
			idx = frameCount - 1
		}
		frames[idx].Events = append(frames[idx].Events, ev)
	}
	return frames
}

// gauss draws from N(mean, stddev) clamped at zero.
func (g *Generator) gauss(mean, stddev float64) float64 {
	v := g.rng.NormFloat64()*stddev + mean
	if v < 0 {
		return 0
	}
	return v
}

// poisson draws a small non-negative count with the given mean.
func (g *Generator) poisson(mean float64) int {
	n := 0
	for threshold := g.rng.Float64() * mean * 2; float64(n) < threshold; n++ {
	}
	return n
}
