// Package timeline turns a raw match timeline into typed, per-participant
// observations: resolved purchase sequences, normalized build keys, the
// ability-order abbreviation and kill events with positional/economic
// context.
package timeline

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/riftlab/riftgrade/internal/model"
)

// bootSentinel is the single item ID all boot variants fold into when
// normalizing first-buy keys.
const bootSentinel = 1001

// bootItems covers the basic boots and every upgrade.
var bootItems = map[int]bool{
	1001: true, 3006: true, 3009: true, 3020: true,
	3047: true, 3111: true, 3117: true, 3158: true,
}

// completedItemFloor is the ID range heuristic for completed (non-component)
// items; purchases below it are components and consumables.
const completedItemFloor = 3000

// skillLetters maps ability slots to their conventional letters.
var skillLetters = map[int]string{1: "Q", 2: "W", 3: "E", 4: "R"}

// Params tune the extraction boundary.
type Params struct {
	// RemakeFloorSec marks games shorter than this as remakes.
	RemakeFloorSec int
	// StartingWindowMS bounds the opening shop window for the first-buy key.
	StartingWindowMS int64
	// CoreSize is how many completed non-boot items form the core build key.
	CoreSize int
}

// DefaultParams returns the extraction defaults.
func DefaultParams() Params {
	return Params{
		RemakeFloorSec:   300,
		StartingWindowMS: 60_000,
		CoreSize:         3,
	}
}

// Extractor parses timelines into observations and kill events. Stateless
// and safe for concurrent use.
type Extractor struct {
	p Params
}

// NewExtractor returns an extractor with the given params.
func NewExtractor(p Params) *Extractor {
	return &Extractor{p: p}
}

// purchase is one surviving entry of a resolved purchase sequence.
type purchase struct {
	ItemID      int
	TimestampMS int64
}

// resolvePurchases replays one participant's item events in order: an UNDO
// cancels the most recent un-cancelled purchase of the rolled-back item, a
// SELL removes the most recent matching purchase. The returned sequence
// holds only purchases that actually stuck.
func resolvePurchases(events []model.TimelineEvent) []purchase {
	var resolved []purchase
	removeLast := func(itemID int) {
		for i := len(resolved) - 1; i >= 0; i-- {
			if resolved[i].ItemID == itemID {
				resolved = append(resolved[:i], resolved[i+1:]...)
				return
			}
		}
	}
	for _, ev := range events {
		switch ev.Type {
		case model.EventItemPurchased:
			resolved = append(resolved, purchase{ItemID: ev.ItemID, TimestampMS: ev.TimestampMS})
		case model.EventItemUndo:
			if ev.BeforeID != 0 {
				removeLast(ev.BeforeID)
			}
		case model.EventItemSold:
			removeLast(ev.ItemID)
		}
	}
	return resolved
}

// NormalizeItemKey folds boot variants to the sentinel when foldBoots is
// set, de-duplicates, sorts ascending and joins with underscores.
// Idempotent: normalizing an already-normalized key is a no-op.
func NormalizeItemKey(itemIDs []int, foldBoots bool) string {
	seen := make(map[int]bool, len(itemIDs))
	ids := make([]int, 0, len(itemIDs))
	for _, id := range itemIDs {
		if foldBoots && bootItems[id] {
			id = bootSentinel
		}
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, "_")
}

// coreBuildKey takes the first CoreSize non-boot completed purchases.
func (e *Extractor) coreBuildKey(purchases []purchase) string {
	var core []int
	for _, p := range purchases {
		if bootItems[p.ItemID] || p.ItemID < completedItemFloor {
			continue
		}
		core = append(core, p.ItemID)
		if len(core) == e.p.CoreSize {
			break
		}
	}
	if len(core) < e.p.CoreSize {
		return "" // build never completed; no core cohort for this game
	}
	return NormalizeItemKey(core, false)
}

// startingItemsKey normalizes the opening shop window purchases.
func (e *Extractor) startingItemsKey(purchases []purchase) string {
	var opening []int
	for _, p := range purchases {
		if p.TimestampMS > e.p.StartingWindowMS {
			break
		}
		opening = append(opening, p.ItemID)
	}
	return NormalizeItemKey(opening, true)
}

// skillOrderKey abbreviates the ability order as the sequence in which each
// basic ability received its first point, e.g. "QEW". The ultimate is
// skipped: its levels are fixed by level gates, not a choice.
func skillOrderKey(events []model.TimelineEvent) string {
	var order strings.Builder
	taken := make(map[int]bool, 3)
	for _, ev := range events {
		if ev.Type != model.EventSkillLevelUp || ev.SkillSlot == 4 {
			continue
		}
		if taken[ev.SkillSlot] {
			continue
		}
		letter, ok := skillLetters[ev.SkillSlot]
		if !ok {
			continue
		}
		taken[ev.SkillSlot] = true
		order.WriteString(letter)
		if len(taken) == 3 {
			break
		}
	}
	return order.String()
}

// spellPairKey normalizes the two summoner spells order-independently.
func spellPairKey(a, b int) string {
	if a == 0 || b == 0 {
		return ""
	}
	if a > b {
		a, b = b, a
	}
	return strconv.Itoa(a) + "_" + strconv.Itoa(b)
}

// NormalizePatch reduces a full game version ("14.10.588.2861") to its
// major.minor patch ("14.10").
func NormalizePatch(gameVersion string) string {
	parts := strings.SplitN(gameVersion, ".", 3)
	if len(parts) < 2 {
		return gameVersion
	}
	return parts[0] + "." + parts[1]
}

// goldAt returns the participant's un-spent gold at the frame closest at or
// before ts. Zero when the timeline carries no frame data for them.
func goldAt(tl *model.MatchTimeline, participantID int, ts int64) int {
	gold := 0
	for i := range tl.Frames {
		f := &tl.Frames[i]
		if f.TimestampMS > ts && i > 0 {
			break
		}
		if pf, ok := f.Participants[strconv.Itoa(participantID)]; ok {
			gold = pf.CurrentGold
		}
	}
	return gold
}

// Extract produces one MatchObservation per participant plus the match's
// kill events. tl may be nil when no timeline could be retrieved: the
// discrete and positional fields are then left empty and the corresponding
// sub-scores are later omitted rather than zeroed.
func (e *Extractor) Extract(detail *model.MatchDetail, tl *model.MatchTimeline) ([]model.MatchObservation, []model.KillEvent, error) {
	if detail == nil {
		return nil, nil, fmt.Errorf("nil match detail")
	}

	sides := make(map[int]model.Side, len(detail.Participants))
	for i := range detail.Participants {
		p := &detail.Participants[i]
		sides[p.ParticipantID] = p.Side()
	}

	// Group timeline events per participant, preserving frame order.
	itemEvents := make(map[int][]model.TimelineEvent)
	skillEvents := make(map[int][]model.TimelineEvent)
	var kills []model.KillEvent
	if tl != nil {
		for fi := range tl.Frames {
			for _, ev := range tl.Frames[fi].Events {
				switch ev.Type {
				case model.EventItemPurchased, model.EventItemSold, model.EventItemUndo:
					itemEvents[ev.ParticipantID] = append(itemEvents[ev.ParticipantID], ev)
				case model.EventSkillLevelUp:
					skillEvents[ev.ParticipantID] = append(skillEvents[ev.ParticipantID], ev)
				case model.EventChampionKill:
					if ev.Position == nil {
						continue
					}
					kills = append(kills, model.KillEvent{
						TimestampMS: ev.TimestampMS,
						KillerID:    ev.KillerID,
						VictimID:    ev.VictimID,
						Position:    *ev.Position,
						KillerGold:  goldAt(tl, ev.KillerID, ev.TimestampMS),
						VictimGold:  goldAt(tl, ev.VictimID, ev.TimestampMS),
						KillerSide:  sides[ev.KillerID],
						VictimSide:  sides[ev.VictimID],
					})
				}
			}
		}
	}

	patch := NormalizePatch(detail.GameVersion)
	minutes := float64(detail.DurationSec) / 60
	remake := detail.DurationSec < e.p.RemakeFloorSec

	observations := make([]model.MatchObservation, 0, len(detail.Participants))
	for i := range detail.Participants {
		p := &detail.Participants[i]

		obs := model.MatchObservation{
			MatchID:       detail.MatchID,
			ParticipantID: p.ParticipantID,
			PUUID:         p.PUUID,
			ChampionID:    p.ChampionID,
			Patch:         patch,
			Side:          p.Side(),
			Win:           p.Win,
			Remake:        remake,
			DurationSec:   detail.DurationSec,
			Kills:         p.Kills,
			Deaths:        p.Deaths,
			Assists:       p.Assists,
			SpellPair:     spellPairKey(p.Spell1ID, p.Spell2ID),
		}
		if p.KeystoneID > 0 {
			obs.Keystone = strconv.Itoa(p.KeystoneID)
		}

		if minutes > 0 {
			obs.DamagePerMin = float64(p.DamageToChampions) / minutes
			obs.TotalDamagePerMin = float64(p.TotalDamage) / minutes
			obs.HealShieldPerMin = float64(p.TotalHeal+p.TotalShield) / minutes
			obs.CCPerMin = float64(p.TimeCCingOthersSec) / minutes
			obs.DeathsPerMin = float64(p.Deaths) / minutes
		}
		if p.Deaths > 0 {
			obs.KDA = float64(p.Kills+p.Assists) / float64(p.Deaths)
		} else {
			obs.KDA = float64(p.Kills + p.Assists)
		}

		if events := itemEvents[p.ParticipantID]; len(events) > 0 {
			resolved := resolvePurchases(events)
			obs.ItemCore = e.coreBuildKey(resolved)
			obs.StartingItems = e.startingItemsKey(resolved)
		}
		obs.SkillOrder = skillOrderKey(skillEvents[p.ParticipantID])

		observations = append(observations, obs)
	}

	return observations, kills, nil
}
