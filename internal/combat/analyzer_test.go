package combat

import (
	"testing"

	"github.com/riftlab/riftgrade/internal/model"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(DefaultParams())
}

func TestPositionScoreOrientation(t *testing.T) {
	a := newTestAnalyzer()
	p := DefaultParams()

	// At one's own base the score is 0; at the enemy base it is 1.
	if got := a.PositionScore(p.BlueBase, model.SideBlue); got > 0.01 {
		t.Errorf("blue player at blue base: got %v, want ~0", got)
	}
	if got := a.PositionScore(p.RedBase, model.SideBlue); got < 0.99 {
		t.Errorf("blue player at red base: got %v, want ~1", got)
	}
	if got := a.PositionScore(p.BlueBase, model.SideRed); got < 0.99 {
		t.Errorf("red player at blue base: got %v, want ~1", got)
	}

	// Mid-map projects to roughly 0.5 for both sides.
	mid := model.Position{
		X: (p.BlueBase.X + p.RedBase.X) / 2,
		Y: (p.BlueBase.Y + p.RedBase.Y) / 2,
	}
	for _, side := range []model.Side{model.SideBlue, model.SideRed} {
		if got := a.PositionScore(mid, side); got < 0.45 || got > 0.55 {
			t.Errorf("%v at mid: got %v, want ~0.5", side, got)
		}
	}
}

func TestPositionScoreClamped(t *testing.T) {
	a := newTestAnalyzer()
	beyond := model.Position{X: 20000, Y: 20000}
	if got := a.PositionScore(beyond, model.SideBlue); got != 1 {
		t.Errorf("projection past the diagonal end must clamp to 1, got %v", got)
	}
	behind := model.Position{X: -2000, Y: -2000}
	if got := a.PositionScore(behind, model.SideBlue); got != 0 {
		t.Errorf("projection before the diagonal start must clamp to 0, got %v", got)
	}
}

// cluster builds n kill events packed inside the teamfight window and radius
// around (x, y, ts).
func cluster(n int, x, y float64, ts int64, victimStart int) []model.KillEvent {
	events := make([]model.KillEvent, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, model.KillEvent{
			TimestampMS: ts + int64(i)*1500,
			KillerID:    1,
			VictimID:    victimStart + i,
			Position:    model.Position{X: x + float64(i)*100, Y: y},
		})
	}
	return events
}

func TestTeamfightClassification(t *testing.T) {
	a := newTestAnalyzer()

	// Four deaths in one spot within the window: each sees 3 others nearby.
	events := cluster(4, 7000, 7000, 60_000, 6)
	if !a.IsTeamfight(events[0], events) {
		t.Error("4-way cluster must classify as teamfight")
	}

	// Two deaths only: not a group engagement.
	pair := cluster(2, 7000, 7000, 60_000, 6)
	if a.IsTeamfight(pair[0], pair) {
		t.Error("2-way cluster must not classify as teamfight")
	}

	// Four deaths but far apart spatially.
	spread := cluster(4, 7000, 7000, 60_000, 6)
	for i := range spread {
		spread[i].Position.X = float64(i) * 5000
	}
	if a.IsTeamfight(spread[0], spread) {
		t.Error("spatially spread deaths must not classify as teamfight")
	}
}

// TestRichSoloDeathWorseThanTeamfightDeath: a death carrying the same gold
// is penalized more near one's own base with nobody around than deep in
// enemy territory inside a 4-way cluster.
func TestRichSoloDeathWorseThanTeamfightDeath(t *testing.T) {
	a := newTestAnalyzer()
	p := DefaultParams()
	const victim = 5
	const gold = 2500

	// Position score ~0.1 for blue side: close to blue base on the diagonal.
	nearOwn := model.Position{
		X: p.BlueBase.X + (p.RedBase.X-p.BlueBase.X)*0.1,
		Y: p.BlueBase.Y + (p.RedBase.Y-p.BlueBase.Y)*0.1,
	}
	deep := model.Position{
		X: p.BlueBase.X + (p.RedBase.X-p.BlueBase.X)*0.9,
		Y: p.BlueBase.Y + (p.RedBase.Y-p.BlueBase.Y)*0.9,
	}

	solo := model.KillEvent{TimestampMS: 60_000, KillerID: 9, VictimID: victim, VictimGold: gold, Position: nearOwn}
	soloPenalty, soloTF := a.DeathPenalty(solo, []model.KillEvent{solo}, model.SideBlue)
	if soloTF {
		t.Fatal("lone death must not classify as teamfight")
	}

	clustered := model.KillEvent{TimestampMS: 60_000, KillerID: 9, VictimID: victim, VictimGold: gold, Position: deep}
	around := cluster(3, deep.X, deep.Y, 60_500, 20)
	tfPenalty, tf := a.DeathPenalty(clustered, append(around, clustered), model.SideBlue)
	if !tf {
		t.Fatal("clustered death must classify as teamfight")
	}

	if soloPenalty <= tfPenalty {
		t.Errorf("solo rich death near own base (%v) must be penalized more than clustered deep death (%v)",
			soloPenalty, tfPenalty)
	}
}

func TestDeathPenaltyFloor(t *testing.T) {
	a := newTestAnalyzer()
	p := DefaultParams()

	// Poor death, teamfight, deep: rebates would push below the floor.
	deep := model.Position{
		X: p.BlueBase.X + (p.RedBase.X-p.BlueBase.X)*0.9,
		Y: p.BlueBase.Y + (p.RedBase.Y-p.BlueBase.Y)*0.9,
	}
	ev := model.KillEvent{TimestampMS: 60_000, KillerID: 9, VictimID: 5, VictimGold: 0, Position: deep}
	all := append(cluster(3, deep.X, deep.Y, 60_500, 20), ev)
	penalty, _ := a.DeathPenalty(ev, all, model.SideBlue)
	if penalty != p.DeathMinPenalty {
		t.Errorf("penalty must floor at %v, got %v", p.DeathMinPenalty, penalty)
	}
}

func TestKillValueBonuses(t *testing.T) {
	a := newTestAnalyzer()
	p := DefaultParams()

	ownSide := model.Position{
		X: p.BlueBase.X + (p.RedBase.X-p.BlueBase.X)*0.2,
		Y: p.BlueBase.Y + (p.RedBase.Y-p.BlueBase.Y)*0.2,
	}
	enemySide := model.Position{
		X: p.BlueBase.X + (p.RedBase.X-p.BlueBase.X)*0.8,
		Y: p.BlueBase.Y + (p.RedBase.Y-p.BlueBase.Y)*0.8,
	}

	poorFar := a.KillValue(model.KillEvent{VictimGold: 0, Position: enemySide}, model.SideBlue)
	richFar := a.KillValue(model.KillEvent{VictimGold: 2000, Position: enemySide}, model.SideBlue)
	poorOwn := a.KillValue(model.KillEvent{VictimGold: 0, Position: ownSide}, model.SideBlue)

	if richFar <= poorFar {
		t.Errorf("rich-victim kill (%v) must outvalue poor-victim kill (%v)", richFar, poorFar)
	}
	if poorOwn <= poorFar {
		t.Errorf("own-side kill (%v) must carry a defensive bonus over enemy-side kill (%v)", poorOwn, poorFar)
	}
	// Denial bonus is capped.
	capped := a.KillValue(model.KillEvent{VictimGold: 100_000, Position: enemySide}, model.SideBlue)
	if capped != p.KillBaseValue+p.KillGoldCap {
		t.Errorf("denial bonus must cap at %v, got total %v", p.KillGoldCap, capped)
	}
}

func TestAnalyzeAggregates(t *testing.T) {
	a := newTestAnalyzer()
	const me = 3

	events := []model.KillEvent{
		{TimestampMS: 60_000, KillerID: me, VictimID: 8, VictimGold: 600, Position: model.Position{X: 7000, Y: 7000}},
		{TimestampMS: 200_000, KillerID: 9, VictimID: me, VictimGold: 1500, Position: model.Position{X: 4000, Y: 4000}},
		{TimestampMS: 500_000, KillerID: 9, VictimID: me, VictimGold: 100, Position: model.Position{X: 10_000, Y: 10_000}},
	}

	q := a.Analyze(me, model.SideBlue, events)
	if q == nil {
		t.Fatal("expected quality aggregates")
	}
	if q.Kills != 1 || q.Deaths != 2 {
		t.Fatalf("kills/deaths: got %d/%d, want 1/2", q.Kills, q.Deaths)
	}
	if q.KillScore <= 50 {
		t.Errorf("kill aggregate must rise from the neutral midpoint, got %v", q.KillScore)
	}
	if q.DeathScore >= 100 {
		t.Errorf("death aggregate must drop from the ceiling, got %v", q.DeathScore)
	}
	if q.DeathScore < 0 || q.KillScore > 100 {
		t.Errorf("aggregates must stay within [0,100]: kill=%v death=%v", q.KillScore, q.DeathScore)
	}
}

func TestAnalyzeNoEvents(t *testing.T) {
	a := newTestAnalyzer()
	if q := a.Analyze(1, model.SideBlue, nil); q != nil {
		t.Errorf("no kill events must yield nil, got %+v", q)
	}
}
