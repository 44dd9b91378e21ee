package model

// ---- Raw match input consumed by the extractor ----
//
// The shapes mirror what the match-data API returns: a match detail record
// with end-of-game participant totals, plus a timeline of frames carrying
// timestamped events and per-participant economy snapshots.

// Timeline event kinds. Any other kind is ignored by the extractor.
const (
	EventItemPurchased = "ITEM_PURCHASED"
	EventItemSold      = "ITEM_SOLD"
	EventItemUndo      = "ITEM_UNDO"
	EventSkillLevelUp  = "SKILL_LEVEL_UP"
	EventChampionKill  = "CHAMPION_KILL"
)

// Position is a 2D world-space map coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TimelineEvent is one timestamped event inside a frame. Fields are populated
// per event kind; unused fields are zero.
type TimelineEvent struct {
	Type          string    `json:"type"`
	TimestampMS   int64     `json:"timestamp"`
	ParticipantID int       `json:"participantId,omitempty"`

	// Item events.
	ItemID   int `json:"itemId,omitempty"`
	BeforeID int `json:"beforeId,omitempty"` // ITEM_UNDO: the purchase being rolled back
	AfterID  int `json:"afterId,omitempty"`

	// Skill events.
	SkillSlot   int    `json:"skillSlot,omitempty"` // 1..3 basic abilities, 4 ultimate
	LevelUpType string `json:"levelUpType,omitempty"`

	// Kill events.
	KillerID       int       `json:"killerId,omitempty"`
	VictimID       int       `json:"victimId,omitempty"`
	Bounty         int       `json:"bounty,omitempty"`
	ShutdownBounty int       `json:"shutdownBounty,omitempty"`
	Position       *Position `json:"position,omitempty"`
}

// ParticipantFrame is one participant's economy snapshot at a frame boundary.
type ParticipantFrame struct {
	ParticipantID int      `json:"participantId"`
	CurrentGold   int      `json:"currentGold"`
	TotalGold     int      `json:"totalGold"`
	Level         int      `json:"level"`
	Position      Position `json:"position"`
}

// Frame is one timeline frame: a timestamp, the events since the previous
// frame and a snapshot per participant.
type Frame struct {
	TimestampMS  int64                     `json:"timestamp"`
	Events       []TimelineEvent           `json:"events"`
	Participants map[string]ParticipantFrame `json:"participantFrames"`
}

// MatchTimeline is the ordered sequence of frames for one match.
type MatchTimeline struct {
	MatchID         string  `json:"matchId"`
	FrameIntervalMS int64   `json:"frameInterval"`
	Frames          []Frame `json:"frames"`
}

// ParticipantDetail carries the end-of-game totals the timeline does not:
// final KDA, damage/healing/CC totals and the rune/spell selections.
type ParticipantDetail struct {
	ParticipantID int    `json:"participantId"`
	PUUID         string `json:"puuid"`
	ChampionID    int    `json:"championId"`
	ChampionName  string `json:"championName"`
	TeamID        int    `json:"teamId"`
	Win           bool   `json:"win"`

	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`

	DamageToChampions    int `json:"totalDamageDealtToChampions"`
	TotalDamage          int `json:"totalDamageDealt"`
	TotalHeal            int `json:"totalHealsOnTeammates"`
	TotalShield          int `json:"totalDamageShieldedOnTeammates"`
	SelfHeal             int `json:"totalHeal"`
	TimeCCingOthersSec   int `json:"timeCCingOthers"`

	Spell1ID   int `json:"summoner1Id"`
	Spell2ID   int `json:"summoner2Id"`
	KeystoneID int `json:"keystoneId"`
}

// MatchDetail is the end-of-game record for one match.
type MatchDetail struct {
	MatchID      string              `json:"matchId"`
	GameVersion  string              `json:"gameVersion"`
	QueueID      int                 `json:"queueId"`
	DurationSec  int                 `json:"gameDuration"`
	Participants []ParticipantDetail `json:"participants"`
}

// Side returns which half of the map the participant played from.
func (p *ParticipantDetail) Side() Side {
	switch p.TeamID {
	case int(SideBlue):
		return SideBlue
	case int(SideRed):
		return SideRed
	default:
		return SideUnknown
	}
}

// KillEvent is one champion-kill event with the context the quality analyzer
// needs: position, economy at the moment, and the participants involved.
// Produced once per match by the extractor, consumed once by the analyzer,
// then discarded.
type KillEvent struct {
	TimestampMS int64
	KillerID    int
	VictimID    int
	Position    Position
	KillerGold  int // killer's un-spent gold at the nearest frame
	VictimGold  int // victim's un-spent gold at the nearest frame
	KillerSide  Side
	VictimSide  Side
}
