package model

// Side represents which half of the map a participant plays from.
type Side int

const (
	SideUnknown Side = 0
	SideBlue    Side = 100
	SideRed     Side = 200
)

func (s Side) String() string {
	switch s {
	case SideBlue:
		return "BLUE"
	case SideRed:
		return "RED"
	default:
		return "?"
	}
}

// Continuous metric names. These are the keys under which cohort Welford
// states are accumulated and persisted.
const (
	MetricDamagePerMin      = "damage_per_min"
	MetricTotalDamagePerMin = "total_damage_per_min"
	MetricHealShieldPerMin  = "heal_shield_per_min"
	MetricCCPerMin          = "cc_per_min"
	MetricDeathsPerMin      = "deaths_per_min"
	MetricKDA               = "kda"
)

// AllMetrics lists every continuous metric in display order.
var AllMetrics = []string{
	MetricDamagePerMin,
	MetricTotalDamagePerMin,
	MetricHealShieldPerMin,
	MetricCCPerMin,
	MetricDeathsPerMin,
	MetricKDA,
}

// Discrete choice categories.
const (
	CategoryItemCore      = "item_core"
	CategoryKeystone      = "keystone"
	CategorySpellPair     = "spell_pair"
	CategorySkillOrder    = "skill_order"
	CategoryStartingItems = "starting_items"
)

// Composer categories for the event-quality aggregates.
const (
	CategoryDeathQuality = "death_quality"
	CategoryKillQuality  = "kill_quality"
)

// AllCategories lists every discrete category in display order.
var AllCategories = []string{
	CategoryItemCore,
	CategoryKeystone,
	CategorySpellPair,
	CategorySkillOrder,
	CategoryStartingItems,
}

// CohortKey identifies the historical population a participant is compared
// against: one champion on one patch, optionally narrowed to a core build.
type CohortKey struct {
	ChampionID int
	Patch      string
	CoreBuild  string // empty for the base (champion, patch) cohort
}

// Base returns the key with the core-build narrowing removed.
func (k CohortKey) Base() CohortKey {
	k.CoreBuild = ""
	return k
}

// MatchObservation is one participant's extracted stats for one match.
// Immutable once extracted: it feeds the cohort aggregator as an update and
// the comparator as the value being scored.
type MatchObservation struct {
	MatchID       string
	ParticipantID int
	PUUID         string
	ChampionID    int
	Patch         string
	Side          Side
	Win           bool
	Remake        bool
	DurationSec   int

	Kills   int
	Deaths  int
	Assists int

	// Per-minute rates. Zero when the game duration is zero.
	DamagePerMin      float64
	TotalDamagePerMin float64
	HealShieldPerMin  float64
	CCPerMin          float64
	DeathsPerMin      float64
	KDA               float64

	// Normalized discrete choice keys; empty when the timeline carried no
	// usable data for the category.
	ItemCore      string
	StartingItems string
	Keystone      string
	SpellPair     string
	SkillOrder    string
}

// Metric returns the observation's value for a continuous metric name.
func (o *MatchObservation) Metric(name string) (float64, bool) {
	switch name {
	case MetricDamagePerMin:
		return o.DamagePerMin, true
	case MetricTotalDamagePerMin:
		return o.TotalDamagePerMin, true
	case MetricHealShieldPerMin:
		return o.HealShieldPerMin, true
	case MetricCCPerMin:
		return o.CCPerMin, true
	case MetricDeathsPerMin:
		return o.DeathsPerMin, true
	case MetricKDA:
		return o.KDA, true
	}
	return 0, false
}

// Choice returns the observation's normalized key for a discrete category.
func (o *MatchObservation) Choice(category string) string {
	switch category {
	case CategoryItemCore:
		return o.ItemCore
	case CategoryKeystone:
		return o.Keystone
	case CategorySpellPair:
		return o.SpellPair
	case CategorySkillOrder:
		return o.SkillOrder
	case CategoryStartingItems:
		return o.StartingItems
	}
	return ""
}

// ComparisonResult is the outcome of scoring one continuous metric against
// its cohort distribution. Derived per request, never persisted.
type ComparisonResult struct {
	Metric       string
	PlayerValue  float64
	CohortMean   float64
	CohortStdDev float64
	ZScore       float64
	SampleSize   uint64
	Fallback     bool // heuristic stddev was used (cohort below reliability floor)
	IsOutlier    bool
	Score        float64
}

// BuildChoiceResult is the outcome of ranking one discrete choice among the
// cohort's competing options. Derived per request, never persisted.
type BuildChoiceResult struct {
	Category      string
	PlayerChoice  string
	PlayerWinRate float64
	PlayerGames   int
	TopChoice     string
	TopWinRate    float64
	Rank          int
	TotalOptions  int
	IsTopTier     bool
	Unseen        bool
	Score         float64
	Confidence    float64
}

// CombatQuality holds the kill/death event-quality aggregates for one
// participant in one match.
type CombatQuality struct {
	KillScore       float64
	DeathScore      float64
	Kills           int
	Deaths          int
	TeamfightKills  int
	TeamfightDeaths int
}

// ScoreEntry is one line of the final breakdown: a sub-score, its weight and
// the penalty it contributed to the composite.
type ScoreEntry struct {
	Category    string
	Label       string
	Score       float64
	Weight      float64
	Penalty     float64
	PlayerValue float64
	CohortAvg   float64
	PctOfAvg    float64 // 0 when the cohort average is not meaningful
}

// ScoreBreakdown is the unit returned to callers: the composite match
// quality score plus every sub-score that produced it.
type ScoreBreakdown struct {
	MatchID       string
	ParticipantID int
	ChampionID    int
	Patch         string
	CohortGames   uint64
	UsedCoreBuild bool // scored against a (champion, patch, core build) sub-cohort

	Score   float64 // 0-100, rounded to one decimal
	Entries []ScoreEntry

	Comparisons []ComparisonResult
	Builds      []BuildChoiceResult
	Combat      *CombatQuality // nil when the timeline carried no kill events
}

// MatchSummary is a lightweight record for list/show commands.
type MatchSummary struct {
	MatchID      string
	Patch        string
	QueueID      int
	DurationSec  int
	GameVersion  string
	Participants int
	Remake       bool
}
