// Package config carries the tuned constants and process settings, loadable
// from a YAML file and RIFTGRADE_-prefixed environment variables.
package config

import (
	"github.com/riftlab/riftgrade/internal/combat"
	"github.com/riftlab/riftgrade/internal/scoring"
	"github.com/riftlab/riftgrade/internal/timeline"
)

// Config is the full process configuration. Zero values are never used
// directly; Load layers file and env over Default().
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DBPath is the SQLite database file.
	DBPath string `koanf:"db_path"`

	Riot    RiotConfig    `koanf:"riot"`
	Ingest  IngestConfig  `koanf:"ingest"`
	Scoring ScoringConfig `koanf:"scoring"`
	Combat  CombatConfig  `koanf:"combat"`
	Extract ExtractConfig `koanf:"extract"`
}

// RiotConfig configures the match-data API client.
type RiotConfig struct {
	// BaseURL is the regional routing host.
	BaseURL string `koanf:"base_url"`
	// APIKey authenticates requests. Usually set via RIFTGRADE_RIOT_API_KEY.
	APIKey string `koanf:"api_key"`
	// TimeoutSec bounds each request.
	TimeoutSec int `koanf:"timeout_sec"`
	// PatchTTLSec bounds how long a fetched current-patch value is reused.
	PatchTTLSec int `koanf:"patch_ttl_sec"`
}

// IngestConfig tunes the buffered ingest path.
type IngestConfig struct {
	// FlushEvery flushes the cohort buffer after this many matches.
	FlushEvery int `koanf:"flush_every"`
	// MetricsAddr exposes Prometheus metrics when non-empty, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`
	// SubCohorts also accumulates narrowed (champion, patch, core build) cohorts.
	SubCohorts bool `koanf:"sub_cohorts"`
}

// ScoringConfig carries the scoring constants. Score values are
// product-visible, so overrides are for experiments, not routine tuning.
type ScoringConfig struct {
	MinReliableSamples  uint64  `koanf:"min_reliable_samples"`
	FallbackStdDevRatio float64 `koanf:"fallback_stddev_ratio"`
	ZSlope              float64 `koanf:"z_slope"`
	OutlierZ            float64 `koanf:"outlier_z"`

	MinChoiceGames      int     `koanf:"min_choice_games"`
	FullConfidenceGames int     `koanf:"full_confidence_games"`
	DecayConstant       float64 `koanf:"decay_constant"`

	// MinSubCohortGames is the floor for scoring against a build-narrowed
	// sub-cohort instead of the base cohort.
	MinSubCohortGames uint64 `koanf:"min_sub_cohort_games"`

	// Weights overrides individual category weights; unset categories keep
	// their defaults.
	Weights map[string]float64 `koanf:"weights"`
}

// CombatConfig tunes the kill/death event grading. Map geometry and the
// per-event grading increments keep their compiled-in defaults.
type CombatConfig struct {
	// TeamfightWindowMS and TeamfightRadius bound how close in time and
	// space other kills must be for an event to count as a group engagement.
	TeamfightWindowMS int64   `koanf:"teamfight_window_ms"`
	TeamfightRadius   float64 `koanf:"teamfight_radius"`
	MinNearbyKills    int     `koanf:"min_nearby_kills"`
}

// ExtractConfig tunes the timeline extraction boundary.
type ExtractConfig struct {
	// RemakeFloorSec marks games shorter than this as remakes.
	RemakeFloorSec int `koanf:"remake_floor_sec"`
	// StartingWindowMS bounds the opening shop window for the first-buy key.
	StartingWindowMS int64 `koanf:"starting_window_ms"`
}

// Default returns the configuration defaults.
func Default() *Config {
	cp := scoring.DefaultComparatorParams()
	rp := scoring.DefaultRankerParams()
	cb := combat.DefaultParams()
	ex := timeline.DefaultParams()
	return &Config{
		LogLevel: "info",
		DBPath:   "riftgrade.db",
		Riot: RiotConfig{
			BaseURL:     "https://americas.api.riotgames.com",
			TimeoutSec:  10,
			PatchTTLSec: 3600,
		},
		Ingest: IngestConfig{
			FlushEvery:  50,
			SubCohorts:  true,
			MetricsAddr: "",
		},
		Scoring: ScoringConfig{
			MinReliableSamples:  cp.MinReliableSamples,
			FallbackStdDevRatio: cp.FallbackStdDevRatio,
			ZSlope:              cp.ZSlope,
			OutlierZ:            cp.OutlierZ,
			MinChoiceGames:      rp.MinGames,
			FullConfidenceGames: rp.FullConfidenceGames,
			DecayConstant:       rp.DecayConstant,
			MinSubCohortGames:   50,
		},
		Combat: CombatConfig{
			TeamfightWindowMS: cb.TeamfightWindowMS,
			TeamfightRadius:   cb.TeamfightRadius,
			MinNearbyKills:    cb.MinNearbyKills,
		},
		Extract: ExtractConfig{
			RemakeFloorSec:   ex.RemakeFloorSec,
			StartingWindowMS: ex.StartingWindowMS,
		},
	}
}

// ComparatorParams maps the config onto the comparator's constants.
func (c *Config) ComparatorParams() scoring.ComparatorParams {
	p := scoring.DefaultComparatorParams()
	p.MinReliableSamples = c.Scoring.MinReliableSamples
	p.FallbackStdDevRatio = c.Scoring.FallbackStdDevRatio
	p.ZSlope = c.Scoring.ZSlope
	p.OutlierZ = c.Scoring.OutlierZ
	return p
}

// RankerParams maps the config onto the build ranker's constants.
func (c *Config) RankerParams() scoring.RankerParams {
	p := scoring.DefaultRankerParams()
	p.MinGames = c.Scoring.MinChoiceGames
	p.FullConfidenceGames = c.Scoring.FullConfidenceGames
	p.DecayConstant = c.Scoring.DecayConstant
	return p
}

// CombatParams maps the config onto the event-quality grading constants.
func (c *Config) CombatParams() combat.Params {
	p := combat.DefaultParams()
	p.TeamfightWindowMS = c.Combat.TeamfightWindowMS
	p.TeamfightRadius = c.Combat.TeamfightRadius
	p.MinNearbyKills = c.Combat.MinNearbyKills
	return p
}

// ExtractorParams maps the config onto the timeline extraction constants.
func (c *Config) ExtractorParams() timeline.Params {
	p := timeline.DefaultParams()
	p.RemakeFloorSec = c.Extract.RemakeFloorSec
	p.StartingWindowMS = c.Extract.StartingWindowMS
	return p
}

// Weights merges configured weight overrides over the defaults.
func (c *Config) Weights() map[string]float64 {
	w := scoring.DefaultWeights()
	for category, weight := range c.Scoring.Weights {
		w[category] = weight
	}
	return w
}
