package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/riftlab/riftgrade/internal/combat"
	"github.com/riftlab/riftgrade/internal/config"
	"github.com/riftlab/riftgrade/internal/model"
	"github.com/riftlab/riftgrade/internal/report"
	"github.com/riftlab/riftgrade/internal/riot"
	"github.com/riftlab/riftgrade/internal/scoring"
	"github.com/riftlab/riftgrade/internal/storage"
	"github.com/riftlab/riftgrade/internal/timeline"
)

var scoreParticipant int

var scoreCmd = &cobra.Command{
	Use:   "score <matchID>",
	Short: "Score one participant of a match against their cohort",
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().IntVar(&scoreParticipant, "participant", 1, "participant slot to score (1-10)")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	breakdown, err := buildBreakdown(cmd.Context(), cfg, db, args[0], scoreParticipant)
	if err != nil {
		return err
	}
	report.PrintScoreBreakdown(os.Stdout, breakdown)
	return nil
}

// buildBreakdown produces the full score breakdown for one participant.
// The observation and kill events come from the API when a key is
// configured; otherwise the stored observation is scored without the
// event-quality categories.
func buildBreakdown(ctx context.Context, cfg *config.Config, db *storage.DB, matchID string, participant int) (*model.ScoreBreakdown, error) {
	obs, kills, err := obtainObservation(ctx, cfg, db, matchID, participant)
	if err != nil {
		return nil, err
	}
	if obs.Remake {
		return nil, fmt.Errorf("match %s is a remake and is not scored", matchID)
	}

	baseKey := model.CohortKey{ChampionID: obs.ChampionID, Patch: obs.Patch}
	base, err := db.GetCohort(baseKey)
	if err != nil {
		return nil, fmt.Errorf("read cohort: %w", err)
	}
	cohort, usedCore := base, false
	if obs.ItemCore != "" {
		subKey := baseKey
		subKey.CoreBuild = obs.ItemCore
		sub, err := db.GetCohort(subKey)
		if err != nil {
			return nil, fmt.Errorf("read sub-cohort: %w", err)
		}
		cohort, usedCore = scoring.ResolveCohort(sub, base, subKey, cfg.Scoring.MinSubCohortGames)
	}

	var quality *model.CombatQuality
	if len(kills) > 0 {
		analyzer := combat.NewAnalyzer(cfg.CombatParams())
		quality = analyzer.Analyze(obs.ParticipantID, obs.Side, kills)
	}

	scorer := scoring.NewScorer(cfg.ComparatorParams(), cfg.RankerParams(), cfg.Weights())
	return scorer.Score(obs, cohort, quality, usedCore), nil
}

func obtainObservation(ctx context.Context, cfg *config.Config, db *storage.DB, matchID string, participant int) (*model.MatchObservation, []model.KillEvent, error) {
	if cfg.Riot.APIKey != "" {
		client := riot.NewClient(cfg.Riot.BaseURL, cfg.Riot.APIKey, time.Duration(cfg.Riot.TimeoutSec)*time.Second)
		detail, err := client.GetMatch(ctx, matchID)
		if err == nil {
			tl, tlErr := client.GetTimeline(ctx, matchID)
			if tlErr != nil {
				tl = nil
			}
			obs, kills, err := timeline.NewExtractor(cfg.ExtractorParams()).Extract(detail, tl)
			if err != nil {
				return nil, nil, fmt.Errorf("extract: %w", err)
			}
			for i := range obs {
				if obs[i].ParticipantID == participant {
					return &obs[i], kills, nil
				}
			}
			return nil, nil, fmt.Errorf("no participant %d in match %s", participant, matchID)
		}
	}

	obs, err := db.GetObservation(matchID, participant)
	if err != nil {
		return nil, nil, fmt.Errorf("read observation: %w", err)
	}
	if obs == nil {
		return nil, nil, fmt.Errorf("match %s participant %d not found: ingest it first or set an API key", matchID, participant)
	}
	return obs, nil, nil
}
