package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riftlab/riftgrade/internal/model"
	"github.com/riftlab/riftgrade/internal/simulate"
	"github.com/riftlab/riftgrade/internal/stats"
	"github.com/riftlab/riftgrade/internal/storage"
	"github.com/riftlab/riftgrade/internal/timeline"
)

var (
	seedMatches int
	seedSeed    int64
	seedPatch   string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate synthetic matches to seed cohorts for development",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedMatches, "matches", 100, "number of matches to generate")
	seedCmd.Flags().Int64Var(&seedSeed, "seed", 1, "random seed")
	seedCmd.Flags().StringVar(&seedPatch, "patch", "14.10", "patch the generated matches belong to")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	gen := simulate.New(seedSeed, seedPatch)
	extractor := timeline.NewExtractor(cfg.ExtractorParams())
	buffer := stats.NewBuffer(stats.WithLogger(log), stats.WithSubCohorts(cfg.Ingest.SubCohorts))

	for i := 0; i < seedMatches; i++ {
		detail, tl := gen.Match()
		obs, _, err := extractor.Extract(detail, tl)
		if err != nil {
			return fmt.Errorf("extract generated match: %w", err)
		}

		summary := model.MatchSummary{
			MatchID:      detail.MatchID,
			Patch:        seedPatch,
			QueueID:      detail.QueueID,
			DurationSec:  detail.DurationSec,
			GameVersion:  detail.GameVersion,
			Participants: len(detail.Participants),
		}
		if err := db.InsertMatch(summary); err != nil {
			return fmt.Errorf("insert match: %w", err)
		}
		if err := db.InsertObservations(obs); err != nil {
			return fmt.Errorf("insert observations: %w", err)
		}
		for j := range obs {
			buffer.Add(&obs[j])
		}
	}

	if _, err := buffer.Flush(cmd.Context(), db); err != nil {
		return fmt.Errorf("flush cohorts: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Seeded %d synthetic matches on patch %s into %s.\n", seedMatches, seedPatch, cfg.DBPath)
	return nil
}
