package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/riftlab/riftgrade/internal/model"
	"github.com/riftlab/riftgrade/internal/report"
	"github.com/riftlab/riftgrade/internal/riot"
	"github.com/riftlab/riftgrade/internal/scoring"
	"github.com/riftlab/riftgrade/internal/storage"
)

var (
	bestPatch    string
	bestCategory string
)

var bestCmd = &cobra.Command{
	Use:   "best <championID>",
	Short: "Show the best-performing options for a champion's cohort",
	Long: "Rank a category's options by the 95% Wilson lower bound of their true\n" +
		"win probability, so a handful of lucky games cannot outrank a proven choice.",
	Args: cobra.ExactArgs(1),
	RunE: runBest,
}

func init() {
	bestCmd.Flags().StringVar(&bestPatch, "patch", "", "patch to query (default: current patch)")
	bestCmd.Flags().StringVar(&bestCategory, "category", model.CategoryItemCore,
		"category to rank: item_core, keystone, spell_pair, skill_order, starting_items")
}

func runBest(cmd *cobra.Command, args []string) error {
	championID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid champion ID %q: %w", args[0], err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	patch := bestPatch
	if patch == "" {
		cache := riot.NewPatchCache(time.Duration(cfg.Riot.PatchTTLSec) * time.Second)
		patch, err = cache.Current(cmd.Context())
		if err != nil {
			return fmt.Errorf("resolve current patch (or pass --patch): %w", err)
		}
	}

	cohort, err := db.GetCohort(model.CohortKey{ChampionID: championID, Patch: patch})
	if err != nil {
		return fmt.Errorf("read cohort: %w", err)
	}
	if cohort.Empty() {
		return fmt.Errorf("no data for champion %d on patch %s", championID, patch)
	}

	ranker := scoring.NewRanker(cfg.RankerParams())
	options := ranker.BestChoices(cohort.Choice(bestCategory))

	fmt.Fprintf(os.Stdout, "Champion %d, patch %s: %d games\n", championID, patch, cohort.Games)
	report.PrintBestChoices(os.Stdout, bestCategory, options)
	return nil
}
