package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/riftlab/riftgrade/internal/model"
	"github.com/riftlab/riftgrade/internal/report"
	"github.com/riftlab/riftgrade/internal/storage"
)

var (
	cohortsPatch string
	cohortsBuild string
)

var cohortsCmd = &cobra.Command{
	Use:   "cohorts [championID]",
	Short: "List stored cohorts, or show one champion's aggregate",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCohorts,
}

func init() {
	cohortsCmd.Flags().StringVar(&cohortsPatch, "patch", "", "patch of the cohort to show (required with a champion ID)")
	cohortsCmd.Flags().StringVar(&cohortsBuild, "build", "", "core-build key to narrow to a sub-cohort")
}

func runCohorts(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if len(args) == 1 {
		championID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid champion ID %q: %w", args[0], err)
		}
		if cohortsPatch == "" {
			return fmt.Errorf("--patch is required when showing a single cohort")
		}
		return showCohort(db, model.CohortKey{ChampionID: championID, Patch: cohortsPatch, CoreBuild: cohortsBuild})
	}

	cohorts, err := db.ListCohorts()
	if err != nil {
		return fmt.Errorf("list cohorts: %w", err)
	}
	if len(cohorts) == 0 {
		fmt.Fprintln(os.Stdout, "No cohorts stored yet. Run ingest or seed first.")
		return nil
	}
	report.PrintCohorts(os.Stdout, cohorts)
	return nil
}

func showCohort(db *storage.DB, key model.CohortKey) error {
	snap, err := db.GetCohort(key)
	if err != nil {
		return fmt.Errorf("read cohort: %w", err)
	}
	if snap.Empty() {
		return fmt.Errorf("no data for champion %d on patch %s", key.ChampionID, key.Patch)
	}
	report.PrintCohortDetail(os.Stdout, snap)
	return nil
}
