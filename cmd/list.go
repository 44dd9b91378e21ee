package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riftlab/riftgrade/internal/report"
	"github.com/riftlab/riftgrade/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored matches",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	matches, err := db.ListMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet.")
		return nil
	}
	report.PrintMatchList(os.Stdout, matches)
	return nil
}
