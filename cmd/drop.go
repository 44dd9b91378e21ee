package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riftlab/riftgrade/internal/storage"
)

var dropCmd = &cobra.Command{
	Use:   "drop <matchID>",
	Short: "Remove a stored match and its observations",
	Long: "Remove a match's rows. Cohort aggregates keep what they already absorbed;\n" +
		"they hold running moments, not the raw samples needed to subtract a game.",
	Args: cobra.ExactArgs(1),
	RunE: runDrop,
}

func runDrop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	exists, err := db.MatchExists(args[0])
	if err != nil {
		return fmt.Errorf("check match: %w", err)
	}
	if !exists {
		return fmt.Errorf("match %s is not stored", args[0])
	}
	if err := db.DropMatch(args[0]); err != nil {
		return fmt.Errorf("drop match: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Dropped %s.\n", args[0])
	return nil
}
