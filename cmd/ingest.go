package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/riftlab/riftgrade/internal/metrics"
	"github.com/riftlab/riftgrade/internal/model"
	"github.com/riftlab/riftgrade/internal/riot"
	"github.com/riftlab/riftgrade/internal/stats"
	"github.com/riftlab/riftgrade/internal/storage"
	"github.com/riftlab/riftgrade/internal/timeline"
)

var (
	ingestPUUID       string
	ingestCount       int
	ingestFlushEvery  int
	ingestMetricsAddr string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [matchID...]",
	Short: "Fetch matches and fold them into the cohort aggregates",
	Long: "Fetch the given match IDs (or a player's recent ranked history with --puuid),\n" +
		"extract per-participant observations and fold them into the stored cohorts.",
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestPUUID, "puuid", "", "ingest a player's recent ranked matches instead of explicit IDs")
	ingestCmd.Flags().IntVar(&ingestCount, "count", 20, "number of matches to fetch with --puuid")
	ingestCmd.Flags().IntVar(&ingestFlushEvery, "flush-every", 0, "flush the cohort buffer every N matches (0 = config default)")
	ingestCmd.Flags().StringVar(&ingestMetricsAddr, "metrics-addr", "", "expose Prometheus ingest metrics on this address (e.g. :9090)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) == 0 && ingestPUUID == "" {
		return fmt.Errorf("nothing to ingest: pass match IDs or --puuid")
	}
	if cfg.Riot.APIKey == "" {
		return fmt.Errorf("no API key: set RIFTGRADE_RIOT_API_KEY")
	}
	log := newLogger(cfg)
	ctx := cmd.Context()

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	client := riot.NewClient(cfg.Riot.BaseURL, cfg.Riot.APIKey, time.Duration(cfg.Riot.TimeoutSec)*time.Second)

	matchIDs := args
	if ingestPUUID != "" {
		ids, err := client.GetMatchIDs(ctx, ingestPUUID, ingestCount)
		if err != nil {
			return fmt.Errorf("fetch match history: %w", err)
		}
		matchIDs = append(matchIDs, ids...)
	}

	opts := []stats.BufferOption{
		stats.WithLogger(log),
		stats.WithSubCohorts(cfg.Ingest.SubCohorts),
	}
	addr := ingestMetricsAddr
	if addr == "" {
		addr = cfg.Ingest.MetricsAddr
	}
	if addr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, stats.WithMetrics(metrics.NewIngest(reg)))
		go serveMetrics(log, addr, reg)
	}
	buffer := stats.NewBuffer(opts...)

	flushEvery := ingestFlushEvery
	if flushEvery <= 0 {
		flushEvery = cfg.Ingest.FlushEvery
	}
	if flushEvery <= 0 {
		flushEvery = 1
	}

	extractor := timeline.NewExtractor(cfg.ExtractorParams())
	ingested, skipped := 0, 0
	for _, matchID := range matchIDs {
		exists, err := db.MatchExists(matchID)
		if err != nil {
			return fmt.Errorf("check match %s: %w", matchID, err)
		}
		if exists {
			skipped++
			continue
		}

		if err := ingestMatch(ctx, client, extractor, db, buffer, log, matchID); err != nil {
			log.Warn("skipping match", slog.String("match", matchID), slog.Any("error", err))
			continue
		}
		ingested++

		if ingested%flushEvery == 0 {
			if _, err := buffer.Flush(ctx, db); err != nil {
				return fmt.Errorf("flush cohorts: %w", err)
			}
		}
	}

	if _, err := buffer.Flush(ctx, db); err != nil {
		return fmt.Errorf("flush cohorts: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Ingested %d matches (%d already stored).\n", ingested, skipped)
	return nil
}

func ingestMatch(ctx context.Context, client *riot.Client, extractor *timeline.Extractor, db *storage.DB, buffer *stats.Buffer, log *slog.Logger, matchID string) error {
	detail, err := client.GetMatch(ctx, matchID)
	if err != nil {
		return fmt.Errorf("fetch match: %w", err)
	}

	// A missing timeline degrades the observation, it does not block it.
	tl, err := client.GetTimeline(ctx, matchID)
	if err != nil {
		log.Warn("no timeline, ingesting end-of-game stats only",
			slog.String("match", matchID), slog.Any("error", err))
		tl = nil
	}

	obs, _, err := extractor.Extract(detail, tl)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	summary := model.MatchSummary{
		MatchID:      detail.MatchID,
		Patch:        timeline.NormalizePatch(detail.GameVersion),
		QueueID:      detail.QueueID,
		DurationSec:  detail.DurationSec,
		GameVersion:  detail.GameVersion,
		Participants: len(detail.Participants),
		Remake:       len(obs) > 0 && obs[0].Remake,
	}
	if err := db.InsertMatch(summary); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	if err := db.InsertObservations(obs); err != nil {
		return fmt.Errorf("insert observations: %w", err)
	}

	for i := range obs {
		buffer.Add(&obs[i])
	}
	return nil
}

func serveMetrics(log *slog.Logger, addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("metrics listener failed", slog.Any("error", err))
	}
}
