package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/riftlab/riftgrade/internal/model"
	"github.com/riftlab/riftgrade/internal/storage"
)

const analyzeSystemPrompt = `You are a League of Legends performance analyst. You are given structured
data from a match-scoring tool and a question from the player.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable — focus on what the player can actually improve.
- Avoid generic League advice unless it directly explains a pattern in the data.

Data glossary:
- score: 0-100 composite. 100 means no category lost points against the cohort.
- Per-category sub-scores: 50 is exactly cohort average; each 25 points is one
  standard deviation. penalty is the weighted points the category cost.
- pct_of_avg: player's value as a percentage of the cohort mean.
- Build categories: rank is the choice's win-rate position among reliable
  cohort options. "unseen" means the cohort has never recorded that choice.
- death_quality: 100 minus penalties per death; solo deaths with a full purse
  in enemy territory cost the most, teamfight deaths the least.
- kill_quality: 50 plus the value of each kill; rich victims and defensive
  kills count extra.
- cohort_games: how many games back the comparison. Small cohorts mean the
  tool already hedged with fallback spreads; be more cautious on top of it.`

var (
	analyzeModel       string
	analyzeAPIKey      string
	analyzeParticipant int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <matchID> <question>",
	Short: "AI-powered grounded analysis of a scored match (requires ANTHROPIC_API_KEY)",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	analyzeCmd.Flags().IntVar(&analyzeParticipant, "participant", 1, "participant slot to analyze (1-10)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	breakdown, err := buildBreakdown(cmd.Context(), cfg, db, args[0], analyzeParticipant)
	if err != nil {
		return err
	}

	contextJSON, err := buildScoreContext(breakdown)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, analyzeModel, contextJSON, args[1])
}

// buildScoreContext serialises the breakdown into compact JSON for the model.
func buildScoreContext(b *model.ScoreBreakdown) (string, error) {
	type entry struct {
		Category string  `json:"category"`
		Score    float64 `json:"score"`
		Weight   float64 `json:"weight"`
		Penalty  float64 `json:"penalty"`
		PctOfAvg float64 `json:"pct_of_avg,omitempty"`
	}
	entries := make([]entry, 0, len(b.Entries))
	for _, e := range b.Entries {
		entries = append(entries, entry{
			Category: e.Category,
			Score:    round2(e.Score),
			Weight:   e.Weight,
			Penalty:  round2(e.Penalty),
			PctOfAvg: round2(e.PctOfAvg),
		})
	}

	type build struct {
		Category  string  `json:"category"`
		Choice    string  `json:"choice"`
		Rank      int     `json:"rank,omitempty"`
		Options   int     `json:"options,omitempty"`
		Unseen    bool    `json:"unseen,omitempty"`
		WinRate   float64 `json:"win_rate"`
		TopChoice string  `json:"top_choice"`
		TopRate   float64 `json:"top_win_rate"`
	}
	builds := make([]build, 0, len(b.Builds))
	for _, r := range b.Builds {
		builds = append(builds, build{
			Category:  r.Category,
			Choice:    r.PlayerChoice,
			Rank:      r.Rank,
			Options:   r.TotalOptions,
			Unseen:    r.Unseen,
			WinRate:   round2(r.PlayerWinRate * 100),
			TopChoice: r.TopChoice,
			TopRate:   round2(r.TopWinRate * 100),
		})
	}

	doc := map[string]interface{}{
		"subject":        "match_participant",
		"match_id":       b.MatchID,
		"participant":    b.ParticipantID,
		"champion_id":    b.ChampionID,
		"patch":          b.Patch,
		"score":          b.Score,
		"cohort_games":   b.CohortGames,
		"build_cohort":   b.UsedCoreBuild,
		"entries":        entries,
		"build_rankings": builds,
	}
	if b.Combat != nil {
		doc["combat"] = map[string]interface{}{
			"kill_quality":     round2(b.Combat.KillScore),
			"death_quality":    round2(b.Combat.DeathScore),
			"kills":            b.Combat.Kills,
			"deaths":           b.Combat.Deaths,
			"teamfight_kills":  b.Combat.TeamfightKills,
			"teamfight_deaths": b.Combat.TeamfightDeaths,
		}
	}

	out, err := json.Marshal(doc)
	return string(out), err
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed — check your API key")
		}
		return fmt.Errorf("API call failed: %w", err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
