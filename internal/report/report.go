// Package report renders score breakdowns, build rankings and stored-data
// listings as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/riftlab/riftgrade/internal/model"
	"github.com/riftlab/riftgrade/internal/scoring"
	"github.com/riftlab/riftgrade/internal/stats"
	"github.com/riftlab/riftgrade/internal/storage"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintScoreBreakdown prints the composite score header followed by one row
// per contributing category.
func PrintScoreBreakdown(w io.Writer, b *model.ScoreBreakdown) {
	cohortNote := "base cohort"
	if b.UsedCoreBuild {
		cohortNote = "build cohort"
	}
	fmt.Fprintf(w, "\nMatch: %s  |  Participant: %d  |  Champion: %d  |  Patch: %s\n",
		b.MatchID, b.ParticipantID, b.ChampionID, b.Patch)
	fmt.Fprintf(w, "Score: %.1f / 100  (%s, %d games)\n\n", b.Score, cohortNote, b.CohortGames)

	table := newTable(w)
	table.Header("CATEGORY", "SCORE", "WEIGHT", "PENALTY", "YOU", "AVG", "%AVG")
	for _, e := range b.Entries {
		you, avg, pct := "—", "—", "—"
		if e.CohortAvg > 0 {
			you = fmt.Sprintf("%.1f", e.PlayerValue)
			avg = fmt.Sprintf("%.1f", e.CohortAvg)
			pct = fmt.Sprintf("%.0f%%", e.PctOfAvg)
		}
		table.Append(
			e.Label,
			fmt.Sprintf("%.0f", e.Score),
			fmt.Sprintf("%.2f", e.Weight),
			fmt.Sprintf("%.1f", e.Penalty),
			you, avg, pct,
		)
	}
	table.Render()

	if b.Combat != nil {
		fmt.Fprintf(w, "\nCombat: %d kills (%d in teamfights), %d deaths (%d in teamfights)\n",
			b.Combat.Kills, b.Combat.TeamfightKills, b.Combat.Deaths, b.Combat.TeamfightDeaths)
	}

	if len(b.Builds) > 0 {
		fmt.Fprintln(w)
		btable := newTable(w)
		btable.Header("CHOICE", "YOURS", "RANK", "WR", "TOP PICK", "TOP WR")
		for _, r := range b.Builds {
			rank := "—"
			if r.Unseen {
				rank = "unseen"
			} else if r.Rank > 0 {
				rank = fmt.Sprintf("%d/%d", r.Rank, r.TotalOptions)
			}
			btable.Append(
				r.Category,
				r.PlayerChoice,
				rank,
				fmt.Sprintf("%.0f%%", r.PlayerWinRate*100),
				r.TopChoice,
				fmt.Sprintf("%.0f%%", r.TopWinRate*100),
			)
		}
		btable.Render()
	}
}

// PrintBestChoices prints the Wilson-ranked options for one category.
func PrintBestChoices(w io.Writer, category string, options []scoring.BestOption) {
	if len(options) == 0 {
		fmt.Fprintf(w, "no options above the minimum-games floor for %s\n", category)
		return
	}
	fmt.Fprintf(w, "\nBest %s options (ranked by Wilson lower bound):\n\n", category)
	table := newTable(w)
	table.Header("#", "CHOICE", "GAMES", "WINS", "WR", "LOWER BOUND")
	for i, o := range options {
		table.Append(
			strconv.Itoa(i+1),
			o.Choice,
			strconv.Itoa(o.Games),
			strconv.Itoa(o.Wins),
			fmt.Sprintf("%.1f%%", o.WinRate*100),
			fmt.Sprintf("%.3f", o.LowerBound),
		)
	}
	table.Render()
}

// PrintMatchList prints stored match summaries.
func PrintMatchList(w io.Writer, matches []model.MatchSummary) {
	table := newTable(w)
	table.Header("MATCH", "PATCH", "QUEUE", "DURATION", "PLAYERS", "REMAKE")
	for _, m := range matches {
		remake := ""
		if m.Remake {
			remake = "yes"
		}
		table.Append(
			m.MatchID,
			m.Patch,
			strconv.Itoa(m.QueueID),
			fmtDuration(m.DurationSec),
			strconv.Itoa(m.Participants),
			remake,
		)
	}
	table.Render()
}

// PrintCohorts prints stored cohort aggregates.
func PrintCohorts(w io.Writer, cohorts []storage.CohortInfo) {
	table := newTable(w)
	table.Header("CHAMPION", "PATCH", "CORE BUILD", "GAMES", "WR")
	for _, c := range cohorts {
		build := c.Key.CoreBuild
		if build == "" {
			build = "(base)"
		}
		wr := "—"
		if c.Games > 0 {
			wr = fmt.Sprintf("%.1f%%", float64(c.Wins)/float64(c.Games)*100)
		}
		table.Append(
			strconv.Itoa(c.Key.ChampionID),
			c.Key.Patch,
			build,
			strconv.FormatUint(c.Games, 10),
			wr,
		)
	}
	table.Render()
}

// PrintCohortDetail prints one cohort's full aggregate: the metric moments
// and the most-played option per category.
func PrintCohortDetail(w io.Writer, snap *stats.CohortSnapshot) {
	build := snap.Key.CoreBuild
	if build == "" {
		build = "(base)"
	}
	winRate := float64(snap.Wins) / float64(snap.Games) * 100
	fmt.Fprintf(w, "\nChampion: %d  |  Patch: %s  |  Build: %s\n", snap.Key.ChampionID, snap.Key.Patch, build)
	fmt.Fprintf(w, "Games: %d  |  Win rate: %.1f%%\n\n", snap.Games, winRate)

	mtable := newTable(w)
	mtable.Header("METRIC", "GAMES", "MEAN", "STDDEV")
	for _, name := range model.AllMetrics {
		welford := snap.Metric(name)
		if welford.Count == 0 {
			continue
		}
		mtable.Append(
			name,
			strconv.FormatUint(welford.Count, 10),
			fmt.Sprintf("%.2f", welford.Mean),
			fmt.Sprintf("%.2f", welford.StdDev()),
		)
	}
	mtable.Render()

	fmt.Fprintln(w)
	ctable := newTable(w)
	ctable.Header("CATEGORY", "OPTIONS", "MOST PLAYED", "GAMES", "WR")
	for _, category := range model.AllCategories {
		table := snap.Choice(category)
		if len(table) == 0 {
			continue
		}
		top, rec := "", stats.ChoiceStats{}
		for choice, r := range table {
			if r.Games > rec.Games || (r.Games == rec.Games && choice < top) {
				top, rec = choice, r
			}
		}
		ctable.Append(
			category,
			strconv.Itoa(len(table)),
			top,
			strconv.Itoa(rec.Games),
			fmt.Sprintf("%.1f%%", rec.WinRate()*100),
		)
	}
	ctable.Render()
}

func fmtDuration(sec int) string {
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}
