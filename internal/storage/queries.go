package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riftlab/riftgrade/internal/model"
	"github.com/riftlab/riftgrade/internal/stats"
)

// querier is the subset of sql.DB/sql.Tx the cohort readers need.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// MatchExists returns true if the match is already stored.
func (db *DB) MatchExists(matchID string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE match_id = ?", matchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatch inserts a match record. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertMatch(summary model.MatchSummary) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO matches(match_id, patch, game_version, queue_id, duration_sec, participants, remake)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		summary.MatchID, summary.Patch, summary.GameVersion, summary.QueueID,
		summary.DurationSec, summary.Participants, boolInt(summary.Remake),
	)
	return err
}

// InsertObservations bulk-inserts per-participant observations in a transaction.
func (db *DB) InsertObservations(obs []model.MatchObservation) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO observations(
			match_id, participant_id, puuid, champion_id, patch, side, win, remake, duration_sec,
			kills, deaths, assists,
			damage_per_min, total_damage_per_min, heal_shield_per_min, cc_per_min, deaths_per_min, kda,
			item_core, starting_items, keystone, spell_pair, skill_order
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, o := range obs {
		_, err = stmt.Exec(
			o.MatchID, o.ParticipantID, o.PUUID, o.ChampionID, o.Patch,
			int(o.Side), boolInt(o.Win), boolInt(o.Remake), o.DurationSec,
			o.Kills, o.Deaths, o.Assists,
			o.DamagePerMin, o.TotalDamagePerMin, o.HealShieldPerMin,
			o.CCPerMin, o.DeathsPerMin, o.KDA,
			o.ItemCore, o.StartingItems, o.Keystone, o.SpellPair, o.SkillOrder,
		)
		if err != nil {
			return fmt.Errorf("insert observation %s/%d: %w", o.MatchID, o.ParticipantID, err)
		}
	}
	return tx.Commit()
}

// GetObservation returns one participant's stored observation, or nil when absent.
func (db *DB) GetObservation(matchID string, participantID int) (*model.MatchObservation, error) {
	var o model.MatchObservation
	var side, win, remake int
	err := db.conn.QueryRow(`
		SELECT match_id, participant_id, puuid, champion_id, patch, side, win, remake, duration_sec,
		       kills, deaths, assists,
		       damage_per_min, total_damage_per_min, heal_shield_per_min, cc_per_min, deaths_per_min, kda,
		       item_core, starting_items, keystone, spell_pair, skill_order
		FROM observations WHERE match_id = ? AND participant_id = ?`, matchID, participantID).
		Scan(&o.MatchID, &o.ParticipantID, &o.PUUID, &o.ChampionID, &o.Patch,
			&side, &win, &remake, &o.DurationSec,
			&o.Kills, &o.Deaths, &o.Assists,
			&o.DamagePerMin, &o.TotalDamagePerMin, &o.HealShieldPerMin,
			&o.CCPerMin, &o.DeathsPerMin, &o.KDA,
			&o.ItemCore, &o.StartingItems, &o.Keystone, &o.SpellPair, &o.SkillOrder)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	o.Side = model.Side(side)
	o.Win = win != 0
	o.Remake = remake != 0
	return &o, nil
}

// ListMatches returns all stored match summaries, newest first.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, patch, game_version, queue_id, duration_sec, participants, remake
		FROM matches ORDER BY ingested_at DESC, match_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		var s model.MatchSummary
		var remakeInt int
		if err := rows.Scan(&s.MatchID, &s.Patch, &s.GameVersion, &s.QueueID,
			&s.DurationSec, &s.Participants, &remakeInt); err != nil {
			return nil, err
		}
		s.Remake = remakeInt != 0
		out = append(out, s)
	}
	return out, rows.Err()
}

// DropMatch removes a match and its observations. Cohort aggregates keep the
// observations they already absorbed; they are running moments, not
// recomputable from rows.
func (db *DB) DropMatch(matchID string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM observations WHERE match_id = ?", matchID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM matches WHERE match_id = ?", matchID); err != nil {
		return err
	}
	return tx.Commit()
}

// GetCohort reads the full aggregate for a key. The snapshot is empty (zero
// games) when the cohort has never been written.
func (db *DB) GetCohort(key model.CohortKey) (*stats.CohortSnapshot, error) {
	return readCohort(db.conn, key)
}

// CohortInfo is a one-row summary of one stored cohort.
type CohortInfo struct {
	Key   model.CohortKey
	Games uint64
	Wins  uint64
}

// ListCohorts returns a summary row per stored cohort, largest first.
func (db *DB) ListCohorts() ([]CohortInfo, error) {
	rows, err := db.conn.Query(`
		SELECT champion_id, patch, core_build, games, wins
		FROM cohorts ORDER BY games DESC, champion_id, patch, core_build`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CohortInfo
	for rows.Next() {
		var c CohortInfo
		if err := rows.Scan(&c.Key.ChampionID, &c.Key.Patch, &c.Key.CoreBuild, &c.Games, &c.Wins); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// MergeCohorts folds a batch of per-cohort deltas into the store in one
// transaction: read the stored aggregate, merge the delta into it in memory,
// write the result back. Either the whole batch lands or none of it does.
func (db *DB) MergeCohorts(ctx context.Context, deltas []*stats.CohortSnapshot) error {
	if len(deltas) == 0 {
		return nil
	}
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, delta := range deltas {
		stored, err := readCohort(tx, delta.Key)
		if err != nil {
			return fmt.Errorf("read cohort %+v: %w", delta.Key, err)
		}
		stored.MergeInto(delta)
		if err := writeCohort(tx, stored); err != nil {
			return fmt.Errorf("write cohort %+v: %w", delta.Key, err)
		}
	}
	return tx.Commit()
}

func readCohort(q querier, key model.CohortKey) (*stats.CohortSnapshot, error) {
	snap := stats.NewCohortSnapshot(key)

	err := q.QueryRow(`
		SELECT games, wins FROM cohorts
		WHERE champion_id = ? AND patch = ? AND core_build = ?`,
		key.ChampionID, key.Patch, key.CoreBuild).
		Scan(&snap.Games, &snap.Wins)
	if err == sql.ErrNoRows {
		return snap, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(`
		SELECT metric, count, mean, m2 FROM cohort_metrics
		WHERE champion_id = ? AND patch = ? AND core_build = ?`,
		key.ChampionID, key.Patch, key.CoreBuild)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var w stats.Welford
		if err := rows.Scan(&name, &w.Count, &w.Mean, &w.M2); err != nil {
			return nil, err
		}
		snap.Metrics[name] = w
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	crows, err := q.Query(`
		SELECT category, choice, games, wins FROM cohort_choices
		WHERE champion_id = ? AND patch = ? AND core_build = ?`,
		key.ChampionID, key.Patch, key.CoreBuild)
	if err != nil {
		return nil, err
	}
	defer crows.Close()
	for crows.Next() {
		var category, choice string
		var rec stats.ChoiceStats
		if err := crows.Scan(&category, &choice, &rec.Games, &rec.Wins); err != nil {
			return nil, err
		}
		table := snap.Choices[category]
		if table == nil {
			table = make(stats.ChoiceTable)
			snap.Choices[category] = table
		}
		table[choice] = rec
	}
	return snap, crows.Err()
}

func writeCohort(tx *sql.Tx, snap *stats.CohortSnapshot) error {
	key := snap.Key
	_, err := tx.Exec(`
		INSERT OR REPLACE INTO cohorts(champion_id, patch, core_build, games, wins)
		VALUES (?, ?, ?, ?, ?)`,
		key.ChampionID, key.Patch, key.CoreBuild, snap.Games, snap.Wins)
	if err != nil {
		return err
	}

	mstmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO cohort_metrics(champion_id, patch, core_build, metric, count, mean, m2)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer mstmt.Close()
	for name, w := range snap.Metrics {
		if _, err := mstmt.Exec(key.ChampionID, key.Patch, key.CoreBuild, name, w.Count, w.Mean, w.M2); err != nil {
			return err
		}
	}

	cstmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO cohort_choices(champion_id, patch, core_build, category, choice, games, wins)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer cstmt.Close()
	for category, table := range snap.Choices {
		for choice, rec := range table {
			if _, err := cstmt.Exec(key.ChampionID, key.Patch, key.CoreBuild, category, choice, rec.Games, rec.Wins); err != nil {
				return err
			}
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
