package storage

import (
	"database/sql"
	"fmt"

	"github.com/rinkstats/go-shift-metrics/internal/model"
)

// WriteGame replaces one game's entire derived row set inside a single
// transaction: on any error nothing is persisted. Rebuilds are idempotent
// because keys are deterministic and existing rows are cleared first.
func (db *DB) WriteGame(out *model.GameOutput) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	gameID := out.Game.ID
	for _, table := range []string{
		"player_shift_intervals", "player_game_summaries",
		"sequences", "plays", "pair_overlaps", "line_combos",
	} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE game_id = ?", gameID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO games(game_id, home_team_id, away_team_id, periods, period_seconds)
		VALUES (?, ?, ?, ?, ?)`,
		gameID, out.Game.HomeTeamID, out.Game.AwayTeamID, out.Game.Periods, out.Game.PeriodSeconds,
	); err != nil {
		return fmt.Errorf("insert game: %w", err)
	}

	if err := insertIntervals(tx, out.Intervals); err != nil {
		return err
	}
	if err := insertSummaries(tx, out.Summaries); err != nil {
		return err
	}
	if err := insertSequences(tx, out.Sequences); err != nil {
		return err
	}
	if err := insertPlays(tx, out.Plays); err != nil {
		return err
	}
	if err := insertPairs(tx, out.Pairs); err != nil {
		return err
	}
	if err := insertCombos(tx, out.Combos); err != nil {
		return err
	}

	return tx.Commit()
}

func insertIntervals(tx *sql.Tx, rows []model.PlayerShiftInterval) error {
	stmt, err := tx.Prepare(`
		INSERT INTO player_shift_intervals(
			key, game_id, player_id, player_name, venue, slot, jersey_number,
			shift_index, period, logical_shift_number, shift_segment,
			duration_seconds, stoppage_seconds, playing_seconds,
			cumulative_toi, cumulative_playing,
			situation, strength, goal_for, goal_against, malformed, team_id
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.Exec(
			r.Key, r.GameID, r.PlayerID, r.PlayerName, r.Venue.String(), r.Slot, r.JerseyNumber,
			r.ShiftIndex, r.Period, r.LogicalShiftNumber, r.ShiftSegment,
			r.DurationSeconds, r.StoppageSeconds, r.PlayingSeconds,
			r.CumulativeTOI, r.CumulativePlay,
			r.Situation, r.Strength, r.GoalFor, r.GoalAgainst, boolInt(r.Malformed), r.TeamID,
		)
		if err != nil {
			return fmt.Errorf("insert interval %s: %w", r.Key, err)
		}
	}
	return nil
}

func insertSummaries(tx *sql.Tx, rows []model.PlayerGameSummary) error {
	stmt, err := tx.Prepare(`
		INSERT INTO player_game_summaries(
			key, game_id, player_id, player_name, venue,
			logical_shifts, raw_shift_rows, toi_seconds, playing_seconds,
			goals_for, goals_against, team_id
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.Exec(
			r.Key, r.GameID, r.PlayerID, r.PlayerName, r.Venue.String(),
			r.LogicalShifts, r.RawShiftRows, r.TOISeconds, r.PlayingSeconds,
			r.GoalsFor, r.GoalsAgainst, r.TeamID,
		)
		if err != nil {
			return fmt.Errorf("insert summary %s: %w", r.Key, err)
		}
	}
	return nil
}

func insertSequences(tx *sql.Tx, rows []model.Sequence) error {
	stmt, err := tx.Prepare(`
		INSERT INTO sequences(
			key, game_id, sequence_number, period,
			start_event_index, end_event_index, event_count,
			has_shot, has_goal, has_zone_entry,
			start_seconds, end_seconds, duration_seconds, event_chain
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.Exec(
			r.Key, r.GameID, r.SequenceNumber, r.Period,
			r.StartEventIndex, r.EndEventIndex, r.EventCount,
			boolInt(r.HasShot), boolInt(r.HasGoal), boolInt(r.HasZoneEntry),
			r.StartSeconds, r.EndSeconds, r.DurationSeconds, r.EventChain,
		)
		if err != nil {
			return fmt.Errorf("insert sequence %s: %w", r.Key, err)
		}
	}
	return nil
}

func insertPlays(tx *sql.Tx, rows []model.Play) error {
	stmt, err := tx.Prepare(`
		INSERT INTO plays(
			key, sequence_key, game_id, sequence_number, play_number,
			start_event_index, end_event_index, event_count,
			start_seconds, end_seconds, duration_seconds, event_chain
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.Exec(
			r.Key, r.SequenceKey, r.GameID, r.SequenceNumber, r.PlayNumber,
			r.StartEventIndex, r.EndEventIndex, r.EventCount,
			r.StartSeconds, r.EndSeconds, r.DurationSeconds, r.EventChain,
		)
		if err != nil {
			return fmt.Errorf("insert play %s: %w", r.Key, err)
		}
	}
	return nil
}

func insertPairs(tx *sql.Tx, rows []model.PairOverlap) error {
	stmt, err := tx.Prepare(`
		INSERT INTO pair_overlaps(
			key, game_id,
			player1_id, player1_name, venue1,
			player2_id, player2_name, venue2, relation,
			shifts_together, toi_together_seconds,
			goals_for, goals_against, shot_attempts_for, shot_attempts_against,
			total_p1_shifts, total_p2_shifts, p1_shifts_without_p2, p2_shifts_without_p1,
			team1_id, team2_id
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.Exec(
			r.Key, r.GameID,
			r.Player1ID, r.Player1Name, r.Venue1.String(),
			r.Player2ID, r.Player2Name, r.Venue2.String(), r.Relation.String(),
			r.ShiftsTogether, r.TOITogetherSeconds,
			r.GoalsFor, r.GoalsAgainst, r.ShotAttemptsFor, r.ShotAttemptsAgainst,
			r.TotalP1Shifts, r.TotalP2Shifts, r.P1ShiftsWithoutP2, r.P2ShiftsWithoutP1,
			r.Team1ID, r.Team2ID,
		)
		if err != nil {
			return fmt.Errorf("insert pair overlap %s: %w", r.Key, err)
		}
	}
	return nil
}

func insertCombos(tx *sql.Tx, rows []model.LineCombo) error {
	stmt, err := tx.Prepare(`
		INSERT INTO line_combos(
			key, game_id, venue, forward_combo, defense_combo,
			shifts, toi_seconds, goals_for, goals_against,
			corsi_for, corsi_against, team_id
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.Exec(
			r.Key, r.GameID, r.Venue.String(), r.ForwardCombo, r.DefenseCombo,
			r.Shifts, r.TOISeconds, r.GoalsFor, r.GoalsAgainst,
			r.CorsiFor, r.CorsiAgainst, r.TeamID,
		)
		if err != nil {
			return fmt.Errorf("insert line combo %s: %w", r.Key, err)
		}
	}
	return nil
}

// GameRow is a lightweight record for the list command.
type GameRow struct {
	GameID     int
	HomeTeamID string
	AwayTeamID string
	Intervals  int
	Sequences  int
	Pairs      int
	Combos     int
}

// ListGames returns all stored games with row counts, ascending by id.
func (db *DB) ListGames() ([]GameRow, error) {
	rows, err := db.conn.Query(`
		SELECT g.game_id, g.home_team_id, g.away_team_id,
			(SELECT COUNT(1) FROM player_shift_intervals i WHERE i.game_id = g.game_id),
			(SELECT COUNT(1) FROM sequences s WHERE s.game_id = g.game_id),
			(SELECT COUNT(1) FROM pair_overlaps p WHERE p.game_id = g.game_id),
			(SELECT COUNT(1) FROM line_combos c WHERE c.game_id = g.game_id)
		FROM games g
		ORDER BY g.game_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GameRow
	for rows.Next() {
		var r GameRow
		if err := rows.Scan(&r.GameID, &r.HomeTeamID, &r.AwayTeamID,
			&r.Intervals, &r.Sequences, &r.Pairs, &r.Combos); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetGame returns one stored game header, or nil if absent.
func (db *DB) GetGame(gameID int) (*model.Game, error) {
	var g model.Game
	err := db.conn.QueryRow(`
		SELECT game_id, home_team_id, away_team_id, periods, period_seconds
		FROM games WHERE game_id = ?`, gameID).
		Scan(&g.ID, &g.HomeTeamID, &g.AwayTeamID, &g.Periods, &g.PeriodSeconds)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GameExists returns true if the given game has stored output.
func (db *DB) GameExists(gameID int) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM games WHERE game_id = ?", gameID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetPlayerSummaries returns stored per-player summaries for one game.
func (db *DB) GetPlayerSummaries(gameID int) ([]model.PlayerGameSummary, error) {
	rows, err := db.conn.Query(`
		SELECT key, game_id, player_id, player_name, venue,
			logical_shifts, raw_shift_rows, toi_seconds, playing_seconds,
			goals_for, goals_against, team_id
		FROM player_game_summaries
		WHERE game_id = ?
		ORDER BY toi_seconds DESC`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerGameSummary
	for rows.Next() {
		var s model.PlayerGameSummary
		var venue string
		var teamID sql.NullString
		if err := rows.Scan(&s.Key, &s.GameID, &s.PlayerID, &s.PlayerName, &venue,
			&s.LogicalShifts, &s.RawShiftRows, &s.TOISeconds, &s.PlayingSeconds,
			&s.GoalsFor, &s.GoalsAgainst, &teamID); err != nil {
			return nil, err
		}
		s.Venue = model.ParseVenue(venue)
		if teamID.Valid {
			id := teamID.String
			s.TeamID = &id
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetPairOverlaps returns stored pair overlaps for one game, widest TOI first.
func (db *DB) GetPairOverlaps(gameID int) ([]model.PairOverlap, error) {
	rows, err := db.conn.Query(`
		SELECT key, game_id,
			player1_id, player1_name, venue1,
			player2_id, player2_name, venue2, relation,
			shifts_together, toi_together_seconds,
			goals_for, goals_against, shot_attempts_for, shot_attempts_against,
			total_p1_shifts, total_p2_shifts, p1_shifts_without_p2, p2_shifts_without_p1
		FROM pair_overlaps
		WHERE game_id = ?
		ORDER BY toi_together_seconds DESC`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PairOverlap
	for rows.Next() {
		var p model.PairOverlap
		var v1, v2, rel string
		if err := rows.Scan(&p.Key, &p.GameID,
			&p.Player1ID, &p.Player1Name, &v1,
			&p.Player2ID, &p.Player2Name, &v2, &rel,
			&p.ShiftsTogether, &p.TOITogetherSeconds,
			&p.GoalsFor, &p.GoalsAgainst, &p.ShotAttemptsFor, &p.ShotAttemptsAgainst,
			&p.TotalP1Shifts, &p.TotalP2Shifts, &p.P1ShiftsWithoutP2, &p.P2ShiftsWithoutP1,
		); err != nil {
			return nil, err
		}
		p.Venue1 = model.ParseVenue(v1)
		p.Venue2 = model.ParseVenue(v2)
		if rel == model.RelationOpponents.String() {
			p.Relation = model.RelationOpponents
		} else {
			p.Relation = model.RelationTeammates
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetLineCombos returns stored line combos for one game, widest TOI first.
func (db *DB) GetLineCombos(gameID int) ([]model.LineCombo, error) {
	rows, err := db.conn.Query(`
		SELECT key, game_id, venue, forward_combo, defense_combo,
			shifts, toi_seconds, goals_for, goals_against, corsi_for, corsi_against
		FROM line_combos
		WHERE game_id = ?
		ORDER BY toi_seconds DESC`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LineCombo
	for rows.Next() {
		var c model.LineCombo
		var venue string
		if err := rows.Scan(&c.Key, &c.GameID, &venue, &c.ForwardCombo, &c.DefenseCombo,
			&c.Shifts, &c.TOISeconds, &c.GoalsFor, &c.GoalsAgainst, &c.CorsiFor, &c.CorsiAgainst,
		); err != nil {
			return nil, err
		}
		c.Venue = model.ParseVenue(venue)
		out = append(out, c)
	}
	return out, rows.Err()
}

// QueryRaw executes an arbitrary query and returns column names plus stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range values {
			switch t := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(t)
			default:
				row[i] = fmt.Sprintf("%v", t)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
