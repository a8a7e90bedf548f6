// FILE: othello/internal/server/storage/game.go
package storage

import (
	"database/sql"
	"fmt"
	"log"
)

// enqueue hands a write to the async writer, dropping it when degraded or full
func (s *Store) enqueue(what string, fn func(*sql.Tx) error) error {
	if !s.healthy.Load() {
		return nil // Silently drop if degraded
	}

	select {
	case s.writeChan <- fn:
		return nil
	default:
		log.Printf("Storage write queue full, dropping %s", what)
		return nil
	}
}

// RecordNewGame asynchronously records a new game
func (s *Store) RecordNewGame(record GameRecord) error {
	return s.enqueue("game record", func(tx *sql.Tx) error {
		query := `INSERT INTO games (
			game_id, initial_position,
			black_player_id, black_type, black_level, black_depth, black_evaluator,
			white_player_id, white_type, white_level, white_depth, white_evaluator,
			start_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.InitialPosition,
			record.BlackPlayerID, record.BlackType, record.BlackLevel, record.BlackDepth, record.BlackEvaluator,
			record.WhitePlayerID, record.WhiteType, record.WhiteLevel, record.WhiteDepth, record.WhiteEvaluator,
			record.StartTimeUTC,
		)
		return err
	})
}

// UpdateGamePlayers asynchronously rewrites the player columns after reconfiguration
func (s *Store) UpdateGamePlayers(record GameRecord) error {
	return s.enqueue("player update", func(tx *sql.Tx) error {
		query := `UPDATE games SET
			black_player_id = ?, black_type = ?, black_level = ?, black_depth = ?, black_evaluator = ?,
			white_player_id = ?, white_type = ?, white_level = ?, white_depth = ?, white_evaluator = ?
		WHERE game_id = ?`

		_, err := tx.Exec(query,
			record.BlackPlayerID, record.BlackType, record.BlackLevel, record.BlackDepth, record.BlackEvaluator,
			record.WhitePlayerID, record.WhiteType, record.WhiteLevel, record.WhiteDepth, record.WhiteEvaluator,
			record.GameID,
		)
		return err
	})
}

// RecordMove asynchronously records a move
func (s *Store) RecordMove(record MoveRecord) error {
	return s.enqueue("move record", func(tx *sql.Tx) error {
		query := `INSERT INTO moves (
			game_id, move_number, move, flips, position_after_move, player_color, move_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.MoveNumber, record.Move, record.Flips,
			record.PositionAfterMove, record.PlayerColor, record.MoveTimeUTC,
		)
		return err
	})
}

// DeleteUndoneMoves asynchronously deletes moves after undo. An undone
// game is unfinished again, so its result is cleared too.
func (s *Store) DeleteUndoneMoves(gameID string, afterMoveNumber int) error {
	return s.enqueue("undo operation", func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM moves WHERE game_id = ? AND move_number > ?`, gameID, afterMoveNumber); err != nil {
			return err
		}
		_, err := tx.Exec(`UPDATE games SET result = NULL, black_score = NULL, white_score = NULL, end_time_utc = NULL
			WHERE game_id = ?`, gameID)
		return err
	})
}

// RecordGameResult asynchronously stores the final outcome of a game
func (s *Store) RecordGameResult(record ResultRecord) error {
	return s.enqueue("game result", func(tx *sql.Tx) error {
		query := `UPDATE games SET result = ?, black_score = ?, white_score = ?, end_time_utc = ?
			WHERE game_id = ?`
		_, err := tx.Exec(query,
			record.Result, record.BlackScore, record.WhiteScore, record.EndTimeUTC, record.GameID,
		)
		return err
	})
}

// QueryGames retrieves games with optional filtering
func (s *Store) QueryGames(gameID, playerID string) ([]GameRecord, error) {
	query := `SELECT
		game_id, initial_position,
		black_player_id, black_type, black_level, black_depth, black_evaluator,
		white_player_id, white_type, white_level, white_depth, white_evaluator,
		start_time_utc, result, black_score, white_score, end_time_utc
	FROM games WHERE 1=1`

	var args []any

	// Handle gameID filtering
	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}

	// Handle playerID filtering
	if playerID != "" && playerID != "*" {
		query += " AND (black_player_id = ? OR white_player_id = ?)"
		args = append(args, playerID, playerID)
	}

	query += " ORDER BY start_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		err := rows.Scan(
			&g.GameID, &g.InitialPosition,
			&g.BlackPlayerID, &g.BlackType, &g.BlackLevel, &g.BlackDepth, &g.BlackEvaluator,
			&g.WhitePlayerID, &g.WhiteType, &g.WhiteLevel, &g.WhiteDepth, &g.WhiteEvaluator,
			&g.StartTimeUTC, &g.Result, &g.BlackScore, &g.WhiteScore, &g.EndTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return games, nil
}

// QueryMoves returns the recorded moves of a game in play order
func (s *Store) QueryMoves(gameID string) ([]MoveRecord, error) {
	query := `SELECT move_id, game_id, move_number, move, flips, position_after_move, player_color, move_time_utc
		FROM moves WHERE game_id = ? ORDER BY move_number ASC`

	rows, err := s.db.Query(query, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(
			&m.MoveID, &m.GameID, &m.MoveNumber, &m.Move, &m.Flips,
			&m.PositionAfterMove, &m.PlayerColor, &m.MoveTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return moves, nil
}
