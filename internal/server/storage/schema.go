// FILE: othello/internal/server/storage/schema.go
package storage

import "time"

// UserRecord represents a user account in the database
type UserRecord struct {
	UserID       string     `db:"user_id"`
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	CreatedAt    time.Time  `db:"created_at"`
	LastLoginAt  *time.Time `db:"last_login_at"`
}

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID          string     `db:"game_id"`
	InitialPosition string     `db:"initial_position"`
	BlackPlayerID   string     `db:"black_player_id"`
	BlackType       int        `db:"black_type"`
	BlackLevel      int        `db:"black_level"`
	BlackDepth      int        `db:"black_depth"`
	BlackEvaluator  string     `db:"black_evaluator"`
	WhitePlayerID   string     `db:"white_player_id"`
	WhiteType       int        `db:"white_type"`
	WhiteLevel      int        `db:"white_level"`
	WhiteDepth      int        `db:"white_depth"`
	WhiteEvaluator  string     `db:"white_evaluator"`
	StartTimeUTC    time.Time  `db:"start_time_utc"`
	Result          *string    `db:"result"` // nil while the game is unfinished
	BlackScore      *int       `db:"black_score"`
	WhiteScore      *int       `db:"white_score"`
	EndTimeUTC      *time.Time `db:"end_time_utc"`
}

// MoveRecord represents a row in the moves table
type MoveRecord struct {
	MoveID            int64     `db:"move_id"`
	GameID            string    `db:"game_id"`
	MoveNumber        int       `db:"move_number"`
	Move              string    `db:"move"` // Cell name or "pass"
	Flips             int       `db:"flips"`
	PositionAfterMove string    `db:"position_after_move"`
	PlayerColor       string    `db:"player_color"`
	MoveTimeUTC       time.Time `db:"move_time_utc"`
}

// ResultRecord is the final outcome written when a game ends
type ResultRecord struct {
	GameID     string
	Result     string // "black wins", "white wins" or "draw"
	BlackScore int
	WhiteScore int
	EndTimeUTC time.Time
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id TEXT PRIMARY KEY,
	username TEXT UNIQUE NOT NULL COLLATE NOCASE,
	email TEXT COLLATE NOCASE,
	password_hash TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_login_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_unique ON users(email) WHERE email IS NOT NULL AND email != '';

CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	initial_position TEXT NOT NULL,
	black_player_id TEXT NOT NULL,
	black_type INTEGER NOT NULL,
	black_level INTEGER NOT NULL DEFAULT 0,
	black_depth INTEGER NOT NULL DEFAULT 0,
	black_evaluator TEXT NOT NULL DEFAULT '',
	white_player_id TEXT NOT NULL,
	white_type INTEGER NOT NULL,
	white_level INTEGER NOT NULL DEFAULT 0,
	white_depth INTEGER NOT NULL DEFAULT 0,
	white_evaluator TEXT NOT NULL DEFAULT '',
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	result TEXT CHECK(result IN ('black wins', 'white wins', 'draw')),
	black_score INTEGER,
	white_score INTEGER,
	end_time_utc DATETIME
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	move TEXT NOT NULL,
	flips INTEGER NOT NULL DEFAULT 0,
	position_after_move TEXT NOT NULL,
	player_color TEXT NOT NULL CHECK(player_color IN ('b', 'w')),
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_games_black_player ON games(black_player_id);
CREATE INDEX IF NOT EXISTS idx_games_white_player ON games(white_player_id);
`
