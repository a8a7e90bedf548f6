// FILE: othello/internal/client/api/types.go
package api

import "time"

// Player types as sent by the server
const (
	PlayerHuman    = 1
	PlayerComputer = 2
)

type PlayerConfig struct {
	Type      int    `json:"type"`
	Level     int    `json:"level,omitempty"`
	Depth     int    `json:"depth,omitempty"`
	Evaluator string `json:"evaluator,omitempty"`
}

type CreateGameRequest struct {
	Black    PlayerConfig `json:"black"`
	White    PlayerConfig `json:"white"`
	Position string       `json:"position,omitempty"`
}

type MoveRequest struct {
	Move string `json:"move"`
}

type UndoRequest struct {
	Count int `json:"count"`
}

type RedoRequest struct {
	Count int `json:"count"`
}

type PlayerInfo struct {
	ID        string `json:"id"`
	Color     int    `json:"color"`
	Type      int    `json:"type"`
	Level     int    `json:"level,omitempty"`
	Depth     int    `json:"depth,omitempty"`
	Evaluator string `json:"evaluator,omitempty"`
}

func (p PlayerInfo) IsComputer() bool {
	return p.Type == PlayerComputer
}

type PlayersInfo struct {
	Black PlayerInfo `json:"black"`
	White PlayerInfo `json:"white"`
}

type ScoreInfo struct {
	Black int `json:"black"`
	White int `json:"white"`
}

type MoveInfo struct {
	Move        string  `json:"move"`
	PlayerColor string  `json:"playerColor"`
	Value       float64 `json:"value,omitempty"`
	Depth       int     `json:"depth,omitempty"`
	Nodes       int64   `json:"nodes,omitempty"`
	Cached      bool    `json:"cached,omitempty"`
}

type GameResponse struct {
	GameID     string      `json:"gameId"`
	Position   string      `json:"position"`
	Turn       string      `json:"turn"`
	State      string      `json:"state"`
	Moves      []string    `json:"moves"`
	LegalMoves []string    `json:"legalMoves"`
	Score      ScoreInfo   `json:"score"`
	Players    PlayersInfo `json:"players"`
	LastMove   *MoveInfo   `json:"lastMove,omitempty"`
}

// PlayerToMove returns the player whose turn it is
func (g *GameResponse) PlayerToMove() PlayerInfo {
	if g.Turn == "w" {
		return g.Players.White
	}
	return g.Players.Black
}

type BoardResponse struct {
	Position string `json:"position"`
	Board    string `json:"board"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	Time          int64  `json:"time"`
	Storage       string `json:"storage,omitempty"`
	ComputerGames int    `json:"computerGames"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type UserResponse struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
