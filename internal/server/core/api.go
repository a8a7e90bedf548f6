// FILE: othello/internal/server/core/api.go
package core

// Request types

type CreateGameRequest struct {
	Black    PlayerConfig `json:"black" validate:"required"`
	White    PlayerConfig `json:"white" validate:"required"`
	Position string       `json:"position,omitempty" validate:"omitempty,len=66"`
}

type ConfigurePlayersRequest struct {
	Black PlayerConfig `json:"black" validate:"required"`
	White PlayerConfig `json:"white" validate:"required"`
}

type MoveRequest struct {
	Move string `json:"move" validate:"required,min=2,max=4"` // "auto" for computer move, "d3" style cell otherwise
}

type UndoRequest struct {
	Count int `json:"count" validate:"required,min=1,max=120"` // A game has at most 60 placements plus passes
}

type RedoRequest struct {
	Count int `json:"count" validate:"required,min=1,max=120"`
}

// Response types

type GameResponse struct {
	GameID     string          `json:"gameId"`
	Position   string          `json:"position"`
	Turn       string          `json:"turn"`  // "b" or "w"
	State      string          `json:"state"` // "ongoing", "black wins", etc
	Moves      []string        `json:"moves"`
	LegalMoves []string        `json:"legalMoves"`
	Score      ScoreInfo       `json:"score"`
	Players    PlayersResponse `json:"players"`
	LastMove   *MoveInfo       `json:"lastMove,omitempty"`
}

type ScoreInfo struct {
	Black int `json:"black"`
	White int `json:"white"`
}

type MoveInfo struct {
	Move        string  `json:"move"`
	PlayerColor string  `json:"playerColor"` // "b" or "w"
	Value       float64 `json:"value,omitempty"`
	Depth       int     `json:"depth,omitempty"`
	Nodes       int64   `json:"nodes,omitempty"`
	Cached      bool    `json:"cached,omitempty"`
}

type BoardResponse struct {
	Position string `json:"position"`
	Board    string `json:"board"` // ASCII representation
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
