// FILE: othello/internal/server/core/player.go
package core

import (
	"github.com/google/uuid"
)

type PlayerType int

const (
	PlayerHuman PlayerType = iota + 1
	PlayerComputer
)

// Player is the complete game entity with all state
type Player struct {
	ID        string     `json:"id"`
	Color     Color      `json:"color"`
	Type      PlayerType `json:"type"`
	Level     int        `json:"level,omitempty"`     // Difficulty, only for computer
	Depth     int        `json:"depth,omitempty"`     // Search depth override, only for computer
	Evaluator string     `json:"evaluator,omitempty"` // Evaluation function name, only for computer
}

// PlayerConfig for API requests and configuration
type PlayerConfig struct {
	Type      PlayerType `json:"type" validate:"required,oneof=1 2"`
	Level     int        `json:"level,omitempty" validate:"omitempty,min=1,max=3"`
	Depth     int        `json:"depth,omitempty" validate:"omitempty,min=1,max=8"`
	Evaluator string     `json:"evaluator,omitempty" validate:"omitempty,oneof=weighted disks corners mobility classic"`
}

// PlayersResponse for API responses
type PlayersResponse struct {
	Black *Player `json:"black"`
	White *Player `json:"white"`
}

// NewPlayer creates a Player from PlayerConfig
func NewPlayer(config PlayerConfig, color Color) *Player {
	player := &Player{
		ID:    uuid.New().String(),
		Color: color,
		Type:  config.Type,
	}

	if config.Type == PlayerComputer {
		player.Level = config.Level
		player.Depth = config.Depth
		player.Evaluator = config.Evaluator
	}

	return player
}
