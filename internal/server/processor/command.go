// FILE: othello/internal/server/processor/command.go
package processor

import (
	"fmt"

	"othello/internal/server/core"
)

// CommandType defines the type of command being executed
type CommandType int

const (
	CmdCreateGame CommandType = iota
	CmdConfigurePlayers
	CmdGetGame
	CmdDeleteGame
	CmdMakeMove
	CmdUndoMove
	CmdRedoMove
	CmdGetBoard
	CmdForfeit
)

var commandNames = [...]string{
	CmdCreateGame:       "create game",
	CmdConfigurePlayers: "configure players",
	CmdGetGame:          "get game",
	CmdDeleteGame:       "delete game",
	CmdMakeMove:         "make move",
	CmdUndoMove:         "undo move",
	CmdRedoMove:         "redo move",
	CmdGetBoard:         "get board",
	CmdForfeit:          "forfeit",
}

func (t CommandType) String() string {
	if t < 0 || int(t) >= len(commandNames) {
		return fmt.Sprintf("command(%d)", int(t))
	}
	return commandNames[t]
}

// serialized reports whether a command runs under its game's lock.
// Reads take it too so they never observe an engine move half applied.
func (t CommandType) serialized() bool {
	return t != CmdCreateGame
}

// AutoMove asks the engine to play for the computer side to move
const AutoMove = "auto"

// Command is a unified structure for all processor operations
type Command struct {
	Type   CommandType
	UserID string
	GameID string // For game-specific commands
	Args   any    // Command-specific arguments
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Pending bool                `json:"pending,omitempty"` // Engine move submitted, not yet played
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewCreateGameCommand(req core.CreateGameRequest) Command {
	return Command{
		Type: CmdCreateGame,
		Args: req,
	}
}

func NewConfigurePlayersCommand(gameID string, req core.ConfigurePlayersRequest) Command {
	return Command{
		Type:   CmdConfigurePlayers,
		GameID: gameID,
		Args:   req,
	}
}

func NewGetGameCommand(gameID string) Command {
	return Command{
		Type:   CmdGetGame,
		GameID: gameID,
	}
}

func NewMakeMoveCommand(gameID string, req core.MoveRequest) Command {
	return Command{
		Type:   CmdMakeMove,
		GameID: gameID,
		Args:   req,
	}
}

func NewUndoMoveCommand(gameID string, req core.UndoRequest) Command {
	return Command{
		Type:   CmdUndoMove,
		GameID: gameID,
		Args:   req,
	}
}

func NewRedoMoveCommand(gameID string, req core.RedoRequest) Command {
	return Command{
		Type:   CmdRedoMove,
		GameID: gameID,
		Args:   req,
	}
}

func NewDeleteGameCommand(gameID string) Command {
	return Command{
		Type:   CmdDeleteGame,
		GameID: gameID,
	}
}

func NewGetBoardCommand(gameID string) Command {
	return Command{
		Type:   CmdGetBoard,
		GameID: gameID,
	}
}

func NewForfeitCommand(gameID string) Command {
	return Command{
		Type:   CmdForfeit,
		GameID: gameID,
	}
}
