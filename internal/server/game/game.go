// FILE: othello/internal/server/game/game.go
package game

import (
	"fmt"

	"othello/internal/server/board"
	"othello/internal/server/core"
)

type Snapshot struct {
	Board         board.Board `json:"-"`
	PreviousMove  string      `json:"previousMove"` // Cell name, "pass", or empty for the initial position
	NextTurnColor core.Color  `json:"nextTurnColor"`
	PlayerID      string      `json:"playerId"` // ID of the player whose turn it is
}

// Position encodes the snapshot board and side to move
func (s Snapshot) Position() string {
	return board.EncodePosition(s.Board, s.NextTurnColor)
}

// MoveResult tracks the outcome of a move
type MoveResult struct {
	Move        string     `json:"move"`
	PlayerColor core.Color `json:"playerColor"`
	GameState   core.State `json:"gameState"`
	Value       float64    `json:"value"`
	Depth       int        `json:"depth"`
	Nodes       int64      `json:"nodes"`
	Cached      bool       `json:"cached"`
}

type Game struct {
	snapshots  []Snapshot
	redo       []Snapshot // Undone snapshots, most recently undone last
	players    map[core.Color]*core.Player
	state      core.State
	lastResult *MoveResult
}

func New(initial board.Board, startingTurnColor core.Color, blackPlayer, whitePlayer *core.Player) *Game {
	g := &Game{
		players: map[core.Color]*core.Player{
			core.ColorBlack: blackPlayer,
			core.ColorWhite: whitePlayer,
		},
		state: core.StateOngoing,
	}
	g.snapshots = []Snapshot{{
		Board:         initial,
		NextTurnColor: startingTurnColor,
		PlayerID:      g.players[startingTurnColor].ID,
	}}
	return g
}

// Clone returns an independent copy that shares no slices or maps with g
func (g *Game) Clone() *Game {
	c := &Game{
		snapshots: append([]Snapshot(nil), g.snapshots...),
		redo:      append([]Snapshot(nil), g.redo...),
		players:   make(map[core.Color]*core.Player, len(g.players)),
		state:     g.state,
	}
	for color, p := range g.players {
		cp := *p
		c.players[color] = &cp
	}
	if g.lastResult != nil {
		r := *g.lastResult
		c.lastResult = &r
	}
	return c
}

func (g *Game) SetLastResult(result *MoveResult) {
	g.lastResult = result
}

func (g *Game) LastResult() *MoveResult {
	return g.lastResult
}

// CurrentSnapshot returns the latest game snapshot
func (g *Game) CurrentSnapshot() Snapshot {
	return g.snapshots[len(g.snapshots)-1]
}

// History returns a copy of every snapshot, the initial position first
func (g *Game) History() []Snapshot {
	return append([]Snapshot(nil), g.snapshots...)
}

func (g *Game) CurrentBoard() board.Board {
	return g.CurrentSnapshot().Board
}

// CurrentPosition returns the current position string
func (g *Game) CurrentPosition() string {
	return g.CurrentSnapshot().Position()
}

func (g *Game) NextTurnColor() core.Color {
	return g.CurrentSnapshot().NextTurnColor
}

func (g *Game) NextPlayer() *core.Player {
	return g.players[g.NextTurnColor()]
}

func (g *Game) GetPlayer(color core.Color) *core.Player {
	return g.players[color]
}

// AddSnapshot records a move and discards anything available to redo
func (g *Game) AddSnapshot(b board.Board, move string, nextTurnColor core.Color) {
	g.snapshots = append(g.snapshots, Snapshot{
		Board:         b,
		PreviousMove:  move,
		NextTurnColor: nextTurnColor,
		PlayerID:      g.players[nextTurnColor].ID,
	})
	g.redo = g.redo[:0]
}

func (g *Game) UpdatePlayers(blackPlayer, whitePlayer *core.Player) {
	g.players[core.ColorBlack] = blackPlayer
	g.players[core.ColorWhite] = whitePlayer

	// Current snapshot follows the new player of its color
	currentSnap := &g.snapshots[len(g.snapshots)-1]
	currentSnap.PlayerID = g.players[currentSnap.NextTurnColor].ID
}

func (g *Game) UndoMoves(count int) error {
	if count < 1 {
		return fmt.Errorf("invalid undo count: %d", count)
	}

	availableMoves := len(g.snapshots) - 1
	if availableMoves < count {
		return fmt.Errorf("cannot undo %d moves: only %d moves available", count, availableMoves)
	}

	cut := len(g.snapshots) - count
	for i := len(g.snapshots) - 1; i >= cut; i-- {
		g.redo = append(g.redo, g.snapshots[i])
	}
	g.snapshots = g.snapshots[:cut]
	g.state = core.StateOngoing
	g.lastResult = nil
	return nil
}

// RedoMoves replays count undone moves in their original order
func (g *Game) RedoMoves(count int) error {
	if count < 1 {
		return fmt.Errorf("invalid redo count: %d", count)
	}
	if len(g.redo) < count {
		return fmt.Errorf("cannot redo %d moves: only %d moves available", count, len(g.redo))
	}

	for i := 0; i < count; i++ {
		last := len(g.redo) - 1
		snap := g.redo[last]
		g.redo = g.redo[:last]
		snap.PlayerID = g.players[snap.NextTurnColor].ID
		g.snapshots = append(g.snapshots, snap)
	}
	g.state = core.StateOngoing
	g.lastResult = nil
	return nil
}

// RedoCount is the number of moves RedoMoves can replay
func (g *Game) RedoCount() int {
	return len(g.redo)
}

// Moves lists the moves played so far, passes included
func (g *Game) Moves() []string {
	moves := make([]string, 0, len(g.snapshots)-1)
	for i := 1; i < len(g.snapshots); i++ {
		moves = append(moves, g.snapshots[i].PreviousMove)
	}
	return moves
}

func (g *Game) MoveCount() int {
	return len(g.snapshots) - 1
}

func (g *Game) State() core.State {
	return g.state
}

func (g *Game) SetState(s core.State) {
	g.state = s
}

func (g *Game) InitialPosition() string {
	return g.snapshots[0].Position()
}
