package game

import (
	"slices"
	"testing"

	"othello/internal/server/board"
	"othello/internal/server/core"
)

func newTestGame() *Game {
	black := core.NewPlayer(core.PlayerConfig{Type: core.PlayerHuman}, core.ColorBlack)
	white := core.NewPlayer(core.PlayerConfig{Type: core.PlayerComputer, Level: 2}, core.ColorWhite)
	return New(board.New(), core.ColorBlack, black, white)
}

// play applies cells alternately starting with the side to move
func play(t *testing.T, g *Game, cells ...string) {
	t.Helper()
	for _, cell := range cells {
		p, err := board.ParsePoint(cell)
		if err != nil {
			t.Fatalf("ParsePoint(%s): %v", cell, err)
		}
		turn := g.NextTurnColor()
		m, err := g.CurrentBoard().MoveAt(p, turn)
		if err != nil {
			t.Fatalf("MoveAt(%s): %v", cell, err)
		}
		g.AddSnapshot(g.CurrentBoard().Successor(m, turn), cell, turn.Opponent())
	}
}

func TestNewGame(t *testing.T) {
	g := newTestGame()

	if g.CurrentPosition() != board.StartingPosition {
		t.Errorf("position = %q, want %q", g.CurrentPosition(), board.StartingPosition)
	}
	if g.NextPlayer().Color != core.ColorBlack {
		t.Errorf("next player = %s, want black", g.NextPlayer().Color.Name())
	}
	if g.CurrentSnapshot().PlayerID != g.GetPlayer(core.ColorBlack).ID {
		t.Error("initial snapshot not owned by black")
	}
	if g.MoveCount() != 0 || len(g.Moves()) != 0 {
		t.Errorf("new game has %d moves", g.MoveCount())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := newTestGame()
	play(t, g, "e3", "f5")
	g.SetLastResult(&MoveResult{Move: "f5", PlayerColor: core.ColorWhite, Depth: 3})

	c := g.Clone()
	play(t, g, "f6")
	g.SetState(core.StatePending)
	g.GetPlayer(core.ColorWhite).Level = 3
	g.LastResult().Depth = 6

	if !slices.Equal(c.Moves(), []string{"e3", "f5"}) {
		t.Errorf("clone moves = %v", c.Moves())
	}
	if c.State() != core.StateOngoing {
		t.Errorf("clone state = %s", c.State())
	}
	if c.GetPlayer(core.ColorWhite).Level != 2 {
		t.Errorf("clone player level = %d", c.GetPlayer(core.ColorWhite).Level)
	}
	if c.LastResult().Depth != 3 {
		t.Errorf("clone last result depth = %d", c.LastResult().Depth)
	}

	if err := c.UndoMoves(2); err != nil {
		t.Fatalf("UndoMoves on clone: %v", err)
	}
	if g.MoveCount() != 3 {
		t.Errorf("original move count = %d after undo on clone", g.MoveCount())
	}
}

func TestUndoRedo(t *testing.T) {
	g := newTestGame()
	play(t, g, "e3", "f5", "f6")
	after := g.CurrentPosition()

	if err := g.UndoMoves(2); err != nil {
		t.Fatalf("UndoMoves(2): %v", err)
	}
	if !slices.Equal(g.Moves(), []string{"e3"}) {
		t.Fatalf("moves after undo = %v", g.Moves())
	}
	if g.NextTurnColor() != core.ColorWhite {
		t.Errorf("turn after undo = %s, want w", g.NextTurnColor())
	}
	if g.RedoCount() != 2 {
		t.Errorf("RedoCount = %d, want 2", g.RedoCount())
	}

	if err := g.RedoMoves(1); err != nil {
		t.Fatalf("RedoMoves(1): %v", err)
	}
	if !slices.Equal(g.Moves(), []string{"e3", "f5"}) {
		t.Fatalf("moves after first redo = %v", g.Moves())
	}
	if err := g.RedoMoves(1); err != nil {
		t.Fatalf("RedoMoves(1): %v", err)
	}
	if g.CurrentPosition() != after {
		t.Errorf("redo did not restore the position:\n%s", g.CurrentBoard())
	}
	if err := g.RedoMoves(1); err == nil {
		t.Error("redo beyond history succeeded")
	}
}

func TestNewMoveClearsRedo(t *testing.T) {
	g := newTestGame()
	play(t, g, "e3", "f5")
	if err := g.UndoMoves(1); err != nil {
		t.Fatalf("UndoMoves: %v", err)
	}
	play(t, g, "d3")

	if g.RedoCount() != 0 {
		t.Errorf("RedoCount = %d after a new move, want 0", g.RedoCount())
	}
	if !slices.Equal(g.Moves(), []string{"e3", "d3"}) {
		t.Errorf("moves = %v", g.Moves())
	}
}

func TestUndoErrors(t *testing.T) {
	g := newTestGame()
	play(t, g, "e3")

	tests := []struct {
		name  string
		count int
	}{
		{"zero", 0},
		{"negative", -1},
		{"beyond history", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.UndoMoves(tt.count); err == nil {
				t.Errorf("UndoMoves(%d) succeeded", tt.count)
			}
		})
	}
	if g.MoveCount() != 1 {
		t.Errorf("failed undo changed history: %d moves", g.MoveCount())
	}
}

func TestUndoResetsState(t *testing.T) {
	g := newTestGame()
	play(t, g, "e3")
	g.SetState(core.StateBlackWins)
	g.SetLastResult(&MoveResult{Move: "e3", PlayerColor: core.ColorBlack})

	if err := g.UndoMoves(1); err != nil {
		t.Fatalf("UndoMoves: %v", err)
	}
	if g.State() != core.StateOngoing {
		t.Errorf("state = %s, want ongoing", g.State())
	}
	if g.LastResult() != nil {
		t.Error("last result survived undo")
	}
}

func TestUpdatePlayers(t *testing.T) {
	g := newTestGame()
	play(t, g, "e3")

	black := core.NewPlayer(core.PlayerConfig{Type: core.PlayerComputer, Level: 1}, core.ColorBlack)
	white := core.NewPlayer(core.PlayerConfig{Type: core.PlayerHuman}, core.ColorWhite)
	g.UpdatePlayers(black, white)

	if g.CurrentSnapshot().PlayerID != white.ID {
		t.Error("current snapshot not reassigned to the new white player")
	}
	if g.GetPlayer(core.ColorBlack) != black {
		t.Error("black player not replaced")
	}
}
