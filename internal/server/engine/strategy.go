// FILE: othello/internal/server/engine/strategy.go
package engine

import (
	"errors"
	"math"

	"othello/internal/server/board"
	"othello/internal/server/core"
)

// ErrNoLegalMove is returned when a strategy is asked to move for a side
// that has to pass
var ErrNoLegalMove = errors.New("no legal move")

// Strategy chooses a move for c on b
type Strategy interface {
	SelectMove(b board.Board, c core.Color) (board.Move, error)
	Name() string
}

// Searcher is a Strategy that also reports its search value and effort
type Searcher interface {
	Strategy
	Search(b board.Board, c core.Color) (Result, error)
}

// Result is the outcome of one search
type Result struct {
	Move  board.Move
	Value float64 // Backed-up value from the mover's point of view
	Depth int     // Plies searched
	Nodes int64   // Positions visited
}

var (
	negInf = math.Inf(-1)
	posInf = math.Inf(1)
)

// rootMoves validates the side and returns its moves, or ErrNoLegalMove
func rootMoves(b board.Board, c core.Color) ([]board.Move, error) {
	moves, err := b.LegalMoves(c)
	if err != nil {
		return nil, err
	}
	if len(moves) == 0 {
		return nil, ErrNoLegalMove
	}
	return moves, nil
}

// greedy is the depth 0 choice: the move whose resulting board evaluates
// best for c, first one on ties. No recursion.
func greedy(b board.Board, moves []board.Move, c core.Color, eval EvalFunc) Result {
	best := Result{Value: negInf}
	for i, m := range moves {
		v := eval(b.Successor(m, c), c)
		if i == 0 || v > best.Value {
			best.Move = m
			best.Value = v
		}
	}
	best.Nodes = int64(len(moves))
	return best
}

func withDefaultEval(eval EvalFunc) EvalFunc {
	if eval == nil {
		return Evaluate
	}
	return eval
}
