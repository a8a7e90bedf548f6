// FILE: othello/internal/server/engine/minimax.go
package engine

import (
	"othello/internal/server/board"
	"othello/internal/server/core"
)

// MinimaxStrategy searches every line to a fixed depth
type MinimaxStrategy struct {
	Depth    int
	Eval     EvalFunc
	Ordering Ordering
}

// NewMinimaxStrategy returns a full-width search of depth plies
func NewMinimaxStrategy(depth int, eval EvalFunc) *MinimaxStrategy {
	return &MinimaxStrategy{Depth: depth, Eval: eval}
}

func (s *MinimaxStrategy) Name() string {
	return "minimax"
}

func (s *MinimaxStrategy) SelectMove(b board.Board, c core.Color) (board.Move, error) {
	r, err := s.Search(b, c)
	return r.Move, err
}

// Search returns the first root move, in comparator order, that reaches
// the minimax value. A side without moves passes without using depth.
func (s *MinimaxStrategy) Search(b board.Board, c core.Color) (Result, error) {
	moves, err := rootMoves(b, c)
	if err != nil {
		return Result{}, err
	}
	eval := withDefaultEval(s.Eval)

	// Only root order matters here: it decides between equal values
	OrderMoves(b, moves, c, s.Ordering.keyFor(0, len(moves), eval))

	if s.Depth <= 0 {
		return greedy(b, moves, c, eval), nil
	}

	search := &minimaxSearch{root: c, eval: eval}
	best := Result{Value: negInf, Depth: s.Depth}
	for i, m := range moves {
		v := search.value(b.Successor(m, c), c.Opponent(), s.Depth-1)
		if i == 0 || v > best.Value {
			best.Move = m
			best.Value = v
		}
	}
	best.Nodes = search.nodes + 1
	return best, nil
}

type minimaxSearch struct {
	root  core.Color
	eval  EvalFunc
	nodes int64
}

// value backs up the minimax value of b with toMove to play, scored for root
func (s *minimaxSearch) value(b board.Board, toMove core.Color, depth int) float64 {
	s.nodes++
	if depth == 0 {
		return s.eval(b, s.root)
	}

	moves, _ := b.LegalMoves(toMove)
	next := toMove.Opponent()
	if len(moves) == 0 {
		if !b.HasLegalMove(next) {
			return s.eval(b, s.root)
		}
		return s.value(b, next, depth)
	}

	if toMove == s.root {
		v := negInf
		for _, m := range moves {
			v = max(v, s.value(b.Successor(m, toMove), next, depth-1))
		}
		return v
	}

	v := posInf
	for _, m := range moves {
		v = min(v, s.value(b.Successor(m, toMove), next, depth-1))
	}
	return v
}
