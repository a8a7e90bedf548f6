// FILE: othello/internal/server/engine/alphabeta.go
package engine

import (
	"sync"
	"sync/atomic"

	"othello/internal/server/board"
	"othello/internal/server/core"
)

// AlphaBetaStrategy is minimax with alpha-beta pruning and ordered expansion.
// It returns the same value and move as MinimaxStrategy with the same
// depth, evaluation and ordering.
type AlphaBetaStrategy struct {
	Depth    int
	Eval     EvalFunc
	Ordering Ordering

	// Workers > 1 searches root moves concurrently, each with its own full window
	Workers int

	// EndgameEmpties > 0 solves positions with at most that many empty
	// cells to the end, scoring by disk differential
	EndgameEmpties int
}

// NewAlphaBetaStrategy returns a pruned search of depth plies
func NewAlphaBetaStrategy(depth int, eval EvalFunc) *AlphaBetaStrategy {
	return &AlphaBetaStrategy{Depth: depth, Eval: eval}
}

func (s *AlphaBetaStrategy) Name() string {
	return "alphabeta"
}

func (s *AlphaBetaStrategy) SelectMove(b board.Board, c core.Color) (board.Move, error) {
	r, err := s.Search(b, c)
	return r.Move, err
}

func (s *AlphaBetaStrategy) Search(b board.Board, c core.Color) (Result, error) {
	moves, err := rootMoves(b, c)
	if err != nil {
		return Result{}, err
	}

	depth := s.Depth
	eval := withDefaultEval(s.Eval)
	if s.EndgameEmpties > 0 && b.Empties() <= s.EndgameEmpties {
		// Every ply fills a cell and passes are free, so this reaches the end
		depth = b.Empties()
		eval = DiskDifferential
	}

	OrderMoves(b, moves, c, s.Ordering.keyFor(0, len(moves), eval))

	if depth <= 0 {
		return greedy(b, moves, c, eval), nil
	}

	if s.Workers > 1 && len(moves) > 1 {
		return s.searchParallel(b, moves, c, depth, eval), nil
	}

	search := &alphaBetaSearch{root: c, eval: eval, ordering: s.Ordering}
	best := Result{Value: negInf, Depth: depth}
	alpha := negInf
	for i, m := range moves {
		v := search.value(b.Successor(m, c), c.Opponent(), depth-1, 1, alpha, posInf)
		if i == 0 || v > best.Value {
			best.Move = m
			best.Value = v
		}
		alpha = max(alpha, v)
	}
	best.Nodes = search.nodes + 1
	return best, nil
}

// searchParallel gives each root move a full window so every value is exact
// and no bounds are shared between goroutines
func (s *AlphaBetaStrategy) searchParallel(b board.Board, moves []board.Move, c core.Color, depth int, eval EvalFunc) Result {
	values := make([]float64, len(moves))
	var nodes atomic.Int64
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.Workers)

	for i, m := range moves {
		wg.Add(1)
		go func(i int, m board.Move) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			search := &alphaBetaSearch{root: c, eval: eval, ordering: s.Ordering}
			values[i] = search.value(b.Successor(m, c), c.Opponent(), depth-1, 1, negInf, posInf)
			nodes.Add(search.nodes)
		}(i, m)
	}
	wg.Wait()

	best := Result{Move: moves[0], Value: values[0], Depth: depth}
	for i := 1; i < len(moves); i++ {
		if values[i] > best.Value {
			best.Move = moves[i]
			best.Value = values[i]
		}
	}
	best.Nodes = nodes.Load() + 1
	return best
}

type alphaBetaSearch struct {
	root     core.Color
	eval     EvalFunc
	ordering Ordering
	nodes    int64
}

// value is fail-soft alpha-beta scored for root. The root side maximizes.
func (s *alphaBetaSearch) value(b board.Board, toMove core.Color, depth, ply int, alpha, beta float64) float64 {
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
		return s.value(b, next, depth, ply, alpha, beta)
	}

	OrderMoves(b, moves, toMove, s.ordering.keyFor(ply, len(moves), s.eval))

	if toMove == s.root {
		v := negInf
		for _, m := range moves {
			v = max(v, s.value(b.Successor(m, toMove), next, depth-1, ply+1, alpha, beta))
			alpha = max(alpha, v)
			if alpha >= beta {
				break
			}
		}
		return v
	}

	v := posInf
	for _, m := range moves {
		v = min(v, s.value(b.Successor(m, toMove), next, depth-1, ply+1, alpha, beta))
		beta = min(beta, v)
		if alpha >= beta {
			break
		}
	}
	return v
}
