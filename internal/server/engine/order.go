// FILE: othello/internal/server/engine/order.go
package engine

import (
	"slices"

	"othello/internal/server/board"
	"othello/internal/server/core"
)

// KeyFunc ranks a candidate move for c; higher keys are expanded first
type KeyFunc func(b board.Board, m board.Move, c core.Color) float64

// StaticKey ranks a move by the weight of its destination cell
func StaticKey(_ board.Board, m board.Move, _ core.Color) float64 {
	return PositionWeights[m.Row][m.Col]
}

// DynamicKey ranks a move by evaluating the board it produces
func DynamicKey(eval EvalFunc) KeyFunc {
	return func(b board.Board, m board.Move, c core.Color) float64 {
		return eval(b.Successor(m, c), c)
	}
}

// OrderMoves sorts moves in place by descending key. The sort is stable,
// so equal keys keep the row-major order LegalMoves produces.
func OrderMoves(b board.Board, moves []board.Move, c core.Color, key KeyFunc) {
	if len(moves) < 2 {
		return
	}
	ranked := make([]rankedMove, len(moves))
	for i, m := range moves {
		ranked[i] = rankedMove{move: m, key: key(b, m, c)}
	}
	slices.SortStableFunc(ranked, func(x, y rankedMove) int {
		switch {
		case x.key > y.key:
			return -1
		case x.key < y.key:
			return 1
		default:
			return 0
		}
	})
	for i := range ranked {
		moves[i] = ranked[i].move
	}
}

type rankedMove struct {
	move board.Move
	key  float64
}

// Ordering selects the comparator used before expanding a node
type Ordering int

const (
	// OrderAdaptive evaluates children near the root or when few moves
	// exist, and uses cell weights elsewhere
	OrderAdaptive Ordering = iota
	OrderStatic
	OrderDynamic
)

const (
	dynamicOrderPlies    = 2 // plies below the root that get dynamic ordering
	dynamicOrderMaxMoves = 4
)

func (o Ordering) String() string {
	switch o {
	case OrderStatic:
		return "static"
	case OrderDynamic:
		return "dynamic"
	default:
		return "adaptive"
	}
}

// keyFor picks the comparator for a node ply plies below the root
func (o Ordering) keyFor(ply, moveCount int, eval EvalFunc) KeyFunc {
	switch o {
	case OrderStatic:
		return StaticKey
	case OrderDynamic:
		return DynamicKey(eval)
	default:
		if ply < dynamicOrderPlies || moveCount <= dynamicOrderMaxMoves {
			return DynamicKey(eval)
		}
		return StaticKey
	}
}
