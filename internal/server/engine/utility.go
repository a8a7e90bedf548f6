// FILE: othello/internal/server/engine/utility.go
package engine

import (
	"fmt"
	"sort"

	"othello/internal/server/board"
	"othello/internal/server/core"
)

// WinScore dominates any non-terminal evaluation
const WinScore = 10000

// EvalFunc scores b from the point of view of c. Higher favours c.
type EvalFunc func(b board.Board, c core.Color) float64

// PositionWeights rates each cell. Corners are worth holding, the cells
// touching an empty corner hand it to the opponent.
var PositionWeights = [board.Size][board.Size]float64{
	{100, -20, 10, 5, 5, 10, -20, 100},
	{-20, -50, -2, -2, -2, -2, -50, -20},
	{10, -2, 5, 1, 1, 5, -2, 10},
	{5, -2, 1, 1, 1, 1, -2, 5},
	{5, -2, 1, 1, 1, 1, -2, 5},
	{10, -2, 5, 1, 1, 5, -2, 10},
	{-20, -50, -2, -2, -2, -2, -50, -20},
	{100, -20, 10, 5, 5, 10, -20, 100},
}

// Weights combines disk, mobility and positional differentials
type Weights struct {
	Disc     float64
	Mobility float64
	Position float64
}

// DefaultWeights is the evaluation used by Evaluate
var DefaultWeights = Weights{Disc: 1, Mobility: 5, Position: 1}

// Evaluate scores b for c with DefaultWeights
func Evaluate(b board.Board, c core.Color) float64 {
	return DefaultWeights.Evaluate(b, c)
}

// Evaluate scores b for c. Every term is a difference between c and its
// opponent, so Evaluate(b, opp) == -Evaluate(b, c).
func (w Weights) Evaluate(b board.Board, c core.Color) float64 {
	if b.IsTerminal() {
		return terminalValue(b, c)
	}
	opp := c.Opponent()

	disc := float64(b.Discs(c) - b.Discs(opp))
	mobility := float64(b.Mobility(c) - b.Mobility(opp))

	var position float64
	for r := 0; r < board.Size; r++ {
		for col := 0; col < board.Size; col++ {
			switch b.At(board.Point{Row: r, Col: col}) {
			case c:
				position += PositionWeights[r][col]
			case opp:
				position -= PositionWeights[r][col]
			}
		}
	}

	return w.Disc*disc + w.Mobility*mobility + w.Position*position
}

// terminalValue scores a finished game: a win beats any heuristic value,
// and larger margins beat smaller ones
func terminalValue(b board.Board, c core.Color) float64 {
	diff := float64(b.Discs(c) - b.Discs(c.Opponent()))
	switch {
	case diff > 0:
		return WinScore + diff
	case diff < 0:
		return -WinScore + diff
	default:
		return 0
	}
}

// DiskDifferential counts disks only. Used for exact endgame search.
func DiskDifferential(b board.Board, c core.Color) float64 {
	if b.IsTerminal() {
		return terminalValue(b, c)
	}
	return float64(b.Discs(c) - b.Discs(c.Opponent()))
}

// CornerDifferential counts owned corners
func CornerDifferential(b board.Board, c core.Color) float64 {
	if b.IsTerminal() {
		return terminalValue(b, c)
	}
	return float64(corners(b, c) - corners(b, c.Opponent()))
}

// MobilityDifferential counts legal moves
func MobilityDifferential(b board.Board, c core.Color) float64 {
	if b.IsTerminal() {
		return terminalValue(b, c)
	}
	return float64(b.Mobility(c) - b.Mobility(c.Opponent()))
}

// Classic weighs mobility against X and C squares next to empty corners
// and owned corners, shifting weight as the board fills. From move 44 the
// disk count joins in.
func Classic(b board.Board, c core.Color) float64 {
	if b.IsTerminal() {
		return terminalValue(b, c)
	}
	turn := board.Size*board.Size - 4 - b.Empties()
	side := func(s core.Color) int {
		v := b.Mobility(s) +
			(turn-63)*badCSquares(b, s) +
			(turn-60)*badXSquares(b, s) +
			(66-turn)*corners(b, s)
		if turn >= 44 {
			v += b.Discs(s)
		}
		return v
	}
	return float64(side(c) - side(c.Opponent()))
}

var cornerCells = [4]board.Point{{Row: 0, Col: 0}, {Row: 0, Col: 7}, {Row: 7, Col: 0}, {Row: 7, Col: 7}}

// xSquares and cSquares are indexed like cornerCells
var (
	xSquares = [4]board.Point{{Row: 1, Col: 1}, {Row: 1, Col: 6}, {Row: 6, Col: 1}, {Row: 6, Col: 6}}
	cSquares = [4][2]board.Point{
		{{Row: 0, Col: 1}, {Row: 1, Col: 0}},
		{{Row: 0, Col: 6}, {Row: 1, Col: 7}},
		{{Row: 6, Col: 0}, {Row: 7, Col: 1}},
		{{Row: 7, Col: 6}, {Row: 6, Col: 7}},
	}
)

func corners(b board.Board, c core.Color) int {
	n := 0
	for _, p := range cornerCells {
		if b.At(p) == c {
			n++
		}
	}
	return n
}

func badXSquares(b board.Board, c core.Color) int {
	n := 0
	for i, p := range xSquares {
		if b.At(p) == c && b.At(cornerCells[i]) == core.ColorEmpty {
			n++
		}
	}
	return n
}

func badCSquares(b board.Board, c core.Color) int {
	n := 0
	for i, pair := range cSquares {
		if b.At(cornerCells[i]) != core.ColorEmpty {
			continue
		}
		for _, p := range pair {
			if b.At(p) == c {
				n++
			}
		}
	}
	return n
}

// Evaluators maps the names accepted in player configuration
var Evaluators = map[string]EvalFunc{
	"weighted": Evaluate,
	"disks":    DiskDifferential,
	"corners":  CornerDifferential,
	"mobility": MobilityDifferential,
	"classic":  Classic,
}

// DefaultEvaluator is the name of Evaluate in Evaluators
const DefaultEvaluator = "weighted"

// LookupEvaluator resolves a name, empty meaning the default
func LookupEvaluator(name string) (EvalFunc, error) {
	if name == "" {
		name = DefaultEvaluator
	}
	eval, ok := Evaluators[name]
	if !ok {
		return nil, fmt.Errorf("unknown evaluator %q (have %v)", name, EvaluatorNames())
	}
	return eval, nil
}

// EvaluatorNames lists the registered names in sorted order
func EvaluatorNames() []string {
	names := make([]string, 0, len(Evaluators))
	for name := range Evaluators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
