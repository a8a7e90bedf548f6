package engine

import (
	"errors"
	"math/rand/v2"
	"testing"

	"othello/internal/server/board"
	"othello/internal/server/core"
)

// playout plays random moves from the start until stop reports true or the
// game ends, and returns the board with the side to move
func playout(rng *rand.Rand, stop func(board.Board, int) bool) (board.Board, core.Color) {
	b := board.New()
	turn := core.ColorBlack
	for ply := 0; !b.IsTerminal() && !stop(b, ply); ply++ {
		moves, _ := b.LegalMoves(turn)
		if len(moves) == 0 {
			turn = turn.Opponent()
			continue
		}
		b = b.Successor(moves[rng.IntN(len(moves))], turn)
		turn = turn.Opponent()
	}
	return b, turn
}

// midgame returns a reachable non-terminal board where the side to move can play
func midgame(rng *rand.Rand, maxPlies int) (board.Board, core.Color) {
	for {
		plies := rng.IntN(maxPlies + 1)
		b, turn := playout(rng, func(_ board.Board, ply int) bool { return ply >= plies })
		if b.HasLegalMove(turn) {
			return b, turn
		}
	}
}

// passPosition: after Black plays a1, White has no move but Black still does
func passPosition(t *testing.T) board.Board {
	t.Helper()
	b := board.Empty()
	cells := []struct {
		cell  string
		color core.Color
	}{
		{"c1", core.ColorBlack},
		{"f8", core.ColorBlack},
		{"b1", core.ColorWhite},
		{"e8", core.ColorWhite},
		{"g8", core.ColorWhite},
	}
	for _, c := range cells {
		p, err := board.ParsePoint(c.cell)
		if err != nil {
			t.Fatalf("ParsePoint(%s): %v", c.cell, err)
		}
		b, _ = b.With(p, c.color)
	}
	return b
}

func TestEvaluatorsAntisymmetric(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	for i := 0; i < 100; i++ {
		b, _ := playout(rng, func(_ board.Board, ply int) bool { return ply >= i%64 })
		for name, eval := range Evaluators {
			black := eval(b, core.ColorBlack)
			white := eval(b, core.ColorWhite)
			if black != -white {
				t.Fatalf("%s: black %v, white %v\n%s", name, black, white, b)
			}
		}
	}
}

func TestEvaluateTerminal(t *testing.T) {
	b := board.Empty()
	b, _ = b.With(board.Point{Row: 0, Col: 0}, core.ColorBlack)
	b, _ = b.With(board.Point{Row: 0, Col: 7}, core.ColorBlack)
	b, _ = b.With(board.Point{Row: 7, Col: 7}, core.ColorWhite)

	if got := Evaluate(b, core.ColorBlack); got != WinScore+1 {
		t.Errorf("black value = %v, want %v", got, WinScore+1)
	}
	if got := Evaluate(b, core.ColorWhite); got != -WinScore-1 {
		t.Errorf("white value = %v, want %v", got, -WinScore-1)
	}
}

func TestStartPositionBalanced(t *testing.T) {
	for name, eval := range Evaluators {
		if v := eval(board.New(), core.ColorBlack); v != 0 {
			t.Errorf("%s: start value = %v, want 0", name, v)
		}
	}
}

func TestLookupEvaluator(t *testing.T) {
	if _, err := LookupEvaluator(""); err != nil {
		t.Errorf("default evaluator: %v", err)
	}
	for _, name := range EvaluatorNames() {
		if _, err := LookupEvaluator(name); err != nil {
			t.Errorf("LookupEvaluator(%s): %v", name, err)
		}
	}
	if _, err := LookupEvaluator("nope"); err == nil {
		t.Error("unknown evaluator accepted")
	}
}

func TestOrderMovesDeterministic(t *testing.T) {
	rng := rand.New(rand.NewPCG(13, 14))
	index := func(m board.Move) int { return m.Row*board.Size + m.Col }

	for i := 0; i < 100; i++ {
		b, turn := midgame(rng, 50)
		for _, key := range []KeyFunc{StaticKey, DynamicKey(Evaluate)} {
			moves, _ := b.LegalMoves(turn)
			OrderMoves(b, moves, turn, key)
			for j := 1; j < len(moves); j++ {
				prev, cur := key(b, moves[j-1], turn), key(b, moves[j], turn)
				if prev < cur {
					t.Fatalf("keys not descending: %v then %v", prev, cur)
				}
				if prev == cur && index(moves[j-1]) > index(moves[j]) {
					t.Fatalf("tie between %s and %s not in row-major order", moves[j-1], moves[j])
				}
			}

			again, _ := b.LegalMoves(turn)
			OrderMoves(b, again, turn, key)
			for j := range moves {
				if moves[j] != again[j] {
					t.Fatal("ordering not reproducible")
				}
			}
		}
	}
}

func TestStaticKeyPrefersCorner(t *testing.T) {
	b := board.Empty()
	for _, c := range []struct {
		p     board.Point
		color core.Color
	}{
		{board.Point{Row: 7, Col: 6}, core.ColorWhite},
		{board.Point{Row: 7, Col: 5}, core.ColorBlack},
		{board.Point{Row: 3, Col: 3}, core.ColorWhite},
		{board.Point{Row: 3, Col: 4}, core.ColorBlack},
	} {
		b, _ = b.With(c.p, c.color)
	}

	moves, _ := b.LegalMoves(core.ColorBlack)
	OrderMoves(b, moves, core.ColorBlack, StaticKey)
	if len(moves) != 2 {
		t.Fatalf("got %d moves, want c4 and h8", len(moves))
	}
	if moves[0].String() != "h8" {
		t.Fatalf("first move = %s, want h8", moves[0])
	}
}

func TestMinimaxAlphaBetaEquivalence(t *testing.T) {
	rng := rand.New(rand.NewPCG(15, 16))
	orderings := []Ordering{OrderAdaptive, OrderStatic, OrderDynamic}

	for i := 0; i < 40; i++ {
		b, turn := midgame(rng, 56)
		for depth := 0; depth <= 3; depth++ {
			ordering := orderings[i%len(orderings)]
			mm := &MinimaxStrategy{Depth: depth, Eval: Evaluate, Ordering: ordering}
			ab := &AlphaBetaStrategy{Depth: depth, Eval: Evaluate, Ordering: ordering}
			par := &AlphaBetaStrategy{Depth: depth, Eval: Evaluate, Ordering: ordering, Workers: 4}

			want, err := mm.Search(b, turn)
			if err != nil {
				t.Fatalf("minimax: %v", err)
			}
			for _, s := range []*AlphaBetaStrategy{ab, par} {
				got, err := s.Search(b, turn)
				if err != nil {
					t.Fatalf("alphabeta: %v", err)
				}
				if got.Value != want.Value {
					t.Fatalf("depth %d workers %d: value %v, minimax %v\n%s", depth, s.Workers, got.Value, want.Value, b)
				}
				if got.Move != want.Move {
					t.Fatalf("depth %d workers %d: move %s, minimax %s", depth, s.Workers, got.Move, want.Move)
				}
				if s.Workers == 0 && got.Nodes > want.Nodes {
					t.Fatalf("alphabeta visited %d nodes, minimax %d", got.Nodes, want.Nodes)
				}
			}
		}
	}
}

func TestAlphaBetaPrunes(t *testing.T) {
	b := board.New()
	mm, _ := NewMinimaxStrategy(4, nil).Search(b, core.ColorBlack)
	ab, _ := NewAlphaBetaStrategy(4, nil).Search(b, core.ColorBlack)
	if ab.Value != mm.Value {
		t.Fatalf("value %v, minimax %v", ab.Value, mm.Value)
	}
	if ab.Nodes >= mm.Nodes {
		t.Errorf("alphabeta visited %d nodes, minimax %d", ab.Nodes, mm.Nodes)
	}
}

func TestDepthZero(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 18))
	for i := 0; i < 30; i++ {
		b, turn := midgame(rng, 50)
		moves, _ := b.LegalMoves(turn)
		OrderMoves(b, moves, turn, DynamicKey(Evaluate))

		want := moves[0]
		wantValue := Evaluate(b.Successor(want, turn), turn)
		for _, m := range moves[1:] {
			if v := Evaluate(b.Successor(m, turn), turn); v > wantValue {
				want, wantValue = m, v
			}
		}

		for _, s := range []Searcher{NewMinimaxStrategy(0, nil), NewAlphaBetaStrategy(0, nil)} {
			got, err := s.Search(b, turn)
			if err != nil {
				t.Fatalf("%s: %v", s.Name(), err)
			}
			if got.Move != want || got.Value != wantValue {
				t.Fatalf("%s: got %s (%v), want %s (%v)", s.Name(), got.Move, got.Value, want, wantValue)
			}
			if got.Nodes != int64(len(moves)) || got.Depth != 0 {
				t.Fatalf("%s: depth 0 visited %d nodes at depth %d", s.Name(), got.Nodes, got.Depth)
			}
		}
	}
}

func TestPassKeepsDepth(t *testing.T) {
	b := passPosition(t)
	a1 := board.Point{Row: 0, Col: 0}
	m, err := b.MoveAt(a1, core.ColorBlack)
	if err != nil {
		t.Fatalf("MoveAt(a1): %v", err)
	}
	child := b.Successor(m, core.ColorBlack)
	if child.HasLegalMove(core.ColorWhite) || !child.HasLegalMove(core.ColorBlack) {
		t.Fatal("position does not force a white pass")
	}

	// White passes and Black still has one ply: d8 or h8, each leaving 6 to 1
	const want = 5.0

	mm := &minimaxSearch{root: core.ColorBlack, eval: DiskDifferential}
	if got := mm.value(child, core.ColorWhite, 1); got != want {
		t.Errorf("minimax value after pass = %v, want %v", got, want)
	}
	ab := &alphaBetaSearch{root: core.ColorBlack, eval: DiskDifferential}
	if got := ab.value(child, core.ColorWhite, 1, 1, negInf, posInf); got != want {
		t.Errorf("alphabeta value after pass = %v, want %v", got, want)
	}

	full, _ := (&MinimaxStrategy{Depth: 2, Eval: DiskDifferential}).Search(b, core.ColorBlack)
	pruned, _ := (&AlphaBetaStrategy{Depth: 2, Eval: DiskDifferential}).Search(b, core.ColorBlack)
	if full.Value != pruned.Value || full.Move != pruned.Move {
		t.Errorf("minimax %s (%v), alphabeta %s (%v)", full.Move, full.Value, pruned.Move, pruned.Value)
	}
}

func TestEndgameSolve(t *testing.T) {
	rng := rand.New(rand.NewPCG(19, 20))
	for i := 0; i < 10; i++ {
		var b board.Board
		var turn core.Color
		for {
			b, turn = playout(rng, func(b board.Board, _ int) bool { return b.Empties() <= 7 })
			if b.HasLegalMove(turn) {
				break
			}
		}

		solver := &AlphaBetaStrategy{Depth: 1, EndgameEmpties: 10}
		got, err := solver.Search(b, turn)
		if err != nil {
			t.Fatalf("solve: %v", err)
		}
		if got.Depth != b.Empties() {
			t.Fatalf("solved to depth %d with %d empties", got.Depth, b.Empties())
		}

		exact, _ := (&MinimaxStrategy{Depth: b.Empties(), Eval: DiskDifferential}).Search(b, turn)
		if got.Value != exact.Value {
			t.Fatalf("endgame value %v, exhaustive %v\n%s", got.Value, exact.Value, b)
		}
	}
}

func TestNoLegalMove(t *testing.T) {
	strategies := []Strategy{
		NewRandomStrategy(1),
		NewMinimaxStrategy(2, nil),
		NewAlphaBetaStrategy(2, nil),
	}
	for _, s := range strategies {
		if _, err := s.SelectMove(board.Empty(), core.ColorBlack); !errors.Is(err, ErrNoLegalMove) {
			t.Errorf("%s on empty board: err = %v", s.Name(), err)
		}
		if _, err := s.SelectMove(board.New(), core.ColorEmpty); !errors.Is(err, board.ErrInvalidColor) {
			t.Errorf("%s for Empty: err = %v", s.Name(), err)
		}
	}
}

func TestRandomContainment(t *testing.T) {
	rng := rand.New(rand.NewPCG(21, 22))
	s := NewRandomStrategy(42)
	for i := 0; i < 50; i++ {
		b, turn := midgame(rng, 55)
		legal, _ := b.LegalMoves(turn)
		for j := 0; j < 20; j++ {
			m, err := s.SelectMove(b, turn)
			if err != nil {
				t.Fatalf("SelectMove: %v", err)
			}
			found := false
			for _, l := range legal {
				if l == m {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("random move %s is not legal", m)
			}
			if _, err := b.Apply(m, turn); err != nil {
				t.Fatalf("Apply(%s): %v", m, err)
			}
		}
	}

	seen := make(map[board.Point]bool)
	for i := 0; i < 400; i++ {
		m, _ := s.SelectMove(board.New(), core.ColorBlack)
		seen[m.Point] = true
	}
	if len(seen) != 4 {
		t.Errorf("random strategy chose %d distinct opening moves, want 4", len(seen))
	}
}

func TestNewStrategy(t *testing.T) {
	tests := []struct {
		d     Difficulty
		name  string
		depth int
	}{
		{Easy, "random", 0},
		{Medium, "minimax", mediumDepth},
		{Hard, "alphabeta", hardDepth},
	}
	for _, tt := range tests {
		s, err := NewStrategy(tt.d)
		if err != nil {
			t.Fatalf("NewStrategy(%s): %v", tt.d, err)
		}
		if s.Name() != tt.name {
			t.Errorf("%s: strategy %s, want %s", tt.d, s.Name(), tt.name)
		}
		if tt.d.Depth() != tt.depth {
			t.Errorf("%s: depth %d, want %d", tt.d, tt.d.Depth(), tt.depth)
		}
	}

	s, err := NewStrategy(Hard, WithDepth(2), WithEvaluator(Classic), WithWorkers(3))
	if err != nil {
		t.Fatalf("NewStrategy(Hard, opts): %v", err)
	}
	ab, ok := s.(*AlphaBetaStrategy)
	if !ok || ab.Depth != 2 || ab.Workers != 3 || ab.EndgameEmpties != hardEndgame {
		t.Errorf("options not applied: %+v", s)
	}

	if _, err := NewStrategy(Difficulty(7)); err == nil {
		t.Error("invalid difficulty accepted")
	}
	if _, err := NewStrategy(Medium, WithDepth(-1)); err == nil {
		t.Error("negative depth accepted")
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in   string
		want Difficulty
		ok   bool
	}{
		{"easy", Easy, true},
		{"Medium", Medium, true},
		{" hard ", Hard, true},
		{"3", Hard, true},
		{"expert", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseDifficulty(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseDifficulty(%q) = %v, %v", tt.in, got, err)
		}
	}
}
