// FILE: othello/cmd/othello-arena/match.go
package main

import (
	"fmt"
	"sync"

	"othello/internal/server/board"
	"othello/internal/server/core"
	"othello/internal/server/engine"
)

// entrant describes how to build one side's strategy for every game
type entrant struct {
	Level     engine.Difficulty
	Depth     int
	Evaluator string
}

func (p entrant) String() string {
	s := p.Level.String()
	if p.Depth > 0 {
		s += fmt.Sprintf("/d%d", p.Depth)
	}
	if p.Evaluator != "" {
		s += "/" + p.Evaluator
	}
	return s
}

func (p entrant) build(seed uint64) (engine.Strategy, error) {
	eval, err := engine.LookupEvaluator(p.Evaluator)
	if err != nil {
		return nil, err
	}
	opts := []engine.Option{engine.WithEvaluator(eval), engine.WithSeed(seed)}
	if p.Depth > 0 {
		opts = append(opts, engine.WithDepth(p.Depth))
	}
	return engine.NewStrategy(p.Level, opts...)
}

type gameResult struct {
	Index  int
	Winner core.Color
	Black  int
	White  int
	Plies  int // Moves and passes
	Err    error
}

// Margin is the final disk difference from Black's point of view
func (r gameResult) Margin() int {
	return r.Black - r.White
}

func (r gameResult) Result() string {
	if r.Winner == core.ColorEmpty {
		return "draw"
	}
	return r.Winner.Name() + " wins"
}

// playGame runs one game to completion from b with turn to move
func playGame(b board.Board, turn core.Color, black, white engine.Strategy) (gameResult, error) {
	var r gameResult
	for !b.IsTerminal() {
		if !b.HasLegalMove(turn) {
			turn = turn.Opponent()
			r.Plies++
			continue
		}
		strategy := black
		if turn == core.ColorWhite {
			strategy = white
		}
		m, err := strategy.SelectMove(b, turn)
		if err != nil {
			return r, fmt.Errorf("%s (%s) at ply %d: %w", strategy.Name(), turn.Name(), r.Plies, err)
		}
		if b, err = b.Apply(m, turn); err != nil {
			return r, fmt.Errorf("%s (%s) played %s: %w", strategy.Name(), turn.Name(), m, err)
		}
		turn = turn.Opponent()
		r.Plies++
	}
	r.Winner = b.Outcome()
	r.Black = b.Discs(core.ColorBlack)
	r.White = b.Discs(core.ColorWhite)
	return r, nil
}

// runMatch plays games across a pool of workers and returns results in
// game order
func runMatch(black, white entrant, games, workers int, seed uint64) []gameResult {
	jobs := make(chan int)
	results := make([]gameResult, games)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = runOne(i, black, white, seed)
			}
		}()
	}

	for i := 0; i < games; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func runOne(i int, black, white entrant, seed uint64) gameResult {
	bs, err := black.build(seed + uint64(2*i))
	if err != nil {
		return gameResult{Index: i, Err: err}
	}
	ws, err := white.build(seed + uint64(2*i+1))
	if err != nil {
		return gameResult{Index: i, Err: err}
	}
	r, err := playGame(board.New(), core.ColorBlack, bs, ws)
	r.Index = i
	r.Err = err
	return r
}

// summary aggregates finished games
type summary struct {
	Games      int
	BlackWins  int
	WhiteWins  int
	Draws      int
	Errors     int
	MarginSum  int
	PliesTotal int
}

func summarize(results []gameResult) summary {
	var s summary
	for _, r := range results {
		if r.Err != nil {
			s.Errors++
			continue
		}
		s.Games++
		s.MarginSum += r.Margin()
		s.PliesTotal += r.Plies
		switch r.Winner {
		case core.ColorBlack:
			s.BlackWins++
		case core.ColorWhite:
			s.WhiteWins++
		default:
			s.Draws++
		}
	}
	return s
}

func (s summary) AverageMargin() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.MarginSum) / float64(s.Games)
}

func (s summary) AveragePlies() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.PliesTotal) / float64(s.Games)
}
