// FILE: othello/internal/server/engine/difficulty.go
package engine

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty selects the strategy and search depth of a computer player
type Difficulty int

const (
	Easy Difficulty = iota + 1
	Medium
	Hard
)

const (
	mediumDepth    = 3
	hardDepth      = 6
	hardEndgame    = 10
	defaultWorkers = 1
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// Valid reports whether d is one of the defined levels
func (d Difficulty) Valid() bool {
	return d >= Easy && d <= Hard
}

// Depth is the number of plies searched at this level.
// Easy plays randomly and searches nothing.
func (d Difficulty) Depth() int {
	switch d {
	case Medium:
		return mediumDepth
	case Hard:
		return hardDepth
	default:
		return 0
	}
}

// ParseDifficulty accepts a name or the numeric level
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "1":
		return Easy, nil
	case "medium", "2":
		return Medium, nil
	case "hard", "3":
		return Hard, nil
	default:
		return 0, fmt.Errorf("invalid difficulty %q: want easy, medium or hard", s)
	}
}

type strategyOptions struct {
	depth    int
	eval     EvalFunc
	seed     uint64
	workers  int
	ordering Ordering
}

// Option adjusts a strategy built by NewStrategy
type Option func(*strategyOptions)

// WithDepth overrides the depth of the difficulty level
func WithDepth(depth int) Option {
	return func(o *strategyOptions) {
		o.depth = depth
	}
}

// WithEvaluator replaces the evaluation function
func WithEvaluator(eval EvalFunc) Option {
	return func(o *strategyOptions) {
		o.eval = eval
	}
}

// WithSeed fixes the random generator of an Easy player
func WithSeed(seed uint64) Option {
	return func(o *strategyOptions) {
		o.seed = seed
	}
}

// WithWorkers lets a Hard player search root moves concurrently
func WithWorkers(n int) Option {
	return func(o *strategyOptions) {
		o.workers = n
	}
}

// WithOrdering selects the move comparator policy
func WithOrdering(ordering Ordering) Option {
	return func(o *strategyOptions) {
		o.ordering = ordering
	}
}

// NewStrategy builds the strategy of a difficulty level:
// Easy is random, Medium is minimax, Hard is alpha-beta with an exact endgame
func NewStrategy(d Difficulty, opts ...Option) (Strategy, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid difficulty: %d", int(d))
	}

	o := strategyOptions{
		depth:   d.Depth(),
		eval:    Evaluate,
		seed:    uint64(time.Now().UnixNano()),
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.depth < 0 {
		return nil, fmt.Errorf("invalid depth: %d", o.depth)
	}

	switch d {
	case Easy:
		return NewRandomStrategy(o.seed), nil
	case Medium:
		return &MinimaxStrategy{Depth: o.depth, Eval: o.eval, Ordering: o.ordering}, nil
	default:
		return &AlphaBetaStrategy{
			Depth:          o.depth,
			Eval:           o.eval,
			Ordering:       o.ordering,
			Workers:        o.workers,
			EndgameEmpties: hardEndgame,
		}, nil
	}
}
