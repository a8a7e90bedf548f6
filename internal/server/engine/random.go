// FILE: othello/internal/server/engine/random.go
package engine

import (
	"math/rand/v2"
	"sync"

	"othello/internal/server/board"
	"othello/internal/server/core"
)

// RandomStrategy picks uniformly among the legal moves
type RandomStrategy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomStrategy seeds the generator; equal seeds give equal choices
func NewRandomStrategy(seed uint64) *RandomStrategy {
	return &RandomStrategy{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *RandomStrategy) Name() string {
	return "random"
}

func (s *RandomStrategy) SelectMove(b board.Board, c core.Color) (board.Move, error) {
	moves, err := rootMoves(b, c)
	if err != nil {
		return board.Move{}, err
	}

	s.mu.Lock()
	i := s.rng.IntN(len(moves))
	s.mu.Unlock()

	return moves[i], nil
}
