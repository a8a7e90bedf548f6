// FILE: othello/internal/server/service/game.go
package service

import (
	"fmt"
	"time"

	"othello/internal/server/board"
	"othello/internal/server/core"
	"othello/internal/server/game"
	"othello/internal/server/storage"

	"github.com/google/uuid"
)

// CreateGame registers a new game with pre-constructed players
func (s *Service) CreateGame(id string, blackPlayer, whitePlayer *core.Player, initial board.Board, startingTurn core.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[id]; exists {
		return fmt.Errorf("game %s already exists", id)
	}

	g := game.New(initial, startingTurn, blackPlayer, whitePlayer)
	s.games[id] = g
	s.computerGames.Add(1)

	if s.store != nil {
		record := playersRecord(id, blackPlayer, whitePlayer)
		record.InitialPosition = g.InitialPosition()
		record.StartTimeUTC = time.Now().UTC()
		s.store.RecordNewGame(record)
	}

	return nil
}

func playersRecord(gameID string, black, white *core.Player) storage.GameRecord {
	return storage.GameRecord{
		GameID:         gameID,
		BlackPlayerID:  black.ID,
		BlackType:      int(black.Type),
		BlackLevel:     black.Level,
		BlackDepth:     black.Depth,
		BlackEvaluator: black.Evaluator,
		WhitePlayerID:  white.ID,
		WhiteType:      int(white.Type),
		WhiteLevel:     white.Level,
		WhiteDepth:     white.Depth,
		WhiteEvaluator: white.Evaluator,
	}
}

// UpdatePlayers replaces players in an existing game
func (s *Service) UpdatePlayers(gameID string, blackPlayer, whitePlayer *core.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	g.UpdatePlayers(blackPlayer, whitePlayer)

	if s.store != nil {
		s.store.UpdateGamePlayers(playersRecord(gameID, blackPlayer, whitePlayer))
	}

	return nil
}

// GetGame returns a copy of the game taken under the service lock. Changes
// go through the Service methods.
func (s *Service) GetGame(gameID string) (*game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return g.Clone(), nil
}

// GenerateGameID creates a new unique game ID
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// ApplyMove appends a validated move, or board.PassMove, to the game history
func (s *Service) ApplyMove(gameID, move string, newBoard board.Board, nextTurn core.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	before := g.CurrentSnapshot()
	g.AddSnapshot(newBoard, move, nextTurn)

	s.waiter.NotifyGame(gameID, g.MoveCount())

	if s.store != nil {
		s.store.RecordMove(moveRecord(gameID, g.MoveCount(), before, g.CurrentSnapshot()))
	}

	return nil
}

// moveRecord describes the transition between two consecutive snapshots
func moveRecord(gameID string, number int, before, after game.Snapshot) storage.MoveRecord {
	mover := before.NextTurnColor
	flips := 0
	if after.PreviousMove != board.PassMove {
		flips = after.Board.Discs(mover) - before.Board.Discs(mover) - 1
	}
	return storage.MoveRecord{
		GameID:            gameID,
		MoveNumber:        number,
		Move:              after.PreviousMove,
		Flips:             flips,
		PositionAfterMove: after.Position(),
		PlayerColor:       mover.String(),
		MoveTimeUTC:       time.Now().UTC(),
	}
}

// UpdateGameState sets the game state and records a final result
func (s *Service) UpdateGameState(gameID string, state core.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	g.SetState(state)

	if state == core.StateOngoing || state == core.StatePending {
		return nil
	}
	s.waiter.NotifyGame(gameID, g.MoveCount())

	if state.IsOver() && s.store != nil {
		b := g.CurrentBoard()
		s.store.RecordGameResult(storage.ResultRecord{
			GameID:     gameID,
			Result:     state.String(),
			BlackScore: b.Discs(core.ColorBlack),
			WhiteScore: b.Discs(core.ColorWhite),
			EndTimeUTC: time.Now().UTC(),
		})
	}

	return nil
}

// SetLastMoveResult stores metadata about the last move
func (s *Service) SetLastMoveResult(gameID string, result *game.MoveResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	g.SetLastResult(result)
	return nil
}

// UndoMoves removes the specified number of moves from game history
func (s *Service) UndoMoves(gameID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	if err := g.UndoMoves(count); err != nil {
		return err
	}

	s.waiter.NotifyGame(gameID, g.MoveCount())

	if s.store != nil {
		s.store.DeleteUndoneMoves(gameID, g.MoveCount())
	}

	return nil
}

// RedoMoves replays undone moves and records them again
func (s *Service) RedoMoves(gameID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	from := g.MoveCount()
	if err := g.RedoMoves(count); err != nil {
		return err
	}

	s.waiter.NotifyGame(gameID, g.MoveCount())

	if s.store != nil {
		history := g.History()
		for n := from + 1; n <= g.MoveCount(); n++ {
			s.store.RecordMove(moveRecord(gameID, n, history[n-1], history[n]))
		}
	}

	return nil
}

// DeleteGame removes a game from memory
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	s.waiter.RemoveGame(gameID)

	delete(s.games, gameID)
	s.computerGames.Add(-1)
	return nil
}
