// FILE: othello/internal/server/processor/processor.go
package processor

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"othello/internal/server/board"
	"othello/internal/server/cache"
	"othello/internal/server/core"
	"othello/internal/server/game"
	"othello/internal/server/service"
)

// Config sizes the engine worker pool
type Config struct {
	Workers int
	Timeout time.Duration // Per engine move
	Cache   cache.Cache   // Optional engine result cache
}

// Processor handles command execution and coordinates between service and engine layers
type Processor struct {
	svc   *service.Service
	queue *EngineQueue

	mu    sync.Mutex
	locks map[string]*gameLock
}

// gameLock is held from validation to the last write of a command.
// Entries live only while refs > 0.
type gameLock struct {
	sync.Mutex
	refs int
}

func New(svc *service.Service, cfg Config) *Processor {
	return &Processor{
		svc:   svc,
		queue: NewEngineQueue(cfg.Workers, cfg.Timeout, cfg.Cache),
		locks: make(map[string]*gameLock),
	}
}

// lockGame serializes commands on one game and returns the unlock func
func (p *Processor) lockGame(gameID string) func() {
	p.mu.Lock()
	l, ok := p.locks[gameID]
	if !ok {
		l = &gameLock{}
		p.locks[gameID] = l
	}
	l.refs++
	p.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		p.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(p.locks, gameID)
		}
		p.mu.Unlock()
	}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	if cmd.Type.serialized() && cmd.GameID != "" {
		defer p.lockGame(cmd.GameID)()
	}

	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdConfigurePlayers:
		return p.handleConfigurePlayers(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdUndoMove:
		return p.handleUndoMove(cmd)
	case CmdRedoMove:
		return p.handleRedoMove(cmd)
	case CmdForfeit:
		return p.handleForfeit(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	default:
		return p.errorResponse("unknown command: "+cmd.Type.String(), core.ErrInvalidRequest)
	}
}

// seatsComputer enforces that every hosted game has an engine opponent
func seatsComputer(black, white core.PlayerConfig) bool {
	return black.Type == core.PlayerComputer || white.Type == core.PlayerComputer
}

// handleCreateGame creates a new game, passing or ending it at once if the
// starting position requires
func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	if !seatsComputer(args.Black, args.White) {
		return p.errorResponse("at least one player must be a computer", core.ErrInvalidRequest)
	}
	if !p.svc.CanCreateComputerGame() {
		return p.errorResponse("too many active games", core.ErrResourceLimit)
	}

	initial, turn := board.New(), core.ColorBlack
	if args.Position != "" {
		var err error
		initial, turn, err = board.ParsePosition(args.Position)
		if err != nil {
			return p.errorResponse(fmt.Sprintf("invalid position: %v", err), core.ErrInvalidPosition)
		}
	}

	blackPlayer := core.NewPlayer(args.Black, core.ColorBlack)
	whitePlayer := core.NewPlayer(args.White, core.ColorWhite)

	// Authenticated humans play under their user ID
	if args.Black.Type == core.PlayerHuman && cmd.UserID != "" {
		blackPlayer.ID = cmd.UserID
	}
	if args.White.Type == core.PlayerHuman && cmd.UserID != "" {
		whitePlayer.ID = cmd.UserID
	}

	gameID := p.svc.GenerateGameID()
	defer p.lockGame(gameID)()
	if err := p.svc.CreateGame(gameID, blackPlayer, whitePlayer, initial, turn); err != nil {
		return p.errorResponse(fmt.Sprintf("failed to create game: %v", err), core.ErrInternalError)
	}

	p.advance(gameID)

	g, err := p.svc.GetGame(gameID)
	if err != nil {
		return p.errorResponse("game creation failed", core.ErrInternalError)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(gameID, g),
	}
}

// handleConfigurePlayers updates player configuration mid-game
func (p *Processor) handleConfigurePlayers(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.ConfigurePlayersRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}
	if !seatsComputer(args.Black, args.White) {
		return p.errorResponse("at least one player must be a computer", core.ErrInvalidRequest)
	}

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	if g.State() == core.StatePending {
		return p.errorResponse("cannot change players while computer is calculating", core.ErrInvalidRequest)
	}

	blackPlayer := core.NewPlayer(args.Black, core.ColorBlack)
	whitePlayer := core.NewPlayer(args.White, core.ColorWhite)

	if err = p.svc.UpdatePlayers(cmd.GameID, blackPlayer, whitePlayer); err != nil {
		return p.errorResponse(fmt.Sprintf("failed to update players: %v", err), core.ErrInternalError)
	}
	// New engine settings get another try
	if g.State() == core.StateStuck {
		p.svc.UpdateGameState(cmd.GameID, core.StateOngoing)
	}

	g, _ = p.svc.GetGame(cmd.GameID)
	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(cmd.GameID, g),
	}
}

// handleGetGame retrieves game state
func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(cmd.GameID, g),
	}
}

// handleMakeMove plays a human move, or starts the engine on "auto"
func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	switch state := g.State(); {
	case state == core.StatePending:
		return p.errorResponse("computer move in progress", core.ErrInvalidRequest)
	case state == core.StateStuck:
		return p.errorResponse("game is stuck due to engine error, undo or reconfigure players", core.ErrGameOver)
	case state.IsOver():
		return p.errorResponse(fmt.Sprintf("game is over: %s", state), core.ErrGameOver)
	}

	move := strings.ToLower(strings.TrimSpace(args.Move))

	if move == AutoMove {
		if g.NextPlayer().Type != core.PlayerComputer {
			return p.errorResponse("not computer player's turn", core.ErrNotHumanTurn)
		}

		p.svc.UpdateGameState(cmd.GameID, core.StatePending)
		if err := p.triggerComputerMove(cmd.GameID, g); err != nil {
			p.svc.UpdateGameState(cmd.GameID, core.StateOngoing)
			return p.errorResponse(fmt.Sprintf("engine unavailable: %v", err), core.ErrResourceLimit)
		}

		g, _ = p.svc.GetGame(cmd.GameID)
		response := p.buildGameResponse(cmd.GameID, g)
		response.LastMove = &core.MoveInfo{
			PlayerColor: g.NextTurnColor().String(),
		}

		return ProcessorResponse{
			Success: true,
			Pending: true,
			Data:    response,
		}
	}

	if g.NextPlayer().Type != core.PlayerHuman {
		return p.errorResponse("not human player's turn", core.ErrNotHumanTurn)
	}

	point, err := board.ParsePoint(move)
	if err != nil {
		return p.errorResponse("invalid move format", core.ErrInvalidMove)
	}

	b := g.CurrentBoard()
	color := g.NextTurnColor()

	m, err := b.MoveAt(point, color)
	if err != nil {
		if errors.Is(err, board.ErrIllegalMove) {
			return p.errorResponse(fmt.Sprintf("illegal move: %s", point), core.ErrIllegalMove)
		}
		return p.errorResponse(err.Error(), core.ErrInvalidMove)
	}
	next, err := b.Apply(m, color)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrIllegalMove)
	}

	if err = p.svc.ApplyMove(cmd.GameID, point.String(), next, color.Opponent()); err != nil {
		return p.errorResponse(fmt.Sprintf("failed to apply move: %v", err), core.ErrInternalError)
	}
	p.svc.SetLastMoveResult(cmd.GameID, &game.MoveResult{
		Move:        point.String(),
		PlayerColor: color,
		GameState:   core.StateOngoing,
	})

	p.advance(cmd.GameID)

	g, _ = p.svc.GetGame(cmd.GameID)
	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(cmd.GameID, g),
	}
}

// handleUndoMove reverts game state. A pass is never left as the next
// move: undoing back to a forced pass undoes the move before it too.
// Undo also recovers a stuck game.
func (p *Processor) handleUndoMove(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	if g.State() == core.StatePending {
		return p.errorResponse("cannot undo while computer move is in progress", core.ErrInvalidRequest)
	}

	args := core.UndoRequest{Count: 1}
	if req, ok := cmd.Args.(core.UndoRequest); ok && req.Count > 0 {
		args = req
	}

	if err = p.svc.UndoMoves(cmd.GameID, args.Count); err != nil {
		return p.historyError(err)
	}
	for {
		if g, err = p.svc.GetGame(cmd.GameID); err != nil {
			return p.historyError(err)
		}
		if !mustPass(g) || g.MoveCount() == 0 {
			break
		}
		if err = p.svc.UndoMoves(cmd.GameID, 1); err != nil {
			return p.historyError(err)
		}
	}

	p.svc.UpdateGameState(cmd.GameID, core.StateOngoing)
	p.advance(cmd.GameID)

	g, _ = p.svc.GetGame(cmd.GameID)
	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(cmd.GameID, g),
	}
}

// handleRedoMove replays undone moves, including a pass that follows them
func (p *Processor) handleRedoMove(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}
	if g.State() == core.StatePending {
		return p.errorResponse("cannot redo while computer move is in progress", core.ErrInvalidRequest)
	}

	args := core.RedoRequest{Count: 1}
	if req, ok := cmd.Args.(core.RedoRequest); ok && req.Count > 0 {
		args = req
	}

	if err = p.svc.RedoMoves(cmd.GameID, args.Count); err != nil {
		return p.historyError(err)
	}
	for {
		if g, err = p.svc.GetGame(cmd.GameID); err != nil {
			return p.historyError(err)
		}
		if !mustPass(g) || g.RedoCount() == 0 {
			break
		}
		if err = p.svc.RedoMoves(cmd.GameID, 1); err != nil {
			return p.historyError(err)
		}
	}

	p.svc.UpdateGameState(cmd.GameID, core.StateOngoing)
	p.advance(cmd.GameID)

	g, _ = p.svc.GetGame(cmd.GameID)
	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(cmd.GameID, g),
	}
}

func (p *Processor) historyError(err error) ProcessorResponse {
	if errors.Is(err, service.ErrGameNotFound) {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}
	return p.errorResponse(err.Error(), core.ErrInvalidRequest)
}

// handleForfeit ends the game with the side to move conceding
func (p *Processor) handleForfeit(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	switch state := g.State(); {
	case state == core.StatePending:
		return p.errorResponse("cannot forfeit while computer move is in progress", core.ErrInvalidRequest)
	case state.IsOver():
		return p.errorResponse(fmt.Sprintf("game is over: %s", state), core.ErrGameOver)
	}

	loser := g.NextTurnColor()
	if err = p.svc.UpdateGameState(cmd.GameID, core.WinState(loser.Opponent())); err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}
	log.Printf("Game %s: %s forfeits", cmd.GameID, loser.Name())

	g, _ = p.svc.GetGame(cmd.GameID)
	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(cmd.GameID, g),
	}
}

// handleDeleteGame removes a game
func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	if g.State() == core.StatePending {
		return p.errorResponse("cannot delete game while computer move is in progress", core.ErrInvalidRequest)
	}

	if err = p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
	}
}

// handleGetBoard returns board visualization
func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
		Data: core.BoardResponse{
			Position: g.CurrentPosition(),
			Board:    g.CurrentBoard().ToASCII(),
		},
	}
}

// triggerComputerMove initiates async engine calculation
func (p *Processor) triggerComputerMove(gameID string, g *game.Game) error {
	b := g.CurrentBoard()
	color := g.NextTurnColor()
	player := g.NextPlayer()

	return p.queue.SubmitAsync(gameID, b, color, player, func(result EngineResult) {
		defer p.lockGame(gameID)()

		currentGame, err := p.svc.GetGame(gameID)
		if err != nil {
			return // Game was deleted
		}

		// Only process if still pending on the searched board
		if currentGame.State() != core.StatePending {
			return
		}
		if currentGame.CurrentBoard() != b || currentGame.NextTurnColor() != color {
			log.Printf("Discarding engine result for game %s: board changed", gameID)
			p.svc.UpdateGameState(gameID, core.StateOngoing)
			return
		}

		if result.Error != nil {
			log.Printf("Engine error for game %s: %v", gameID, result.Error)
			p.svc.UpdateGameState(gameID, core.StateStuck)
			return
		}

		next, err := b.Apply(result.Move, color)
		if err != nil {
			log.Printf("Engine returned unplayable move %s for game %s: %v", result.Move, gameID, err)
			p.svc.UpdateGameState(gameID, core.StateStuck)
			return
		}

		p.svc.ApplyMove(gameID, result.Move.String(), next, color.Opponent())
		p.svc.SetLastMoveResult(gameID, &game.MoveResult{
			Move:        result.Move.String(),
			PlayerColor: color,
			GameState:   core.StateOngoing,
			Value:       result.Value,
			Depth:       result.Depth,
			Nodes:       result.Nodes,
			Cached:      result.Cached,
		})

		p.svc.UpdateGameState(gameID, core.StateOngoing)
		p.advance(gameID)
	})
}

// mustPass reports whether the side to move has no move in a game that is
// not finished
func mustPass(g *game.Game) bool {
	b := g.CurrentBoard()
	return !b.IsTerminal() && !b.HasLegalMove(g.NextTurnColor())
}

// advance ends a finished game or records the pass of a side without moves
func (p *Processor) advance(gameID string) {
	g, err := p.svc.GetGame(gameID)
	if err != nil {
		return
	}

	b := g.CurrentBoard()
	turn := g.NextTurnColor()

	switch {
	case b.IsTerminal():
		p.svc.UpdateGameState(gameID, core.WinState(b.Outcome()))
	case !b.HasLegalMove(turn):
		p.svc.ApplyMove(gameID, board.PassMove, b, turn.Opponent())
	}
}

// buildGameResponse constructs standard game response
func (p *Processor) buildGameResponse(gameID string, g *game.Game) core.GameResponse {
	b := g.CurrentBoard()
	turn := g.NextTurnColor()

	resp := core.GameResponse{
		GameID:     gameID,
		Position:   g.CurrentPosition(),
		Turn:       turn.String(),
		State:      g.State().String(),
		Moves:      g.Moves(),
		LegalMoves: []string{},
		Score: core.ScoreInfo{
			Black: b.Discs(core.ColorBlack),
			White: b.Discs(core.ColorWhite),
		},
		Players: core.PlayersResponse{
			Black: g.GetPlayer(core.ColorBlack),
			White: g.GetPlayer(core.ColorWhite),
		},
	}

	if !g.State().IsOver() {
		moves, _ := b.LegalMoves(turn)
		for _, m := range moves {
			resp.LegalMoves = append(resp.LegalMoves, m.String())
		}
	}

	if result := g.LastResult(); result != nil {
		resp.LastMove = &core.MoveInfo{
			Move:        result.Move,
			PlayerColor: result.PlayerColor.String(),
			Value:       result.Value,
			Depth:       result.Depth,
			Nodes:       result.Nodes,
			Cached:      result.Cached,
		}
	}

	return resp
}

// errorResponse creates error response
func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}

// Close stops the engine workers
func (p *Processor) Close() error {
	return p.queue.Shutdown(5 * time.Second)
}
