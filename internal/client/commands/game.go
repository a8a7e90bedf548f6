// FILE: othello/internal/client/commands/game.go
package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"othello/internal/client/api"
	"othello/internal/client/display"
)

const (
	statePending = "pending"
	stateOngoing = "ongoing"

	// Long polls to wait out before giving up on an engine move
	maxComputerPolls = 4
)

var errNoGame = fmt.Errorf("no current game, use 'new' or 'join <gameId>'")

func (r *Registry) registerGameCommands() {
	r.Register(&Command{
		Name:        "new",
		ShortName:   "n",
		Description: "Create a new game",
		Usage:       "new",
		Handler:     newGameHandler,
	})

	r.Register(&Command{
		Name:        "join",
		ShortName:   "j",
		Description: "Join/set current game ID",
		Usage:       "join <gameId>",
		Handler:     joinGameHandler,
	})

	r.Register(&Command{
		Name:        "move",
		ShortName:   "m",
		Description: "Place a disc",
		Usage:       "move <cell>",
		Handler:     moveHandler,
	})

	r.Register(&Command{
		Name:        "computer",
		ShortName:   "c",
		Description: "Trigger computer move",
		Usage:       "computer",
		Handler:     computerMoveHandler,
	})

	r.Register(&Command{
		Name:        "undo",
		ShortName:   "u",
		Description: "Undo moves",
		Usage:       "undo [count]",
		Handler:     undoHandler,
	})

	r.Register(&Command{
		Name:        "redo",
		ShortName:   "y",
		Description: "Replay undone moves",
		Usage:       "redo [count]",
		Handler:     redoHandler,
	})

	r.Register(&Command{
		Name:        "forfeit",
		ShortName:   "f",
		Description: "Concede the game for the side to move",
		Usage:       "forfeit",
		Handler:     forfeitHandler,
	})

	r.Register(&Command{
		Name:        "show",
		ShortName:   "h",
		Description: "Show board and game state",
		Usage:       "show [ascii]",
		Handler:     showBoardHandler,
	})

	r.Register(&Command{
		Name:        "state",
		ShortName:   "s",
		Description: "Show raw game JSON",
		Usage:       "state",
		Handler:     gameStateHandler,
	})

	r.Register(&Command{
		Name:        "delete",
		ShortName:   "d",
		Description: "Delete a game",
		Usage:       "delete [gameId]",
		Handler:     deleteGameHandler,
	})

	r.Register(&Command{
		Name:        "poll",
		ShortName:   "p",
		Description: "Long-poll for game updates",
		Usage:       "poll",
		Handler:     pollHandler,
	})
}

// promptPlayer asks for one side's configuration
func (e *Env) promptPlayer(name, defType string) api.PlayerConfig {
	kind := strings.ToLower(e.prompt(fmt.Sprintf("%s player type (h/c) [%s]: ", name, defType), defType))
	if kind != "c" {
		return api.PlayerConfig{Type: api.PlayerHuman}
	}

	p := api.PlayerConfig{Type: api.PlayerComputer, Level: 2}
	if level, err := strconv.Atoi(e.prompt("Computer level (1 easy, 2 medium, 3 hard) [2]: ", "2")); err == nil {
		p.Level = level
	}
	if depth, err := strconv.Atoi(e.prompt("Search depth (1-8, 0 for level default) [0]: ", "0")); err == nil {
		p.Depth = depth
	}
	p.Evaluator = e.prompt("Evaluator (weighted/disks/corners/mobility/classic) [default]: ", "")
	return p
}

func newGameHandler(e *Env, args []string) error {
	c := e.GetClient()

	fmt.Fprintln(e.Out, "\n"+display.Cyan+"Creating new game..."+display.Reset)

	black := e.promptPlayer("Black", "h")
	white := e.promptPlayer("White", "c")
	position := e.prompt("Starting position (64 cells + side) [default]: ", "")

	resp, err := c.CreateGame(&api.CreateGameRequest{
		Black:    black,
		White:    white,
		Position: position,
	})
	if err != nil {
		return err
	}

	e.SetCurrentGame(resp.GameID)
	e.SetGameState(resp)
	e.updatePlayerColor(resp)

	fmt.Fprintf(e.Out, "%sGame created: %s%s\n", display.Green, resp.GameID, display.Reset)
	fmt.Fprintf(e.Out, "%sCurrent game set to: %s%s\n", display.Cyan, resp.GameID, display.Reset)

	return e.playComputerTurns(resp)
}

// updatePlayerColor records which side the logged in user plays
func (e *Env) updatePlayerColor(resp *api.GameResponse) {
	if e.GetCurrentUser() == "" {
		return
	}
	switch e.GetCurrentUser() {
	case resp.Players.Black.ID:
		e.SetPlayerColor("b")
	case resp.Players.White.ID:
		e.SetPlayerColor("w")
	default:
		e.SetPlayerColor("")
	}
}

func joinGameHandler(e *Env, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: join <gameId>")
	}

	gameID := args[0]
	resp, err := e.GetClient().GetGame(gameID)
	if err != nil {
		return err
	}

	e.SetCurrentGame(gameID)
	e.SetGameState(resp)
	e.updatePlayerColor(resp)

	fmt.Fprintf(e.Out, "%sJoined game: %s%s\n", display.Green, gameID, display.Reset)
	fmt.Fprintf(e.Out, "Turn: %s | State: %s | Moves: %d\n", resp.Turn, resp.State, len(resp.Moves))

	return nil
}

func moveHandler(e *Env, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: move <cell>")
	}

	gameID := e.GetCurrentGame()
	if gameID == "" {
		return errNoGame
	}

	resp, err := e.GetClient().MakeMove(gameID, strings.ToLower(args[0]))
	if err != nil {
		return err
	}

	e.SetGameState(resp)
	fmt.Fprintf(e.Out, "%sMove accepted%s\n", display.Green, display.Reset)
	e.printPassIfAny(resp)

	return e.playComputerTurns(resp)
}

// playComputerTurns keeps triggering the engine while a computer is to move.
// Computer versus computer games are left to the 'computer' command.
func (e *Env) playComputerTurns(resp *api.GameResponse) error {
	if resp.Players.Black.IsComputer() && resp.Players.White.IsComputer() {
		return nil
	}
	for resp.State == stateOngoing && resp.PlayerToMove().IsComputer() {
		fmt.Fprintf(e.Out, "\n%sComputer's turn, triggering move...%s\n", display.Magenta, display.Reset)
		next, err := e.computerMove(resp.GameID)
		if err != nil {
			return err
		}
		resp = next
	}
	if resp.State != stateOngoing {
		fmt.Fprintf(e.Out, "%sGame over: %s (%d-%d)%s\n",
			display.Yellow, resp.State, resp.Score.Black, resp.Score.White, display.Reset)
	}
	return nil
}

// computerMove submits an engine move and waits for it to be played
func (e *Env) computerMove(gameID string) (*api.GameResponse, error) {
	c := e.GetClient()

	resp, err := c.ComputerMove(gameID)
	if err != nil {
		return nil, err
	}

	if resp.State == statePending {
		fmt.Fprintf(e.Out, "%sComputer is thinking...%s\n", display.Magenta, display.Reset)
		for i := 0; resp.State == statePending; i++ {
			if i == maxComputerPolls {
				return nil, fmt.Errorf("timeout waiting for computer move")
			}
			before := len(resp.Moves)
			resp, err = c.GetGameWithPoll(gameID, before)
			if err != nil {
				return nil, err
			}
			// Woken by the move itself, the state update follows right after
			if resp.State == statePending && len(resp.Moves) > before {
				time.Sleep(50 * time.Millisecond)
				if resp, err = c.GetGame(gameID); err != nil {
					return nil, err
				}
			}
		}
	}

	e.SetGameState(resp)
	if resp.State == "stuck" {
		return resp, fmt.Errorf("engine failed to move, undo or reconfigure players")
	}
	if resp.LastMove != nil {
		e.printLastMove(resp.LastMove, "Computer played")
	}
	e.printPassIfAny(resp)
	return resp, nil
}

// printPassIfAny reports a pass forced on the side now to move
func (e *Env) printPassIfAny(resp *api.GameResponse) {
	if n := len(resp.Moves); n > 0 && resp.Moves[n-1] == "pass" && resp.State == stateOngoing {
		fmt.Fprintf(e.Out, "%s%s has no legal move and passes%s\n",
			display.Yellow, opponentName(resp.Turn), display.Reset)
	}
}

func sideName(turn string) string {
	if turn == "b" {
		return "Black"
	}
	return "White"
}

func opponentName(turn string) string {
	if turn == "b" {
		return "White"
	}
	return "Black"
}

func (e *Env) printLastMove(m *api.MoveInfo, label string) {
	fmt.Fprintf(e.Out, "%s%s: %s%s", display.Magenta, label, m.Move, display.Reset)
	if m.Depth > 0 {
		fmt.Fprintf(e.Out, " (depth %d, value %.1f, nodes %d", m.Depth, m.Value, m.Nodes)
		if m.Cached {
			fmt.Fprint(e.Out, ", cached")
		}
		fmt.Fprint(e.Out, ")")
	}
	fmt.Fprintln(e.Out)
}

func computerMoveHandler(e *Env, args []string) error {
	gameID := e.GetCurrentGame()
	if gameID == "" {
		return errNoGame
	}

	_, err := e.computerMove(gameID)
	return err
}

func countArg(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	count, err := strconv.Atoi(args[0])
	if err != nil || count < 1 {
		return 0, fmt.Errorf("invalid count: %s", args[0])
	}
	return count, nil
}

func undoHandler(e *Env, args []string) error {
	gameID := e.GetCurrentGame()
	if gameID == "" {
		return errNoGame
	}

	count, err := countArg(args)
	if err != nil {
		return err
	}

	resp, err := e.GetClient().UndoMoves(gameID, count)
	if err != nil {
		return err
	}

	e.SetGameState(resp)
	fmt.Fprintf(e.Out, "%sUndid %d move(s)%s\n", display.Green, count, display.Reset)
	return nil
}

func redoHandler(e *Env, args []string) error {
	gameID := e.GetCurrentGame()
	if gameID == "" {
		return errNoGame
	}

	count, err := countArg(args)
	if err != nil {
		return err
	}

	resp, err := e.GetClient().RedoMoves(gameID, count)
	if err != nil {
		return err
	}

	e.SetGameState(resp)
	fmt.Fprintf(e.Out, "%sRedid %d move(s)%s\n", display.Green, count, display.Reset)
	return nil
}

func forfeitHandler(e *Env, args []string) error {
	gameID := e.GetCurrentGame()
	if gameID == "" {
		return errNoGame
	}

	resp, err := e.GetClient().Forfeit(gameID)
	if err != nil {
		return err
	}

	e.SetGameState(resp)
	fmt.Fprintf(e.Out, "%s%s forfeits: %s%s\n", display.Yellow, sideName(resp.Turn), resp.State, display.Reset)
	return nil
}

func showBoardHandler(e *Env, args []string) error {
	gameID := e.GetCurrentGame()
	if gameID == "" {
		return errNoGame
	}

	c := e.GetClient()
	game, err := c.GetGame(gameID)
	if err != nil {
		return err
	}
	e.SetGameState(game)

	fmt.Fprintln(e.Out)
	if len(args) > 0 && args[0] == "ascii" {
		b, err := c.GetBoard(gameID)
		if err != nil {
			return err
		}
		display.RenderBoard(e.Out, b.Board)
	} else if err := display.RenderPosition(e.Out, game.Position, game.LegalMoves); err != nil {
		return err
	}

	fmt.Fprintf(e.Out, "\nPosition: %s\n", game.Position)
	fmt.Fprintf(e.Out, "Turn: %s | State: %s | Score: %sX %d%s - %sO %d%s | Moves: %d\n",
		display.ColorForTurn(game.Turn), game.State,
		display.Red, game.Score.Black, display.Reset,
		display.Blue, game.Score.White, display.Reset,
		len(game.Moves))

	if len(game.LegalMoves) > 0 {
		fmt.Fprintf(e.Out, "Legal: %s\n", strings.Join(game.LegalMoves, " "))
	}
	if len(game.Moves) > 0 {
		fmt.Fprintf(e.Out, "\nHistory: %s\n", display.FormatHistory(game.Moves))
	}
	if game.LastMove != nil {
		label := "Last move by White"
		if game.LastMove.PlayerColor == "b" {
			label = "Last move by Black"
		}
		e.printLastMove(game.LastMove, label)
	}

	return nil
}

func gameStateHandler(e *Env, args []string) error {
	gameID := e.GetCurrentGame()
	if gameID == "" {
		return errNoGame
	}

	resp, err := e.GetClient().GetGame(gameID)
	if err != nil {
		return err
	}
	e.SetGameState(resp)

	fmt.Fprintf(e.Out, "%sGame State:%s\n", display.Cyan, display.Reset)
	display.PrettyPrintJSON(e.Out, resp)

	return nil
}

func deleteGameHandler(e *Env, args []string) error {
	gameID := e.GetCurrentGame()
	if len(args) > 0 {
		gameID = args[0]
	}

	if gameID == "" {
		return fmt.Errorf("specify game ID or set current game")
	}

	if err := e.GetClient().DeleteGame(gameID); err != nil {
		return err
	}

	if gameID == e.GetCurrentGame() {
		e.SetCurrentGame("")
	}

	fmt.Fprintf(e.Out, "%sGame deleted: %s%s\n", display.Green, gameID, display.Reset)
	return nil
}

func pollHandler(e *Env, args []string) error {
	gameID := e.GetCurrentGame()
	if gameID == "" {
		return errNoGame
	}

	moveCount := e.GetLastMoveCount()

	fmt.Fprintf(e.Out, "%sLong-polling for updates (move count: %d)...%s\n",
		display.Cyan, moveCount, display.Reset)
	fmt.Fprintf(e.Out, "%sThis may take up to 25 seconds%s\n", display.Cyan, display.Reset)

	resp, err := e.GetClient().GetGameWithPoll(gameID, moveCount)
	if err != nil {
		return err
	}

	e.SetGameState(resp)

	if len(resp.Moves) != moveCount {
		fmt.Fprintf(e.Out, "%sGame updated! Move count now %d%s\n", display.Green, len(resp.Moves), display.Reset)
		if resp.LastMove != nil {
			e.printLastMove(resp.LastMove, "Last move")
		}
	} else {
		fmt.Fprintf(e.Out, "%sNo updates (timeout)%s\n", display.Yellow, display.Reset)
	}

	return nil
}
