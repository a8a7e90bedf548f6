// FILE: othello/internal/server/core/state.go
package core

type State int

const (
	StateOngoing State = iota
	StatePending       // Computer is calculating a move
	StateStuck         // Engine failed, game cannot continue
	StateBlackWins
	StateWhiteWins
	StateDraw
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateStuck:
		return "stuck"
	case StateBlackWins:
		return "black wins"
	case StateWhiteWins:
		return "white wins"
	case StateDraw:
		return "draw"
	case StateOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}

// IsOver reports whether the game reached a final result
func (s State) IsOver() bool {
	return s == StateBlackWins || s == StateWhiteWins || s == StateDraw
}

// WinState maps a winning color to its end state, Empty meaning a draw
func WinState(winner Color) State {
	switch winner {
	case ColorBlack:
		return StateBlackWins
	case ColorWhite:
		return StateWhiteWins
	default:
		return StateDraw
	}
}
