// FILE: othello/internal/server/core/error.go
package core

// Error codes
const (
	ErrGameNotFound      = "GAME_NOT_FOUND"
	ErrInvalidMove       = "INVALID_MOVE"
	ErrIllegalMove       = "ILLEGAL_MOVE"
	ErrNotHumanTurn      = "NOT_HUMAN_TURN"
	ErrGameOver          = "GAME_OVER"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent    = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrInvalidPosition   = "INVALID_POSITION"
	ErrInternalError     = "INTERNAL_ERROR"
	ErrResourceLimit     = "RESOURCE_LIMIT"
	ErrUnauthorized      = "UNAUTHORIZED"
)
