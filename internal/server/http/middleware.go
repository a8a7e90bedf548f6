// FILE: othello/internal/server/http/middleware.go
package http

import (
	"strings"

	"othello/internal/server/core"

	"github.com/gofiber/fiber/v2"
)

// localUserID holds the authenticated user ID of a request
const localUserID = "userID"

// TokenValidator validates JWT tokens
type TokenValidator func(token string) (userID string, claims map[string]any, err error)

// AuthRequired enforces JWT authentication for protected endpoints
func AuthRequired(validateToken TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c.Get("Authorization"))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
				Error: "missing authorization token",
				Code:  core.ErrUnauthorized,
			})
		}

		userID, _, err := validateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
				Error: "invalid or expired token",
				Code:  core.ErrUnauthorized,
			})
		}

		c.Locals(localUserID, userID)
		return c.Next()
	}
}

// OptionalAuth records the user of a valid token and ignores anything else
func OptionalAuth(validateToken TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c.Get("Authorization"))
		if token == "" {
			return c.Next()
		}

		if userID, _, err := validateToken(token); err == nil {
			c.Locals(localUserID, userID)
		}
		return c.Next()
	}
}

// userIDFrom returns the user set by the auth middleware, empty for
// anonymous requests
func userIDFrom(c *fiber.Ctx) string {
	userID, _ := c.Locals(localUserID).(string)
	return userID
}

func extractBearerToken(header string) string {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
