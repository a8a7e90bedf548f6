// FILE: othello/internal/server/http/auth.go
package http

import (
	"errors"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode"

	"othello/internal/server/core"
	"othello/internal/server/service"
	"othello/internal/server/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{1,40}$`)

func init() {
	validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegex.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
}

// RegisterRequest defines the user registration payload
type RegisterRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128,password"`
}

// LoginRequest defines the authentication payload
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"` // username or email
	Password   string `json:"password" validate:"required"`
}

// AuthResponse contains JWT token and user information
type AuthResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UserResponse contains current user information
type UserResponse struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// strongPassword requires at least one letter and one digit
func strongPassword(password string) bool {
	var letter, digit bool
	for _, r := range password {
		letter = letter || unicode.IsLetter(r)
		digit = digit || unicode.IsNumber(r)
	}
	return letter && digit
}

func authError(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(core.ErrorResponse{Error: msg, Code: code})
}

// issueToken signs a token for user and writes the auth response
func (h *HTTPHandler) issueToken(c *fiber.Ctx, user *service.User, status int) error {
	token, err := h.svc.GenerateUserToken(user.UserID)
	if err != nil {
		log.Printf("Token generation failed for %s: %v", user.UserID, err)
		return authError(c, fiber.StatusInternalServerError, core.ErrInternalError, "failed to generate token")
	}

	return c.Status(status).JSON(AuthResponse{
		Token:     token,
		UserID:    user.UserID,
		Username:  user.Username,
		Email:     user.Email,
		ExpiresAt: time.Now().Add(service.TokenTTL),
	})
}

// RegisterHandler creates a new user account. Usernames and emails are
// stored lower case.
func (h *HTTPHandler) RegisterHandler(c *fiber.Ctx) error {
	var req RegisterRequest
	if !parseBody(c, &req) {
		return nil
	}

	user, err := h.svc.CreateUser(strings.ToLower(req.Username), strings.ToLower(req.Email), req.Password)
	switch {
	case errors.Is(err, storage.ErrUserExists):
		return authError(c, fiber.StatusConflict, core.ErrInvalidRequest, "username or email already taken")
	case errors.Is(err, service.ErrStorageDisabled):
		return authError(c, fiber.StatusServiceUnavailable, core.ErrResourceLimit, "registration unavailable without persistent storage")
	case err != nil:
		log.Printf("Registration failed for %s: %v", req.Username, err)
		return authError(c, fiber.StatusInternalServerError, core.ErrInternalError, "failed to create user")
	}

	return h.issueToken(c, user, fiber.StatusCreated)
}

// LoginHandler authenticates by username or email and returns a token
func (h *HTTPHandler) LoginHandler(c *fiber.Ctx) error {
	var req LoginRequest
	if !parseBody(c, &req) {
		return nil
	}

	user, err := h.svc.AuthenticateUser(strings.ToLower(req.Identifier), req.Password)
	if err != nil {
		// Same answer for unknown users and wrong passwords
		return authError(c, fiber.StatusUnauthorized, core.ErrUnauthorized, "invalid credentials")
	}

	if err = h.svc.UpdateLastLogin(user.UserID); err != nil {
		log.Printf("Failed to update last login for %s: %v", user.UserID, err)
	}

	return h.issueToken(c, user, fiber.StatusOK)
}

// GetCurrentUserHandler returns authenticated user information
func (h *HTTPHandler) GetCurrentUserHandler(c *fiber.Ctx) error {
	userID := userIDFrom(c)
	if userID == "" {
		return authError(c, fiber.StatusUnauthorized, core.ErrUnauthorized, "unauthorized")
	}

	user, err := h.svc.GetUserByID(userID)
	if err != nil {
		return authError(c, fiber.StatusNotFound, core.ErrInvalidRequest, "user not found")
	}

	return c.JSON(UserResponse{
		UserID:    user.UserID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

// LogoutHandler acknowledges a logout. Tokens are stateless and expire on
// their own, so the client discards its copy.
func (h *HTTPHandler) LogoutHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "logged out",
	})
}
