// FILE: othello/internal/server/http/handler.go
package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"othello/internal/server/core"
	"othello/internal/server/processor"
	"othello/internal/server/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const rateLimitRate = 10 // req/sec

// HTTPHandler handles HTTP requests and routes them to the processor
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

func NewFiberApp(proc *processor.Processor, svc *service.Service, devMode bool) *fiber.App {
	h := NewHTTPHandler(proc, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second, // Above the long-poll wait
		IdleTimeout:  60 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", perMinuteLimit(5, "registrations"), h.RegisterHandler)
	auth.Post("/login", perMinuteLimit(10, "login attempts"), h.LoginHandler)

	validateToken := svc.ValidateToken
	auth.Get("/me", AuthRequired(validateToken), h.GetCurrentUserHandler)
	auth.Post("/logout", AuthRequired(validateToken), h.LogoutHandler)

	// Game routes with standard rate limiting
	maxReq := rateLimitRate
	if devMode {
		maxReq = rateLimitRate * 2
	}
	api.Use(limiter.New(limiter.Config{
		Max:          maxReq,
		Expiration:   1 * time.Second,
		KeyGenerator: clientKey,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	api.Post("/games", OptionalAuth(validateToken), h.CreateGame)
	api.Put("/games/:gameId/players", h.ConfigurePlayers)
	api.Get("/games/:gameId", h.GetGame)
	api.Delete("/games/:gameId", h.DeleteGame)
	api.Post("/games/:gameId/moves", OptionalAuth(validateToken), h.MakeMove)
	api.Post("/games/:gameId/undo", h.UndoMove)
	api.Post("/games/:gameId/redo", h.RedoMove)
	api.Post("/games/:gameId/forfeit", h.Forfeit)
	api.Get("/games/:gameId/board", h.GetBoard)

	return app
}

// perMinuteLimit limits an auth endpoint per client IP
func perMinuteLimit(max int, what string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d %s per minute allowed", max, what),
			})
		},
	})
}

// clientKey prefers the first X-Forwarded-For hop over the peer address
func clientKey(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}
	return c.IP()
}

// contentTypeValidator ensures POST and PUT bodies are JSON. Media type
// parameters such as charset are ignored.
func contentTypeValidator(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodPost || method == fiber.MethodPut {
		if c.Get(fiber.HeaderContentType) != "" && !c.Is("json") {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrGameNotFound
		case fiber.StatusBadRequest:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// statusFor maps processor error codes to HTTP status codes
func statusFor(code string) int {
	switch code {
	case core.ErrGameNotFound:
		return fiber.StatusNotFound
	case core.ErrUnauthorized:
		return fiber.StatusForbidden
	case core.ErrResourceLimit:
		return fiber.StatusServiceUnavailable
	case core.ErrInternalError:
		return fiber.StatusInternalServerError
	case core.ErrNotHumanTurn, core.ErrGameOver:
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}

// reply writes a processor response with the given success status
func reply(c *fiber.Ctx, resp processor.ProcessorResponse, status int) error {
	if !resp.Success {
		return c.Status(statusFor(resp.Error.Code)).JSON(resp.Error)
	}
	if resp.Pending {
		status = fiber.StatusAccepted
	}
	if resp.Data == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Status(status).JSON(resp.Data)
}

// gameID returns the route game ID, or false after writing an error
func gameID(c *fiber.Ctx) (string, bool) {
	id := c.Params("gameId")
	if !isValidUUID(id) {
		c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid game ID format",
			Code:    core.ErrInvalidRequest,
			Details: "game ID must be a valid UUID",
		})
		return "", false
	}
	return id, true
}

// validatedBody returns the request parsed by validationMiddleware,
// or false after writing an error
func validatedBody[T any](c *fiber.Ctx) (T, bool) {
	var zero T
	if validated, ok := c.Locals(localValidated).(bool); !ok || !validated {
		c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation bypass detected",
			Code:  core.ErrInternalError,
		})
		return zero, false
	}
	body, ok := c.Locals(localBody).(*T)
	if !ok || body == nil {
		c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation data missing",
			Code:  core.ErrInternalError,
		})
		return zero, false
	}
	return *body, true
}

// Health check endpoint with storage status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":        "healthy",
		"time":          time.Now().Unix(),
		"storage":       h.svc.GetStorageHealth(),
		"computerGames": h.svc.GetComputerGameCount(),
	})
}

// CreateGame creates a new game with specified player types
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, ok := validatedBody[core.CreateGameRequest](c)
	if !ok {
		return nil
	}

	cmd := processor.NewCreateGameCommand(req)
	cmd.UserID = userIDFrom(c)

	return reply(c, h.proc.Execute(cmd), fiber.StatusCreated)
}

// ConfigurePlayers updates player configuration mid-game
func (h *HTTPHandler) ConfigurePlayers(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}
	req, ok := validatedBody[core.ConfigurePlayersRequest](c)
	if !ok {
		return nil
	}

	return reply(c, h.proc.Execute(processor.NewConfigurePlayersCommand(id, req)), fiber.StatusOK)
}

// GetGame retrieves current game state. With wait=true it long-polls
// until the move count differs from moveCount or the wait times out.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}

	if c.Query("wait", "false") != "true" {
		return reply(c, h.proc.Execute(processor.NewGetGameCommand(id)), fiber.StatusOK)
	}

	moveCount, err := strconv.Atoi(c.Query("moveCount", "-1"))
	if err != nil {
		moveCount = -1
	}

	g, err := h.svc.GetGame(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  core.ErrGameNotFound,
		})
	}

	// Block only while the client already has the latest move
	if moveCount == g.MoveCount() {
		ctx := c.Context()
		select {
		case <-h.svc.RegisterWait(ctx, id, moveCount):
		case <-ctx.Done():
			return nil // Client disconnected
		}
	}

	return reply(c, h.proc.Execute(processor.NewGetGameCommand(id)), fiber.StatusOK)
}

// MakeMove submits a move, or "auto" for the computer side
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}
	req, ok := validatedBody[core.MoveRequest](c)
	if !ok {
		return nil
	}

	cmd := processor.NewMakeMoveCommand(id, req)
	cmd.UserID = userIDFrom(c)

	return reply(c, h.proc.Execute(cmd), fiber.StatusOK)
}

// UndoMove undoes one or more moves
func (h *HTTPHandler) UndoMove(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}
	req, ok := validatedBody[core.UndoRequest](c)
	if !ok {
		return nil
	}

	return reply(c, h.proc.Execute(processor.NewUndoMoveCommand(id, req)), fiber.StatusOK)
}

// RedoMove replays undone moves
func (h *HTTPHandler) RedoMove(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}
	req, ok := validatedBody[core.RedoRequest](c)
	if !ok {
		return nil
	}

	return reply(c, h.proc.Execute(processor.NewRedoMoveCommand(id, req)), fiber.StatusOK)
}

// Forfeit concedes the game for the side to move
func (h *HTTPHandler) Forfeit(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}

	return reply(c, h.proc.Execute(processor.NewForfeitCommand(id)), fiber.StatusOK)
}

// DeleteGame ends and cleans up a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}

	return reply(c, h.proc.Execute(processor.NewDeleteGameCommand(id)), fiber.StatusNoContent)
}

// GetBoard returns ASCII representation of the board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}

	return reply(c, h.proc.Execute(processor.NewGetBoardCommand(id)), fiber.StatusOK)
}
